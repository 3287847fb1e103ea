package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.HTTP.Address != "0.0.0.0" || cfg.HTTP.Port != "3000" {
		t.Errorf("HTTP defaults = %s:%s, want 0.0.0.0:3000", cfg.HTTP.Address, cfg.HTTP.Port)
	}
	if cfg.Public.BaseURL != "" {
		t.Errorf("BaseURL default = %q, want empty", cfg.Public.BaseURL)
	}
	if cfg.Proxy.MaxRedirects != 5 {
		t.Errorf("MaxRedirects default = %d, want 5", cfg.Proxy.MaxRedirects)
	}
	if cfg.Proxy.PlaylistMaxBytes != 4*1024*1024 {
		t.Errorf("PlaylistMaxBytes default = %d, want 4MiB", cfg.Proxy.PlaylistMaxBytes)
	}
	if cfg.Proxy.HeaderTimeout != 30*time.Second {
		t.Errorf("HeaderTimeout default = %v, want 30s", cfg.Proxy.HeaderTimeout)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration does not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
http:
  address: "127.0.0.1"
  port: "8080"
public:
  base_url: "https://live.example.net"
data:
  dir: "/var/lib/brglive"
proxy:
  max_redirects: 3
  header_timeout: 10s
log:
  level: "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.HTTP.Address != "127.0.0.1" || cfg.HTTP.Port != "8080" {
		t.Errorf("HTTP = %s:%s, want 127.0.0.1:8080", cfg.HTTP.Address, cfg.HTTP.Port)
	}
	if cfg.Public.BaseURL != "https://live.example.net" {
		t.Errorf("BaseURL = %q", cfg.Public.BaseURL)
	}
	if cfg.Data.Dir != "/var/lib/brglive" {
		t.Errorf("Data.Dir = %q", cfg.Data.Dir)
	}
	if cfg.Proxy.MaxRedirects != 3 {
		t.Errorf("MaxRedirects = %d, want 3", cfg.Proxy.MaxRedirects)
	}
	if cfg.Proxy.HeaderTimeout != 10*time.Second {
		t.Errorf("HeaderTimeout = %v, want 10s", cfg.Proxy.HeaderTimeout)
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("Log.Level = %q, want DEBUG", cfg.Log.Level)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Proxy.PlaylistMaxBytes != 4*1024*1024 {
		t.Errorf("PlaylistMaxBytes = %d, want the default", cfg.Proxy.PlaylistMaxBytes)
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http: ["), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("LoadFromFile accepted invalid YAML")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	// Point CONFIG_FILE somewhere empty so a stray config.yaml in the
	// working directory cannot leak into the test.
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_URL", "https://tunnel.example.net/")
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PROXY_MAX_REDIRECTS", "8")
	t.Setenv("PROXY_HEADER_TIMEOUT", "45s")
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.HTTP.Port)
	}
	if cfg.Public.BaseURL != "https://tunnel.example.net" {
		t.Errorf("BaseURL = %q, want the trailing slash stripped", cfg.Public.BaseURL)
	}
	if !filepath.IsAbs(cfg.Data.Dir) {
		t.Errorf("Data.Dir = %q, want an absolute path", cfg.Data.Dir)
	}
	if cfg.Proxy.MaxRedirects != 8 {
		t.Errorf("MaxRedirects = %d, want 8", cfg.Proxy.MaxRedirects)
	}
	if cfg.Proxy.HeaderTimeout != 45*time.Second {
		t.Errorf("HeaderTimeout = %v, want 45s", cfg.Proxy.HeaderTimeout)
	}
	if cfg.Log.Level != "WARN" {
		t.Errorf("Log.Level = %q, want WARN", cfg.Log.Level)
	}
}

func TestLoad_RejectsBadEnvValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric redirects", "PROXY_MAX_REDIRECTS", "lots"},
		{"negative redirects", "PROXY_MAX_REDIRECTS", "-1"},
		{"non-numeric playlist limit", "PROXY_PLAYLIST_MAX_BYTES", "big"},
		{"bad duration", "PROXY_HEADER_TIMEOUT", "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing port", func(c *Config) { c.HTTP.Port = "" }, "HTTP port is required"},
		{"missing data dir", func(c *Config) { c.Data.Dir = "" }, "Data directory is required"},
		{"zero redirects", func(c *Config) { c.Proxy.MaxRedirects = 0 }, "max redirects must be positive"},
		{"relative base URL", func(c *Config) { c.Public.BaseURL = "tunnel.example.net" }, "absolute http(s) URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted an invalid configuration")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}
