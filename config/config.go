// Package config loads the application configuration from an optional YAML
// file with environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	// HTTP server settings
	HTTP struct {
		Address string `yaml:"address"`
		Port    string `yaml:"port"`
	} `yaml:"http"`

	// Public settings describe how clients reach this instance
	Public struct {
		// BaseURL is the externally visible base URL (tunnel or custom
		// domain). When empty the proxy base is derived per request.
		BaseURL string `yaml:"base_url"`
	} `yaml:"public"`

	// Data settings locate the persisted snapshot documents
	Data struct {
		Dir string `yaml:"dir"`
	} `yaml:"data"`

	// Proxy settings bound the relay's outbound behavior
	Proxy struct {
		MaxRedirects     int           `yaml:"max_redirects"`
		PlaylistMaxBytes int64         `yaml:"playlist_max_bytes"`
		HeaderTimeout    time.Duration `yaml:"header_timeout"`
	} `yaml:"proxy"`

	// Log settings
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// MatchesPath returns the location of the match registry snapshot.
func (c *Config) MatchesPath() string {
	return filepath.Join(c.Data.Dir, "matches.json")
}

// ChannelsPath returns the location of the channel catalog snapshot.
func (c *Config) ChannelsPath() string {
	return filepath.Join(c.Data.Dir, "channels.json")
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTP.Address == "" {
		errors = append(errors, "HTTP address is required")
	}
	if c.HTTP.Port == "" {
		errors = append(errors, "HTTP port is required")
	}
	if c.Data.Dir == "" {
		errors = append(errors, "Data directory is required")
	}
	if c.Proxy.MaxRedirects <= 0 {
		errors = append(errors, "Proxy max redirects must be positive")
	}
	if c.Proxy.PlaylistMaxBytes <= 0 {
		errors = append(errors, "Proxy playlist size limit must be positive")
	}
	if c.Proxy.HeaderTimeout <= 0 {
		errors = append(errors, "Proxy header timeout must be positive")
	}
	if c.Public.BaseURL != "" && !strings.HasPrefix(c.Public.BaseURL, "http") {
		errors = append(errors, "Public base URL must be an absolute http(s) URL")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Default returns a Config with sensible default values
func Default() *Config {
	cfg := &Config{}

	cfg.HTTP.Address = "0.0.0.0"
	cfg.HTTP.Port = "3000"

	cfg.Public.BaseURL = ""

	cfg.Data.Dir = "."

	cfg.Proxy.MaxRedirects = 5
	cfg.Proxy.PlaylistMaxBytes = 4 * 1024 * 1024
	cfg.Proxy.HeaderTimeout = 30 * time.Second

	cfg.Log.Level = "INFO"

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from a file (if present) and applies environment
// variable overrides
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg = Default()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv("HTTP_ADDRESS"); val != "" {
		cfg.HTTP.Address = val
	}
	if val := os.Getenv("PORT"); val != "" {
		cfg.HTTP.Port = val
	}

	if val := os.Getenv("BASE_URL"); val != "" {
		cfg.Public.BaseURL = strings.TrimSuffix(val, "/")
	}

	if val := os.Getenv("DATA_DIR"); val != "" {
		absPath, err := filepath.Abs(val)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path for data dir: %w", err)
		}
		cfg.Data.Dir = absPath
	}

	if val := os.Getenv("PROXY_MAX_REDIRECTS"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid PROXY_MAX_REDIRECTS: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("PROXY_MAX_REDIRECTS must be positive")
		}
		cfg.Proxy.MaxRedirects = n
	}
	if val := os.Getenv("PROXY_PLAYLIST_MAX_BYTES"); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid PROXY_PLAYLIST_MAX_BYTES: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("PROXY_PLAYLIST_MAX_BYTES must be positive")
		}
		cfg.Proxy.PlaylistMaxBytes = n
	}
	if val := os.Getenv("PROXY_HEADER_TIMEOUT"); val != "" {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid PROXY_HEADER_TIMEOUT (expected duration like '30s'): %w", err)
		}
		if duration <= 0 {
			return fmt.Errorf("PROXY_HEADER_TIMEOUT must be positive")
		}
		cfg.Proxy.HeaderTimeout = duration
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}

	return nil
}

// Print outputs the configuration to stdout
func (c *Config) Print() {
	fmt.Printf("httpAddress: %v\n", c.HTTP.Address)
	fmt.Printf("httpPort: %v\n", c.HTTP.Port)
	fmt.Printf("publicBaseUrl: %v\n", c.Public.BaseURL)
	fmt.Printf("dataDir: %v\n", c.Data.Dir)
	fmt.Printf("proxyMaxRedirects: %v\n", c.Proxy.MaxRedirects)
	fmt.Printf("proxyPlaylistMaxBytes: %v bytes\n", c.Proxy.PlaylistMaxBytes)
	fmt.Printf("proxyHeaderTimeout: %v\n", c.Proxy.HeaderTimeout)
	fmt.Printf("logLevel: %v\n", c.Log.Level)
}
