// Package logging provides leveled, lightly structured logging plus the
// JSON response helpers shared by all HTTP handlers.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

// Log level constants define the severity hierarchy for filtering log output
const (
	DEBUG LogLevel = iota // DEBUG is the lowest severity level for detailed diagnostics
	INFO                  // INFO is for general informational messages
	WARN                  // WARN is for warning messages that don't prevent operation
	ERROR                 // ERROR is the highest severity for error conditions
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel converts a string to a LogLevel
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Logger provides structured logging with configurable levels
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	logger *log.Logger
	prefix string
}

// New creates a new Logger with the specified level
func New(level LogLevel, prefix string) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(os.Stderr, "", log.LstdFlags),
		prefix: prefix,
	}
}

// NewWithWriter creates a new Logger with custom output writer
func NewWithWriter(level LogLevel, prefix string, w io.Writer) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(w, "", log.LstdFlags),
		prefix: prefix,
	}
}

// shouldLog checks if a message at the given level should be logged
func (l *Logger) shouldLog(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

// log writes a log message with the given level and fields
func (l *Logger) log(level LogLevel, msg string, fields map[string]interface{}) {
	if !l.shouldLog(level) {
		return
	}

	var sb strings.Builder

	if l.prefix != "" {
		sb.WriteString(l.prefix)
		sb.WriteString(" ")
	}

	sb.WriteString(level.String())
	sb.WriteString(": ")
	sb.WriteString(msg)

	if len(fields) > 0 {
		sb.WriteString(" |")
		for k, v := range fields {
			sb.WriteString(fmt.Sprintf(" %s=%v", k, v))
		}
	}

	l.logger.Println(sb.String())
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.log(DEBUG, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.log(INFO, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.log(WARN, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.log(ERROR, msg, fields)
}

// RelayEvent identifies a relay lifecycle event in structured logs.
type RelayEvent string

// Relay event constants cover the outbound fetch lifecycle
const (
	EventRedirectFollowed RelayEvent = "redirect_followed" // EventRedirectFollowed indicates a redirect hop was traversed
	EventPlaylistRewrite  RelayEvent = "playlist_rewrite"  // EventPlaylistRewrite indicates a playlist body was rewritten
	EventUpstreamError    RelayEvent = "upstream_error"    // EventUpstreamError indicates the outbound fetch failed
	EventStreamAborted    RelayEvent = "stream_aborted"    // EventStreamAborted indicates a stream ended mid-transfer
)

// LogRedirectFollowed logs one traversed redirect hop (DEBUG level)
func (l *Logger) LogRedirectFollowed(from, to string, hop int) {
	l.Debug("Following redirect", map[string]interface{}{
		"event": EventRedirectFollowed,
		"from":  from,
		"to":    to,
		"hop":   hop,
	})
}

// LogPlaylistRewrite logs a rewritten playlist response (INFO level)
func (l *Logger) LogPlaylistRewrite(sourceURL string, size int) {
	l.Info("Playlist rewritten", map[string]interface{}{
		"event":  EventPlaylistRewrite,
		"source": sourceURL,
		"bytes":  size,
	})
}

// LogUpstreamError logs a failed outbound fetch (ERROR level)
func (l *Logger) LogUpstreamError(targetURL string, err error) {
	l.Error("Upstream fetch failed", map[string]interface{}{
		"event":     EventUpstreamError,
		"target":    targetURL,
		"error":     err.Error(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// LogStreamAborted logs a stream that ended before the upstream body did (WARN level)
func (l *Logger) LogStreamAborted(targetURL string, written int64, err error) {
	l.Warn("Stream aborted mid-transfer", map[string]interface{}{
		"event":         EventStreamAborted,
		"target":        targetURL,
		"bytes_written": written,
		"error":         err.Error(),
	})
}
