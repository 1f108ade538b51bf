// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Context field names shared by the clients and the proxy.
const (
	FieldComponent  = "component"
	FieldCacheKey   = "cache_key"
	FieldCacheHit   = "cache_hit"
	FieldURL        = "url"
	FieldStatusCode = "status_code"
	FieldErrorClass = "error_class"
	FieldTTL        = "ttl"
	FieldRequestID  = "request_id"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (nil means os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger. Component loggers created
// afterwards with NewLogger inherit its output.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level. Unknown levels mean info.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(string(level))) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name, e.g.
// "branding-client" or "orbit-client".
func NewLogger(component string) zerolog.Logger {
	return log.With().Str(FieldComponent, component).Logger()
}

// Log Level Guidelines:
//
// Debug: cache lookups (hit/miss, key), entries written and their TTL.
//
// Info: proxy startup/shutdown and handled requests.
//
// Warn: cache store failures. The fetch carries on as a cache miss or
// without writing the entry.
//
// Error: upstream failures (whether or not a stale entry was served) and
// malformed payloads.
//
// Context Fields:
//   - component: logger owner (branding-client, orbit-client, branding-proxy)
//   - cache_key: key of the cache entry involved
//   - cache_hit: whether a lookup found a fresh entry
//   - url: upstream web service URL
//   - status_code: upstream or proxy HTTP status
//   - error_class: client, not_found, server, network or timeout
//   - ttl: freshness in seconds of a written entry
//   - request_id: proxy X-Request-ID
