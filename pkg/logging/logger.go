// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

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

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
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

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.DateTime}
	}

	logger := zerolog.New(output).With().Timestamp().Str("service", "bf6bot").Logger()
	log.Logger = logger

	return logger
}

// ParseLevel validates a level name from configuration.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

// parseLevel converts LogLevel to zerolog.Level. Unknown names map to info.
func parseLevel(level LogLevel) zerolog.Level {
	valid, err := ParseLevel(string(level))
	if err != nil {
		return zerolog.InfoLevel
	}
	switch valid {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a logger from the global one with the given component name.
func NewLogger(component string) zerolog.Logger {
	return Component(log.Logger, component)
}

// Component derives a component logger from base.
func Component(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache operations (hit/stale, key, age)
//   - Outgoing tracker requests
//   - Admission waits
//
// Info: Normal operation events
//   - Bot login, command sync
//   - Completed slash commands ([SLASH] lines)
//   - Resolved roster ids
//   - Requests that succeeded after a challenge
//
// Warn: Warning conditions that don't prevent operation
//   - 403 responses and challenge solves
//   - Failed tracker requests (reported to users as absent data)
//   - Cache errors (request goes to the network)
//   - Failed id lookups
//
// Error: Error conditions requiring attention
//   - Roster persistence failures
//   - Discord API failures
//   - Configuration errors
//
// Context Fields:
//   - component: trn-client, tracker, cache, limiter, roster, commands, bot, batch
//   - endpoint: first path segment (profile, matches, search)
//   - target: full request URL without query
//   - attempt: attempt counter ("1/2")
//   - error_class: access_denied, client, server, network, decode
//   - player: roster display name
