// Package logging builds the process-wide structured logger used by the
// CLI, index builder, watcher, and resident server.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a text-handler slog.Logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSON creates a JSON-handler slog.Logger, used by the resident server
// so log lines stay machine-parseable alongside its HTTP responses.
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString parses a config/flag value into a slog.Level, defaulting
// to Info for anything unrecognized.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromVerbosity maps CLI -v/-q flags to a slog.Level: quiet silences
// everything, otherwise 0=warn, 1=info, 2+=debug.
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	if quiet {
		return slog.Level(100)
	}
	switch verbosity {
	case 0:
		return slog.LevelWarn
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Default returns a logger writing to stderr at Info level, the standard
// starting point for cmd/pindex subcommands before flags are parsed.
func Default() *slog.Logger {
	return New(os.Stderr, slog.LevelInfo)
}
