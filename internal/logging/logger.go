// Package logging provides the application's structured logger.
//
// It wraps log/slog and tags every record with a component name so that
// output from the router, the session store and background tasks can be told
// apart.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Component names used across the application.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAPI       = "api"
	ComponentSession   = "session"
	ComponentTasks     = "tasks"
	ComponentScheduler = "scheduler"
	ComponentDatabase  = "database"
	ComponentAudit     = "audit"
)

// Config holds logger configuration.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger with the given configuration.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// Component returns a child logger tagged with the given component.
// A nil logger falls back to slog.Default().
func Component(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", component)
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
