// Package logging provides the structured logger shared by the search engine, the server and the tools.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the field names used throughout bestfirst.
type Logger struct {
	*slog.Logger
}

// New creates a Logger for the given handler. A nil handler logs text to stderr at info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger writing human-readable records to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger writing JSON records to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Noop discards everything.
func Noop() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// ParseLevel maps a flag value ("debug", "info", "warn", "error") to a level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// WithQuery tags all records with the problem instance they belong to.
func (l *Logger) WithQuery(instance uint32, start, target uint32) *Logger {
	return &Logger{Logger: l.Logger.With("instance", instance, "start", start, "target", target)}
}

// WithComponent tags all records with the emitting component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With("component", name)}
}
