// Package logging provides the structured logger used across the processor.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger wraps slog.Logger so packages share one type for injection.
type Logger struct {
	*slog.Logger
}

// Config selects where and how much a Logger writes.
type Config struct {
	Level   slog.Level
	Output  io.Writer // nil means stderr
	Enabled bool
}

// New creates a text logger from cfg. A disabled config yields Discard().
func New(cfg Config) *Logger {
	if !cfg.Enabled {
		return Discard()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return &Logger{Logger: slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level}))}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithPrefix nests all later attributes under the group prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{Logger: l.WithGroup(prefix)}
}

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// OrGlobal returns l, or the global logger when l is nil.
func OrGlobal(l *Logger) *Logger {
	if l == nil {
		return Global()
	}
	return l
}

var global atomic.Pointer[Logger]

// Global returns the process-wide logger. Until SetGlobal is called it
// writes warnings and errors to stderr.
func Global() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	global.CompareAndSwap(nil, New(Config{Level: LevelWarn, Enabled: true}))
	return global.Load()
}

// SetGlobal replaces the process-wide logger.
func SetGlobal(l *Logger) {
	global.Store(l)
}
