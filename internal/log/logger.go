// Package log provides structured logging for the distribution tooling.
//
// A Logger interface backed by stdlib slog keeps logging testable and lets
// subsystems receive their logger explicitly, with a process-wide default
// for the few places that cannot. Diagnostics go to stderr; stdout belongs
// to command results and to the launched binary.
//
// The installer surfaces warnings by default and everything with --debug;
// its user-facing output is plain text, not log lines. The launcher shim
// stays silent on the happy path.
package log

import (
	"io"
	"log/slog"
	"sync"
)

// Logger is the interface for structured logging. Method signatures match
// slog so call sites read the same either way.
type Logger interface {
	// Debug logs troubleshooting detail: resolved URLs, redirect hops,
	// skipped verification steps.
	Debug(msg string, args ...any)

	// Info logs operational context like "downloading release binary".
	Info(msg string, args ...any)

	// Warn logs recoverable issues like a receipt that could not be
	// written.
	Warn(msg string, args ...any)

	// Error logs failures that stop the current operation.
	Error(msg string, args ...any)

	// With returns a Logger that includes the given key-value pairs in
	// every subsequent entry.
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

// New creates a Logger backed by slog with the given handler.
func New(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

// NewText creates a Logger writing human-readable lines to w at the given
// level. This is the handler the installer wires to stderr.
func NewText(w io.Writer, level slog.Level) Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (s *slogLogger) Debug(msg string, args ...any) {
	s.l.Debug(msg, args...)
}

func (s *slogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

func (s *slogLogger) Warn(msg string, args ...any) {
	s.l.Warn(msg, args...)
}

func (s *slogLogger) Error(msg string, args ...any) {
	s.l.Error(msg, args...)
}

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// noopLogger discards all output.
type noopLogger struct{}

// NewNoop returns a logger that discards everything. Used in tests and by
// the launcher shim.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) With(...any) Logger   { return noopLogger{} }

var (
	defaultLogger Logger = noopLogger{}
	defaultMu     sync.RWMutex
)

// Default returns the process-wide logger. It is a noop logger until
// SetDefault is called.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault installs the process-wide logger. Called once from main after
// flag parsing.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
