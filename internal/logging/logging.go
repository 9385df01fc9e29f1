// Package logging provides the four-level logging capability injected into
// the core. The concrete implementation is slog; slog-multi fans out to a
// JSON file when one is configured.
package logging

import (
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Logger is the logging interface the rest of the application depends on.
// args are alternating key/value pairs, slog style; an error goes in as
// a regular attribute.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

// FromSlog wraps an existing slog.Logger.
func FromSlog(l *slog.Logger) Logger { return slogLogger{l: l} }

// Nop returns a logger that discards everything. For tests.
func Nop() Logger {
	return slogLogger{l: slog.New(slog.DiscardHandler)}
}

// New builds the process logger: text to stderr at the given level, and, if
// jsonPath is non-empty, a JSON copy appended to that file. The returned
// close func flushes and closes the file sink.
func New(level, jsonPath string) (Logger, func() error, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "", "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, nil, fmt.Errorf("unknown log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	text := slog.NewTextHandler(os.Stderr, opts)
	if jsonPath == "" {
		return slogLogger{l: slog.New(text)}, func() error { return nil }, nil
	}

	f, err := os.OpenFile(jsonPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	handler := slogmulti.Fanout(text, slog.NewJSONHandler(f, opts))
	return slogLogger{l: slog.New(handler)}, f.Close, nil
}
