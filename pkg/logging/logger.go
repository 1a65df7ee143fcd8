package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger so packages depend on one local type rather than
// the stdlib type directly.
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger writing to stdout at the given level.
// Unknown levels fall back to info.
func New(level string) *Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a JSON logger writing to w. Tests use this to capture
// output.
func NewWithWriter(w io.Writer, level string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, opts))}
}

// Default returns an info-level logger.
func Default() *Logger {
	return New("info")
}

// Component returns a child logger tagged with a component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{Logger: l.Logger.With("component", name)}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
