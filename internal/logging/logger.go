// Package logging builds the application loggers. Output goes to stderr
// so stdout stays clean for the chat flow and JSON output.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a configured application logger on stderr.
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger on an arbitrary writer. It standardizes
// common keys (e.g. "error" -> "err").
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
