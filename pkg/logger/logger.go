// Package logger provides the shared structured logger constructor.
package logger

import (
	"log/slog"
	"os"
)

// New returns a slog.Logger writing human-readable output to stderr.
// Debug mode lowers the level and includes source positions.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
}
