package logging

import (
	"log/slog"
	"os"
)

// New creates the process logger with JSON output.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
