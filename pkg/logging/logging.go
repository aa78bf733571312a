// Package logging builds the process-wide slog logger: JSON lines in
// production, colored tint output everywhere else.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger returns a logger at the given level name and installs it as the
// slog default.
func NewLogger(isProduction bool, level string) *slog.Logger {
	logger := slog.New(NewHandler(os.Stdout, isProduction, ParseLevel(level)))
	slog.SetDefault(logger)
	return logger
}

// NewHandler picks the handler for the environment.
func NewHandler(w io.Writer, isProduction bool, level slog.Level) slog.Handler {
	if isProduction {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
