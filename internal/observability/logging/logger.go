// Package logging configures the process-wide slog logger. Both binaries
// log JSON to stdout with a fixed service field so the api and seed logs
// can be told apart in an aggregated stream.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

func New(service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: Level(level),
	})
	return slog.New(handler).With(slog.String("service", service))
}

// Level parses a LOG_LEVEL value. Anything unrecognized falls back to
// info so a typo never silences a running service.
func Level(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo
	}
	return level
}
