package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestLevelParsing(t *testing.T) {
	cases := []struct {
		value string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := Level(tc.value); got != tc.want {
			t.Fatalf("Level(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestNewHonorsLevel(t *testing.T) {
	logger := New("test", "error")
	ctx := context.Background()

	if logger.Enabled(ctx, slog.LevelWarn) {
		t.Fatal("warn enabled on an error-level logger")
	}
	if !logger.Enabled(ctx, slog.LevelError) {
		t.Fatal("error disabled on an error-level logger")
	}
}
