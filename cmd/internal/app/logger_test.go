package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "unknown", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
	}

	for _, tc := range cases {
		got := parseLogLevel(tc.in)
		if got != tc.want {
			t.Fatalf("parseLogLevel(%q)=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		LogLevel: "info",
		LogFile:  filepath.Join(dir, "catapult.log"),
	}

	log, closer, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}

	log.Info("session opened", slog.String("partner", "u1"))
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"session opened"`) {
		t.Fatalf("log file %q missing message", out)
	}
	if !strings.Contains(out, `"partner":"u1"`) {
		t.Fatalf("log file %q missing attr", out)
	}
}

func TestNewLogger_PrettyUsesStderr(t *testing.T) {
	cfg := Config{LogLevel: "debug", LogPretty: true}

	log, closer, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}
	if log == nil {
		t.Fatalf("expected logger")
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}
