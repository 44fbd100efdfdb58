package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// NewLogger creates the application logger.
//
// Stdout belongs to the chat transcript, so structured JSON logs go to the
// configured log file by default. With LogPretty the human-readable handler
// writes to stderr instead, which is handy when stderr is redirected during
// development.
//
// The returned closer owns the log file handle; callers close it on exit.
func NewLogger(cfg Config) (*slog.Logger, io.Closer, error) {
	lvl := parseLogLevel(cfg.LogLevel)

	if cfg.LogPretty {
		h := newPrettyHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}, true)
		log := slog.New(h)
		slog.SetDefault(log)
		return log, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	h := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: true,
	})

	log := slog.New(h)
	slog.SetDefault(log)
	return log, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
