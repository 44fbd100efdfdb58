package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

// Run is the CLI entrypoint used by cmd/catapult.
// It returns an error instead of calling os.Exit to keep defers effective.
func Run() error {
	// A .env in the working directory is a convenience for local setups;
	// missing files are fine.
	_ = godotenv.Load()

	cfg := LoadConfig()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	log, logCloser, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lines := NewLineSource(ctx, os.Stdin)

	a, err := New(ctx, cfg, log, lines, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}
