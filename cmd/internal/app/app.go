// Package app wires the catapult client runtime: config, logging, stores,
// and the terminal menu loop that opens chat sessions.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"catapult/cmd/internal/chat"
	"catapult/cmd/internal/identity"
	"catapult/cmd/internal/ui"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App is the client runtime: it owns the store pair, the renderer, and the
// single line source every interactive loop reads from.
type App struct {
	cfg Config
	log *slog.Logger

	// pool is nil in in-memory mode. App owns its lifecycle; the stores'
	// Close methods are no-ops.
	pool *pgxpool.Pool

	messages chat.MessageStore
	accounts identity.Store

	render *ui.Renderer
	lines  <-chan string
}

// New constructs a fully wired App. With an empty DatabaseURL it runs
// against process-local stores, which only makes sense for demos and tests
// since nothing is shared between processes.
func New(ctx context.Context, cfg Config, log *slog.Logger, lines <-chan string, out io.Writer) (*App, error) {
	a := &App{
		cfg:    cfg,
		log:    log,
		render: ui.New(out),
		lines:  lines,
	}

	if cfg.DatabaseURL == "" {
		log.Warn("db.disabled.inmemory_store")
		a.messages = chat.NewInMemoryStore()
		a.accounts = identity.NewInMemoryStore()
		return a, nil
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	accounts, err := identity.NewPostgresStore(pool, identity.WithSchema(cfg.DBSchema))
	if err != nil {
		pool.Close()
		return nil, err
	}
	messages, err := chat.NewPostgresStore(pool, chat.WithSchema(cfg.DBSchema))
	if err != nil {
		pool.Close()
		return nil, err
	}

	// Accounts first: the messages table references users.
	if err := accounts.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure users schema: %w", err)
	}
	if err := messages.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure messages schema: %w", err)
	}

	log.Info("db.enabled.postgres_store", "schema", cfg.DBSchema)

	a.pool = pool
	a.messages = messages
	a.accounts = accounts
	return a, nil
}

// Close releases store resources. Safe to call once after Run returns.
func (a *App) Close() {
	if a.messages != nil {
		_ = a.messages.Close()
	}
	if a.accounts != nil {
		_ = a.accounts.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
