package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// connectTimeout bounds the startup connectivity probe. A client should fail
// at launch rather than hang before its first prompt.
const connectTimeout = 3 * time.Second

// NewDBPool builds the shared pgx pool from Config and verifies a connection
// can actually be acquired before any store is constructed on top of it.
// Schema creation happens separately via the store EnsureSchema calls.
func NewDBPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.DBMaxConns > 0 {
		pcfg.MaxConns = cfg.DBMaxConns
	}
	if cfg.DBMinConns >= 0 {
		pcfg.MinConns = cfg.DBMinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	probeCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	conn, err := pool.Acquire(probeCtx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	conn.Release()

	return pool, nil
}
