package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// registerAttempts bounds id-collision retries during registration. With an
// 8-digit space the second attempt is already vanishingly unlikely.
const registerAttempts = 5

// PostgresStore is a Store backed by PostgreSQL.
//
// Ownership model mirrors chat.PostgresStore: the pgx pool belongs to the
// caller, Close is a no-op, every operation acquires a connection for just
// that call.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures PostgresStore behavior.
type PostgresOption func(*PostgresStore) error

// WithSchema sets the DB schema used by this store (default: "public").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return errors.New("identity: empty schema")
		}
		if !isValidPGIdent(schema) {
			return errors.New("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a Postgres-backed account Store.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "public",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, errors.New("identity: nil pool")
	}
	return st, nil
}

// Close is a no-op because the pool is owned by the caller.
func (s *PostgresStore) Close() error { return nil }

// EnsureSchema creates the users table if it does not exist. It must run
// before chat.PostgresStore.EnsureSchema, which references it.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	users := pgIdent(s.schema, "users")

	_, err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+users+` (
			user_id VARCHAR(8) PRIMARY KEY,
			username VARCHAR(100) UNIQUE
		)`)
	if err != nil {
		return fmt.Errorf("ensure users table: %w", err)
	}
	return nil
}

// Register creates an account for username or returns the existing one.
func (s *PostgresStore) Register(ctx context.Context, username string) (Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Account{}, ErrEmptyUsername
	}

	if existing, err := s.LookupByName(ctx, username); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Account{}, err
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return Account{}, err
	}
	defer conn.Release()

	users := pgIdent(s.schema, "users")

	for attempt := 0; attempt < registerAttempts; attempt++ {
		id, err := NewAccountID()
		if err != nil {
			return Account{}, err
		}
		tag, err := conn.Exec(ctx,
			`INSERT INTO `+users+` (user_id, username)
			 VALUES ($1, $2)
			 ON CONFLICT (user_id) DO NOTHING`,
			id, username,
		)
		if err != nil {
			return Account{}, fmt.Errorf("register: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return Account{ID: id, Username: username}, nil
		}
		// Id collision; roll a new one.
	}
	return Account{}, errors.New("identity: could not allocate a free id")
}

// LookupByID resolves an account by id.
func (s *PostgresStore) LookupByID(ctx context.Context, id string) (Account, error) {
	if id == "" {
		return Account{}, ErrNotFound
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return Account{}, err
	}
	defer conn.Release()

	users := pgIdent(s.schema, "users")

	var a Account
	err = conn.QueryRow(ctx,
		`SELECT user_id, username FROM `+users+` WHERE user_id = $1`, id,
	).Scan(&a.ID, &a.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("lookup by id: %w", err)
	}
	return a, nil
}

// LookupByName resolves an account by display name.
func (s *PostgresStore) LookupByName(ctx context.Context, username string) (Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Account{}, ErrNotFound
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return Account{}, err
	}
	defer conn.Release()

	users := pgIdent(s.schema, "users")

	var a Account
	err = conn.QueryRow(ctx,
		`SELECT user_id, username FROM `+users+` WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("lookup by name: %w", err)
	}
	return a, nil
}

// Delete removes the account and all of its messages, in one transaction.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrNotFound
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	users := pgIdent(s.schema, "users")
	messages := pgIdent(s.schema, "messages")

	if _, err := tx.Exec(ctx,
		`DELETE FROM `+messages+` WHERE from_user_id = $1 OR to_user_id = $1`, id,
	); err != nil {
		return fmt.Errorf("delete account messages: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM `+users+` WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return conn, nil
}

var pgIdentRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func isValidPGIdent(s string) bool {
	return pgIdentRE.MatchString(s)
}

func pgIdent(schema, table string) string {
	// pgx.Identifier safely quotes identifiers, preventing SQL injection.
	return pgx.Identifier{schema, table}.Sanitize()
}
