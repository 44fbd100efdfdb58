package chat

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a MessageStore backed by PostgreSQL.
//
// Ownership model:
// - PostgresStore does NOT own the pgx pool. The caller must close the pool.
// - Close() is therefore a no-op.
//
// Connection model:
// - Every operation acquires a connection for just that call; nothing is
//   pinned across poll cycles, so cancelling a session cannot leak one.
// - Acquisition failures map to ErrStoreUnavailable.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures PostgresStore behavior.
type PostgresOption func(*PostgresStore) error

// WithSchema sets the DB schema used by this store (default: "public").
// The schema name is validated and safely quoted in queries.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return errors.New("chat: empty schema")
		}
		if !isValidPGIdent(schema) {
			return errors.New("chat: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a Postgres-backed MessageStore.
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
		return nil, errors.New("chat: nil pool")
	}
	return st, nil
}

// Close is a no-op because the pool is owned by the caller.
func (s *PostgresStore) Close() error { return nil }

// EnsureSchema creates the messages table if it does not exist. The users
// table must exist first (identity.PostgresStore.EnsureSchema).
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	users := pgIdent(s.schema, "users")
	messages := pgIdent(s.schema, "messages")

	_, err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+messages+` (
			id BIGSERIAL PRIMARY KEY,
			from_user_id VARCHAR(8) REFERENCES `+users+`(user_id),
			to_user_id VARCHAR(8) REFERENCES `+users+`(user_id),
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure messages table: %w", err)
	}
	return nil
}

// Insert appends one message and returns its store-assigned id and
// timestamp. Ids are strictly increasing in insertion order (BIGSERIAL).
func (s *PostgresStore) Insert(ctx context.Context, in InsertInput) (InsertResult, error) {
	if in.SenderID == "" || in.RecipientID == "" {
		return InsertResult{}, errors.New("chat: missing participant id")
	}
	if strings.TrimSpace(in.Body) == "" {
		return InsertResult{}, ErrEmptyMessage
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return InsertResult{}, err
	}
	defer conn.Release()

	messages := pgIdent(s.schema, "messages")

	var res InsertResult
	err = conn.QueryRow(ctx,
		`INSERT INTO `+messages+` (from_user_id, to_user_id, message)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		in.SenderID, in.RecipientID, in.Body,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert message: %w", err)
	}
	return res, nil
}

// FetchSince returns conversation messages with id > AfterID, ascending.
func (s *PostgresStore) FetchSince(ctx context.Context, in FetchSinceInput) ([]Message, error) {
	if in.UserA == "" || in.UserB == "" {
		return nil, errors.New("chat: missing participant id")
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	messages := pgIdent(s.schema, "messages")

	rows, err := conn.Query(ctx,
		`SELECT id, from_user_id, to_user_id, message, created_at
		   FROM `+messages+`
		  WHERE ((from_user_id = $1 AND to_user_id = $2)
		      OR (from_user_id = $2 AND to_user_id = $1))
		    AND id > $3
		  ORDER BY id ASC`,
		in.UserA, in.UserB, in.AfterID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch since: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return msgs, nil
}

// FetchAll returns the full conversation history ascending by id.
func (s *PostgresStore) FetchAll(ctx context.Context, userA, userB string) ([]Message, error) {
	return s.FetchSince(ctx, FetchSinceInput{UserA: userA, UserB: userB, AfterID: 0})
}

// DeleteConversation irreversibly removes every message between the two
// users, in both directions.
func (s *PostgresStore) DeleteConversation(ctx context.Context, userA, userB string) error {
	if userA == "" || userB == "" {
		return errors.New("chat: missing participant id")
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	messages := pgIdent(s.schema, "messages")

	_, err = conn.Exec(ctx,
		`DELETE FROM `+messages+`
		  WHERE (from_user_id = $1 AND to_user_id = $2)
		     OR (from_user_id = $2 AND to_user_id = $1)`,
		userA, userB,
	)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// LatestPerPartner returns the newest message of every conversation userID
// participates in, most recent first, truncated to limit.
func (s *PostgresStore) LatestPerPartner(ctx context.Context, userID string, limit int) ([]ConversationHead, error) {
	if userID == "" {
		return nil, errors.New("chat: missing user id")
	}
	if limit <= 0 {
		limit = 100
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	messages := pgIdent(s.schema, "messages")

	rows, err := conn.Query(ctx,
		`SELECT partner, message, created_at FROM (
		     SELECT DISTINCT ON (partner) partner, message, created_at
		       FROM (
		         SELECT CASE WHEN from_user_id = $1 THEN to_user_id ELSE from_user_id END AS partner,
		                message, created_at
		           FROM `+messages+`
		          WHERE from_user_id = $1 OR to_user_id = $1
		       ) conv
		      ORDER BY partner, created_at DESC
		 ) heads
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("latest per partner: %w", err)
	}
	defer rows.Close()

	var heads []ConversationHead
	for rows.Next() {
		var h ConversationHead
		if err := rows.Scan(&h.PartnerID, &h.LastBody, &h.LastAt); err != nil {
			return nil, err
		}
		heads = append(heads, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return heads, nil
}

// ClearInbox deletes every message addressed to userID.
func (s *PostgresStore) ClearInbox(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("chat: missing user id")
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	messages := pgIdent(s.schema, "messages")

	if _, err := conn.Exec(ctx, `DELETE FROM `+messages+` WHERE to_user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear inbox: %w", err)
	}
	return nil
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
