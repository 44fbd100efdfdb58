package identity

import (
	"context"
	"strings"
	"sync"
)

// InMemoryStore is a Store used when no database is configured, and by the
// tests. Message cleanup on Delete is the caller's job in memory mode; the
// in-memory message store has no foreign keys to honor.
type InMemoryStore struct {
	mu     sync.Mutex
	byID   map[string]Account
	byName map[string]string // username -> id
}

// NewInMemoryStore constructs an empty in-memory account Store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:   make(map[string]Account),
		byName: make(map[string]string),
	}
}

// Close closes the store (noop for in-memory).
func (s *InMemoryStore) Close() error { return nil }

// Register creates an account for username or returns the existing one.
func (s *InMemoryStore) Register(ctx context.Context, username string) (Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Account{}, ErrEmptyUsername
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byName[username]; ok {
		return s.byID[id], nil
	}

	for {
		id, err := NewAccountID()
		if err != nil {
			return Account{}, err
		}
		if _, taken := s.byID[id]; taken {
			continue
		}
		a := Account{ID: id, Username: username}
		s.byID[id] = a
		s.byName[username] = id
		return a, nil
	}
}

// LookupByID resolves an account by id.
func (s *InMemoryStore) LookupByID(ctx context.Context, id string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

// LookupByName resolves an account by display name.
func (s *InMemoryStore) LookupByName(ctx context.Context, username string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byName[strings.TrimSpace(username)]
	if !ok {
		return Account{}, ErrNotFound
	}
	return s.byID[id], nil
}

// Delete removes the account record.
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	delete(s.byName, a.Username)
	return nil
}
