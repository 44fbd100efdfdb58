package chat

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemoryStore is a MessageStore used when no database is configured, and
// by the tests. It mirrors the Postgres semantics that matter to the core:
// a single serial id counter across all conversations, insert-order
// visibility, and id-ascending fetches.
type InMemoryStore struct {
	mu     sync.Mutex
	nextID int64
	msgs   []Message // append-only except for deletes, ordered by ID
}

// NewInMemoryStore constructs an empty in-memory MessageStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Close closes the store (noop for in-memory).
func (s *InMemoryStore) Close() error { return nil }

// Insert appends a message with the next serial id.
func (s *InMemoryStore) Insert(ctx context.Context, in InsertInput) (InsertResult, error) {
	if in.SenderID == "" || in.RecipientID == "" {
		return InsertResult{}, errors.New("chat: missing participant id")
	}
	if strings.TrimSpace(in.Body) == "" {
		return InsertResult{}, ErrEmptyMessage
	}
	if err := ctx.Err(); err != nil {
		return InsertResult{}, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.msgs = append(s.msgs, Message{
		ID:          s.nextID,
		SenderID:    in.SenderID,
		RecipientID: in.RecipientID,
		Body:        in.Body,
		CreatedAt:   now,
	})
	return InsertResult{ID: s.nextID, CreatedAt: now}, nil
}

// FetchSince returns conversation messages with id > AfterID, ascending.
func (s *InMemoryStore) FetchSince(ctx context.Context, in FetchSinceInput) ([]Message, error) {
	if in.UserA == "" || in.UserB == "" {
		return nil, errors.New("chat: missing participant id")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Message
	for _, m := range s.msgs {
		if m.ID <= in.AfterID {
			continue
		}
		if sameConversation(m, in.UserA, in.UserB) {
			out = append(out, m)
		}
	}
	return out, nil
}

// FetchAll returns the full conversation history ascending by id.
func (s *InMemoryStore) FetchAll(ctx context.Context, userA, userB string) ([]Message, error) {
	return s.FetchSince(ctx, FetchSinceInput{UserA: userA, UserB: userB, AfterID: 0})
}

// DeleteConversation removes every message between the two users.
func (s *InMemoryStore) DeleteConversation(ctx context.Context, userA, userB string) error {
	if userA == "" || userB == "" {
		return errors.New("chat: missing participant id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.msgs[:0]
	for _, m := range s.msgs {
		if !sameConversation(m, userA, userB) {
			kept = append(kept, m)
		}
	}
	s.msgs = kept
	return nil
}

// LatestPerPartner returns the newest message per conversation of userID,
// most recent first, truncated to limit.
func (s *InMemoryStore) LatestPerPartner(ctx context.Context, userID string, limit int) ([]ConversationHead, error) {
	if userID == "" {
		return nil, errors.New("chat: missing user id")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	s.mu.Lock()
	latest := make(map[string]Message)
	for _, m := range s.msgs {
		var partner string
		switch userID {
		case m.SenderID:
			partner = m.RecipientID
		case m.RecipientID:
			partner = m.SenderID
		default:
			continue
		}
		// Messages are id-ordered, so the last hit per partner is newest.
		latest[partner] = m
	}
	s.mu.Unlock()

	heads := make([]ConversationHead, 0, len(latest))
	for partner, m := range latest {
		heads = append(heads, ConversationHead{PartnerID: partner, LastBody: m.Body, LastAt: m.CreatedAt})
	}
	sort.Slice(heads, func(i, j int) bool { return heads[i].LastAt.After(heads[j].LastAt) })
	if len(heads) > limit {
		heads = heads[:limit]
	}
	return heads, nil
}

// ClearInbox deletes every message addressed to userID.
func (s *InMemoryStore) ClearInbox(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("chat: missing user id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.msgs[:0]
	for _, m := range s.msgs {
		if m.RecipientID != userID {
			kept = append(kept, m)
		}
	}
	s.msgs = kept
	return nil
}

func sameConversation(m Message, userA, userB string) bool {
	return (m.SenderID == userA && m.RecipientID == userB) ||
		(m.SenderID == userB && m.RecipientID == userA)
}
