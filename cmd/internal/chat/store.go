// Package chat contains catapult's live chat core: the message store
// boundary, the background poller, multi-line composition, and the session
// coordinator that ties them together.
package chat

import (
	"context"
	"time"
)

// Message is the canonical persisted message representation.
//
// ID is assigned by the store on insert and is strictly increasing in
// insertion order across all conversations. A message is visible to exactly
// the two participants named on it.
type Message struct {
	ID          int64
	SenderID    string
	RecipientID string
	Body        string
	CreatedAt   time.Time
}

// ConversationHead is the most recent message of one conversation, as seen
// from one participant's inbox.
type ConversationHead struct {
	PartnerID string
	LastBody  string
	LastAt    time.Time
}

// MessageStore persists and queries the direct-message log.
//
// Requirements:
//   - Insert allocates a strictly increasing id; ordering per conversation is
//     insert order.
//   - FetchSince returns messages with id > AfterID ordered by id ASC.
//   - FetchAll is the full conversation history ordered by id ASC.
type MessageStore interface {
	Insert(ctx context.Context, in InsertInput) (InsertResult, error)
	FetchSince(ctx context.Context, in FetchSinceInput) ([]Message, error)
	FetchAll(ctx context.Context, userA, userB string) ([]Message, error)
	DeleteConversation(ctx context.Context, userA, userB string) error
	LatestPerPartner(ctx context.Context, userID string, limit int) ([]ConversationHead, error)
	ClearInbox(ctx context.Context, userID string) error
	Close() error
}

// InsertInput describes a message append request.
type InsertInput struct {
	SenderID    string
	RecipientID string
	Body        string
	Now         time.Time
}

// InsertResult is the insert operation result.
type InsertResult struct {
	ID        int64
	CreatedAt time.Time
}

// FetchSinceInput describes an incremental history query. AfterID is the
// caller's watermark; 0 means "from the beginning".
type FetchSinceInput struct {
	UserA   string
	UserB   string
	AfterID int64
}
