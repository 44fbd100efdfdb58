// Package identity manages catapult account records: server-side
// registration and lookup plus the locally cached active account.
//
// Accounts are deliberately open: an 8-digit id and a display name, no
// credentials. The message service scopes visibility by participant ids
// only.
package identity

import "context"

// Account is the canonical account record.
type Account struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
}

// Store is the account persistence boundary.
type Store interface {
	// Register creates an account for username, or returns the existing
	// account when the name is already taken. Registration is idempotent
	// per name.
	Register(ctx context.Context, username string) (Account, error)

	// LookupByID resolves an account by its 8-digit id.
	// Returns ErrNotFound when no such account exists.
	LookupByID(ctx context.Context, id string) (Account, error)

	// LookupByName resolves an account by display name.
	// Returns ErrNotFound when no such account exists.
	LookupByName(ctx context.Context, username string) (Account, error)

	// Delete removes the account record. Irreversible. Implementations on
	// the shared database also purge the account's messages; stores with no
	// message table leave cleanup to the caller.
	Delete(ctx context.Context, id string) error

	Close() error
}
