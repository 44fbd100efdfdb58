package identity

import "errors"

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("account not found")

	// ErrEmptyUsername is returned when registration is attempted with a
	// blank name.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrStoreUnavailable is returned when a store connection cannot be
	// established or acquired.
	ErrStoreUnavailable = errors.New("account store unavailable")
)
