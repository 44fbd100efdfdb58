package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable is returned when a store connection cannot be
	// established or acquired.
	ErrStoreUnavailable = errors.New("message store unavailable")

	// ErrEmptyMessage is returned when an insert is attempted with an
	// all-whitespace body. The composer normally filters these out.
	ErrEmptyMessage = errors.New("empty message body")
)

// WriteError carries the diagnostic for a failed store write (send or clear).
// It is surfaced inline to the user; the session stays open.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
