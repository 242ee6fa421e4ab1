package ledger

import (
	"errors"

	"github.com/teller-dev/teller/internal/store"
)

// Domain errors surfaced to the presentation layer. Storage faults are not
// sentinels; they arrive as wrapped I/O errors with their own context.
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrNotAuthenticated   = errors.New("no account logged in")
	ErrInvalidName        = errors.New("name must not contain a comma")

	// ErrAccountNotFound is the store sentinel, re-exported so callers can
	// match it without importing the store.
	ErrAccountNotFound = store.ErrAccountNotFound
)
