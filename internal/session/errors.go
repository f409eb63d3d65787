package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fintrack-dev/fintrack/internal/model"
)

var (
	// ErrInvalidCredentials is returned by Login when authentication fails.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotActive is returned by operations that need an active session.
	ErrNotActive = errors.New("session is not active")
	// ErrAlreadyStarted is returned by Login on a session that has left LoggedOut.
	ErrAlreadyStarted = errors.New("session already started")
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors is returned when a transaction is rejected before any
// mutation or I/O took place.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// PersistError reports a transaction that was added to the in-memory
// ledger but could not be written to disk.
type PersistError struct {
	Transaction model.Transaction
	Err         error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("transaction recorded in memory but not persisted: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
