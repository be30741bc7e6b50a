package forum

import (
	"errors"
	"fmt"

	"discussionForum/internal/auth"
	"discussionForum/repository"
)

var (
	ErrNotFound           = repository.ErrNotFound
	ErrUnauthenticated    = auth.ErrUnauthenticated
	ErrForbidden          = auth.ErrForbidden
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports rejected user input. Field names the offending
// input the way clients send it (title, content, page, ...).
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StoreError wraps a failure of the underlying store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// storeErr keeps ErrNotFound as is and turns anything else into a *StoreError.
func storeErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return &StoreError{Op: op, Err: err}
}
