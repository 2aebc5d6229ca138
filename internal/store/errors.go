package store

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable is returned by every repository operation once the
// underlying engine has refused to open or rejected a transaction. The state
// is sticky for the session; a fresh start re-attempts the open.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ValidationError reports input that fails a local invariant. It never
// reaches storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation against an id absent from the store,
// typically an edit or toggle racing a prior delete.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("note %d not found", e.ID)
}

func errEmptyText() *ValidationError {
	return &ValidationError{Field: "text", Reason: "empty after normalization"}
}
