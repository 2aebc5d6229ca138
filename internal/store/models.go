// Package store provides persistence for the GoDash notes collection.
// The SQLite implementation (wazero-based, runs native and in WASM) is the
// production store; MemRepository backs the tests.
package store

import (
	"context"
	"strings"
	"time"
)

// Note is the sole persisted entity: one row in the notes collection.
type Note struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Created   time.Time `json:"created"`
}

// Repository defines CRUD against the notes collection.
// MemRepository and SQLiteRepository are the two implementations.
type Repository interface {
	// Add persists a new note with Completed=false and Created=now,
	// returning the engine-assigned id. Text must be non-empty after
	// normalization or Add fails with *ValidationError.
	Add(ctx context.Context, text string) (int64, error)

	// GetAll returns every stored note in storage-native order.
	GetAll(ctx context.Context) ([]Note, error)

	// UpdateText replaces only the text of an existing note. Completed and
	// Created are preserved from the stored record. Fails with
	// *NotFoundError if id is absent.
	UpdateText(ctx context.Context, id int64, text string) error

	// SetCompleted replaces only the completed flag of an existing note.
	// Fails with *NotFoundError if id is absent.
	SetCompleted(ctx context.Context, id int64, completed bool) error

	// Remove deletes a note. Removing an absent id is not an error.
	Remove(ctx context.Context, id int64) error

	// Lifecycle
	Close() error
}

// Normalize trims leading/trailing whitespace and collapses internal
// whitespace runs to a single space. A note whose text normalizes to ""
// is rejected before it reaches storage.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
