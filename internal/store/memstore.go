package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemRepository is an in-memory implementation of Repository, used by the
// test suite and the native smoke binary.
type MemRepository struct {
	mu     sync.RWMutex
	notes  map[int64]Note
	nextID int64
}

// NewMemRepository creates an empty in-memory repository.
func NewMemRepository() *MemRepository {
	return &MemRepository{
		notes:  make(map[int64]Note),
		nextID: 1,
	}
}

// Close is a no-op for MemRepository.
func (r *MemRepository) Close() error {
	return nil
}

func (r *MemRepository) Add(ctx context.Context, text string) (int64, error) {
	norm := Normalize(text)
	if norm == "" {
		return 0, errEmptyText()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.notes[id] = Note{
		ID:      id,
		Text:    norm,
		Created: time.Now().UTC(),
	}
	return id, nil
}

func (r *MemRepository) GetAll(ctx context.Context) ([]Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]Note, 0, len(r.notes))
	for _, n := range r.notes {
		notes = append(notes, n)
	}
	// Storage-native order is insertion order, which id order preserves.
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	if len(notes) == 0 {
		return nil, nil
	}
	return notes, nil
}

func (r *MemRepository) UpdateText(ctx context.Context, id int64, text string) error {
	norm := Normalize(text)
	if norm == "" {
		return errEmptyText()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	n.Text = norm
	r.notes[id] = n
	return nil
}

func (r *MemRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	n.Completed = completed
	r.notes[id] = n
	return nil
}

func (r *MemRepository) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.notes, id)
	return nil
}
