// Package dashboard sequences user intent into repository calls and drives
// re-rendering. Every successful mutation is followed by a full re-fetch,
// re-projection, and wholesale render; there is no incremental patching.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kittclouds/godash/internal/store"
	"github.com/kittclouds/godash/internal/view"
)

// Renderer replaces the displayed rows wholesale. It must be callable
// repeatedly and cheaply.
type Renderer interface {
	Render(notes []store.Note)
}

// Notifier surfaces a transient, non-blocking notification. Fire-and-forget;
// delivery is not guaranteed under rapid fire.
type Notifier interface {
	Notify(message string)
}

// Controller owns the note list's view state and per-row edit-mode flags,
// both session-local. Operations against the same note are issued one at a
// time: each mutation's completion is awaited before the follow-up re-fetch,
// which preserves the per-row ordering contract.
type Controller struct {
	repo   store.Repository
	render Renderer
	notify Notifier
	log    *slog.Logger

	mu      sync.Mutex
	state   view.State
	editing map[int64]bool
	// cached last successful full fetch, consulted by Toggle
	notes []store.Note
}

// New builds a controller. The logger may be nil, in which case the default
// logger is used.
func New(repo store.Repository, render Renderer, notify Notifier, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		repo:    repo,
		render:  render,
		notify:  notify,
		log:     log,
		state:   view.DefaultState(),
		editing: make(map[int64]bool),
	}
}

// Add validates, persists a new note, and refreshes the view. On failure
// the rendered list stays at its last projected state.
func (c *Controller) Add(ctx context.Context, text string) error {
	if store.Normalize(text) == "" {
		c.notify.Notify("Note cannot be empty.")
		return errors.New("empty note text")
	}

	id, err := c.repo.Add(ctx, text)
	if err != nil {
		return c.fail("add note", err)
	}
	c.log.Debug("note added", "id", id)
	return c.Refresh(ctx)
}

// BeginEdit puts a row into edit mode. Several rows may be editing at once;
// each is independent.
func (c *Controller) BeginEdit(id int64) {
	c.mu.Lock()
	c.editing[id] = true
	c.mu.Unlock()
}

// Editing reports whether a row is currently in edit mode.
func (c *Controller) Editing(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing[id]
}

// CommitEdit attempts to leave edit mode by writing the new text. Empty text
// keeps the row in edit mode and warns the user; there is no separate cancel
// path, a blur always lands here. A note deleted out from under the edit is
// reported and the view re-synced to current truth.
func (c *Controller) CommitEdit(ctx context.Context, id int64, text string) error {
	if store.Normalize(text) == "" {
		c.notify.Notify("Note cannot be empty.")
		return errors.New("empty note text")
	}

	err := c.repo.UpdateText(ctx, id, text)
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		c.mu.Lock()
		delete(c.editing, id)
		c.mu.Unlock()
		c.notify.Notify("That note no longer exists.")
		return c.Refresh(ctx)
	}
	if err != nil {
		return c.fail("edit note", err)
	}

	c.mu.Lock()
	delete(c.editing, id)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Toggle flips a note's completed flag based on the last fetched snapshot.
func (c *Controller) Toggle(ctx context.Context, id int64) error {
	c.mu.Lock()
	var current *store.Note
	for i := range c.notes {
		if c.notes[i].ID == id {
			current = &c.notes[i]
			break
		}
	}
	c.mu.Unlock()

	if current == nil {
		c.notify.Notify("That note no longer exists.")
		return c.Refresh(ctx)
	}

	err := c.repo.SetCompleted(ctx, id, !current.Completed)
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		c.notify.Notify("That note no longer exists.")
		return c.Refresh(ctx)
	}
	if err != nil {
		return c.fail("toggle note", err)
	}
	return c.Refresh(ctx)
}

// Delete removes a note and refreshes. Removing an already-deleted note is
// not an error.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.repo.Remove(ctx, id); err != nil {
		return c.fail("delete note", err)
	}
	return c.Refresh(ctx)
}

// SetSort updates the sort order and re-renders. No repository mutation is
// involved.
func (c *Controller) SetSort(ctx context.Context, order view.SortOrder) error {
	if !order.Valid() {
		c.notify.Notify(fmt.Sprintf("Unknown sort order %q.", order))
		return fmt.Errorf("unknown sort order %q", order)
	}
	c.mu.Lock()
	c.state.Sort = order
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetShowCompleted updates the completed-visibility filter and re-renders.
func (c *Controller) SetShowCompleted(ctx context.Context, show bool) error {
	c.mu.Lock()
	c.state.ShowCompleted = show
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// State returns the current view preferences.
func (c *Controller) State() view.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Refresh re-fetches the full collection, projects it with the current view
// state, and replaces the rendered list wholesale. The full rebuild discards
// transient per-row edit state, which is the price of never rendering a
// stale node.
func (c *Controller) Refresh(ctx context.Context) error {
	notes, err := c.repo.GetAll(ctx)
	if err != nil {
		return c.fail("load notes", err)
	}

	c.mu.Lock()
	c.notes = notes
	c.editing = make(map[int64]bool)
	state := c.state
	c.mu.Unlock()

	c.render.Render(view.Project(notes, state))
	return nil
}

// fail logs the failure and surfaces it to the user. The last rendered list
// is left untouched; the notes feature degrades rather than breaking the
// page.
func (c *Controller) fail(op string, err error) error {
	c.log.Warn(op+" failed", "error", err)
	if errors.Is(err, store.ErrStorageUnavailable) {
		c.notify.Notify("Notes storage is unavailable. Reload the page to try again.")
	} else {
		c.notify.Notify("Sorry, that didn't work. Please try again.")
	}
	return fmt.Errorf("%s: %w", op, err)
}
