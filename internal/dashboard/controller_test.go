package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/godash/internal/store"
	"github.com/kittclouds/godash/internal/view"
)

type fakeRenderer struct {
	calls [][]store.Note
}

func (r *fakeRenderer) Render(notes []store.Note) {
	snapshot := make([]store.Note, len(notes))
	copy(snapshot, notes)
	r.calls = append(r.calls, snapshot)
}

func (r *fakeRenderer) last() []store.Note {
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

func newController(t *testing.T) (*Controller, *fakeRenderer, *fakeNotifier) {
	t.Helper()
	render := &fakeRenderer{}
	notify := &fakeNotifier{}
	c := New(store.NewMemRepository(), render, notify, nil)
	return c, render, notify
}

func renderedTexts(notes []store.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Text
	}
	return out
}

func TestAddRendersNewNote(t *testing.T) {
	c, render, _ := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "Buy milk"))
	require.NoError(t, c.Add(ctx, "  Call  Bob "))

	assert.Equal(t, []string{"Buy milk", "Call Bob"}, renderedTexts(render.last()))
}

func TestAddEmptyWarnsWithoutRender(t *testing.T) {
	c, render, notify := newController(t)

	require.Error(t, c.Add(context.Background(), "   "))

	assert.Empty(t, render.calls, "a rejected add must not re-render")
	require.Len(t, notify.messages, 1)
	assert.Equal(t, "Note cannot be empty.", notify.messages[0])
}

func TestEditLifecycle(t *testing.T) {
	c, render, _ := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "draft"))
	id := render.last()[0].ID

	c.BeginEdit(id)
	assert.True(t, c.Editing(id))

	require.NoError(t, c.CommitEdit(ctx, id, "final"))
	assert.False(t, c.Editing(id), "commit leaves edit mode")
	assert.Equal(t, []string{"final"}, renderedTexts(render.last()))
}

func TestCommitEmptyKeepsRowEditing(t *testing.T) {
	c, render, notify := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "Buy milk"))
	id := render.last()[0].ID
	rendersBefore := len(render.calls)

	c.BeginEdit(id)
	require.Error(t, c.CommitEdit(ctx, id, ""))

	assert.True(t, c.Editing(id), "row stays in edit mode on rejected commit")
	assert.Contains(t, notify.messages, "Note cannot be empty.")
	assert.Len(t, render.calls, rendersBefore, "rejected commit must not re-render")
	assert.Equal(t, []string{"Buy milk"}, renderedTexts(render.last()))
}

func TestCommitEditAfterDeleteResyncsView(t *testing.T) {
	c, render, notify := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "doomed"))
	id := render.last()[0].ID

	c.BeginEdit(id)
	require.NoError(t, c.Delete(ctx, id))

	require.NoError(t, c.CommitEdit(ctx, id, "too late"))
	assert.Contains(t, notify.messages, "That note no longer exists.")
	assert.Empty(t, render.last(), "view reflects current truth")
}

func TestMultipleRowsMayEditIndependently(t *testing.T) {
	c, render, _ := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "one"))
	require.NoError(t, c.Add(ctx, "two"))
	first, second := render.last()[0].ID, render.last()[1].ID

	c.BeginEdit(first)
	c.BeginEdit(second)
	assert.True(t, c.Editing(first))
	assert.True(t, c.Editing(second))
}

func TestToggleRoundTrip(t *testing.T) {
	c, render, _ := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "toggle me"))
	id := render.last()[0].ID

	require.NoError(t, c.Toggle(ctx, id))
	assert.True(t, render.last()[0].Completed)

	require.NoError(t, c.Toggle(ctx, id))
	assert.False(t, render.last()[0].Completed)
}

func TestDeleteIsIdempotentAtTheController(t *testing.T) {
	c, render, _ := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "ephemeral"))
	id := render.last()[0].ID

	require.NoError(t, c.Delete(ctx, id))
	require.NoError(t, c.Delete(ctx, id))
	assert.Empty(t, render.last())
}

func TestSortAndFilterDriveRender(t *testing.T) {
	c, render, _ := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "zebra"))
	require.NoError(t, c.Add(ctx, "apple"))
	require.NoError(t, c.Add(ctx, "mango"))
	require.NoError(t, c.Toggle(ctx, render.last()[1].ID)) // complete "apple"

	require.NoError(t, c.SetSort(ctx, view.SortAlphabetical))
	assert.Equal(t, []string{"apple", "mango", "zebra"}, renderedTexts(render.last()))

	require.NoError(t, c.SetShowCompleted(ctx, false))
	assert.Equal(t, []string{"mango", "zebra"}, renderedTexts(render.last()))

	require.NoError(t, c.SetSort(ctx, view.SortDefault))
	assert.Equal(t, []string{"zebra", "mango"}, renderedTexts(render.last()))
}

func TestSetSortRejectsUnknownOrder(t *testing.T) {
	c, render, notify := newController(t)

	require.Error(t, c.SetSort(context.Background(), view.SortOrder("sideways")))
	assert.Empty(t, render.calls)
	assert.NotEmpty(t, notify.messages)
}

func TestStorageUnavailableSurfacesToUser(t *testing.T) {
	render := &fakeRenderer{}
	notify := &fakeNotifier{}
	// A handle that was never opened rejects every operation.
	repo := store.NewSQLiteRepository(store.NewHandle(":memory:", store.SchemaVersion))
	c := New(repo, render, notify, nil)

	err := c.Add(context.Background(), "unreachable")
	require.ErrorIs(t, err, store.ErrStorageUnavailable)
	assert.Empty(t, render.calls, "rendered list stays at its last state")
	require.NotEmpty(t, notify.messages)
	assert.Contains(t, notify.messages[0], "unavailable")
}

func TestEndToEndScenario(t *testing.T) {
	// The spec scenario: add, normalize, toggle, filter, rejected edit.
	c, render, _ := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "Buy milk"))
	require.NoError(t, c.Add(ctx, "  Call  Bob "))
	assert.Equal(t, []string{"Buy milk", "Call Bob"}, renderedTexts(render.last()))

	second := render.last()[1].ID
	require.NoError(t, c.Toggle(ctx, second))

	require.NoError(t, c.SetShowCompleted(ctx, false))
	assert.Equal(t, []string{"Buy milk"}, renderedTexts(render.last()))

	first := render.last()[0].ID
	c.BeginEdit(first)
	require.Error(t, c.CommitEdit(ctx, first, ""))
	assert.Equal(t, []string{"Buy milk"}, renderedTexts(render.last()))
}
