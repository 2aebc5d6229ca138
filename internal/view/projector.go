// Package view derives the rendered note list from the full collection and
// the session's sort/filter preferences. Projection is pure: no I/O, no
// mutation of the input, same output for the same input every time.
package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kittclouds/godash/internal/store"
)

// SortOrder selects how the projected list is ordered.
type SortOrder string

const (
	// SortDefault preserves storage-native order.
	SortDefault SortOrder = "default"
	// SortAlphabetical orders ascending by text, locale-aware.
	SortAlphabetical SortOrder = "alphabetical"
	// SortRecency orders descending by creation time, most recent first.
	SortRecency SortOrder = "recency"
)

// Valid reports whether o is a known sort order.
func (o SortOrder) Valid() bool {
	switch o {
	case SortDefault, SortAlphabetical, SortRecency:
		return true
	}
	return false
}

// State holds the session-local view preferences. It is not persisted and
// resets to defaults on reload.
type State struct {
	Sort          SortOrder `json:"sortOrder"`
	ShowCompleted bool      `json:"showCompleted"`
}

// DefaultState is the view state a fresh session starts with.
func DefaultState() State {
	return State{Sort: SortDefault, ShowCompleted: true}
}

// Project filters and sorts notes for rendering. With ShowCompleted false,
// completed notes are dropped. Sorting is stable, so recency ties keep
// their storage-native relative order.
func Project(notes []store.Note, state State) []store.Note {
	out := make([]store.Note, 0, len(notes))
	for _, n := range notes {
		if !state.ShowCompleted && n.Completed {
			continue
		}
		out = append(out, n)
	}

	switch state.Sort {
	case SortAlphabetical:
		c := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Text, out[j].Text) < 0
		})
	case SortRecency:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Created.After(out[j].Created)
		})
	}
	return out
}
