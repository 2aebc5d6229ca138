package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEmitsProgressThenDone(t *testing.T) {
	job := New(10_000, nil)

	var messages []Message
	for msg := range job.Run(context.Background()) {
		messages = append(messages, msg)
	}
	require.NotEmpty(t, messages)

	last := messages[len(messages)-1]
	assert.Equal(t, Done, last.Type)
	assert.Equal(t, "Calculation completed successfully!", last.Value)

	progress := messages[:len(messages)-1]
	require.NotEmpty(t, progress)
	prev := 0
	for _, msg := range progress {
		require.Equal(t, Progress, msg.Type)
		pct, ok := msg.Value.(int)
		require.True(t, ok, "progress value should be an int")
		assert.Greater(t, pct, prev, "progress is strictly increasing")
		prev = pct
	}
	assert.Equal(t, 100, prev, "progress reaches 100 before done")
}

func TestRunTinyTotal(t *testing.T) {
	job := New(3, nil)

	var last Message
	count := 0
	for msg := range job.Run(context.Background()) {
		last = msg
		count++
	}
	assert.Equal(t, Done, last.Type)
	assert.Equal(t, 4, count, "one progress message per iteration plus done")
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	job := New(DefaultTotal, nil)

	ch := job.Run(ctx)
	// Read a couple of messages, then walk away.
	first := <-ch
	assert.Equal(t, Progress, first.Type)
	cancel()

	var sawDone bool
	for msg := range ch {
		if msg.Type == Done {
			sawDone = true
		}
	}
	assert.False(t, sawDone, "a cancelled job never reports done")
}

func TestJobIDsAreUnique(t *testing.T) {
	a, b := New(1, nil), New(1, nil)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
