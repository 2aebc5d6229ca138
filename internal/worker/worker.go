// Package worker runs the dashboard's background computation off the main
// flow, reporting progress over a channel using the page's worker message
// protocol: a stream of "progress" messages with a percentage, then one
// "done" message with a completion string.
package worker

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"
)

// MessageType discriminates worker messages.
type MessageType string

const (
	Progress MessageType = "progress"
	Done     MessageType = "done"
)

// Message is one worker protocol message. Value carries an int percentage
// for Progress and a string for Done, matching the wire shape the page
// expects.
type Message struct {
	Type  MessageType `json:"type"`
	Value any         `json:"value"`
}

// DefaultTotal matches the page's original iteration count.
const DefaultTotal = 10_000_000

const doneText = "Calculation completed successfully!"

// Job is one background computation run.
type Job struct {
	ID    string
	total int
	log   *slog.Logger
}

// New builds a job with a fresh id. A non-positive total falls back to
// DefaultTotal; a nil logger falls back to the default logger.
func New(total int, log *slog.Logger) *Job {
	if total <= 0 {
		total = DefaultTotal
	}
	if log == nil {
		log = slog.Default()
	}
	return &Job{
		ID:    uuid.NewString(),
		total: total,
		log:   log,
	}
}

// Run starts the computation in its own goroutine and returns the message
// channel, closed when the job finishes or the context is cancelled.
// A cancelled job closes the channel without a done message; abandoning a
// run mid-flight is how page navigation drops it.
func (j *Job) Run(ctx context.Context) <-chan Message {
	out := make(chan Message, 8)
	go func() {
		defer close(out)

		chunk := j.total / 100
		if chunk < 1 {
			chunk = 1
		}

		progress := 0
		for i := 0; i < j.total; i++ {
			_ = math.Sqrt(float64(i)) * math.Sqrt(float64(i))
			if i%chunk == 0 {
				progress++
				select {
				case <-ctx.Done():
					j.log.Debug("worker cancelled", "job", j.ID, "progress", progress)
					return
				case out <- Message{Type: Progress, Value: progress}:
				}
			}
		}

		select {
		case <-ctx.Done():
		case out <- Message{Type: Done, Value: doneText}:
			j.log.Debug("worker finished", "job", j.ID)
		}
	}()
	return out
}
