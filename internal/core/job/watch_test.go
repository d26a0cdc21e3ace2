package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedBackend struct {
	responses []Progress
	errs      []error
	polls     int
}

func (b *scriptedBackend) CreateJob(context.Context, CreateRequest) (string, error) {
	return "task-1", nil
}

func (b *scriptedBackend) Progress(context.Context, string) (Progress, error) {
	i := b.polls
	b.polls++
	if i < len(b.errs) && b.errs[i] != nil {
		return Progress{}, b.errs[i]
	}
	if i >= len(b.responses) {
		return b.responses[len(b.responses)-1], nil
	}
	return b.responses[i], nil
}

func (b *scriptedBackend) Pause(context.Context, string) error  { return nil }
func (b *scriptedBackend) Resume(context.Context, string) error { return nil }
func (b *scriptedBackend) Undo(context.Context, string) error   { return nil }

func TestWatcher_runs_until_completed(t *testing.T) {
	b := &scriptedBackend{
		responses: []Progress{
			{Status: "running", Processed: 1, Total: 3},
			{},
			{Status: "running", Processed: 2, Total: 3},
			{Status: "completed", Processed: 3, Total: 3},
		},
		errs: []error{nil, errors.New("blip")},
	}
	c := newTestController(t)
	gen := startJob(t, c)

	w := NewWatcher(b, c)
	w.interval = time.Millisecond

	refreshes := 0
	ticks := 0
	w.OnRefresh = func(context.Context) { refreshes++ }
	w.OnTick = func(PollOutcome, Job) { ticks++ }

	final, err := w.Watch(context.Background(), gen)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, final.Status)
	assert.Equal(t, 4, b.polls)
	assert.Equal(t, 4, ticks)
	// two running ticks plus the final refresh; the failed tick skips.
	assert.Equal(t, 3, refreshes)
	assert.False(t, c.Active())
}

func TestWatcher_stops_on_cancel(t *testing.T) {
	b := &scriptedBackend{responses: []Progress{{Status: "paused", Processed: 1, Total: 3}}}
	c := newTestController(t)
	gen := startJob(t, c)

	w := NewWatcher(b, c)
	w.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	w.OnTick = func(PollOutcome, Job) {
		if b.polls >= 3 {
			cancel()
		}
	}

	_, err := w.Watch(ctx, gen)

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.ShouldPoll(gen), "tick chain is stopped on teardown")
}
