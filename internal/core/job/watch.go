package job

import (
	"context"
	"time"
)

// Watcher drives a Controller's poll loop from a single goroutine. It is the
// blocking counterpart of the TUI's tick commands, used by headless commands.
type Watcher struct {
	backend  Backend
	ctrl     *Controller
	interval time.Duration

	// OnTick is called after every applied tick with the outcome and the
	// job state at that point.
	OnTick func(PollOutcome, Job)
	// OnRefresh is called whenever the outcome asks for a dataset re-fetch.
	OnRefresh func(ctx context.Context)
}

// NewWatcher creates a watcher polling every PollInterval.
func NewWatcher(b Backend, c *Controller) *Watcher {
	return &Watcher{backend: b, ctrl: c, interval: PollInterval}
}

// Watch polls the job started with gen until it reaches a terminal status or
// ctx is cancelled. It returns the final job.
func (w *Watcher) Watch(ctx context.Context, gen uint64) (Job, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer w.ctrl.Stop()

	for {
		select {
		case <-ctx.Done():
			return w.ctrl.Job(), ctx.Err()
		case <-ticker.C:
		}

		if ctx.Err() != nil {
			return w.ctrl.Job(), ctx.Err()
		}
		if !w.ctrl.ShouldPoll(gen) {
			return w.ctrl.Job(), nil
		}

		var out PollOutcome
		p, err := w.backend.Progress(ctx, w.ctrl.TaskID())
		if err != nil {
			if ctx.Err() != nil {
				return w.ctrl.Job(), ctx.Err()
			}
			out = w.ctrl.PollFailed(gen, err)
		} else {
			out = w.ctrl.ApplyPoll(gen, p)
		}

		if out.Refresh && w.OnRefresh != nil {
			w.OnRefresh(ctx)
		}
		if w.OnTick != nil {
			w.OnTick(out, w.ctrl.Job())
		}
		if !out.Continue {
			return w.ctrl.Job(), nil
		}
	}
}
