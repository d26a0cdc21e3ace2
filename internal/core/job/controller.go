package job

import (
	"errors"
	"slices"

	"github.com/rs/zerolog"

	"github.com/colonyops/lingo/internal/core/notify"
	"github.com/colonyops/lingo/internal/core/selection"
)

// PollOutcome tells the driver what to do after a poll tick resolved.
type PollOutcome struct {
	// Refresh asks for a dataset re-fetch.
	Refresh bool
	// Continue asks for the next tick to be scheduled.
	Continue bool
	// Done is set when the job reached a terminal status on this tick.
	Done bool
	// Notice is a message to post, if any.
	Notice *notify.Notification
}

// UndoOutcome tells the driver how to react to an undo response.
type UndoOutcome struct {
	Refresh bool
	Notice  notify.Notification
}

// Controller owns the lifecycle of at most one active translation job.
// It contains pure state-machine logic; the caller performs the network
// calls and schedules the poll ticks.
//
// Every submission starts a new poll generation. Ticks and poll results
// carry the generation they were scheduled for, and anything from an older
// generation is ignored, so only one tick chain is ever live.
//
// Status written by Pause and Resume is provisional. The next applied poll
// result overwrites it unconditionally.
type Controller struct {
	status      Status
	job         *Job
	last        Job
	gen         uint64
	failures    int
	maxFailures int
	log         zerolog.Logger
}

// NewController creates an idle controller. maxFailures bounds consecutive
// failed poll ticks; values below 1 use DefaultMaxPollFailures.
func NewController(maxFailures int, logger zerolog.Logger) *Controller {
	if maxFailures < 1 {
		maxFailures = DefaultMaxPollFailures
	}
	return &Controller{
		status:      StatusIdle,
		maxFailures: maxFailures,
		log:         logger,
	}
}

// Status returns the local status.
func (c *Controller) Status() Status {
	return c.status
}

// Active reports whether a job is being polled.
func (c *Controller) Active() bool {
	return c.job != nil && c.status.Active()
}

// Job returns the active job, or the last finished one when none is active.
func (c *Controller) Job() Job {
	if c.job != nil {
		return *c.job
	}
	return c.last
}

// TaskID returns the active job identifier, or "" when none is active.
func (c *Controller) TaskID() string {
	if c.job == nil {
		return ""
	}
	return c.job.ID
}

// Percent returns the progress of Job.
func (c *Controller) Percent() float64 {
	return c.Job().Percent()
}

// Generation returns the current poll generation.
func (c *Controller) Generation() uint64 {
	return c.gen
}

// BeginSubmit validates a submission and moves to submitting. It returns the
// request to send. Nothing changes when validation fails.
//
// A paused job is superseded by a new submission; queued or running jobs
// must be paused first.
func (c *Controller) BeginSubmit(datasetID string, targets selection.Targets) (CreateRequest, error) {
	switch {
	case datasetID == "":
		return CreateRequest{}, &ValidationError{Reason: "no dataset loaded"}
	case len(targets.Rows) == 0:
		return CreateRequest{}, &ValidationError{Reason: "no rows selected"}
	case len(targets.Cols) == 0:
		return CreateRequest{}, &ValidationError{Reason: "no columns selected"}
	case c.status == StatusSubmitting:
		return CreateRequest{}, &ValidationError{Reason: "a translation is already being submitted"}
	case c.status == StatusQueued || c.status == StatusRunning:
		return CreateRequest{}, &ValidationError{Reason: "a translation job is already running"}
	}

	if c.job != nil {
		c.log.Info().Str("task_id", c.job.ID).Msg("superseding paused job")
		c.job = nil
	}
	// Invalidate any tick chain still in flight.
	c.gen++

	c.status = StatusSubmitting
	c.last = Job{
		DatasetID: datasetID,
		Rows:      slices.Clone(targets.Rows),
		Cols:      slices.Clone(targets.Cols),
		Status:    StatusSubmitting,
	}

	return CreateRequest{
		DatasetID: datasetID,
		Rows:      slices.Clone(targets.Rows),
		Columns:   slices.Clone(targets.Cols),
	}, nil
}

// SubmitSucceeded records the task id returned by the server, moves to
// running and starts a new poll generation. It returns the generation to
// schedule the first tick with, and false if no submission was pending.
func (c *Controller) SubmitSucceeded(taskID string) (uint64, bool) {
	if c.status != StatusSubmitting {
		return 0, false
	}

	j := c.last
	j.ID = taskID
	j.Status = StatusRunning
	j.Processed = 0
	j.Total = 0

	c.job = &j
	c.status = StatusRunning
	c.failures = 0
	c.gen++

	c.log.Info().
		Str("task_id", taskID).
		Str("dataset_id", j.DatasetID).
		Int("rows", len(j.Rows)).
		Int("cols", len(j.Cols)).
		Msg("translation job started")

	return c.gen, true
}

// SubmitFailed returns to idle after a failed creation request. A failed
// submission is retryable.
func (c *Controller) SubmitFailed(err error) {
	if c.status != StatusSubmitting {
		return
	}
	c.log.Warn().Err(err).Msg("translation submit failed")
	c.status = StatusIdle
	c.last = Job{}
}

// ShouldPoll reports whether a tick scheduled for gen should issue a status
// request.
func (c *Controller) ShouldPoll(gen uint64) bool {
	return gen == c.gen && c.Active()
}

// ApplyPoll applies a status response received for gen.
func (c *Controller) ApplyPoll(gen uint64, p Progress) PollOutcome {
	if !c.ShouldPoll(gen) {
		return PollOutcome{}
	}

	c.failures = 0
	c.job.Processed = p.Processed
	c.job.Total = p.Total

	prev := c.status
	remote, known := ParseStatus(p.Status)
	if !known {
		c.log.Debug().Str("status", p.Status).Msg("ignoring unknown job status")
	}

	switch {
	case known && remote == StatusCompleted:
		c.finish(StatusCompleted)
		return PollOutcome{
			Refresh: true,
			Done:    true,
			Notice:  &notify.Notification{Level: notify.LevelInfo, Message: "Translation completed!"},
		}
	case known && remote == StatusFailed:
		c.finish(StatusFailed)
		return PollOutcome{
			Refresh: true,
			Done:    true,
			Notice:  &notify.Notification{Level: notify.LevelError, Message: "Translation failed on the server"},
		}
	case known && remote != c.status:
		c.log.Debug().
			Str("local", string(c.status)).
			Str("remote", string(remote)).
			Msg("syncing job status from server")
		c.status = remote
		c.job.Status = remote
	}

	return PollOutcome{
		Refresh:  remote == StatusRunning || prev == StatusRunning,
		Continue: true,
	}
}

// PollFailed records a failed status request for gen. Transient failures
// are retried on the next tick up to the configured ceiling; ErrTaskNotFound
// fails the job immediately.
func (c *Controller) PollFailed(gen uint64, err error) PollOutcome {
	if !c.ShouldPoll(gen) {
		return PollOutcome{}
	}

	if errors.Is(err, ErrTaskNotFound) {
		c.log.Warn().Err(err).Str("task_id", c.job.ID).Msg("job vanished from server")
		c.finish(StatusFailed)
		return PollOutcome{
			Done:   true,
			Notice: &notify.Notification{Level: notify.LevelError, Message: "Translation job no longer exists on the server"},
		}
	}

	c.failures++
	c.log.Warn().Err(err).Int("consecutive", c.failures).Msg("poll failed")

	if c.failures >= c.maxFailures {
		c.finish(StatusFailed)
		return PollOutcome{
			Done: true,
			Notice: &notify.Notification{
				Level:   notify.LevelError,
				Message: "Lost contact with the translation server",
			},
		}
	}

	return PollOutcome{Continue: true}
}

// Failures returns the number of consecutive failed poll ticks.
func (c *Controller) Failures() int {
	return c.failures
}

// Pause optimistically marks a running job paused and returns the task id
// the pause request should be sent for. It is a no-op without a running job.
func (c *Controller) Pause() (string, bool) {
	if c.job == nil || (c.status != StatusRunning && c.status != StatusQueued) {
		return "", false
	}
	c.status = StatusPaused
	c.job.Status = StatusPaused
	return c.job.ID, true
}

// Resume optimistically marks a paused job running and returns the task id
// the resume request should be sent for. It is a no-op without a paused job.
func (c *Controller) Resume() (string, bool) {
	if c.job == nil || c.status != StatusPaused {
		return "", false
	}
	c.status = StatusRunning
	c.job.Status = StatusRunning
	return c.job.ID, true
}

// Stop invalidates the live tick chain. It is called on teardown.
func (c *Controller) Stop() {
	c.gen++
}

// BeginUndo validates an undo request.
func (c *Controller) BeginUndo(datasetID string) error {
	if datasetID == "" {
		return &ValidationError{Reason: "no dataset loaded"}
	}
	return nil
}

// UndoResult maps the undo response onto a refresh decision and a message.
// Nothing-to-undo is informational and leaves the dataset untouched.
func (c *Controller) UndoResult(err error) UndoOutcome {
	switch {
	case err == nil:
		return UndoOutcome{
			Refresh: true,
			Notice:  notify.Notification{Level: notify.LevelInfo, Message: "Undo successful"},
		}
	case errors.Is(err, ErrNothingToUndo):
		return UndoOutcome{
			Notice: notify.Notification{Level: notify.LevelInfo, Message: "Nothing to undo"},
		}
	default:
		c.log.Warn().Err(err).Msg("undo failed")
		return UndoOutcome{
			Notice: notify.Notification{Level: notify.LevelError, Message: "Undo failed"},
		}
	}
}

func (c *Controller) finish(s Status) {
	c.job.Status = s
	c.last = *c.job
	c.job = nil
	c.status = s
	c.gen++
	c.log.Info().Str("task_id", c.last.ID).Str("status", string(s)).Msg("translation job finished")
}
