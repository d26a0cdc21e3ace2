// Package job tracks the lifecycle of a remote translation job.
package job

import (
	"context"
	"time"
)

// Status is the lifecycle state of a job as seen by the client.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusQueued     Status = "queued"
	StatusRunning    Status = "running"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// PollInterval is the fixed delay between status requests.
const PollInterval = time.Second

// DefaultMaxPollFailures is how many consecutive failed status requests are
// tolerated before the job is given up on.
const DefaultMaxPollFailures = 30

// ParseStatus maps a server status string onto the closed set the server may
// report. Unknown values return false.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusQueued, StatusRunning, StatusPaused, StatusCompleted, StatusFailed:
		return st, true
	default:
		return "", false
	}
}

// Active reports whether a job in this status is still being polled.
func (s Status) Active() bool {
	return s == StatusQueued || s == StatusRunning || s == StatusPaused
}

// Terminal reports whether s is completed or failed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one server-tracked translation run.
type Job struct {
	ID        string
	DatasetID string
	Rows      []int
	Cols      []string
	Status    Status
	Processed int
	Total     int
}

// Percent returns Processed/Total as a percentage. It is 0 when Total is 0
// and is not clamped above 100.
func (j Job) Percent() float64 {
	if j.Total == 0 {
		return 0
	}
	return float64(j.Processed) / float64(j.Total) * 100
}

// CreateRequest is the body of a job creation call.
type CreateRequest struct {
	DatasetID string   `json:"dataset_id"`
	Rows      []int    `json:"rows"`
	Columns   []string `json:"columns"`
}

// Progress is one status response.
type Progress struct {
	Status    string `json:"status"`
	Processed int    `json:"processed_items"`
	Total     int    `json:"total_items"`
}

// Backend is the remote job API.
type Backend interface {
	CreateJob(ctx context.Context, req CreateRequest) (string, error)
	Progress(ctx context.Context, taskID string) (Progress, error)
	Pause(ctx context.Context, taskID string) error
	Resume(ctx context.Context, taskID string) error
	// Undo reverses the most recently applied batch. It returns
	// ErrNothingToUndo when the server has no history.
	Undo(ctx context.Context, datasetID string) error
}
