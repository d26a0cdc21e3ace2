package devserver

import (
	"sync"
	"time"

	"github.com/colonyops/lingo/internal/core/job"
)

type task struct {
	DatasetID string
	Status    job.Status
	Processed int
	Total     int
	Started   time.Time
	Updated   time.Time
}

// Tracker records per-task progress. Status writes from pause and resume and
// progress writes from workers go through the same lock.
type Tracker struct {
	mu    sync.Mutex
	tasks map[string]*task
	now   func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{tasks: make(map[string]*task), now: time.Now}
}

// Init registers a running task with total work items.
func (t *Tracker) Init(id, datasetID string, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.tasks[id] = &task{
		DatasetID: datasetID,
		Status:    job.StatusRunning,
		Total:     total,
		Started:   now,
		Updated:   now,
	}
}

// Progress returns the wire view of a task.
func (t *Tracker) Progress(id string) (job.Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tk, ok := t.tasks[id]
	if !ok {
		return job.Progress{}, false
	}
	return job.Progress{Status: string(tk.Status), Processed: tk.Processed, Total: tk.Total}, true
}

// Status returns the current status of a task.
func (t *Tracker) Status(id string) (job.Status, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tk, ok := t.tasks[id]
	if !ok {
		return "", false
	}
	return tk.Status, true
}

// SetStatus changes the status of a non-terminal task. It returns false for
// unknown or finished tasks.
func (t *Tracker) SetStatus(id string, s job.Status) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	tk, ok := t.tasks[id]
	if !ok || tk.Status.Terminal() {
		return false
	}
	tk.Status = s
	tk.Updated = t.now()
	return true
}

// Advance records processed work items.
func (t *Tracker) Advance(id string, processed int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tk, ok := t.tasks[id]; ok {
		tk.Processed = processed
		tk.Updated = t.now()
	}
}

// Finish moves a task to a terminal status.
func (t *Tracker) Finish(id string, s job.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tk, ok := t.tasks[id]; ok {
		tk.Status = s
		tk.Updated = t.now()
	}
}
