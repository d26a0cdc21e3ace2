package job

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingToUndo is returned by Backend.Undo when the server has no
	// applied batch to reverse. It is an informational outcome.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrTaskNotFound is returned by Backend.Progress when the server no
	// longer knows the task. It ends the poll loop.
	ErrTaskNotFound = errors.New("task not found")
)

// ValidationError is a user-correctable rejection raised before any network
// call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// TransportError wraps a failed round-trip to the backend: a network error
// or an unexpected HTTP status.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
