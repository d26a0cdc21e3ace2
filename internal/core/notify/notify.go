// Package notify defines the single-slot advisory message surfaced to the user.
package notify

import "time"

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DisplayDuration is how long a notification stays visible after it was
// posted.
const DisplayDuration = 3 * time.Second

// Notification is one advisory message.
type Notification struct {
	Level     Level
	Message   string
	CreatedAt time.Time
}
