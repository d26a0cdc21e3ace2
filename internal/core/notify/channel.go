package notify

import (
	"fmt"
	"time"
)

// Channel holds at most one notification. A newer post replaces the current
// one and restarts its expiry; there is no queue and no persistence.
//
// Expiry is driven by the caller: Post returns a sequence number, the caller
// schedules a timer for DisplayDuration and hands the number back to Expire.
// A stale sequence never clears a newer message.
type Channel struct {
	current *Notification
	seq     uint64
	now     func() time.Time
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	return &Channel{now: time.Now}
}

// Post replaces the current notification and returns its sequence number.
func (c *Channel) Post(n Notification) uint64 {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = c.now()
	}
	c.seq++
	c.current = &n
	return c.seq
}

// Infof posts an info-level notification.
func (c *Channel) Infof(format string, args ...any) uint64 {
	return c.Post(Notification{Level: LevelInfo, Message: fmt.Sprintf(format, args...)})
}

// Warnf posts a warning-level notification.
func (c *Channel) Warnf(format string, args ...any) uint64 {
	return c.Post(Notification{Level: LevelWarning, Message: fmt.Sprintf(format, args...)})
}

// Errorf posts an error-level notification.
func (c *Channel) Errorf(format string, args ...any) uint64 {
	return c.Post(Notification{Level: LevelError, Message: fmt.Sprintf(format, args...)})
}

// Expire clears the notification posted with seq. It reports whether the
// channel was cleared.
func (c *Channel) Expire(seq uint64) bool {
	if c.current == nil || seq != c.seq {
		return false
	}
	c.current = nil
	return true
}

// Dismiss clears the current notification immediately.
func (c *Channel) Dismiss() {
	c.current = nil
}

// Current returns the visible notification, if any.
func (c *Channel) Current() (Notification, bool) {
	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Seq returns the sequence number of the latest post.
func (c *Channel) Seq() uint64 {
	return c.seq
}
