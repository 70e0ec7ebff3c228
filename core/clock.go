package core

import (
	"sync/atomic"
	"time"
)

// TimestampLayout is the layout of formatted timestamps (UTC, millisecond
// precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// DefaultMinTimestampPeriod is how long a formatted timestamp is reused.
const DefaultMinTimestampPeriod = 60 * time.Millisecond

type cachedTimestamp struct {
	at   time.Time
	text string
}

// Clock supplies the current UTC time and a formatted timestamp that is
// only re-rendered once MinPeriod has elapsed since the last rendering.
// The cached value is swapped atomically so readers never lock.
type Clock struct {
	now       func() time.Time
	minPeriod time.Duration
	cached    atomic.Pointer[cachedTimestamp]
}

// NewClock creates a clock. A nil now uses time.Now; a non-positive
// minPeriod uses DefaultMinTimestampPeriod.
func NewClock(minPeriod time.Duration, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	if minPeriod <= 0 {
		minPeriod = DefaultMinTimestampPeriod
	}
	return &Clock{now: now, minPeriod: minPeriod}
}

// Now returns the current time in UTC.
func (c *Clock) Now() time.Time {
	return c.now().UTC()
}

// Timestamp returns the current UTC time together with a formatted
// timestamp that may lag the returned time by less than MinPeriod.
func (c *Clock) Timestamp() (time.Time, string) {
	now := c.Now()
	cur := c.cached.Load()
	if cur != nil {
		if d := now.Sub(cur.at); d >= 0 && d < c.minPeriod {
			return now, cur.text
		}
	}
	next := &cachedTimestamp{at: now, text: now.Format(TimestampLayout)}
	c.cached.Store(next)
	return now, next.text
}

// MinPeriod returns the re-render period of the formatted timestamp.
func (c *Clock) MinPeriod() time.Duration {
	return c.minPeriod
}
