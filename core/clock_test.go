package core

import (
	"sync"
	"testing"
	"time"
)

type fakeNow struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeNow) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeNow) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func TestClock_TimestampFormat(t *testing.T) {
	now := &fakeNow{t: time.Date(2024, 5, 6, 7, 8, 9, 123_000_000, time.UTC)}
	c := NewClock(60*time.Millisecond, now.Now)

	at, text := c.Timestamp()
	if !at.Equal(now.t) {
		t.Errorf("time = %v, want %v", at, now.t)
	}
	if text != "2024-05-06T07:08:09.123Z" {
		t.Errorf("timestamp = %q", text)
	}
}

func TestClock_TimestampCachedWithinPeriod(t *testing.T) {
	now := &fakeNow{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewClock(60*time.Millisecond, now.Now)

	_, first := c.Timestamp()
	now.Advance(59 * time.Millisecond)
	at, second := c.Timestamp()
	if second != first {
		t.Errorf("timestamp re-rendered inside period: %q != %q", second, first)
	}
	if !at.Equal(now.t) {
		t.Errorf("Now not advanced: %v", at)
	}

	now.Advance(1 * time.Millisecond)
	_, third := c.Timestamp()
	if third == first {
		t.Errorf("timestamp not re-rendered after period")
	}
	if third != "2024-01-01T00:00:00.060Z" {
		t.Errorf("timestamp = %q", third)
	}
}

func TestClock_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	c := NewClock(0, func() time.Time { return time.Date(2024, 1, 1, 3, 0, 0, 0, loc) })
	if got := c.Now(); got.Location() != time.UTC || got.Hour() != 0 {
		t.Errorf("Now() = %v, want UTC midnight", got)
	}
	if c.MinPeriod() != DefaultMinTimestampPeriod {
		t.Errorf("MinPeriod() = %v", c.MinPeriod())
	}
}
