package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/destination"
	"github.com/philipp01105/sinklog/internal/diag"
)

// DefaultFloor is the tick period used when no updater asks for less.
const DefaultFloor = time.Second

// Poster moves a tick onto the owning goroutine.
type Poster interface {
	Post(fn func()) bool
}

// EffectivePeriod is the smallest non-zero period requested by updaters,
// capped at floor. A non-positive floor uses DefaultFloor.
func EffectivePeriod(floor time.Duration, updaters []destination.ScheduledUpdater) time.Duration {
	if floor <= 0 {
		floor = DefaultFloor
	}
	period := floor
	for _, u := range updaters {
		if p := u.UpdatePeriod(); p > 0 && p < period {
			period = p
		}
	}
	return period
}

// Scheduler drives the periodic Update of every scheduled updater from a
// single ticker. Ticks never overlap: with a poster a tick is skipped
// while the previous one is still queued.
type Scheduler struct {
	updaters []destination.ScheduledUpdater
	floor    time.Duration
	clock    *core.Clock
	poster   Poster

	pending atomic.Bool
	mu      sync.Mutex
	last    time.Time
	ticks   atomic.Uint64
	skipped atomic.Uint64
}

// New creates a scheduler. A nil clock uses the wall clock; a nil poster
// runs ticks on the scheduler goroutine.
func New(updaters []destination.ScheduledUpdater, floor time.Duration, clock *core.Clock, poster Poster) *Scheduler {
	if clock == nil {
		clock = core.NewClock(0, nil)
	}
	return &Scheduler{
		updaters: append([]destination.ScheduledUpdater(nil), updaters...),
		floor:    floor,
		clock:    clock,
		poster:   poster,
		last:     clock.Now(),
	}
}

// Period is the tick period computed from the current updater periods.
func (s *Scheduler) Period() time.Duration {
	return EffectivePeriod(s.floor, s.updaters)
}

// Empty reports whether there is nothing to tick.
func (s *Scheduler) Empty() bool {
	return len(s.updaters) == 0
}

// Run ticks until ctx is done. It returns nil right away when there are
// no updaters.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.Empty() {
		return nil
	}
	period := s.Period()
	diag.Debug("Scheduler", "starting, period %s, %d updaters", period, len(s.updaters))

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			diag.Debug("Scheduler", "stopped")
			return nil
		case <-ticker.C:
			s.dispatch()
		}
	}
}

func (s *Scheduler) dispatch() {
	if s.poster == nil {
		s.Tick()
		return
	}
	if !s.pending.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		return
	}
	if !s.poster.Post(s.postedTick) {
		s.pending.Store(false)
		s.skipped.Add(1)
	}
}

func (s *Scheduler) postedTick() {
	defer s.pending.Store(false)
	s.Tick()
}

// Tick runs one update on every updater with the time elapsed since the
// previous tick.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	now := s.clock.Now()
	delta := now.Sub(s.last)
	if delta < 0 {
		delta = 0
	}
	s.last = now
	s.mu.Unlock()

	tick := destination.Tick{Now: now, Delta: delta}
	for _, u := range s.updaters {
		u.Update(tick)
	}
	s.ticks.Add(1)
}

// Ticks returns the number of completed and skipped ticks.
func (s *Scheduler) Ticks() (completed, skipped uint64) {
	return s.ticks.Load(), s.skipped.Load()
}
