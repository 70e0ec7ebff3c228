package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/destination"
)

type recordingUpdater struct {
	mu     sync.Mutex
	period time.Duration
	ticks  []destination.Tick
}

func (u *recordingUpdater) UpdatePeriod() time.Duration { return u.period }

func (u *recordingUpdater) Update(t destination.Tick) {
	u.mu.Lock()
	u.ticks = append(u.ticks, t)
	u.mu.Unlock()
}

func (u *recordingUpdater) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.ticks)
}

func TestEffectivePeriod(t *testing.T) {
	tests := []struct {
		name    string
		floor   time.Duration
		periods []time.Duration
		want    time.Duration
	}{
		{"no updaters", time.Second, nil, time.Second},
		{"smaller request wins", time.Second, []time.Duration{300 * time.Millisecond, 500 * time.Millisecond}, 300 * time.Millisecond},
		{"capped at floor", time.Second, []time.Duration{5 * time.Second}, time.Second},
		{"zero ignored", time.Second, []time.Duration{0, 200 * time.Millisecond}, 200 * time.Millisecond},
		{"default floor", 0, []time.Duration{3 * time.Second}, DefaultFloor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var us []destination.ScheduledUpdater
			for _, p := range tt.periods {
				us = append(us, &recordingUpdater{period: p})
			}
			assert.Equal(t, tt.want, EffectivePeriod(tt.floor, us))
		})
	}
}

func TestTick_Delta(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := core.NewClock(0, func() time.Time { return now })
	u := &recordingUpdater{period: time.Second}
	s := New([]destination.ScheduledUpdater{u}, time.Second, clock, nil)

	now = now.Add(700 * time.Millisecond)
	s.Tick()
	now = now.Add(300 * time.Millisecond)
	s.Tick()

	require.Len(t, u.ticks, 2)
	assert.Equal(t, 700*time.Millisecond, u.ticks[0].Delta)
	assert.Equal(t, 300*time.Millisecond, u.ticks[1].Delta)
	assert.Equal(t, now, u.ticks[1].Now)
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	u := &recordingUpdater{period: 5 * time.Millisecond}
	s := New([]destination.ScheduledUpdater{u}, time.Second, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return u.Count() >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestRun_EmptyReturnsImmediately(t *testing.T) {
	s := New(nil, time.Second, nil, nil)
	assert.True(t, s.Empty())
	assert.NoError(t, s.Run(context.Background()))
}

type queuePoster struct {
	mu     sync.Mutex
	queued []func()
}

func (p *queuePoster) Post(fn func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queued = append(p.queued, fn)
	return true
}

func (p *queuePoster) RunAll() {
	p.mu.Lock()
	q := p.queued
	p.queued = nil
	p.mu.Unlock()
	for _, fn := range q {
		fn()
	}
}

func TestDispatch_SkipsWhilePending(t *testing.T) {
	u := &recordingUpdater{period: time.Second}
	p := &queuePoster{}
	s := New([]destination.ScheduledUpdater{u}, time.Second, nil, p)

	s.dispatch()
	s.dispatch()
	s.dispatch()
	assert.Len(t, p.queued, 1)
	assert.Equal(t, 0, u.Count())

	p.RunAll()
	assert.Equal(t, 1, u.Count())

	s.dispatch()
	assert.Len(t, p.queued, 1)
	completed, skipped := s.Ticks()
	assert.Equal(t, uint64(1), completed)
	assert.Equal(t, uint64(2), skipped)
}
