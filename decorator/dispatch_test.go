package decorator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/destination"
)

// fakePoster queues posted closures until Run is called.
type fakePoster struct {
	mu     sync.Mutex
	owner  bool
	reject bool
	queued []func()
}

func (p *fakePoster) Post(fn func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reject {
		return false
	}
	p.queued = append(p.queued, fn)
	return true
}

func (p *fakePoster) IsOwner() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owner
}

func (p *fakePoster) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queued)
}

func (p *fakePoster) Run() {
	p.mu.Lock()
	q := p.queued
	p.queued = nil
	p.mu.Unlock()
	for _, fn := range q {
		fn()
	}
}

func dispatchConfig(single, batch bool) config.Configuration {
	cfg := config.Default()
	cfg.MinLevel = core.DebugLevel
	cfg.ThreadDispatch = config.ThreadDispatchConfig{
		Enabled:                  true,
		SingleLogDispatchEnabled: single,
		BatchLogsDispatchEnabled: batch,
	}
	return cfg
}

func newDispatch(cfg config.Configuration, poster *fakePoster) (*Dispatch, *destination.Recorder) {
	rec := destination.NewRecorder("Recorder")
	rec.ApplyConfiguration(cfg)
	return NewDispatch(rec, poster), rec
}

func TestDispatch_OffOwnerIsPosted(t *testing.T) {
	p := &fakePoster{}
	d, rec := newDispatch(dispatchConfig(true, true), p)

	d.Log(core.InfoLevel, "c", "first", nil, nil)
	d.Log(core.InfoLevel, "c", "second", nil, nil)

	assert.Empty(t, rec.Entries(), "delivery must not happen on the caller")
	assert.Equal(t, 2, p.Pending())

	p.Run()
	assert.Equal(t, []string{"first", "second"}, messages(rec.Entries()))
}

func TestDispatch_OwnerDeliversSynchronously(t *testing.T) {
	p := &fakePoster{owner: true}
	d, rec := newDispatch(dispatchConfig(true, true), p)

	d.Log(core.InfoLevel, "c", "now", nil, nil)
	d.LogBatch([]core.Entry{core.NewEntry(core.InfoLevel, "c", "batch", nil, nil)})

	assert.Equal(t, 0, p.Pending())
	assert.Equal(t, []string{"now", "batch"}, messages(rec.Entries()))
}

func TestDispatch_SwitchesPerPath(t *testing.T) {
	p := &fakePoster{}
	d, rec := newDispatch(dispatchConfig(false, true), p)

	d.Log(core.InfoLevel, "c", "single", nil, nil)
	assert.Equal(t, []string{"single"}, messages(rec.Entries()))

	d.LogBatch([]core.Entry{core.NewEntry(core.InfoLevel, "c", "b", nil, nil)})
	assert.Equal(t, 1, p.Pending())

	d.ApplyConfiguration(dispatchConfig(true, false))
	d.LogBatch([]core.Entry{core.NewEntry(core.InfoLevel, "c", "sync-batch", nil, nil)})
	assert.Equal(t, 1, p.Pending())
	assert.Equal(t, []string{"single", "sync-batch"}, messages(rec.Entries()))
}

func TestDispatch_EmptyBatchShortCircuits(t *testing.T) {
	p := &fakePoster{}
	d, rec := newDispatch(dispatchConfig(true, true), p)

	d.LogBatch(nil)
	d.LogBatch([]core.Entry{})
	assert.Equal(t, 0, p.Pending())
	assert.Empty(t, rec.Batches())
}

func TestDispatch_BatchIsCopied(t *testing.T) {
	p := &fakePoster{}
	d, rec := newDispatch(dispatchConfig(true, true), p)

	batch := []core.Entry{core.NewEntry(core.InfoLevel, "c", "orig", nil, nil)}
	d.LogBatch(batch)
	batch[0].Message = "mutated"
	p.Run()

	require.Len(t, rec.Batches(), 1)
	assert.Equal(t, "orig", rec.Batches()[0][0].Message)
}

func TestDispatch_RejectedPostDrops(t *testing.T) {
	p := &fakePoster{reject: true}
	d, rec := newDispatch(dispatchConfig(true, true), p)

	d.Log(core.ErrorLevel, "c", "lost", nil, nil)
	d.LogBatch([]core.Entry{
		core.NewEntry(core.InfoLevel, "c", "x", nil, nil),
		core.NewEntry(core.InfoLevel, "c", "y", nil, nil),
	})

	assert.Empty(t, rec.Entries())
	s := d.Stats()
	assert.Equal(t, uint64(1), s.DroppedTotal[core.ErrorLevel])
	assert.Equal(t, uint64(2), s.DroppedTotal[core.InfoLevel])
}
