package decorator

import (
	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/destination"
	"github.com/philipp01105/sinklog/internal/diag"
)

// Poster runs closures on the owning goroutine in FIFO order.
type Poster interface {
	// Post queues fn without blocking. It returns false when fn was not
	// accepted.
	Post(fn func()) bool
	// IsOwner reports whether the caller runs on the owning goroutine.
	IsOwner() bool
}

// Dispatch marshals delivery onto the owning goroutine for callers running
// elsewhere. Posts are fire-and-forget; a rejected post drops the call.
type Dispatch struct {
	Wrapper
	poster Poster
	stats  *destination.Stats
}

// NewDispatch wraps inner.
func NewDispatch(inner destination.Destination, poster Poster) *Dispatch {
	return &Dispatch{
		Wrapper: Wrapper{Destination: inner},
		poster:  poster,
		stats:   destination.NewStats(),
	}
}

// Log posts the call when single-log dispatch is on and the caller is not
// the owner, and delivers synchronously otherwise.
func (d *Dispatch) Log(level core.Level, category, message string, attrs *core.Attributes, err error) {
	td := d.Configuration().ThreadDispatch
	if !td.Enabled || !td.SingleLogDispatchEnabled || d.poster.IsOwner() {
		d.Destination.Log(level, category, message, attrs, err)
		return
	}
	inner := d.Destination
	if !d.poster.Post(func() { inner.Log(level, category, message, attrs, err) }) {
		d.stats.IncrementDropped(level)
		diag.Debug("Dispatch", "dropped %s entry for %s", level, d.ConfigurationName())
		return
	}
	d.stats.IncrementProcessed(1)
}

// LogBatch applies the same decision as Log using the batch switch. An
// empty batch returns immediately.
func (d *Dispatch) LogBatch(entries []core.Entry) {
	if len(entries) == 0 {
		return
	}
	td := d.Configuration().ThreadDispatch
	if !td.Enabled || !td.BatchLogsDispatchEnabled || d.poster.IsOwner() {
		d.Destination.LogBatch(entries)
		return
	}
	batch := append([]core.Entry(nil), entries...)
	inner := d.Destination
	if !d.poster.Post(func() { inner.LogBatch(batch) }) {
		for i := range batch {
			d.stats.IncrementDropped(batch[i].Level)
		}
		diag.Debug("Dispatch", "dropped batch of %d for %s", len(batch), d.ConfigurationName())
		return
	}
	d.stats.IncrementBatches()
	d.stats.IncrementProcessed(len(batch))
}

// Stats returns a snapshot of posted and dropped deliveries.
func (d *Dispatch) Stats() destination.Snapshot {
	return d.stats.GetSnapshot()
}
