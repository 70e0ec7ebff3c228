package destination

import (
	"sync"

	"github.com/philipp01105/sinklog/core"
)

// Recorder keeps every delivered entry in memory. It is thread-safe.
type Recorder struct {
	Base
	mu       sync.Mutex
	entries  []core.Entry
	batches  [][]core.Entry
	disposed bool
	// OnDeliver, when set, runs for every delivery call with the entries
	// it carried.
	OnDeliver func(entries []core.Entry)
}

// NewRecorder creates a recorder of the given destination type.
func NewRecorder(destinationType string) *Recorder {
	r := &Recorder{}
	r.Init(destinationType)
	return r
}

// Log records one entry.
func (r *Recorder) Log(level core.Level, category, message string, attrs *core.Attributes, err error) {
	e := core.NewEntry(level, category, message, attrs, err)
	r.mu.Lock()
	r.entries = append(r.entries, e)
	hook := r.OnDeliver
	r.mu.Unlock()
	if hook != nil {
		hook([]core.Entry{e})
	}
}

// LogBatch records a batch and its entries.
func (r *Recorder) LogBatch(entries []core.Entry) {
	batch := append([]core.Entry(nil), entries...)
	r.mu.Lock()
	r.entries = append(r.entries, batch...)
	r.batches = append(r.batches, batch)
	hook := r.OnDeliver
	r.mu.Unlock()
	if hook != nil {
		hook(batch)
	}
}

// Entries returns a copy of all recorded entries in delivery order.
func (r *Recorder) Entries() []core.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Entry(nil), r.entries...)
}

// Batches returns a copy of the recorded batches.
func (r *Recorder) Batches() [][]core.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]core.Entry(nil), r.batches...)
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.batches = nil
	r.mu.Unlock()
}

// Disposed reports whether Dispose was called.
func (r *Recorder) Disposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

// Dispose marks the recorder disposed.
func (r *Recorder) Dispose() error {
	r.mu.Lock()
	r.disposed = true
	r.mu.Unlock()
	return nil
}
