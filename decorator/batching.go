package decorator

import (
	"sync"
	"time"

	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/destination"
	"github.com/philipp01105/sinklog/internal/diag"
)

type batchSettings struct {
	enabled     bool
	period      time.Duration
	maxCount    int
	maxBuffered int
	policy      destination.OverflowPolicy
}

func readBatchSettings(c *config.Configuration) batchSettings {
	b := c.Batch
	s := batchSettings{
		enabled:     b.Enabled,
		period:      time.Duration(b.UpdatePeriodMs) * time.Millisecond,
		maxCount:    int(b.MaxCountLogs),
		maxBuffered: int(b.MaxBufferedLogs),
	}
	if s.period <= 0 {
		s.period = config.DefaultBatchUpdatePeriodMs * time.Millisecond
	}
	if s.maxCount <= 0 {
		s.maxCount = config.DefaultBatchMaxCountLogs
	}
	if s.maxBuffered <= 0 {
		s.maxBuffered = config.DefaultBatchMaxBufferedLogs
	}
	policy, err := destination.ParseOverflowPolicy(b.OverflowPolicy)
	if err != nil {
		diag.Warn("Batching", "%v, using %s", err, policy)
	}
	s.policy = policy
	return s
}

// Batching holds entries back and delivers them to the wrapped destination
// in batches: when the update period has elapsed, or immediately together
// with a Critical entry.
//
// Important entries go to the regular buffer, NiceToHave entries to a
// second one; batches are filled from the regular buffer first. Both
// buffers are bounded by MaxBufferedLogs and preserve insertion order.
type Batching struct {
	Wrapper
	clock *core.Clock

	mu         sync.Mutex
	settings   batchSettings
	regular    *queue
	niceToHave *queue
	lastFlush  time.Time
	elapsed    time.Duration
	stats      *destination.Stats
}

// NewBatching wraps inner. The clock supplies the time used when an entry
// carries no UTC instant.
func NewBatching(inner destination.Destination, clock *core.Clock) *Batching {
	if clock == nil {
		clock = core.NewClock(0, nil)
	}
	s := readBatchSettings(inner.Configuration())
	return &Batching{
		Wrapper:    Wrapper{Destination: inner},
		clock:      clock,
		settings:   s,
		regular:    newQueue(s.maxBuffered),
		niceToHave: newQueue(s.maxBuffered),
		lastFlush:  clock.Now(),
		stats:      destination.NewStats(),
	}
}

// UpdatePeriod is the configured update period, or zero while batching is
// disabled.
func (b *Batching) UpdatePeriod() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.settings.enabled {
		return 0
	}
	return b.settings.period
}

// Log buffers the entry, or flushes it at once when it is Critical.
// Batches are taken out under the lock and delivered after releasing it.
func (b *Batching) Log(level core.Level, category, message string, attrs *core.Attributes, err error) {
	b.mu.Lock()
	if !b.settings.enabled {
		b.mu.Unlock()
		b.Destination.Log(level, category, message, attrs, err)
		return
	}

	entry := core.NewEntry(level, category, message, attrs, err)
	var batch []core.Entry
	switch entry.Importance() {
	case core.Critical:
		batch = make([]core.Entry, 0, b.settings.maxCount)
		batch = b.drainLocked(batch, b.settings.maxCount-1)
		batch = append(batch, entry)
		b.takenLocked(batch, b.now(entry))
	case core.Important:
		b.pushLocked(b.regular, entry)
		batch = b.updateLocked(b.now(entry), 0)
	default:
		b.pushLocked(b.niceToHave, entry)
		batch = b.updateLocked(b.now(entry), 0)
	}
	b.mu.Unlock()
	b.deliver(batch)
}

// LogBatch forwards a batch unchanged. Batches are already grouped.
func (b *Batching) LogBatch(entries []core.Entry) {
	if len(entries) == 0 {
		return
	}
	b.Destination.LogBatch(entries)
}

// Update runs the scheduled flush check.
func (b *Batching) Update(tick destination.Tick) {
	var batch []core.Entry
	b.mu.Lock()
	if b.settings.enabled {
		batch = b.updateLocked(tick.Now, tick.Delta)
	}
	b.mu.Unlock()
	b.deliver(batch)
}

// updateLocked takes up to maxCount entries when the period has elapsed,
// measured both by accumulated tick deltas and by wall clock.
func (b *Batching) updateLocked(now time.Time, delta time.Duration) []core.Entry {
	b.elapsed += delta
	if b.elapsed < b.settings.period && now.Sub(b.lastFlush) < b.settings.period {
		return nil
	}
	if b.regular.Len()+b.niceToHave.Len() == 0 {
		b.elapsed = 0
		b.lastFlush = now
		return nil
	}
	batch := b.drainLocked(make([]core.Entry, 0, b.settings.maxCount), b.settings.maxCount)
	b.takenLocked(batch, now)
	return batch
}

func (b *Batching) drainLocked(dst []core.Entry, n int) []core.Entry {
	before := len(dst)
	dst = b.regular.drainInto(dst, n)
	return b.niceToHave.drainInto(dst, n-(len(dst)-before))
}

// takenLocked resets the period and counts a batch about to be delivered.
func (b *Batching) takenLocked(batch []core.Entry, now time.Time) {
	b.elapsed = 0
	b.lastFlush = now
	if len(batch) == 0 {
		return
	}
	b.stats.IncrementBatches()
	b.stats.IncrementProcessed(len(batch))
}

// deliver must be called without holding mu.
func (b *Batching) deliver(batches ...[]core.Entry) {
	for _, batch := range batches {
		if len(batch) > 0 {
			b.Destination.LogBatch(batch)
		}
	}
}

func (b *Batching) pushLocked(q *queue, e core.Entry) {
	if dropped, ok := q.push(e, b.settings.policy == destination.DropOldest); ok {
		b.stats.IncrementDropped(dropped.Level)
	}
}

func (b *Batching) now(e core.Entry) time.Time {
	if e.Attrs != nil && !e.Attrs.TimeUTC.IsZero() {
		return e.Attrs.TimeUTC
	}
	return b.clock.Now()
}

// Flush delivers everything buffered, in batches of at most maxCount.
func (b *Batching) Flush() {
	b.mu.Lock()
	batches := b.takeAllLocked()
	b.mu.Unlock()
	b.deliver(batches...)
}

func (b *Batching) takeAllLocked() [][]core.Entry {
	now := b.clock.Now()
	var batches [][]core.Entry
	for b.regular.Len()+b.niceToHave.Len() > 0 {
		batch := b.drainLocked(make([]core.Entry, 0, b.settings.maxCount), b.settings.maxCount)
		b.takenLocked(batch, now)
		batches = append(batches, batch)
	}
	return batches
}

// Buffered returns the number of entries currently held back.
func (b *Batching) Buffered() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regular.Len() + b.niceToHave.Len()
}

// ApplyConfiguration forwards cfg, then re-reads the batch settings.
// Disabling batching flushes what is buffered.
func (b *Batching) ApplyConfiguration(cfg config.Configuration) {
	b.Destination.ApplyConfiguration(cfg)

	b.mu.Lock()
	b.settings = readBatchSettings(b.Destination.Configuration())
	for _, q := range []*queue{b.regular, b.niceToHave} {
		for _, e := range q.setLimit(b.settings.maxBuffered) {
			b.stats.IncrementDropped(e.Level)
		}
	}
	var batches [][]core.Entry
	if !b.settings.enabled {
		batches = b.takeAllLocked()
	}
	b.mu.Unlock()
	b.deliver(batches...)
}

// Stats returns a snapshot of batches, entries delivered and entries
// dropped on overflow.
func (b *Batching) Stats() destination.Snapshot {
	return b.stats.GetSnapshot()
}

// Dispose flushes what is buffered, best effort, and disposes the inner
// destination.
func (b *Batching) Dispose() error {
	b.Flush()
	return b.Destination.Dispose()
}
