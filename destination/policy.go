package destination

import (
	"fmt"
	"sync/atomic"

	"github.com/philipp01105/sinklog/core"
)

// OverflowPolicy defines what a bounded buffer does when it is full
type OverflowPolicy int

const (
	// DropOldest evicts the oldest buffered entry to make room
	DropOldest OverflowPolicy = iota
	// DropNewest discards the incoming entry
	DropNewest
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropOldest:
		return "DropOldest"
	case DropNewest:
		return "DropNewest"
	default:
		return "Unknown"
	}
}

// ParseOverflowPolicy maps a configuration value to a policy. Empty
// selects DropOldest.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "", "DropOldest":
		return DropOldest, nil
	case "DropNewest":
		return DropNewest, nil
	default:
		return DropOldest, fmt.Errorf("unknown overflow policy %q", s)
	}
}

// Stats tracks delivery statistics with atomic counters
type Stats struct {
	dropped   [core.LevelCount]atomic.Uint64
	processed atomic.Uint64
	batches   atomic.Uint64
	failures  atomic.Uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped atomically increments the dropped counter for a level
func (s *Stats) IncrementDropped(level core.Level) {
	if !level.Valid() {
		level = core.ExceptionLevel
	}
	s.dropped[level].Add(1)
}

// IncrementProcessed counts n delivered entries
func (s *Stats) IncrementProcessed(n int) {
	s.processed.Add(uint64(n))
}

// IncrementBatches counts one delivered batch
func (s *Stats) IncrementBatches() {
	s.batches.Add(1)
}

// IncrementFailures counts one failed delivery
func (s *Stats) IncrementFailures() {
	s.failures.Add(1)
}

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	if !level.Valid() {
		return 0
	}
	return s.dropped[level].Load()
}

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += s.dropped[i].Load()
	}
	return total
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	for i := range s.dropped {
		s.dropped[i].Store(0)
	}
	s.processed.Store(0)
	s.batches.Store(0)
	s.failures.Store(0)
}

// Snapshot is a point-in-time copy of Stats
type Snapshot struct {
	DroppedTotal   map[core.Level]uint64
	ProcessedTotal uint64
	BatchesTotal   uint64
	FailuresTotal  uint64
}

// TotalDropped sums dropped entries over all levels.
func (s Snapshot) TotalDropped() uint64 {
	var total uint64
	for _, n := range s.DroppedTotal {
		total += n
	}
	return total
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	dropped := make(map[core.Level]uint64, core.LevelCount)
	for i := range s.dropped {
		dropped[core.Level(i)] = s.dropped[i].Load()
	}
	return Snapshot{
		DroppedTotal:   dropped,
		ProcessedTotal: s.processed.Load(),
		BatchesTotal:   s.batches.Load(),
		FailuresTotal:  s.failures.Load(),
	}
}
