package destination

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/internal/diag"
)

// ThirdParty is an external logging client wrapped by Safe.
type ThirdParty interface {
	// Ready reports whether the client can accept entries yet. Entries
	// arriving earlier are skipped.
	Ready() bool
	// Init is called once, before the first Write.
	Init() error
	Write(entry core.Entry) error
	Close() error
}

const (
	safePending int32 = iota
	safeActive
	safeFailed
)

// Safe adapts a ThirdParty client to the Destination contract. The first
// error or panic from the client mutes the destination for good.
type Safe struct {
	Base
	party  ThirdParty
	state  atomic.Int32
	initMu sync.Mutex
	stats  *Stats
}

// NewSafe wraps party as a destination of the given type.
func NewSafe(destinationType string, party ThirdParty) *Safe {
	s := &Safe{party: party, stats: NewStats()}
	s.Init(destinationType)
	return s
}

// Log forwards one entry to the client.
func (s *Safe) Log(level core.Level, category, message string, attrs *core.Attributes, err error) {
	s.write(core.NewEntry(level, category, message, attrs, err))
}

// LogBatch forwards entries one by one.
func (s *Safe) LogBatch(entries []core.Entry) {
	for _, e := range entries {
		if s.state.Load() == safeFailed {
			return
		}
		s.write(e)
	}
}

func (s *Safe) write(entry core.Entry) {
	if s.state.Load() == safeFailed {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.fail(fmt.Errorf("panic: %v", r))
		}
	}()

	if !s.party.Ready() {
		return
	}
	if s.state.Load() == safePending {
		if err := s.initOnce(); err != nil {
			s.fail(err)
			return
		}
	}
	if err := s.party.Write(entry); err != nil {
		s.fail(err)
		return
	}
	s.stats.IncrementProcessed(1)
}

func (s *Safe) initOnce() error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.state.Load() != safePending {
		return nil
	}
	if err := s.party.Init(); err != nil {
		return err
	}
	s.state.Store(safeActive)
	return nil
}

func (s *Safe) fail(err error) {
	if s.state.Swap(safeFailed) == safeFailed {
		return
	}
	s.stats.IncrementFailures()
	s.Mute(true)
	diag.Error("SafeDestination", err, "%s failed and was muted", s.ConfigurationName())
}

// Failed reports whether the client has been disabled.
func (s *Safe) Failed() bool {
	return s.state.Load() == safeFailed
}

// Stats returns a snapshot of the delivery statistics.
func (s *Safe) Stats() Snapshot {
	return s.stats.GetSnapshot()
}

// Dispose closes the client and disables further writes.
func (s *Safe) Dispose() error {
	s.state.Store(safeFailed)
	return s.party.Close()
}
