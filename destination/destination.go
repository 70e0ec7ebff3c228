package destination

import (
	"time"

	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/core"
)

// Destination is a log output together with its own filtering state.
// Decorators implement the same contract around another Destination.
//
// Log and LogBatch must not panic or return errors to the caller; a sink
// that fails is expected to swallow the failure and, if it keeps failing,
// mute itself.
type Destination interface {
	// Configuration returns the active configuration. It must not be modified.
	Configuration() *config.Configuration
	// ConfigurationName is the key the destination's configuration is
	// looked up by.
	ConfigurationName() string
	Mute(muted bool)
	IsLogLevelAllowed(level core.Level, category string) bool
	IsStackTraceEnabled(level core.Level, category string) bool
	Log(level core.Level, category, message string, attrs *core.Attributes, err error)
	LogBatch(entries []core.Entry)
	ApplyConfiguration(cfg config.Configuration)
	SetDebugMode(enabled bool)
	DebugModeEnabled() bool
	Dispose() error
}

// Tick is one scheduler step.
type Tick struct {
	// Now is the current UTC time.
	Now time.Time
	// Delta is the time elapsed since the previous tick.
	Delta time.Duration
}

// ScheduledUpdater is implemented by decorators that need periodic work.
type ScheduledUpdater interface {
	// UpdatePeriod is the requested tick period. Zero means no ticks.
	UpdatePeriod() time.Duration
	Update(tick Tick)
}

// Flusher is implemented by decorators that hold entries back.
type Flusher interface {
	Flush()
}

// ThreadSafe is implemented by destinations that synchronize internally.
// Such a destination may be called from any goroutine whatever its
// IsThreadSafe setting says.
type ThreadSafe interface {
	ThreadSafe() bool
}

// IsThreadSafe reports whether d may be called off the owning goroutine.
func IsThreadSafe(d Destination) bool {
	if d.Configuration().IsThreadSafe {
		return true
	}
	ts, ok := d.(ThreadSafe)
	return ok && ts.ThreadSafe()
}
