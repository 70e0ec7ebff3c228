package manager

import (
	"time"

	"github.com/philipp01105/sinklog/dispatch"
)

// Option configures a Manager.
type Option func(*options)

type options struct {
	executor       *dispatch.Executor
	executorConfig dispatch.ExecutorConfig
	now            func() time.Time
	manualTicks    bool
	installationID string
	debounce       time.Duration
}

// WithExecutor uses an executor the host runs itself, typically on the
// goroutine that owns non-thread-safe destinations. The manager never
// starts it but closes it on Dispose. Its affinity becomes the one the
// category loggers check.
func WithExecutor(e *dispatch.Executor) Option {
	return func(o *options) { o.executor = e }
}

// WithExecutorConfig sizes the executor the manager starts itself.
func WithExecutorConfig(cfg dispatch.ExecutorConfig) Option {
	return func(o *options) { o.executorConfig = cfg }
}

// WithNow replaces the time source of the shared clock.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithManualTicks does not start the scheduler loop. The host calls
// Manager.Tick from its own loop instead.
func WithManualTicks() Option {
	return func(o *options) { o.manualTicks = true }
}

// WithInstallationID sets a persisted installation id instead of
// generating one.
func WithInstallationID(id string) Option {
	return func(o *options) { o.installationID = id }
}

// WithWatchDebounce sets the debounce of configuration file watching.
func WithWatchDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}
