package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/decorator"
	"github.com/philipp01105/sinklog/destination"
	"github.com/philipp01105/sinklog/dispatch"
	"github.com/philipp01105/sinklog/internal/diag"
	"github.com/philipp01105/sinklog/logger"
	"github.com/philipp01105/sinklog/scheduler"
	"github.com/philipp01105/sinklog/source"
)

var (
	// ErrNoDestinations is returned by Initialize when no destination was
	// supplied.
	ErrNoDestinations = errors.New("no destinations supplied")
	// ErrDisposed is returned when the manager has been disposed.
	ErrDisposed = errors.New("manager disposed")
	// ErrNotRunning is returned by operations that need a running manager.
	ErrNotRunning = errors.New("manager not running")
	// ErrInitializing is returned while another Initialize is in progress.
	ErrInitializing = errors.New("manager is initializing")
)

const subsystem = "LogManager"

// Manager owns the destinations, their decorators, the executor and the
// scheduler, and hands out category loggers. A Manager is initialized
// once and disposed once.
type Manager struct {
	opts  options
	state atomic.Int32

	// Set during Initialize, read-only while Running.
	utils          *core.Utilities
	executor       *dispatch.Executor
	ownExecutor    bool
	sched          *scheduler.Scheduler
	pipelines      []decorator.Pipeline
	targets        []destination.Destination
	sources        []source.Source
	slogHandler    *source.Slog
	panics         *source.Panics
	installationID string
	defaultCat     string

	cancel      context.CancelFunc
	schedCancel context.CancelFunc
	group       *errgroup.Group
	groupCtx    context.Context

	mu       sync.Mutex
	settings config.Settings
	loggers  map[string]*logger.CategoryLogger
}

// New creates an uninitialized manager.
func New(opts ...Option) *Manager {
	m := &Manager{loggers: make(map[string]*logger.CategoryLogger)}
	for _, opt := range opts {
		opt(&m.opts)
	}
	return m
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Initialize loads the configuration from src, decorates dests and starts
// the background tasks. ctx is the cancellation signal of the scheduler.
// debugID selects the debug-mode profile of destinations listing it; an
// empty debugID uses the installation id.
//
// Calling Initialize on a running manager logs a warning and does
// nothing. On failure the manager is torn down and left Disposed.
func (m *Manager) Initialize(ctx context.Context, dests []destination.Destination, src config.Source, debugID string) error {
	if !m.state.CompareAndSwap(int32(Uninitialized), int32(Initializing)) {
		switch m.State() {
		case Running:
			diag.Warn(subsystem, "Initialize called on a running manager, ignoring")
			return nil
		case Initializing:
			return ErrInitializing
		default:
			return ErrDisposed
		}
	}

	if err := m.initialize(ctx, dests, src, debugID); err != nil {
		diag.Error(subsystem, err, "Initialization failed, tearing down")
		if terr := m.teardown(); terr != nil {
			diag.Error(subsystem, terr, "Teardown after failed initialization")
		}
		return err
	}

	m.state.Store(int32(Running))
	diag.Info(subsystem, "Running with %d destinations, installation %s", len(m.pipelines), m.installationID)
	return nil
}

func (m *Manager) initialize(ctx context.Context, dests []destination.Destination, src config.Source, debugID string) error {
	var live []destination.Destination
	for _, d := range dests {
		if d != nil {
			live = append(live, d)
		}
	}
	if len(live) == 0 {
		return ErrNoDestinations
	}
	if src == nil {
		src = config.Static(nil)
	}

	settings, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	m.settings = settings
	m.defaultCat = settings.DefaultCategory

	clock := core.NewClock(settings.MinTimestampPeriod(), m.opts.now)
	m.utils = core.NewUtilities(clock)
	if m.opts.executor != nil {
		m.executor = m.opts.executor
		m.utils.Affinity = m.executor.Affinity()
	} else {
		m.executor = dispatch.NewExecutor(m.opts.executorConfig, m.utils.Affinity)
		m.ownExecutor = true
	}

	m.installationID = m.opts.installationID
	if m.installationID == "" {
		m.installationID = uuid.NewString()
	}
	if debugID == "" {
		debugID = m.installationID
	}

	chain := decorator.Default(clock, m.executor)
	var updaters []destination.ScheduledUpdater
	for _, d := range live {
		name := d.ConfigurationName()
		if cfg, ok := settings.Destinations[name]; ok {
			d.ApplyConfiguration(cfg)
		} else {
			diag.Warn(subsystem, "No configuration %s found for %T, applying muted default", name, d)
			d.ApplyConfiguration(config.Fallback())
		}

		p := chain.Build(d)
		if len(p.Stages) > 0 {
			diag.Debug(subsystem, "%s decorated with %v", name, p.Stages)
		}
		m.pipelines = append(m.pipelines, p)
		m.targets = append(m.targets, p.Destination)
		updaters = append(updaters, p.Scheduled...)
	}
	m.setDebugMode(debugID, true)

	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel
	m.group, m.groupCtx = errgroup.WithContext(bg)
	if m.ownExecutor {
		exec := m.executor
		gctx := m.groupCtx
		m.group.Go(func() error { return exec.Run(gctx) })
		// loggers handed out after Initialize must see the owner bound
		select {
		case <-exec.Ready():
		case <-gctx.Done():
		}
	}

	m.sched = scheduler.New(updaters, settings.MinUpdatesPeriod(), clock, m.executor)
	if !m.sched.Empty() && !m.opts.manualTicks {
		schedCtx, schedCancel := context.WithCancel(ctx)
		m.schedCancel = schedCancel
		sched := m.sched
		m.group.Go(func() error { return sched.Run(schedCtx) })
	}

	m.registerSources(settings.Sources)
	return nil
}

func (m *Manager) registerSources(cfg config.SourcesConfig) {
	def := m.loggerFor(m.defaultCat)
	if cfg.Slog {
		m.slogHandler = source.NewSlog(def, core.DebugLevel)
		m.slogHandler.Install()
		m.sources = append(m.sources, m.slogHandler)
	}
	if cfg.StdLog {
		w := source.NewStdLog(def, core.InfoLevel)
		w.Install()
		m.sources = append(m.sources, w)
	}
	if cfg.Panics {
		m.panics = source.NewPanics(def)
		m.sources = append(m.sources, m.panics)
	}
}

// CreateLogger returns the cached logger for category. An empty category
// maps to the default category. While the manager is not running a
// fallback logger writing to the baseline sink is returned instead.
func (m *Manager) CreateLogger(category string) logger.Logger {
	if m.State() != Running {
		return logger.NewFallback(category)
	}
	if category == "" {
		category = m.defaultCat
	}
	return m.loggerFor(category)
}

// DefaultLogger returns the logger of the default category.
func (m *Manager) DefaultLogger() logger.Logger {
	return m.CreateLogger("")
}

func (m *Manager) loggerFor(category string) *logger.CategoryLogger {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.loggers[category]; ok {
		return l
	}
	l := logger.NewCategoryLogger(category, m.targets, m.utils)
	m.loggers[category] = l
	return l
}

// UpdateConfiguration applies configurations keyed by configuration name
// to the live destinations. Unknown names are ignored; invalid
// configurations are skipped and reported in the returned error.
//
// Decorators are chosen at Initialize: enabling batching or dispatch for
// a destination that was built without it takes effect on the next
// Initialize only.
func (m *Manager) UpdateConfiguration(cfgs map[string]config.Configuration) error {
	if m.State() != Running {
		return ErrNotRunning
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var errs error
	for _, p := range m.pipelines {
		name := p.Origin.ConfigurationName()
		cfg, ok := cfgs[name]
		if !ok {
			continue
		}
		if err := cfg.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if !hasStage(p, "batching") && cfg.Batch.Enabled {
			diag.Warn(subsystem, "%s: batching enabled at runtime, applies after re-initialization", name)
		}
		if !hasStage(p, "dispatch") && cfg.ThreadDispatch.Active() {
			diag.Warn(subsystem, "%s: thread dispatch enabled at runtime, applies after re-initialization", name)
		}
		p.Destination.ApplyConfiguration(cfg)
		m.settings.Destinations[name] = cfg.Clone()
	}
	return errs
}

func hasStage(p decorator.Pipeline, name string) bool {
	for _, s := range p.Stages {
		if s == name {
			return true
		}
	}
	return false
}

// GetCurrentConfiguration returns a copy of the active configuration of
// every destination, keyed by configuration name.
func (m *Manager) GetCurrentConfiguration() map[string]config.Configuration {
	out := make(map[string]config.Configuration, len(m.pipelines))
	if m.State() != Running {
		return out
	}
	for _, p := range m.pipelines {
		out[p.Origin.ConfigurationName()] = p.Destination.Configuration().Clone()
	}
	return out
}

// Settings returns a copy of the loaded settings including every
// configuration applied since.
func (m *Manager) Settings() config.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.settings
	out.Destinations = make(map[string]config.Configuration, len(m.settings.Destinations))
	for name, cfg := range m.settings.Destinations {
		out.Destinations[name] = cfg.Clone()
	}
	return out
}

// ConfigurationNames returns the configuration names of all destinations,
// sorted.
func (m *Manager) ConfigurationNames() []string {
	names := make([]string, 0, len(m.pipelines))
	for _, p := range m.pipelines {
		names = append(names, p.Origin.ConfigurationName())
	}
	sort.Strings(names)
	return names
}

// SetDebugMode switches the debug profile of every destination whose debug
// mode is enabled and lists id. It reports whether any destination
// changed.
func (m *Manager) SetDebugMode(id string, enabled bool) bool {
	if m.State() != Running {
		return false
	}
	return m.setDebugMode(id, enabled)
}

func (m *Manager) setDebugMode(id string, enabled bool) bool {
	if id == "" {
		diag.Warn(subsystem, "SetDebugMode called with an empty id")
		return false
	}
	changed := false
	for _, d := range m.targets {
		dm := d.Configuration().DebugMode
		if !dm.Enabled || !dm.HasID(id) || d.DebugModeEnabled() == enabled {
			continue
		}
		d.SetDebugMode(enabled)
		changed = true
	}
	return changed
}

// AddGlobalTag adds a tag attached to every entry. It returns false if
// the tag was present or the manager is not running.
func (m *Manager) AddGlobalTag(tag string) bool {
	if m.State() != Running {
		return false
	}
	return m.utils.Tags.AddTag(tag)
}

// RemoveGlobalTag removes a global tag. It returns false if the tag was
// absent or the manager is not running.
func (m *Manager) RemoveGlobalTag(tag string) bool {
	if m.State() != Running {
		return false
	}
	return m.utils.Tags.RemoveTag(tag)
}

// Watch reloads the configuration file at path whenever it changes and
// applies its destination configurations, until ctx is done or the
// manager is disposed.
func (m *Manager) Watch(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.State() != Running {
		return ErrNotRunning
	}

	w := config.NewWatcher(config.File(path), m.opts.debounce, func(s config.Settings) {
		if err := m.UpdateConfiguration(s.Destinations); err != nil && !errors.Is(err, ErrNotRunning) {
			diag.Warn(subsystem, "Configuration reload from %s partially applied: %v", path, err)
		}
	})
	wctx, cancel := context.WithCancel(m.groupCtx)
	stop := context.AfterFunc(ctx, cancel)
	m.group.Go(func() error {
		defer stop()
		defer cancel()
		if err := w.Run(wctx); err != nil {
			diag.Error(subsystem, err, "Watching %s stopped", path)
		}
		return nil
	})
	return nil
}

// Tick runs one scheduler step on the calling goroutine. Hosts using
// WithManualTicks call it from their own loop.
func (m *Manager) Tick() {
	if m.State() != Running {
		return
	}
	m.sched.Tick()
}

// InstallationID returns the id generated (or supplied) at Initialize.
func (m *Manager) InstallationID() string {
	if m.State() != Running {
		return ""
	}
	return m.installationID
}

// Utilities returns the shared clock, affinity and tag registry, or nil
// while the manager is not running.
func (m *Manager) Utilities() *core.Utilities {
	if m.State() != Running {
		return nil
	}
	return m.utils
}

// Panics returns the panic source, or nil when it is disabled. A nil
// *source.Panics still recovers:
//
//	defer m.Panics().Recover()
func (m *Manager) Panics() *source.Panics {
	if m.State() != Running {
		return nil
	}
	return m.panics
}

// SlogHandler returns the installed slog handler, or nil when the slog
// source is disabled.
func (m *Manager) SlogHandler() *source.Slog {
	if m.State() != Running {
		return nil
	}
	return m.slogHandler
}

// ExecutorStats returns the counters of the dispatch executor.
func (m *Manager) ExecutorStats() dispatch.ExecutorStats {
	if m.executor == nil || m.State() == Uninitialized {
		return dispatch.ExecutorStats{}
	}
	return m.executor.Stats()
}

// Dispose stops the scheduler, disposes the sources, the loggers and
// finally every destination. Buffered entries are flushed on the way.
// It is safe to call more than once.
func (m *Manager) Dispose() error {
	for {
		switch m.State() {
		case Running:
			if m.state.CompareAndSwap(int32(Running), int32(Disposing)) {
				return m.teardown()
			}
		case Uninitialized:
			if m.state.CompareAndSwap(int32(Uninitialized), int32(Disposed)) {
				return nil
			}
		case Initializing:
			return ErrInitializing
		default:
			return nil
		}
	}
}

func (m *Manager) teardown() error {
	m.state.Store(int32(Disposing))
	// Watch registers under mu; taking it here orders every Group.Go
	// before Group.Wait.
	m.mu.Lock()
	m.mu.Unlock()

	if m.schedCancel != nil {
		m.schedCancel()
	}

	var errs error
	for i := len(m.sources) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, m.sources[i].Dispose())
	}

	m.mu.Lock()
	for _, l := range m.loggers {
		l.Dispose()
	}
	m.mu.Unlock()

	// flushed batches may be posted; the executor still runs them
	for _, p := range m.pipelines {
		p.Flush()
	}

	if m.cancel != nil {
		m.cancel()
		errs = multierr.Append(errs, m.group.Wait())
	}
	if m.executor != nil {
		errs = multierr.Append(errs, m.executor.Close())
	}

	for _, p := range m.pipelines {
		if err := p.Destination.Dispose(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("disposing %s: %w", p.Origin.ConfigurationName(), err))
		}
	}

	m.state.Store(int32(Disposed))
	diag.Debug(subsystem, "Disposed")
	return errs
}
