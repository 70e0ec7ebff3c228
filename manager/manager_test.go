package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/destination"
	"github.com/philipp01105/sinklog/logger"
)

type fakeTime struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeTime() *fakeTime {
	return &fakeTime{now: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeTime) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type failingSource struct{ err error }

func (f failingSource) Load(context.Context) (config.Settings, error) {
	return config.Settings{}, f.err
}

func recorderConfig(minLevel core.Level) config.Configuration {
	cfg := config.Default()
	cfg.MinLevel = minLevel
	cfg.IsThreadSafe = true
	return cfg
}

func start(t *testing.T, cfg config.Configuration, opts ...Option) (*Manager, *destination.Recorder) {
	t.Helper()
	rec := destination.NewRecorder("Recorder")
	m := New(opts...)
	src := config.Static(map[string]config.Configuration{rec.ConfigurationName(): cfg})
	require.NoError(t, m.Initialize(context.Background(), []destination.Destination{rec}, src, ""))
	t.Cleanup(func() { _ = m.Dispose() })
	return m, rec
}

func TestInitialize_NoDestinations(t *testing.T) {
	m := New()
	err := m.Initialize(context.Background(), []destination.Destination{nil}, config.Static(nil), "")
	assert.ErrorIs(t, err, ErrNoDestinations)
	assert.Equal(t, Disposed, m.State())
}

func TestInitialize_SourceFailure(t *testing.T) {
	boom := errors.New("unreachable")
	m := New()
	err := m.Initialize(context.Background(), []destination.Destination{destination.NewRecorder("R")}, failingSource{boom}, "")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Disposed, m.State())
	assert.IsType(t, &logger.Fallback{}, m.CreateLogger("x"))
}

func TestInitialize_TwiceIsNoop(t *testing.T) {
	m, _ := start(t, recorderConfig(core.InfoLevel))
	id := m.InstallationID()

	err := m.Initialize(context.Background(), []destination.Destination{destination.NewRecorder("Other")}, config.Static(nil), "")
	require.NoError(t, err)
	assert.Equal(t, Running, m.State())
	assert.Equal(t, id, m.InstallationID())
	assert.Equal(t, []string{"RecorderConfiguration"}, m.ConfigurationNames())
}

func TestInitialize_AfterDispose(t *testing.T) {
	m, _ := start(t, recorderConfig(core.InfoLevel))
	require.NoError(t, m.Dispose())

	err := m.Initialize(context.Background(), []destination.Destination{destination.NewRecorder("R")}, config.Static(nil), "")
	assert.ErrorIs(t, err, ErrDisposed)
}

func TestInstallationID(t *testing.T) {
	m, _ := start(t, recorderConfig(core.InfoLevel))
	_, err := uuid.Parse(m.InstallationID())
	assert.NoError(t, err)

	m2, _ := start(t, recorderConfig(core.InfoLevel), WithInstallationID("install-7"))
	assert.Equal(t, "install-7", m2.InstallationID())
}

func TestCreateLogger(t *testing.T) {
	m := New()
	assert.IsType(t, &logger.Fallback{}, m.CreateLogger("Early"))

	m, _ = start(t, recorderConfig(core.InfoLevel))
	a := m.CreateLogger("Net")
	assert.Same(t, a, m.CreateLogger("Net"))
	assert.NotSame(t, a, m.CreateLogger("Audio"))

	def, ok := m.DefaultLogger().(*logger.CategoryLogger)
	require.True(t, ok)
	assert.Equal(t, config.DefaultCategory, def.Category())
}

func TestEndToEnd_LevelGate(t *testing.T) {
	m, rec := start(t, recorderConfig(core.WarningLevel))
	l := m.CreateLogger("Gameplay")

	l.LogDebug("x", nil)
	assert.Empty(t, rec.Entries())

	l.LogWarning("y", nil)
	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Gameplay", entries[0].Category)
	assert.Contains(t, entries[0].Message, "y")
}

func TestEndToEnd_Batching(t *testing.T) {
	ft := newFakeTime()
	cfg := recorderConfig(core.DebugLevel)
	cfg.Batch = config.BatchConfig{Enabled: true, UpdatePeriodMs: 1000, MaxCountLogs: 3}
	m, rec := start(t, cfg, WithNow(ft.Now), WithManualTicks())
	l := m.CreateLogger("Net")

	for i := 0; i < 5; i++ {
		l.LogInfo("packet", core.NewAttributes(core.Important))
	}
	assert.Empty(t, rec.Batches())

	ft.Advance(time.Second)
	m.Tick()
	batches := rec.Batches()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 3)

	ft.Advance(time.Second)
	m.Tick()
	batches = rec.Batches()
	require.Len(t, batches, 2)
	assert.Len(t, batches[1], 2)
}

func TestEndToEnd_CriticalFlushesImmediately(t *testing.T) {
	cfg := recorderConfig(core.DebugLevel)
	cfg.Batch = config.BatchConfig{Enabled: true, UpdatePeriodMs: 60000, MaxCountLogs: 10}
	m, rec := start(t, cfg, WithManualTicks())
	l := m.CreateLogger("Net")

	l.LogInfo("a", nil)
	l.LogInfo("b", core.NewAttributes(core.Important))
	l.LogError("c", core.NewAttributes(core.Critical))

	batches := rec.Batches()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 3)
	assert.Equal(t, "c", batches[0][2].Message)
}

func TestEndToEnd_Dispatch(t *testing.T) {
	cfg := recorderConfig(core.DebugLevel)
	cfg.IsThreadSafe = false
	cfg.ThreadDispatch = config.ThreadDispatchConfig{Enabled: true, SingleLogDispatchEnabled: true}
	m, rec := start(t, cfg)
	utils := m.Utilities()
	require.True(t, utils.Affinity.Bound(), "owner bound once Initialize returns")

	var onOwner atomic.Bool
	rec.OnDeliver = func([]core.Entry) { onOwner.Store(utils.IsOwner()) }

	m.CreateLogger("UI").LogInfo("clicked", nil)
	require.Eventually(t, func() bool { return len(rec.Entries()) == 1 }, time.Second, time.Millisecond)
	assert.True(t, onOwner.Load())
	assert.Eventually(t, func() bool { return m.ExecutorStats().Executed > 0 }, time.Second, time.Millisecond)
}

func TestEndToEnd_NotThreadSafeSkippedOffOwner(t *testing.T) {
	cfg := recorderConfig(core.DebugLevel)
	cfg.IsThreadSafe = false
	m, rec := start(t, cfg)

	m.CreateLogger("UI").LogError("lost", nil)
	assert.Empty(t, rec.Entries())
}

func TestEndToEnd_BatchDispatchFlushedOnDispose(t *testing.T) {
	cfg := recorderConfig(core.DebugLevel)
	cfg.IsThreadSafe = false
	cfg.Batch = config.BatchConfig{Enabled: true, UpdatePeriodMs: 60000, MaxCountLogs: 10}
	cfg.ThreadDispatch = config.ThreadDispatchConfig{Enabled: true, BatchLogsDispatchEnabled: true}
	m, rec := start(t, cfg, WithManualTicks())

	var offOwner atomic.Int32
	utils := m.Utilities()
	rec.OnDeliver = func([]core.Entry) {
		if !utils.IsOwner() {
			offOwner.Add(1)
		}
	}

	m.CreateLogger("UI").LogInfo("held", core.NewAttributes(core.Important))
	assert.Empty(t, rec.Entries())

	require.NoError(t, m.Dispose())
	entries := rec.Entries()
	require.Len(t, entries, 1, "flush posted before the executor stopped")
	assert.Equal(t, "held", entries[0].Message)
	assert.Zero(t, offOwner.Load())
	assert.Equal(t, uint64(1), m.ExecutorStats().Executed)
}

func TestMissingConfigurationGetsFallback(t *testing.T) {
	rec := destination.NewRecorder("Unconfigured")
	m := New()
	require.NoError(t, m.Initialize(context.Background(), []destination.Destination{rec}, config.Static(nil), ""))
	defer m.Dispose()

	cfg := m.GetCurrentConfiguration()["UnconfiguredConfiguration"]
	assert.True(t, cfg.Muted)
	assert.Equal(t, core.ExceptionLevel, cfg.MinLevel)

	m.CreateLogger("c").LogException(errors.New("e"), nil)
	assert.Empty(t, rec.Entries())
}

func TestUpdateConfiguration(t *testing.T) {
	m, rec := start(t, recorderConfig(core.ErrorLevel))
	l := m.CreateLogger("c")

	l.LogInfo("before", nil)
	require.NoError(t, m.UpdateConfiguration(map[string]config.Configuration{
		"RecorderConfiguration": recorderConfig(core.DebugLevel),
		"UnknownConfiguration":  recorderConfig(core.DebugLevel),
	}))
	l.LogInfo("after", nil)

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "after", entries[0].Message)
	assert.Equal(t, core.DebugLevel, m.GetCurrentConfiguration()["RecorderConfiguration"].MinLevel)
	assert.Equal(t, core.DebugLevel, m.Settings().Destinations["RecorderConfiguration"].MinLevel)
}

func TestUpdateConfiguration_Invalid(t *testing.T) {
	m, _ := start(t, recorderConfig(core.ErrorLevel))
	bad := recorderConfig(core.DebugLevel)
	bad.CategoryOverrides = []config.CategoryOverride{{MinLevel: core.InfoLevel}}

	err := m.UpdateConfiguration(map[string]config.Configuration{"RecorderConfiguration": bad})
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Equal(t, core.ErrorLevel, m.GetCurrentConfiguration()["RecorderConfiguration"].MinLevel)
}

func TestUpdateConfiguration_NotRunning(t *testing.T) {
	assert.ErrorIs(t, New().UpdateConfiguration(nil), ErrNotRunning)
}

func TestSetDebugMode(t *testing.T) {
	cfg := recorderConfig(core.ErrorLevel)
	cfg.DebugMode = config.DebugModeConfig{Enabled: true, MinLevel: core.DebugLevel, IDs: []string{"dev-1"}}
	rec := destination.NewRecorder("Recorder")
	m := New()
	src := config.Static(map[string]config.Configuration{"RecorderConfiguration": cfg})
	require.NoError(t, m.Initialize(context.Background(), []destination.Destination{rec}, src, "dev-1"))
	defer m.Dispose()
	l := m.CreateLogger("c")

	l.LogDebug("debugging", nil)
	require.Len(t, rec.Entries(), 1, "initialized in debug mode for dev-1")

	assert.True(t, m.SetDebugMode("dev-1", false))
	assert.False(t, m.SetDebugMode("dev-1", false), "no change")
	assert.False(t, m.SetDebugMode("dev-2", true), "id not listed")
	assert.False(t, m.SetDebugMode("", true))

	l.LogDebug("hidden", nil)
	assert.Len(t, rec.Entries(), 1)
}

func TestGlobalTags(t *testing.T) {
	m, rec := start(t, recorderConfig(core.InfoLevel))

	assert.True(t, m.AddGlobalTag("beta"))
	assert.False(t, m.AddGlobalTag("beta"))
	m.CreateLogger("c").LogInfo("tagged", nil)
	assert.True(t, m.RemoveGlobalTag("beta"))
	assert.False(t, m.RemoveGlobalTag("beta"))

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"beta"}, entries[0].Attrs.Tags)
}

func TestDispose(t *testing.T) {
	cfg := recorderConfig(core.DebugLevel)
	cfg.Batch = config.BatchConfig{Enabled: true, UpdatePeriodMs: 60000, MaxCountLogs: 10}
	m, rec := start(t, cfg, WithManualTicks())
	l := m.CreateLogger("c")
	l.LogInfo("buffered", nil)
	assert.Empty(t, rec.Entries())

	require.NoError(t, m.Dispose())
	assert.Equal(t, Disposed, m.State())
	assert.True(t, rec.Disposed())
	require.Len(t, rec.Entries(), 1, "flushed on dispose")

	l.LogInfo("after", nil)
	assert.Len(t, rec.Entries(), 1)
	assert.NoError(t, m.Dispose())
	assert.IsType(t, &logger.Fallback{}, m.CreateLogger("c"))
}

func TestDispose_Uninitialized(t *testing.T) {
	m := New()
	assert.NoError(t, m.Dispose())
	assert.Equal(t, Disposed, m.State())
}

func TestPanicsSource(t *testing.T) {
	m, rec := start(t, recorderConfig(core.DebugLevel))
	require.NotNil(t, m.Panics())

	func() {
		defer m.Panics().Recover()
		panic("exploded")
	}()

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, core.ExceptionLevel, entries[0].Level)
	assert.Equal(t, config.DefaultCategory, entries[0].Category)
	assert.Contains(t, entries[0].Message, "exploded")
	assert.NotEmpty(t, entries[0].Attrs.StackTrace)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sinklog.yaml")
	write := func(level string) {
		doc := "destinations:\n  RecorderConfiguration:\n    isThreadSafe: true\n    minLevel: " + level + "\n"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	}
	write("Error")

	rec := destination.NewRecorder("Recorder")
	m := New(WithWatchDebounce(10 * time.Millisecond))
	require.NoError(t, m.Initialize(context.Background(), []destination.Destination{rec}, config.File(path), ""))
	defer m.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, m.Watch(ctx, path))
	time.Sleep(50 * time.Millisecond)

	write("Debug")
	assert.Eventually(t, func() bool {
		return m.GetCurrentConfiguration()["RecorderConfiguration"].MinLevel == core.DebugLevel
	}, 2*time.Second, 10*time.Millisecond)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Running", Running.String())
	assert.Equal(t, "Unknown", State(42).String())
}
