package destination

import (
	"sync/atomic"

	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/core"
)

// Base implements the configuration and admission part of Destination.
// Concrete sinks embed it and add Log, LogBatch and Dispose.
//
// The configuration is held behind an atomic pointer and replaced as a
// whole, so admission never observes a partially applied update.
type Base struct {
	name  string
	cfg   atomic.Pointer[config.Configuration]
	debug atomic.Bool
}

// Init names the Base after a destination type. The configuration name
// is derived with config.Name, and config.Default is active until one is
// applied.
func (b *Base) Init(destinationType string) {
	b.name = config.Name(destinationType)
	def := config.Default()
	b.cfg.Store(&def)
}

// Configuration returns the active configuration.
func (b *Base) Configuration() *config.Configuration {
	if c := b.cfg.Load(); c != nil {
		return c
	}
	return &unconfigured
}

var unconfigured = config.Fallback()

// ConfigurationName returns the configuration key.
func (b *Base) ConfigurationName() string {
	return b.name
}

// ApplyConfiguration replaces the active configuration.
func (b *Base) ApplyConfiguration(cfg config.Configuration) {
	c := cfg.Clone()
	b.cfg.Store(&c)
}

// Mute sets the muted flag by swapping in a modified copy.
func (b *Base) Mute(muted bool) {
	for {
		cur := b.cfg.Load()
		src := cur
		if src == nil {
			src = &unconfigured
		}
		next := src.Clone()
		next.Muted = muted
		if b.cfg.CompareAndSwap(cur, &next) {
			return
		}
	}
}

// SetDebugMode switches between the regular and the debug filtering
// profile.
func (b *Base) SetDebugMode(enabled bool) {
	b.debug.Store(enabled)
}

// DebugModeEnabled reports whether the debug profile is active.
func (b *Base) DebugModeEnabled() bool {
	return b.debug.Load()
}

// IsLogLevelAllowed decides admission. Mute wins over everything; in
// debug mode the debug profile replaces the regular one. Within a
// profile the first override matching category decides, otherwise the
// profile's minimum level.
func (b *Base) IsLogLevelAllowed(level core.Level, category string) bool {
	return IsAllowed(b.cfg.Load(), b.debug.Load(), level, category)
}

// IsStackTraceEnabled reports the per-level stack-trace switch.
func (b *Base) IsStackTraceEnabled(level core.Level, _ string) bool {
	return b.Configuration().StackTraceEnabled(level)
}

// IsAllowed is the admission algorithm shared by all destinations.
func IsAllowed(cfg *config.Configuration, debugMode bool, level core.Level, category string) bool {
	if cfg == nil || cfg.Muted {
		return false
	}
	if debugMode {
		return allowed(cfg.DebugMode.CategoryOverrides, cfg.DebugMode.MinLevel, level, category)
	}
	return allowed(cfg.CategoryOverrides, cfg.MinLevel, level, category)
}

func allowed(overrides []config.CategoryOverride, floor, level core.Level, category string) bool {
	for i := range overrides {
		if overrides[i].Category == category {
			return level >= overrides[i].MinLevel
		}
	}
	return level >= floor
}
