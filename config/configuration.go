package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/philipp01105/sinklog/core"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Defaults for batching.
const (
	DefaultBatchUpdatePeriodMs  = 1000
	DefaultBatchMaxCountLogs    = 100
	DefaultBatchMaxBufferedLogs = 10000
)

// CategoryOverride replaces the minimum level for one category.
type CategoryOverride struct {
	Category string     `yaml:"category"`
	MinLevel core.Level `yaml:"minLevel"`
}

// BatchConfig controls the batching decorator.
type BatchConfig struct {
	Enabled bool `yaml:"enabled"`
	// UpdatePeriodMs is how often buffered entries are flushed.
	UpdatePeriodMs uint32 `yaml:"updatePeriodMs"`
	// MaxCountLogs caps the size of one flushed batch.
	MaxCountLogs uint32 `yaml:"maxCountLogs"`
	// MaxBufferedLogs caps each importance buffer between flushes.
	MaxBufferedLogs uint32 `yaml:"maxBufferedLogs,omitempty"`
	// OverflowPolicy is "DropOldest" (default) or "DropNewest".
	OverflowPolicy string `yaml:"overflowPolicy,omitempty"`
}

// IsZero reports whether no batching field is set.
func (b BatchConfig) IsZero() bool {
	return b == BatchConfig{}
}

// DebugModeConfig is the alternate filtering profile activated per id.
type DebugModeConfig struct {
	Enabled           bool               `yaml:"enabled"`
	MinLevel          core.Level         `yaml:"minLevel"`
	IDs               []string           `yaml:"ids"`
	CategoryOverrides []CategoryOverride `yaml:"categoryOverrides"`
}

// HasID reports whether id is in the allow-list.
func (d DebugModeConfig) HasID(id string) bool {
	for _, v := range d.IDs {
		if v == id {
			return true
		}
	}
	return false
}

// ThreadDispatchConfig controls marshaling onto the owning goroutine.
type ThreadDispatchConfig struct {
	Enabled                  bool `yaml:"enabled"`
	SingleLogDispatchEnabled bool `yaml:"singleLogDispatchEnabled"`
	BatchLogsDispatchEnabled bool `yaml:"batchLogsDispatchEnabled"`
}

// Active reports whether any dispatch path is switched on.
func (t ThreadDispatchConfig) Active() bool {
	return t.Enabled && (t.SingleLogDispatchEnabled || t.BatchLogsDispatchEnabled)
}

// StackTraceConfig switches stack-trace capture for one level.
type StackTraceConfig struct {
	Level   core.Level `yaml:"level"`
	Enabled bool       `yaml:"enabled"`
}

// Configuration holds the settings of one destination. A value is never
// mutated once handed to a destination; updates replace it wholesale.
type Configuration struct {
	Muted             bool                 `yaml:"muted"`
	MinLevel          core.Level           `yaml:"minLevel"`
	CategoryOverrides []CategoryOverride   `yaml:"categoryOverrides"`
	Batch             BatchConfig          `yaml:"batch"`
	DebugMode         DebugModeConfig      `yaml:"debugMode"`
	ThreadDispatch    ThreadDispatchConfig `yaml:"threadDispatch"`
	IsThreadSafe      bool                 `yaml:"isThreadSafe"`
	ShowTimestamp     bool                 `yaml:"showTimestamp"`
	// StackTraces switches capture per level. Levels not listed keep their
	// default; decoding and Merge expand the list to one entry per level.
	StackTraces []StackTraceConfig `yaml:"stackTraces"`
	// Options carries destination-specific settings (file path, format, ...).
	Options map[string]string `yaml:"options,omitempty"`
}

// DefaultStackTraces enables capture for Error and Exception only.
func DefaultStackTraces() []StackTraceConfig {
	return []StackTraceConfig{
		{Level: core.DebugLevel},
		{Level: core.InfoLevel},
		{Level: core.WarningLevel},
		{Level: core.ErrorLevel, Enabled: true},
		{Level: core.ExceptionLevel, Enabled: true},
	}
}

// Default returns the configuration a destination starts from before a
// configuration asset is applied on top of it.
func Default() Configuration {
	return Configuration{
		MinLevel:    core.WarningLevel,
		DebugMode:   DebugModeConfig{MinLevel: core.WarningLevel},
		StackTraces: DefaultStackTraces(),
	}
}

// Fallback is applied to destinations that have no configuration: muted
// and restricted to exceptions.
func Fallback() Configuration {
	c := Default()
	c.Muted = true
	c.MinLevel = core.ExceptionLevel
	return c
}

// StackTraceEnabled reports the stack-trace switch for level. Entries are
// matched by level; a level missing from the list uses its default.
func (c *Configuration) StackTraceEnabled(level core.Level) bool {
	if !level.Valid() {
		return false
	}
	for _, st := range c.StackTraces {
		if st.Level == level {
			return st.Enabled
		}
	}
	return DefaultStackTraces()[level].Enabled
}

// MergeStackTraces overlays list onto base by level and returns one entry
// per level in level order. Entries with an invalid level are ignored.
func MergeStackTraces(base, list []StackTraceConfig) []StackTraceConfig {
	out := DefaultStackTraces()
	for _, st := range base {
		if st.Level.Valid() {
			out[st.Level].Enabled = st.Enabled
		}
	}
	for _, st := range list {
		if st.Level.Valid() {
			out[st.Level].Enabled = st.Enabled
		}
	}
	return out
}

// Option returns a destination-specific option or def when unset.
func (c *Configuration) Option(key, def string) string {
	if v, ok := c.Options[key]; ok && v != "" {
		return v
	}
	return def
}

// IntOption returns an integer option or def when unset or malformed.
func (c *Configuration) IntOption(key string, def int) int {
	v, err := strconv.Atoi(c.Option(key, ""))
	if err != nil {
		return def
	}
	return v
}

// BoolOption returns a boolean option or def when unset or malformed.
func (c *Configuration) BoolOption(key string, def bool) bool {
	v, err := strconv.ParseBool(c.Option(key, ""))
	if err != nil {
		return def
	}
	return v
}

// Clone returns a deep copy.
func (c Configuration) Clone() Configuration {
	out := c
	out.CategoryOverrides = append([]CategoryOverride(nil), c.CategoryOverrides...)
	out.DebugMode.IDs = append([]string(nil), c.DebugMode.IDs...)
	out.DebugMode.CategoryOverrides = append([]CategoryOverride(nil), c.DebugMode.CategoryOverrides...)
	out.StackTraces = append([]StackTraceConfig(nil), c.StackTraces...)
	if c.Options != nil {
		out.Options = make(map[string]string, len(c.Options))
		for k, v := range c.Options {
			out.Options[k] = v
		}
	}
	return out
}

// Validate checks value ranges.
func (c *Configuration) Validate() error {
	if !c.MinLevel.Valid() {
		return fmt.Errorf("%w: minLevel %d", ErrInvalid, c.MinLevel)
	}
	if !c.DebugMode.MinLevel.Valid() {
		return fmt.Errorf("%w: debugMode.minLevel %d", ErrInvalid, c.DebugMode.MinLevel)
	}
	for _, o := range c.CategoryOverrides {
		if o.Category == "" {
			return fmt.Errorf("%w: category override without category", ErrInvalid)
		}
	}
	if c.Batch.Enabled && c.Batch.MaxCountLogs == 0 {
		return fmt.Errorf("%w: batch.maxCountLogs must be positive when batching is enabled", ErrInvalid)
	}
	switch c.Batch.OverflowPolicy {
	case "", "DropOldest", "DropNewest":
	default:
		return fmt.Errorf("%w: batch.overflowPolicy %q", ErrInvalid, c.Batch.OverflowPolicy)
	}
	seen := make(map[core.Level]bool, len(c.StackTraces))
	for _, st := range c.StackTraces {
		if !st.Level.Valid() {
			return fmt.Errorf("%w: stackTraces level %d", ErrInvalid, st.Level)
		}
		if seen[st.Level] {
			return fmt.Errorf("%w: stackTraces lists %s twice", ErrInvalid, st.Level)
		}
		seen[st.Level] = true
	}
	return nil
}

// Name derives the configuration key of a destination type.
func Name(destinationType string) string {
	return destinationType + "Configuration"
}
