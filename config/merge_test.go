package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/philipp01105/sinklog/core"
)

// An older document that predates batching, dispatch and options decodes
// on top of the current defaults; merging it keeps the fields it lacks.
func TestMerge_OlderSchemaKeepsNewFields(t *testing.T) {
	old, err := Parse([]byte(`
destinations:
  RemoteConfiguration:
    minLevel: Info
    muted: false
    categoryOverrides:
      - {category: Net, minLevel: Debug}
`))
	assert.NoError(t, err)
	older := old.Destinations["RemoteConfiguration"]

	current := Default()
	current.Batch = BatchConfig{Enabled: true, UpdatePeriodMs: 500, MaxCountLogs: 20}
	current.ThreadDispatch = ThreadDispatchConfig{Enabled: true, SingleLogDispatchEnabled: true}
	current.Options = map[string]string{"host": "https://logs.example", "index": "app"}

	current.Merge(older)

	assert.Equal(t, core.InfoLevel, current.MinLevel)
	assert.Equal(t, []CategoryOverride{{Category: "Net", MinLevel: core.DebugLevel}}, current.CategoryOverrides)
	assert.Equal(t, BatchConfig{Enabled: true, UpdatePeriodMs: 500, MaxCountLogs: 20}, current.Batch)
	assert.True(t, current.ThreadDispatch.SingleLogDispatchEnabled)
	assert.Equal(t, "https://logs.example", current.Options["host"])
	assert.Len(t, current.StackTraces, core.LevelCount)
}

func TestMerge_OverlaysSetFields(t *testing.T) {
	current := Default()
	current.Options = map[string]string{"host": "a", "key": "secret"}
	current.CategoryOverrides = []CategoryOverride{{Category: "Keep", MinLevel: core.ErrorLevel}}

	newer := Default()
	newer.Muted = true
	newer.MinLevel = core.ErrorLevel
	newer.IsThreadSafe = true
	newer.Options = map[string]string{"host": "b", "key": ""}
	newer.DebugMode = DebugModeConfig{Enabled: true, MinLevel: core.DebugLevel, IDs: []string{"dev"}}
	newer.StackTraces = nil

	current.Merge(newer)

	assert.True(t, current.Muted)
	assert.Equal(t, core.ErrorLevel, current.MinLevel)
	assert.True(t, current.IsThreadSafe)
	assert.Equal(t, "b", current.Options["host"])
	assert.Equal(t, "secret", current.Options["key"], "blank option must not overwrite")
	assert.Equal(t, "Keep", current.CategoryOverrides[0].Category, "empty overrides keep current")
	assert.True(t, current.DebugMode.Enabled)
	assert.Equal(t, []string{"dev"}, current.DebugMode.IDs)
	assert.Len(t, current.StackTraces, core.LevelCount, "empty stack traces keep current")
}

func TestMerge_StackTracesReplacedWhenComplete(t *testing.T) {
	current := Default()
	newer := Default()
	newer.StackTraces[int(core.WarningLevel)].Enabled = true

	current.Merge(newer)
	assert.True(t, current.StackTraceEnabled(core.WarningLevel))
}

func TestMerge_PartialStackTraces(t *testing.T) {
	current := Default()
	newer := Default()
	newer.StackTraces = []StackTraceConfig{{Level: core.ErrorLevel}}

	current.Merge(newer)
	assert.Len(t, current.StackTraces, core.LevelCount)
	assert.False(t, current.StackTraceEnabled(core.ErrorLevel))
	assert.True(t, current.StackTraceEnabled(core.ExceptionLevel))
}
