package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/sinklog/core"
)

func TestPropertyHelpers(t *testing.T) {
	at := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	tests := []struct {
		field core.Field
		typ   core.FieldType
		want  interface{}
	}{
		{String("k", "v"), core.StringType, "v"},
		{Int("k", 7), core.Int64Type, int64(7)},
		{Float64("k", 1.5), core.Float64Type, 1.5},
		{Bool("k", true), core.BoolType, true},
		{Bool("k", false), core.BoolType, false},
		{Time("k", at), core.TimeType, at},
		{Duration("k", time.Second), core.DurationType, time.Second},
		{Any("k", 3), core.Int64Type, int64(3)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.typ, tt.field.Type)
		assert.Equal(t, tt.want, tt.field.Value())
	}
}

func TestErr(t *testing.T) {
	assert.Equal(t, "disk full", Err(errors.New("disk full")).Value())
	nilErr := Err(nil)
	assert.Equal(t, "error", nilErr.Key)
	assert.Equal(t, "", nilErr.Value())
}

func TestImportanceShortcuts(t *testing.T) {
	a := Critical(String("bucket", "logs"))
	assert.Equal(t, core.Critical, a.Importance)
	require.Len(t, a.Props, 1)
	assert.Equal(t, "bucket", a.Props[0].Key)

	assert.Equal(t, core.Important, Important().Importance)
	assert.Equal(t, core.NiceToHave, Attrs(core.NiceToHave).Importance)
}
