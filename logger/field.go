package logger

import (
	"time"

	"github.com/philipp01105/sinklog/core"
)

// Property helpers. They build the Props of an entry's attributes without
// going through interface{} boxing for the common value kinds:
//
//	l.LogInfo("saved", logger.Attrs(core.Important, logger.Int("bytes", n)))
//	l.LogError("upload failed", logger.Critical(logger.Err(err), logger.String("bucket", b)))

// Attrs returns attributes of the given importance holding props.
func Attrs(importance core.Importance, props ...core.Field) *core.Attributes {
	return core.NewAttributes(importance).With(props...)
}

// Important is Attrs(core.Important, props...). Important entries are
// batched in the regular buffer.
func Important(props ...core.Field) *core.Attributes {
	return Attrs(core.Important, props...)
}

// Critical is Attrs(core.Critical, props...). A Critical entry flushes the
// batch it lands in.
func Critical(props ...core.Field) *core.Attributes {
	return Attrs(core.Critical, props...)
}

func String(key, val string) core.Field {
	return core.Field{Key: key, Type: core.StringType, Str: val}
}

func Int(key string, val int) core.Field {
	return Int64(key, int64(val))
}

func Int64(key string, val int64) core.Field {
	return core.Field{Key: key, Type: core.Int64Type, Int64: val}
}

func Float64(key string, val float64) core.Field {
	return core.Field{Key: key, Type: core.Float64Type, Float64: val}
}

// Bool is stored as 0 or 1 in Int64.
func Bool(key string, val bool) core.Field {
	f := core.Field{Key: key, Type: core.BoolType}
	if val {
		f.Int64 = 1
	}
	return f
}

// Time keeps the instant as UTC nanoseconds; the zone is not preserved.
func Time(key string, val time.Time) core.Field {
	return core.Field{Key: key, Type: core.TimeType, Int64: val.UnixNano()}
}

func Duration(key string, val time.Duration) core.Field {
	return core.Field{Key: key, Type: core.DurationType, Int64: int64(val)}
}

// Err renders err under the "error" key. A nil error gives an empty value.
func Err(err error) core.Field {
	f := core.Field{Key: "error", Type: core.ErrorType}
	if err != nil {
		f.Str = err.Error()
	}
	return f
}

// Any picks the typed representation when val has one.
func Any(key string, val interface{}) core.Field {
	return core.FieldOf(key, val)
}
