package core

import (
	"fmt"
	"strconv"
	"time"
)

// FieldType represents the type of a field value
type FieldType uint8

const (
	StringType FieldType = iota
	Int64Type
	Float64Type
	BoolType
	TimeType
	DurationType
	ErrorType
	AnyType
)

// Field is one key/value property of an entry's attributes. Numeric kinds
// are stored inline so common values do not escape to the heap.
type Field struct {
	Key     string
	Type    FieldType
	Int64   int64
	Float64 float64
	Str     string
	Any     interface{}
}

// FieldOf builds a Field from an arbitrary value, picking the most
// specific FieldType for it.
func FieldOf(key string, value interface{}) Field {
	switch v := value.(type) {
	case string:
		return Field{Key: key, Type: StringType, Str: v}
	case int:
		return Field{Key: key, Type: Int64Type, Int64: int64(v)}
	case int32:
		return Field{Key: key, Type: Int64Type, Int64: int64(v)}
	case int64:
		return Field{Key: key, Type: Int64Type, Int64: v}
	case uint32:
		return Field{Key: key, Type: Int64Type, Int64: int64(v)}
	case float32:
		return Field{Key: key, Type: Float64Type, Float64: float64(v)}
	case float64:
		return Field{Key: key, Type: Float64Type, Float64: v}
	case bool:
		b := int64(0)
		if v {
			b = 1
		}
		return Field{Key: key, Type: BoolType, Int64: b}
	case time.Time:
		return Field{Key: key, Type: TimeType, Int64: v.UnixNano()}
	case time.Duration:
		return Field{Key: key, Type: DurationType, Int64: int64(v)}
	case error:
		return Field{Key: key, Type: ErrorType, Str: v.Error()}
	default:
		return Field{Key: key, Type: AnyType, Any: v}
	}
}

// Value returns the field value as a plain Go value.
func (f Field) Value() interface{} {
	switch f.Type {
	case StringType, ErrorType:
		return f.Str
	case Int64Type:
		return f.Int64
	case Float64Type:
		return f.Float64
	case BoolType:
		return f.Int64 == 1
	case TimeType:
		return time.Unix(0, f.Int64).UTC()
	case DurationType:
		return time.Duration(f.Int64)
	default:
		return f.Any
	}
}

// IsQuoted reports whether the value renders as a string literal.
func (f Field) IsQuoted() bool {
	switch f.Type {
	case StringType, ErrorType, TimeType, DurationType:
		return true
	case AnyType:
		_, ok := f.Any.(fmt.Stringer)
		return ok
	default:
		return false
	}
}

// StringValue returns the string representation of a field's value
func (f Field) StringValue() string {
	switch f.Type {
	case StringType, ErrorType:
		return f.Str
	case Int64Type:
		return strconv.FormatInt(f.Int64, 10)
	case Float64Type:
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case BoolType:
		return strconv.FormatBool(f.Int64 == 1)
	case TimeType:
		return time.Unix(0, f.Int64).UTC().Format(time.RFC3339Nano)
	case DurationType:
		return time.Duration(f.Int64).String()
	case AnyType:
		return fmt.Sprintf("%v", f.Any)
	default:
		return ""
	}
}
