package core

import (
	"fmt"
	"strings"
	"time"
)

const defaultPropsCapacity = 3

// Attributes is the per-call bag that travels with an entry. The fan-out
// enriches it once (timestamp, tags, stack trace, context); destinations
// must treat it as read-only.
type Attributes struct {
	Importance Importance
	// Props keeps insertion order; keys are not required to be unique.
	Props      []Field
	Tags       []string
	StackTrace string
	Timestamp  string
	TimeUTC    time.Time
	Context    interface{}
}

// NewAttributes creates attributes with the given importance.
func NewAttributes(importance Importance) *Attributes {
	return &Attributes{Importance: importance}
}

// Prop creates NiceToHave attributes holding a single property.
func Prop(key string, value interface{}) *Attributes {
	a := &Attributes{Props: make([]Field, 0, defaultPropsCapacity)}
	return a.Add(key, value)
}

// Add appends a property and returns the receiver for chaining.
func (a *Attributes) Add(key string, value interface{}) *Attributes {
	if a.Props == nil {
		a.Props = make([]Field, 0, defaultPropsCapacity)
	}
	a.Props = append(a.Props, FieldOf(key, value))
	return a
}

// With appends already-built fields.
func (a *Attributes) With(fields ...Field) *Attributes {
	a.Props = append(a.Props, fields...)
	return a
}

// WithContext sets the context reference and returns the receiver.
func (a *Attributes) WithContext(ctx interface{}) *Attributes {
	a.Context = ctx
	return a
}

// String renders the attributes as an indented multi-line block.
func (a *Attributes) String() string {
	if a == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(256)
	sb.WriteString("\n[Attributes]\n")
	sb.WriteString("  Importance: ")
	sb.WriteString(a.Importance.String())
	sb.WriteByte('\n')

	if len(a.Tags) > 0 {
		sb.WriteString("  Tags: ")
		sb.WriteString(strings.Join(a.Tags, ", "))
		sb.WriteByte('\n')
	}

	if len(a.Props) > 0 {
		sb.WriteString("  Props:\n")
		for _, p := range a.Props {
			sb.WriteString("    - ")
			sb.WriteString(p.Key)
			sb.WriteString(": ")
			sb.WriteString(p.StringValue())
			sb.WriteByte('\n')
		}
	}

	if a.StackTrace != "" {
		first, _, _ := strings.Cut(a.StackTrace, "\n")
		sb.WriteString("  StackTrace: (trimmed)\n")
		sb.WriteString(first)
		sb.WriteString(" ...\n")
	}

	if a.Context != nil {
		fmt.Fprintf(&sb, "  Context: %v (%T)\n", a.Context, a.Context)
	}
	return sb.String()
}

// FlatString renders Props as a single-line object. Strings are quoted
// but not escaped.
func (a *Attributes) FlatString() string {
	if a == nil || len(a.Props) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, p := range a.Props {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(p.Key)
		sb.WriteString(`":`)
		if p.IsQuoted() {
			sb.WriteByte('"')
			sb.WriteString(p.StringValue())
			sb.WriteByte('"')
		} else {
			sb.WriteString(p.StringValue())
		}
	}
	sb.WriteByte('}')
	return sb.String()
}
