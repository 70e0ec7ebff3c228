package formatter

import (
	"bytes"
	"strconv"
	"time"

	"github.com/philipp01105/sinklog/core"
)

// JSONFormatter formats log entries as one JSON object per line
type JSONFormatter struct {
	Config
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(cfg Config) *JSONFormatter {
	return &JSONFormatter{Config: cfg}
}

// Format formats an entry as JSON
func (f *JSONFormatter) Format(entry *core.Entry, opts Options) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.FormatEntry(entry, opts, buf)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatEntry builds JSON manually into the buffer without allocations.
// The timestamp is always written; opts only affects text output.
func (f *JSONFormatter) FormatEntry(entry *core.Entry, _ Options, buf *bytes.Buffer) {
	buf.WriteByte('{')

	buf.WriteString(`"time":"`)
	appendJSONString(buf, timestampOf(entry))
	buf.WriteByte('"')

	buf.WriteString(`,"level":"`)
	buf.WriteString(entry.Level.String())
	buf.WriteByte('"')

	buf.WriteString(`,"category":"`)
	appendJSONString(buf, entry.Category)
	buf.WriteByte('"')

	buf.WriteString(`,"message":"`)
	appendJSONString(buf, entry.Message)
	buf.WriteByte('"')

	if entry.Err != nil {
		buf.WriteString(`,"error":"`)
		appendJSONString(buf, entry.Err.Error())
		buf.WriteByte('"')
	}

	if attrs := entry.Attrs; attrs != nil {
		buf.WriteString(`,"importance":"`)
		buf.WriteString(attrs.Importance.String())
		buf.WriteByte('"')

		if len(attrs.Props) > 0 {
			buf.WriteString(`,"props":{`)
			for i, field := range attrs.Props {
				if i > 0 {
					buf.WriteByte(',')
				}
				buf.WriteByte('"')
				appendJSONString(buf, field.Key)
				buf.WriteString(`":`)
				appendJSONFieldValue(buf, field)
			}
			buf.WriteByte('}')
		}

		if f.IncludeTags && len(attrs.Tags) > 0 {
			buf.WriteString(`,"tags":[`)
			for i, tag := range attrs.Tags {
				if i > 0 {
					buf.WriteByte(',')
				}
				buf.WriteByte('"')
				appendJSONString(buf, tag)
				buf.WriteByte('"')
			}
			buf.WriteByte(']')
		}

		if f.IncludeStackTrace && attrs.StackTrace != "" {
			buf.WriteString(`,"stackTrace":"`)
			appendJSONString(buf, attrs.StackTrace)
			buf.WriteByte('"')
		}
	}

	buf.WriteString("}\n")
}

// appendJSONString writes a JSON-escaped string (without surrounding quotes) to the buffer
func appendJSONString(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		// Flush unescaped prefix
		if start < i {
			buf.WriteString(s[start:i])
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexChars[c>>4])
			buf.WriteByte(hexChars[c&0x0f])
		}
		start = i + 1
	}
	// Flush remaining
	if start < len(s) {
		buf.WriteString(s[start:])
	}
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// appendJSONFieldValue writes a JSON-encoded field value to the buffer
func appendJSONFieldValue(buf *bytes.Buffer, field core.Field) {
	switch field.Type {
	case core.StringType:
		buf.WriteByte('"')
		appendJSONString(buf, field.Str)
		buf.WriteByte('"')
	case core.Int64Type:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.Float64Type:
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), field.Float64, 'f', -1, 64))
	case core.BoolType:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), field.Int64 == 1))
	case core.TimeType:
		buf.WriteByte('"')
		buf.Write(time.Unix(0, field.Int64).UTC().AppendFormat(buf.AvailableBuffer(), time.RFC3339Nano))
		buf.WriteByte('"')
	case core.DurationType:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.ErrorType:
		buf.WriteByte('"')
		appendJSONString(buf, field.Str)
		buf.WriteByte('"')
	default:
		buf.WriteByte('"')
		appendJSONString(buf, field.StringValue())
		buf.WriteByte('"')
	}
}
