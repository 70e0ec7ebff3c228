package formatter

import (
	"bytes"
	"strings"

	"github.com/philipp01105/sinklog/core"
)

// TextFormatter formats log entries as human-readable text
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	return &TextFormatter{Config: cfg}
}

// Format formats an entry as text
func (f *TextFormatter) Format(entry *core.Entry, opts Options) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.FormatEntry(entry, opts, buf)

	// Copy buffer content to return
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// pre-formatted level strings to avoid multiple WriteString calls
var levelBrackets = [...]string{
	core.DebugLevel:     "[DEBUG] ",
	core.InfoLevel:      "[INFO] ",
	core.WarningLevel:   "[WARN] ",
	core.ErrorLevel:     "[ERROR] ",
	core.ExceptionLevel: "[EXCEPTION] ",
}

// FormatEntry writes the formatted entry into the given buffer
func (f *TextFormatter) FormatEntry(entry *core.Entry, opts Options, buf *bytes.Buffer) {
	if opts.ShowTimestamp {
		if ts := timestampOf(entry); ts != "" {
			buf.WriteString(ts)
			buf.WriteByte(' ')
		}
	}

	if entry.Level.Valid() {
		buf.WriteString(levelBrackets[entry.Level])
	} else {
		buf.WriteString("[UNKNOWN] ")
	}

	if entry.Category != "" {
		buf.WriteByte('<')
		buf.WriteString(entry.Category)
		buf.WriteString("> ")
	}

	buf.WriteString(entry.Message)

	if attrs := entry.Attrs; attrs != nil {
		for _, field := range attrs.Props {
			buf.WriteByte(' ')
			buf.WriteString(field.Key)
			buf.WriteByte('=')
			buf.WriteString(field.StringValue())
		}
		if f.IncludeTags && len(attrs.Tags) > 0 {
			buf.WriteString(" tags=[")
			buf.WriteString(strings.Join(attrs.Tags, ","))
			buf.WriteByte(']')
		}
	}
	buf.WriteByte('\n')

	if f.IncludeStackTrace && entry.Attrs != nil && entry.Attrs.StackTrace != "" {
		for _, line := range strings.Split(strings.TrimRight(entry.Attrs.StackTrace, "\n"), "\n") {
			buf.WriteString("    ")
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
}
