package formatter

import (
	"bytes"
	"sync"

	"github.com/philipp01105/sinklog/core"
)

// Options are per-call rendering switches taken from the destination's
// active configuration.
type Options struct {
	// ShowTimestamp prefixes the entry's formatted timestamp
	ShowTimestamp bool
}

// Formatter defines the interface for log formatters
type Formatter interface {
	// Format formats a log entry into bytes
	Format(entry *core.Entry, opts Options) ([]byte, error)
}

// BufferFormatter is an optional interface that formatters can implement
// to format directly into a caller-provided buffer, avoiding internal
// buffer pool overhead.
type BufferFormatter interface {
	// FormatEntry formats a log entry into the given buffer.
	FormatEntry(entry *core.Entry, opts Options, buf *bytes.Buffer)
}

// Config holds common formatter configuration
type Config struct {
	// IncludeStackTrace appends the captured stack trace, if any
	IncludeStackTrace bool
	// IncludeTags renders the global tags attached to the entry
	IncludeTags bool
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// ByName returns the built-in formatter for "text" or "json". Unknown
// names fall back to text.
func ByName(name string, cfg Config) Formatter {
	if name == "json" {
		return NewJSONFormatter(cfg)
	}
	return NewTextFormatter(cfg)
}

func timestampOf(entry *core.Entry) string {
	if entry.Attrs == nil {
		return ""
	}
	if entry.Attrs.Timestamp != "" {
		return entry.Attrs.Timestamp
	}
	if !entry.Attrs.TimeUTC.IsZero() {
		return entry.Attrs.TimeUTC.Format(core.TimestampLayout)
	}
	return ""
}
