package console

import (
	"io"
	"os"

	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/destination"
	"github.com/philipp01105/sinklog/formatter"
)

// Type is the destination type name; its configuration key is
// "ConsoleDestinationConfiguration".
const Type = "ConsoleDestination"

// Config holds configuration for the console destination
type Config struct {
	// Writer overrides Stream. Used by tests and embedders.
	Writer io.Writer
	// Stream is "stdout" (default) or "stderr"
	Stream string
	// Format is "text" (default) or "json"
	Format string
	// IncludeTags renders global tags
	IncludeTags bool
	// ConcurrentWriter indicates Writer supports concurrent Write calls
	ConcurrentWriter bool
}

// Destination writes formatted entries to the process console.
type Destination struct {
	*destination.Stream
}

// New creates a console destination. The stream and format are fixed at
// construction; configuration updates change filtering only.
func New(cfg Config) *Destination {
	w := cfg.Writer
	if w == nil {
		w = streamWriter(cfg.Stream)
	}
	f := formatter.ByName(cfg.Format, formatter.Config{
		IncludeStackTrace: true,
		IncludeTags:       cfg.IncludeTags,
	})
	return &Destination{Stream: destination.NewStream(Type, destination.StreamConfig{
		Writer:           w,
		Formatter:        f,
		ConcurrentWriter: cfg.ConcurrentWriter,
	})}
}

// FromConfiguration creates a console destination whose stream and format
// come from the "stream", "format" and "tags" options of c, and applies c.
func FromConfiguration(c config.Configuration) *Destination {
	d := New(Config{
		Stream:      c.Option("stream", "stdout"),
		Format:      c.Option("format", "text"),
		IncludeTags: c.BoolOption("tags", false),
	})
	d.ApplyConfiguration(c)
	return d
}

func streamWriter(name string) io.Writer {
	if name == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}
