package file

import (
	"errors"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/destination"
	"github.com/philipp01105/sinklog/formatter"
)

// Type is the destination type name; its configuration key is
// "FileDestinationConfiguration".
const Type = "FileDestination"

// ErrNoPath is returned when no file path is configured.
var ErrNoPath = errors.New("file destination: path is required")

// Config holds configuration for the file destination
type Config struct {
	// Path of the active log file
	Path string
	// MaxSizeMB is the size at which the file is rotated (default: 100)
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep (0 keeps all)
	MaxBackups int
	// MaxAgeDays removes rotated files older than this (0 disables)
	MaxAgeDays int
	// Compress gzips rotated files
	Compress bool
	// Format is "json" (default) or "text"
	Format string
	// IncludeTags renders global tags
	IncludeTags bool
}

// Destination writes formatted entries to a size-rotated file.
type Destination struct {
	*destination.Stream
	out *lumberjack.Logger
}

// New creates a file destination. The file is opened on first write.
func New(cfg Config) (*Destination, error) {
	if cfg.Path == "" {
		return nil, ErrNoPath
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 100
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}

	out := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	f := formatter.ByName(cfg.Format, formatter.Config{
		IncludeStackTrace: true,
		IncludeTags:       cfg.IncludeTags,
	})
	return &Destination{
		Stream: destination.NewStream(Type, destination.StreamConfig{
			Writer:    out,
			Formatter: f,
			Closer:    out,
		}),
		out: out,
	}, nil
}

// FromConfiguration creates a file destination from the options of c
// ("path", "maxSizeMB", "maxBackups", "maxAgeDays", "compress", "format",
// "tags") and applies c.
func FromConfiguration(c config.Configuration) (*Destination, error) {
	d, err := New(Config{
		Path:        c.Option("path", ""),
		MaxSizeMB:   c.IntOption("maxSizeMB", 100),
		MaxBackups:  c.IntOption("maxBackups", 0),
		MaxAgeDays:  c.IntOption("maxAgeDays", 0),
		Compress:    c.BoolOption("compress", false),
		Format:      c.Option("format", "json"),
		IncludeTags: c.BoolOption("tags", false),
	})
	if err != nil {
		return nil, err
	}
	d.ApplyConfiguration(c)
	return d, nil
}

// Rotate closes the current file and starts a new one.
func (d *Destination) Rotate() error {
	return d.out.Rotate()
}

// Path returns the active file path.
func (d *Destination) Path() string {
	return d.out.Filename
}
