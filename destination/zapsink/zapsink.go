package zapsink

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/destination"
)

// Type is the destination type name; its configuration key is
// "ZapDestinationConfiguration".
const Type = "ZapDestination"

// ErrNoOutput is returned when neither a logger nor a file path is given.
var ErrNoOutput = errors.New("zap destination: logger or file path is required")

// Config holds configuration for the zap destination
type Config struct {
	// Logger receives the entries. When nil a JSON logger writing to
	// FilePath is built.
	Logger *zap.Logger
	// FilePath of a lumberjack-rotated output file
	FilePath string
	// MaxSizeMB is the rotation size (default: 100)
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep
	MaxBackups int
	// MaxAgeDays removes rotated files older than this
	MaxAgeDays int
	// Compress gzips rotated files
	Compress bool
}

// Destination forwards entries to a zap logger. Level filtering is done
// by the destination's configuration; the zap core accepts every level.
type Destination struct {
	destination.Base
	log    *zap.Logger
	out    *lumberjack.Logger
	stats  *destination.Stats
	closed atomic.Bool
}

// ThreadSafe is true, zap loggers are safe for concurrent use.
func (d *Destination) ThreadSafe() bool { return true }

// New creates a zap destination.
func New(cfg Config) (*Destination, error) {
	d := &Destination{stats: destination.NewStats()}
	d.Init(Type)

	switch {
	case cfg.Logger != nil:
		d.log = cfg.Logger
	case cfg.FilePath != "":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, err
		}
		if cfg.MaxSizeMB <= 0 {
			cfg.MaxSizeMB = 100
		}
		d.out = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		zc := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(d.out), zap.NewAtomicLevelAt(zapcore.DebugLevel))
		d.log = zap.New(zc)
	default:
		return nil, ErrNoOutput
	}
	return d, nil
}

// FromConfiguration creates a file-backed zap destination from the
// options of c ("path", "maxSizeMB", "maxBackups", "maxAgeDays",
// "compress") and applies c.
func FromConfiguration(c config.Configuration) (*Destination, error) {
	d, err := New(Config{
		FilePath:   c.Option("path", ""),
		MaxSizeMB:  c.IntOption("maxSizeMB", 100),
		MaxBackups: c.IntOption("maxBackups", 0),
		MaxAgeDays: c.IntOption("maxAgeDays", 0),
		Compress:   c.BoolOption("compress", false),
	})
	if err != nil {
		return nil, err
	}
	d.ApplyConfiguration(c)
	return d, nil
}

// ZapLevel maps a pipeline level to a zap level. Exception maps to Error.
func ZapLevel(level core.Level) zapcore.Level {
	switch level {
	case core.DebugLevel:
		return zapcore.DebugLevel
	case core.InfoLevel:
		return zapcore.InfoLevel
	case core.WarningLevel:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Fields converts an entry into zap fields.
func Fields(entry *core.Entry) []zap.Field {
	attrs := entry.Attrs
	n := 1
	if attrs != nil {
		n += len(attrs.Props) + 3
	}
	fields := make([]zap.Field, 0, n)
	if entry.Category != "" {
		fields = append(fields, zap.String("category", entry.Category))
	}
	if entry.Err != nil {
		fields = append(fields, zap.Error(entry.Err))
	}
	if attrs == nil {
		return fields
	}
	for _, p := range attrs.Props {
		fields = append(fields, zapField(p))
	}
	if len(attrs.Tags) > 0 {
		fields = append(fields, zap.Strings("tags", attrs.Tags))
	}
	if attrs.StackTrace != "" {
		fields = append(fields, zap.String("stacktrace", attrs.StackTrace))
	}
	return fields
}

func zapField(f core.Field) zap.Field {
	switch f.Type {
	case core.StringType, core.ErrorType:
		return zap.String(f.Key, f.Str)
	case core.Int64Type:
		return zap.Int64(f.Key, f.Int64)
	case core.Float64Type:
		return zap.Float64(f.Key, f.Float64)
	case core.BoolType:
		return zap.Bool(f.Key, f.Int64 == 1)
	default:
		return zap.Any(f.Key, f.Value())
	}
}

// Log forwards one entry.
func (d *Destination) Log(level core.Level, category, message string, attrs *core.Attributes, err error) {
	entry := core.NewEntry(level, category, message, attrs, err)
	d.write(&entry)
}

// LogBatch forwards entries in order.
func (d *Destination) LogBatch(entries []core.Entry) {
	if len(entries) == 0 {
		return
	}
	for i := range entries {
		d.write(&entries[i])
	}
	d.stats.IncrementBatches()
}

func (d *Destination) write(entry *core.Entry) {
	if d.closed.Load() {
		return
	}
	if ce := d.log.Check(ZapLevel(entry.Level), entry.Message); ce != nil {
		ce.Write(Fields(entry)...)
		d.stats.IncrementProcessed(1)
	}
}

// Stats returns a snapshot of the delivery statistics.
func (d *Destination) Stats() destination.Snapshot {
	return d.stats.GetSnapshot()
}

// Dispose syncs the logger and closes the owned file, if any. Sync errors
// are only reported for owned files; syncing a terminal commonly fails.
func (d *Destination) Dispose() error {
	if d.closed.Swap(true) {
		return nil
	}
	syncErr := d.log.Sync()
	if d.out == nil {
		return nil
	}
	return multierr.Append(syncErr, d.out.Close())
}
