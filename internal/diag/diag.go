// Package diag carries the pipeline's own diagnostics and the baseline
// sink used when no destination is available.
//
// Messages are tagged with a subsystem and written through zap. The
// default logger writes console-encoded lines to stderr at Warn level.
package diag

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(newDefault(zapcore.WarnLevel))
}

func newDefault(level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(zapcore.AddSync(os.Stderr)),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}

// SetLogger replaces the diagnostics logger. A nil logger silences
// diagnostics. The previous logger is returned.
func SetLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return current.Swap(l)
}

// Logger returns the current diagnostics logger.
func Logger() *zap.Logger {
	return current.Load()
}

// Baseline returns the logger used by fallback sinks. It always writes,
// independent of any destination configuration.
func Baseline() *zap.Logger {
	return current.Load()
}

// Debug logs a diagnostic debug line.
func Debug(subsystem, format string, args ...interface{}) {
	log(zapcore.DebugLevel, subsystem, nil, format, args...)
}

// Info logs a diagnostic info line.
func Info(subsystem, format string, args ...interface{}) {
	log(zapcore.InfoLevel, subsystem, nil, format, args...)
}

// Warn logs a diagnostic warning.
func Warn(subsystem, format string, args ...interface{}) {
	log(zapcore.WarnLevel, subsystem, nil, format, args...)
}

// Error logs a diagnostic error.
func Error(subsystem string, err error, format string, args ...interface{}) {
	log(zapcore.ErrorLevel, subsystem, err, format, args...)
}

func log(level zapcore.Level, subsystem string, err error, format string, args ...interface{}) {
	l := current.Load()
	ce := l.Check(level, fmt.Sprintf(format, args...))
	if ce == nil {
		return
	}
	fields := []zap.Field{zap.String("subsystem", subsystem)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	ce.Write(fields...)
}
