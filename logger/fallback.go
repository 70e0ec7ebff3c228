package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/destination/zapsink"
	"github.com/philipp01105/sinklog/internal/diag"
)

// Fallback writes straight to the diagnostics baseline sink. It is
// returned while no pipeline is running and never panics.
type Fallback struct {
	category string
}

// NewFallback creates a fallback logger for category.
func NewFallback(category string) *Fallback {
	return &Fallback{category: category}
}

// LogDebug logs a debug message
func (f *Fallback) LogDebug(message string, attrs *core.Attributes) {
	f.write(core.DebugLevel, message, attrs, nil)
}

// LogInfo logs an info message
func (f *Fallback) LogInfo(message string, attrs *core.Attributes) {
	f.write(core.InfoLevel, message, attrs, nil)
}

// LogWarning logs a warning message
func (f *Fallback) LogWarning(message string, attrs *core.Attributes) {
	f.write(core.WarningLevel, message, attrs, nil)
}

// LogError logs an error message
func (f *Fallback) LogError(message string, attrs *core.Attributes) {
	f.write(core.ErrorLevel, message, attrs, nil)
}

// LogException logs err at exception level
func (f *Fallback) LogException(err error, attrs *core.Attributes) {
	f.write(core.ExceptionLevel, "", attrs, err)
}

// LogFormat logs a message with formatting
func (f *Fallback) LogFormat(level core.Level, message string, attrs *core.Attributes, args ...interface{}) {
	f.write(level, FormatMessage(message, nil, args...), attrs, nil)
}

// Dispose does nothing.
func (f *Fallback) Dispose() {}

func (f *Fallback) write(level core.Level, message string, attrs *core.Attributes, err error) {
	defer func() {
		if r := recover(); r != nil {
			diag.Error("Fallback", fmt.Errorf("panic: %v", r), "fallback write failed")
		}
	}()
	ce := diag.Baseline().Check(zapsink.ZapLevel(level), FormatMessage(message, err))
	if ce == nil {
		return
	}
	entry := core.NewEntry(level, f.category, "", attrs, err)
	ce.Write(append(zapsink.Fields(&entry), zap.String("severity", level.String()), zap.Bool("fallback", true))...)
}
