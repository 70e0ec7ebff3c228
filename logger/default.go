package logger

import (
	"sync/atomic"

	"github.com/philipp01105/sinklog/core"
)

type holder struct {
	l Logger
}

var defaultLogger atomic.Pointer[holder]

func init() {
	defaultLogger.Store(&holder{l: NewFallback("Uncategorized")})
}

// Default returns the process default logger. Until SetDefault is called
// it is a Fallback logger.
func Default() Logger {
	return defaultLogger.Load().l
}

// SetDefault sets the default logger. A nil logger restores the fallback.
func SetDefault(l Logger) {
	if l == nil {
		l = NewFallback("Uncategorized")
	}
	defaultLogger.Store(&holder{l: l})
}

// Package-level convenience functions using the default logger

// Debug logs a debug message using the default logger
func Debug(msg string, fields ...core.Field) {
	Default().LogDebug(msg, attrsOf(fields))
}

// Info logs an info message using the default logger
func Info(msg string, fields ...core.Field) {
	Default().LogInfo(msg, attrsOf(fields))
}

// Warning logs a warning message using the default logger
func Warning(msg string, fields ...core.Field) {
	Default().LogWarning(msg, attrsOf(fields))
}

// Error logs an error message using the default logger
func Error(msg string, fields ...core.Field) {
	Default().LogError(msg, attrsOf(fields))
}

// Exception logs err using the default logger
func Exception(err error, fields ...core.Field) {
	Default().LogException(err, attrsOf(fields))
}

// Infof logs a formatted info message using the default logger
func Infof(format string, args ...interface{}) {
	Default().LogFormat(core.InfoLevel, format, nil, args...)
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...interface{}) {
	Default().LogFormat(core.ErrorLevel, format, nil, args...)
}

func attrsOf(fields []core.Field) *core.Attributes {
	if len(fields) == 0 {
		return nil
	}
	return Attrs(core.NiceToHave, fields...)
}
