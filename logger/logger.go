package logger

import (
	"sync"
	"sync/atomic"

	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/destination"
	"github.com/philipp01105/sinklog/internal/diag"
)

// Logger is the logging API handed to application code. Implementations
// never panic and never return errors.
type Logger interface {
	LogDebug(message string, attrs *core.Attributes)
	LogInfo(message string, attrs *core.Attributes)
	LogWarning(message string, attrs *core.Attributes)
	LogError(message string, attrs *core.Attributes)
	LogException(err error, attrs *core.Attributes)
	// LogFormat formats message with args (fmt verbs) when args are given.
	LogFormat(level core.Level, message string, attrs *core.Attributes, args ...interface{})
	Dispose()
}

// CategoryLogger fans one call out to every destination that admits it.
// The message is formatted and the attributes are enriched at most once
// per call, on the first admitting destination.
type CategoryLogger struct {
	category string
	targets  []destination.Destination
	utils    *core.Utilities
	disposed atomic.Bool
	// warned holds the names of destinations already reported as skipped
	warned sync.Map
}

// NewCategoryLogger creates a logger for category over targets. Nil
// targets are skipped at log time.
func NewCategoryLogger(category string, targets []destination.Destination, utils *core.Utilities) *CategoryLogger {
	if utils == nil {
		utils = core.NewUtilities(nil)
	}
	return &CategoryLogger{
		category: category,
		targets:  targets,
		utils:    utils,
	}
}

// Category returns the logger's category.
func (l *CategoryLogger) Category() string {
	return l.category
}

// LogDebug logs a debug message
func (l *CategoryLogger) LogDebug(message string, attrs *core.Attributes) {
	l.send(core.DebugLevel, message, nil, "", nil, attrs, nil)
}

// LogInfo logs an info message
func (l *CategoryLogger) LogInfo(message string, attrs *core.Attributes) {
	l.send(core.InfoLevel, message, nil, "", nil, attrs, nil)
}

// LogWarning logs a warning message
func (l *CategoryLogger) LogWarning(message string, attrs *core.Attributes) {
	l.send(core.WarningLevel, message, nil, "", nil, attrs, nil)
}

// LogError logs an error message
func (l *CategoryLogger) LogError(message string, attrs *core.Attributes) {
	l.send(core.ErrorLevel, message, nil, "", nil, attrs, nil)
}

// LogException logs err at exception level
func (l *CategoryLogger) LogException(err error, attrs *core.Attributes) {
	l.send(core.ExceptionLevel, "", err, "", nil, attrs, nil)
}

// LogFormat logs a message with formatting
func (l *CategoryLogger) LogFormat(level core.Level, message string, attrs *core.Attributes, args ...interface{}) {
	l.send(level, message, nil, "", nil, attrs, args)
}

// Submit is the entry point for log sources. A non-empty stackTrace is
// used as is instead of capturing one.
func (l *CategoryLogger) Submit(level core.Level, sourceID, message string, err error, stackTrace string, context interface{}, args ...interface{}) {
	diag.Debug("Source", "[%s] %s from %s", level, message, sourceID)
	l.send(level, message, err, stackTrace, context, nil, args)
}

func (l *CategoryLogger) send(level core.Level, message string, err error, stackTrace string, context interface{}, attrs *core.Attributes, args []interface{}) {
	if l.disposed.Load() {
		return
	}

	prepared := false
	ownerKnown, isOwner := false, false
	for _, d := range l.targets {
		if d == nil {
			continue
		}

		if !d.Configuration().ThreadDispatch.Enabled && !destination.IsThreadSafe(d) {
			if !ownerKnown {
				isOwner, ownerKnown = l.utils.IsOwner(), true
			}
			if !isOwner {
				l.warnSkipped(d.ConfigurationName())
				continue
			}
		}

		if !d.IsLogLevelAllowed(level, l.category) {
			continue
		}

		if !prepared {
			prepared = true
			message = FormatMessage(message, err, args...)
			if attrs == nil {
				attrs = &core.Attributes{}
			}
			if context != nil {
				attrs.Context = context
			}
			attrs.TimeUTC, attrs.Timestamp = l.utils.Clock.Timestamp()
			if stackTrace != "" {
				attrs.StackTrace = stackTrace
			}
			attrs.Tags = l.utils.Tags.GetAllTags()
		}

		if attrs.StackTrace == "" && d.IsStackTraceEnabled(level, l.category) {
			if err != nil {
				attrs.StackTrace = core.ErrorStackTrace(err, 2)
			} else {
				attrs.StackTrace = core.CaptureStackTrace(2)
			}
		}

		d.Log(level, l.category, message, attrs, err)
	}
}

func (l *CategoryLogger) warnSkipped(name string) {
	if _, seen := l.warned.LoadOrStore(name, struct{}{}); seen {
		return
	}
	diag.Warn("CategoryLogger", "%s is not thread safe, calls off the owning goroutine are skipped", name)
}

// Dispose detaches the logger from its destinations. Later calls are
// dropped.
func (l *CategoryLogger) Dispose() {
	l.disposed.Store(true)
}
