package source

import (
	"context"
	"io"
	"log"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/sinklog/core"
)

// SlogID identifies entries submitted by the slog handler.
const SlogID = "slog"

// Slog is a slog.Handler that submits records to a Consumer. Attributes
// are appended to the message as key=value pairs; an attribute holding an
// error becomes the entry's error.
type Slog struct {
	shared *slogShared
	attrs  []slog.Attr
	group  string
}

type slogShared struct {
	consumer Consumer
	level    core.Level
	disposed atomic.Bool

	mu        sync.Mutex
	installed bool
	prev      *slog.Logger
	prevOut   io.Writer
	prevFlags int
}

// NewSlog creates a handler that passes records at or above level.
func NewSlog(consumer Consumer, level core.Level) *Slog {
	return &Slog{shared: &slogShared{consumer: consumer, level: level}}
}

// ID returns SlogID.
func (s *Slog) ID() string { return SlogID }

// Install makes the handler the slog default. slog.SetDefault also routes
// the standard log package through it; Dispose restores both.
func (s *Slog) Install() {
	sh := s.shared
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.installed {
		return
	}
	sh.prev = slog.Default()
	sh.prevOut = log.Writer()
	sh.prevFlags = log.Flags()
	slog.SetDefault(slog.New(s))
	sh.installed = true
}

// Dispose stops submitting for this handler and every handler derived
// from it, and undoes Install.
func (s *Slog) Dispose() error {
	sh := s.shared
	sh.disposed.Store(true)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.installed {
		slog.SetDefault(sh.prev)
		log.SetOutput(sh.prevOut)
		log.SetFlags(sh.prevFlags)
		sh.installed = false
	}
	return nil
}

// Enabled reports whether the handler handles records at the given level.
func (s *Slog) Enabled(_ context.Context, level slog.Level) bool {
	return !s.shared.disposed.Load() && SlogLevel(level) >= s.shared.level
}

// Handle converts a record and submits it.
func (s *Slog) Handle(_ context.Context, record slog.Record) error {
	if s.shared.disposed.Load() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(record.Message)
	var err error
	add := func(group string, a slog.Attr) {
		if e, ok := a.Value.Resolve().Any().(error); ok && err == nil {
			err = e
			return
		}
		appendAttr(&sb, group, a)
	}
	// WithAttrs keys already carry their group.
	for _, a := range s.attrs {
		add("", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		add(s.group, a)
		return true
	})

	level := SlogLevel(record.Level)
	if err != nil && level == core.ErrorLevel {
		level = core.ExceptionLevel
	}
	s.shared.consumer.Submit(level, SlogID, sb.String(), err, "", nil)
	return nil
}

// WithAttrs returns a new handler with additional attributes.
func (s *Slog) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		if s.group != "" {
			a.Key = s.group + "." + a.Key
		}
		newAttrs = append(newAttrs, a)
	}
	return &Slog{shared: s.shared, attrs: newAttrs, group: s.group}
}

// WithGroup returns a new handler with the given group name.
func (s *Slog) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	newGroup := name
	if s.group != "" {
		newGroup = s.group + "." + name
	}
	return &Slog{shared: s.shared, attrs: s.attrs, group: newGroup}
}

// SlogLevel converts a slog.Level to a core.Level.
func SlogLevel(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarningLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}

// appendAttr writes " key=value", prefixing the group and flattening
// nested groups.
func appendAttr(sb *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	} else if key == "" {
		key = group
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			appendAttr(sb, key, ga)
		}
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(key)
	sb.WriteByte('=')
	sb.WriteString(core.FieldOf(key, a.Value.Any()).StringValue())
}
