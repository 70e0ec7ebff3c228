package logger

import "github.com/philipp01105/sinklog/core"

type subCategory struct {
	prefix string
	inner  Logger
}

// WithSubCategory returns a Logger that prefixes every message with sub
// and a space. Exceptions pass through unchanged.
func WithSubCategory(l Logger, sub string) Logger {
	return &subCategory{prefix: sub + " ", inner: l}
}

func (s *subCategory) LogDebug(message string, attrs *core.Attributes) {
	s.inner.LogDebug(s.prefix+message, attrs)
}

func (s *subCategory) LogInfo(message string, attrs *core.Attributes) {
	s.inner.LogInfo(s.prefix+message, attrs)
}

func (s *subCategory) LogWarning(message string, attrs *core.Attributes) {
	s.inner.LogWarning(s.prefix+message, attrs)
}

func (s *subCategory) LogError(message string, attrs *core.Attributes) {
	s.inner.LogError(s.prefix+message, attrs)
}

func (s *subCategory) LogException(err error, attrs *core.Attributes) {
	s.inner.LogException(err, attrs)
}

func (s *subCategory) LogFormat(level core.Level, message string, attrs *core.Attributes, args ...interface{}) {
	s.inner.LogFormat(level, s.prefix+message, attrs, args...)
}

func (s *subCategory) Dispose() {
	s.inner.Dispose()
}
