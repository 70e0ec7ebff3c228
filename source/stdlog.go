package source

import (
	"bytes"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/sinklog/core"
)

// StdLogID identifies entries submitted through the standard logger.
const StdLogID = "stdlog"

// StdLog is an io.Writer for the standard log package. Every Write is one
// entry; the trailing newline is dropped.
type StdLog struct {
	consumer  Consumer
	level     core.Level
	disposed  atomic.Bool
	mu        sync.Mutex
	installed bool
	prevOut   io.Writer
	prevFlags int
}

// NewStdLog creates a writer submitting at level.
func NewStdLog(consumer Consumer, level core.Level) *StdLog {
	return &StdLog{consumer: consumer, level: level}
}

// ID returns StdLogID.
func (s *StdLog) ID() string { return StdLogID }

// Write submits p as one entry.
func (s *StdLog) Write(p []byte) (int, error) {
	if s.disposed.Load() {
		return len(p), nil
	}
	msg := string(bytes.TrimRight(p, "\r\n"))
	if msg != "" {
		s.consumer.Submit(s.level, StdLogID, msg, nil, "", nil)
	}
	return len(p), nil
}

// Install redirects the standard logger to s without its own timestamp.
// Dispose restores the previous output and flags.
func (s *StdLog) Install() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.installed {
		return
	}
	s.prevOut = log.Writer()
	s.prevFlags = log.Flags()
	log.SetOutput(s)
	log.SetFlags(0)
	s.installed = true
}

// Dispose stops submitting and restores the standard logger if Install
// was called.
func (s *StdLog) Dispose() error {
	s.disposed.Store(true)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.installed {
		log.SetOutput(s.prevOut)
		log.SetFlags(s.prevFlags)
		s.installed = false
	}
	return nil
}
