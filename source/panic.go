package source

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/philipp01105/sinklog/core"
)

// PanicsID identifies entries submitted for recovered panics and
// unobserved goroutine errors.
const PanicsID = "panics"

// Panics reports recovered panics and errors returned by goroutines
// nobody waits on, at exception level.
type Panics struct {
	consumer Consumer
	disposed atomic.Bool
	// Repanic re-raises a recovered panic after reporting it.
	Repanic bool
}

// NewPanics creates a panic source.
func NewPanics(consumer Consumer) *Panics {
	return &Panics{consumer: consumer}
}

// ID returns PanicsID.
func (p *Panics) ID() string { return PanicsID }

// Recover must be deferred directly:
//
//	defer panics.Recover()
//
// A nil *Panics still recovers but reports nothing.
func (p *Panics) Recover() {
	r := recover()
	if r == nil {
		return
	}
	p.report(panicError(r), string(debug.Stack()))
	if p != nil && p.Repanic {
		panic(r)
	}
}

// Go runs fn on a new goroutine. A returned error or a panic is reported.
func (p *Panics) Go(fn func() error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.report(panicError(r), string(debug.Stack()))
			}
		}()
		if err := fn(); err != nil {
			p.report(err, "")
		}
	}()
}

func (p *Panics) report(err error, stack string) {
	if p == nil || p.disposed.Load() {
		return
	}
	p.consumer.Submit(core.ExceptionLevel, PanicsID, "", err, stack, nil)
}

func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}

// Dispose stops reporting. Recover keeps recovering.
func (p *Panics) Dispose() error {
	p.disposed.Store(true)
	return nil
}
