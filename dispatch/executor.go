package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/internal/diag"
)

// ExecutorConfig holds configuration for an Executor
type ExecutorConfig struct {
	// BufferSize is the capacity of the task queue (default: 4096)
	BufferSize int
	// DrainTimeout bounds how long queued tasks keep running after
	// Close or cancellation (default: 5s)
	DrainTimeout time.Duration
}

// ExecutorStats is a point-in-time copy of the executor counters
type ExecutorStats struct {
	Posted   uint64
	Executed uint64
	Rejected uint64
	Panics   uint64
}

// Executor runs posted closures one at a time, in FIFO order, on the
// goroutine that calls Run. That goroutine becomes the owner recorded in
// the affinity.
type Executor struct {
	queue        chan func()
	closed       chan struct{}
	closeOnce    sync.Once
	ready        chan struct{}
	done         chan struct{}
	started      atomic.Bool
	affinity     *core.Affinity
	drainTimeout time.Duration

	posted   atomic.Uint64
	executed atomic.Uint64
	rejected atomic.Uint64
	panics   atomic.Uint64
}

// NewExecutor creates an executor. A nil affinity gets a private one.
func NewExecutor(cfg ExecutorConfig, affinity *core.Affinity) *Executor {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 4096
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	if affinity == nil {
		affinity = &core.Affinity{}
	}
	return &Executor{
		queue:        make(chan func(), cfg.BufferSize),
		closed:       make(chan struct{}),
		ready:        make(chan struct{}),
		done:         make(chan struct{}),
		affinity:     affinity,
		drainTimeout: cfg.DrainTimeout,
	}
}

// Run binds the calling goroutine as owner and executes tasks until ctx
// is done or Close is called, then drains what is queued within the
// drain timeout. Run may only be called once.
func (e *Executor) Run(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return fmt.Errorf("executor already running")
	}
	e.run(ctx)
	return nil
}

// Start runs the executor on a new goroutine. It does nothing if the
// executor was already started.
func (e *Executor) Start(ctx context.Context) {
	if !e.started.CompareAndSwap(false, true) {
		return
	}
	go e.run(ctx)
}

func (e *Executor) run(ctx context.Context) {
	e.affinity.Bind()
	close(e.ready)
	defer func() {
		e.affinity.Release()
		close(e.done)
	}()

	for {
		select {
		case fn := <-e.queue:
			e.exec(fn)
		batchDrain:
			for {
				select {
				case fn := <-e.queue:
					e.exec(fn)
				default:
					break batchDrain
				}
			}
		case <-ctx.Done():
			e.drain()
			return
		case <-e.closed:
			e.drain()
			return
		}
	}
}

func (e *Executor) drain() {
	deadline := time.After(e.drainTimeout)
	for {
		select {
		case fn := <-e.queue:
			e.exec(fn)
		case <-deadline:
			if n := len(e.queue); n > 0 {
				diag.Warn("Executor", "drain timeout, %d tasks discarded", n)
			}
			return
		default:
			return
		}
	}
}

func (e *Executor) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.panics.Add(1)
			diag.Error("Executor", fmt.Errorf("panic: %v", r), "task panicked")
		}
	}()
	fn()
	e.executed.Add(1)
}

// Post queues fn without blocking. It returns false when the queue is
// full or the executor is closed.
func (e *Executor) Post(fn func()) bool {
	select {
	case <-e.closed:
		e.rejected.Add(1)
		return false
	default:
	}
	select {
	case e.queue <- fn:
		e.posted.Add(1)
		return true
	default:
		e.rejected.Add(1)
		return false
	}
}

// IsOwner reports whether the caller is the goroutine running the
// executor. Before Run binds an owner every caller counts as owner.
func (e *Executor) IsOwner() bool {
	return e.affinity.IsOwner()
}

// Affinity returns the owner record shared with the executor.
func (e *Executor) Affinity() *core.Affinity {
	return e.affinity
}

// Ready is closed once the running goroutine is bound as owner. From then
// on IsOwner is false for every other goroutine.
func (e *Executor) Ready() <-chan struct{} {
	return e.ready
}

// Done is closed when Run has returned.
func (e *Executor) Done() <-chan struct{} {
	return e.done
}

// Close stops accepting tasks and waits for Run to drain the queue. It is
// safe to call more than once and from within a task.
func (e *Executor) Close() error {
	e.closeOnce.Do(func() {
		close(e.closed)
	})
	if !e.started.Load() || e.affinity.IsOwner() && e.affinity.Bound() {
		return nil
	}
	<-e.done
	return nil
}

// Stats returns a snapshot of the executor counters
func (e *Executor) Stats() ExecutorStats {
	return ExecutorStats{
		Posted:   e.posted.Load(),
		Executed: e.executed.Load(),
		Rejected: e.rejected.Load(),
		Panics:   e.panics.Load(),
	}
}
