package decorator

import (
	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/core"
	"github.com/philipp01105/sinklog/destination"
)

// Stage is one step of a decorator chain.
type Stage interface {
	// Name identifies the stage in diagnostics.
	Name() string
	// Applies reports whether the stage wraps a destination with cfg.
	Applies(cfg *config.Configuration) bool
	Wrap(d destination.Destination) destination.Destination
}

type stageFunc struct {
	name    string
	applies func(cfg *config.Configuration) bool
	wrap    func(d destination.Destination) destination.Destination
}

func (s stageFunc) Name() string { return s.name }
func (s stageFunc) Applies(cfg *config.Configuration) bool { return s.applies(cfg) }
func (s stageFunc) Wrap(d destination.Destination) destination.Destination { return s.wrap(d) }

// BatchingStage wraps destinations whose configuration enables batching.
func BatchingStage(clock *core.Clock) Stage {
	return stageFunc{
		name:    "batching",
		applies: func(cfg *config.Configuration) bool { return cfg.Batch.Enabled },
		wrap: func(d destination.Destination) destination.Destination {
			return NewBatching(d, clock)
		},
	}
}

// DispatchStage wraps destinations whose configuration enables either
// thread-dispatch path.
func DispatchStage(poster Poster) Stage {
	return stageFunc{
		name:    "dispatch",
		applies: func(cfg *config.Configuration) bool { return cfg.ThreadDispatch.Active() },
		wrap: func(d destination.Destination) destination.Destination {
			return NewDispatch(d, poster)
		},
	}
}

// Chain is an ordered list of stages. The first stage wraps the
// destination directly, the last one ends up outermost.
type Chain struct {
	stages []Stage
}

// NewChain creates a chain from stages, innermost first.
func NewChain(stages ...Stage) *Chain {
	return &Chain{stages: stages}
}

// Default is dispatch wrapped by batching: batches are assembled on the
// producer side and every flush reaches dispatch as one LogBatch, which
// marshals it as a single unit.
func Default(clock *core.Clock, poster Poster) *Chain {
	return NewChain(DispatchStage(poster), BatchingStage(clock))
}

// Then returns a chain with stage appended as the new outermost stage.
func (c *Chain) Then(stage Stage) *Chain {
	stages := make([]Stage, len(c.stages), len(c.stages)+1)
	copy(stages, c.stages)
	return &Chain{stages: append(stages, stage)}
}

// Pipeline is a destination with its decorators applied.
type Pipeline struct {
	// Destination is the outermost wrap; log calls go here.
	Destination destination.Destination
	// Origin is the undecorated destination.
	Origin destination.Destination
	// Stages lists the names of the applied stages, innermost first.
	Stages []string
	// Scheduled holds the stages that need periodic updates.
	Scheduled []destination.ScheduledUpdater
	// Flushers holds the stages that buffer entries.
	Flushers []destination.Flusher
}

// Build applies every stage whose Applies reports true for d's current
// configuration.
func (c *Chain) Build(d destination.Destination) Pipeline {
	p := Pipeline{Destination: d, Origin: d}
	for _, s := range c.stages {
		if !s.Applies(p.Destination.Configuration()) {
			continue
		}
		p.Destination = s.Wrap(p.Destination)
		p.Stages = append(p.Stages, s.Name())
		if u, ok := p.Destination.(destination.ScheduledUpdater); ok {
			p.Scheduled = append(p.Scheduled, u)
		}
		if f, ok := p.Destination.(destination.Flusher); ok {
			p.Flushers = append(p.Flushers, f)
		}
	}
	return p
}

// Flush flushes every buffering stage, innermost first.
func (p Pipeline) Flush() {
	for _, f := range p.Flushers {
		f.Flush()
	}
}
