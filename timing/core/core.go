// Package core provides the cycle-accurate CPU core model.
// It wraps the Tomasulo pipeline in an akita ticking component so that it can
// be driven by an akita simulation engine.
package core

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Stalls is the number of cycles fetch or issue could not proceed.
	Stalls uint64
	// BroadcastConflicts is the number of completed instructions that had to
	// wait for the broadcast bus.
	BroadcastConflicts uint64
}

// Core is a ticking component that advances its pipeline one cycle per tick.
type Core struct {
	*sim.TickingComponent

	engine   sim.Engine
	pipeline *pipeline.Pipeline
	err      error
}

// Builder can build cores.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	trace  insts.Trace
	opts   []pipeline.PipelineOption
}

// MakeBuilder returns a Builder with a 1 GHz clock.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine that drives the core.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithTrace sets the instruction trace the core executes.
func (b Builder) WithTrace(trace insts.Trace) Builder {
	b.trace = trace
	return b
}

// WithPipelineOptions sets options forwarded to the pipeline.
func (b Builder) WithPipelineOptions(opts ...pipeline.PipelineOption) Builder {
	b.opts = append([]pipeline.PipelineOption(nil), opts...)
	return b
}

// Build creates a core with the given name.
func (b Builder) Build(name string) (*Core, error) {
	if b.engine == nil {
		return nil, fmt.Errorf("core %s: engine is not set", name)
	}
	if b.trace == nil {
		return nil, fmt.Errorf("core %s: trace is not set", name)
	}

	opts := append([]pipeline.PipelineOption{pipeline.WithName(name)}, b.opts...)
	p, err := pipeline.NewPipeline(b.trace, opts...)
	if err != nil {
		return nil, fmt.Errorf("core %s: %w", name, err)
	}

	c := &Core{
		engine:   b.engine,
		pipeline: p,
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c, nil
}

// Pipeline returns the underlying pipeline.
func (c *Core) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Tick advances the pipeline by one cycle. It returns false once the
// pipeline has retired every instruction or stopped on an error.
func (c *Core) Tick() bool {
	if c.pipeline.Halted() {
		return false
	}

	c.pipeline.Tick()

	if err := c.pipeline.Err(); err != nil {
		c.err = err
		return false
	}

	return !c.pipeline.Done()
}

// Start schedules the first tick.
func (c *Core) Start() {
	if c.pipeline.Halted() {
		return
	}
	c.TickLater()
}

// Run starts the core, runs the engine until no events remain, and returns
// the final cycle counter of the pipeline.
func (c *Core) Run() (uint64, error) {
	c.Start()

	if err := c.engine.Run(); err != nil {
		return c.pipeline.Cycle(), fmt.Errorf("engine failed: %w", err)
	}

	return c.pipeline.Cycle(), c.err
}

// Halted returns true if the core has stopped.
func (c *Core) Halted() bool {
	return c.pipeline.Halted()
}

// Err returns the error that stopped the core, if any.
func (c *Core) Err() error {
	return c.err
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	s := c.pipeline.Stats()
	return Stats{
		Cycles:             s.Cycles,
		Instructions:       s.Instructions,
		Stalls:             s.QueueFullStalls + s.StationFullStalls,
		BroadcastConflicts: s.BroadcastConflicts,
	}
}

// Reset clears all core state. The engine is not reset.
func (c *Core) Reset() {
	c.pipeline.Reset()
	c.err = nil
}
