package telemetry

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tomasim/timing/pipeline"
)

// StageCounter is a hook that counts stage transitions and tracks the peak
// occupancy of every pipeline structure.
type StageCounter struct {
	counts map[string]uint64
	peak   pipeline.Occupancy
}

// NewStageCounter creates an empty counter.
func NewStageCounter() *StageCounter {
	return &StageCounter{counts: make(map[string]uint64)}
}

// Func counts one transition.
func (c *StageCounter) Func(ctx sim.HookCtx) {
	c.counts[ctx.Pos.Name]++

	p, ok := ctx.Domain.(*pipeline.Pipeline)
	if !ok {
		return
	}

	o := p.Occupancy()
	c.peak.Queue = max(c.peak.Queue, o.Queue)
	c.peak.IntStations = max(c.peak.IntStations, o.IntStations)
	c.peak.FPStations = max(c.peak.FPStations, o.FPStations)
	c.peak.IntUnits = max(c.peak.IntUnits, o.IntUnits)
	c.peak.FPUnits = max(c.peak.FPUnits, o.FPUnits)
	c.peak.BusBusy = c.peak.BusBusy || o.BusBusy
}

// Count returns how many times a hook position fired.
func (c *StageCounter) Count(pos *sim.HookPos) uint64 {
	return c.counts[pos.Name]
}

// Peak returns the highest occupancy seen at any transition.
func (c *StageCounter) Peak() pipeline.Occupancy {
	return c.peak
}
