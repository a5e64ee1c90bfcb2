package pipeline

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/tomasim/timing/latency"
)

// Hook positions. The hook context's Item is a Timing snapshot of the
// instruction and its Detail is a StageEvent.
var (
	// HookPosFetch marks an instruction leaving the trace. Trap instructions
	// retire at this point.
	HookPosFetch = &sim.HookPos{Name: "Fetch"}

	// HookPosDispatch marks an instruction entering the instruction queue.
	HookPosDispatch = &sim.HookPos{Name: "Dispatch"}

	// HookPosIssue marks an instruction entering a reservation station.
	HookPosIssue = &sim.HookPos{Name: "Issue"}

	// HookPosExecute marks an instruction starting on a functional unit.
	HookPosExecute = &sim.HookPos{Name: "Execute"}

	// HookPosBroadcast marks an instruction taking the broadcast bus.
	HookPosBroadcast = &sim.HookPos{Name: "Broadcast"}

	// HookPosRetire marks an instruction being accounted as complete.
	HookPosRetire = &sim.HookPos{Name: "Retire"}
)

// StageEvent describes where and when a stage transition happened.
type StageEvent struct {
	Cycle uint64
	Unit  latency.UnitClass
}

func (p *Pipeline) invoke(pos *sim.HookPos, rec *Record) {
	p.InvokeHook(sim.HookCtx{
		Domain: p,
		Pos:    pos,
		Item:   rec.Timing,
		Detail: StageEvent{Cycle: p.cycle, Unit: rec.Unit},
	})
}
