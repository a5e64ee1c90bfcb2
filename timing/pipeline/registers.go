// Package pipeline provides the Tomasulo out-of-order timing model.
package pipeline

import (
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
)

// Tag names an in-flight instruction by its program-order index. The map
// table, the reservation stations, the functional units and the broadcast bus
// all refer to instructions through tags.
type Tag uint64

// NoTag marks an empty slot or an operand that is already available.
const NoTag Tag = 0

// Timing holds the cycle at which an instruction crossed each stage boundary.
// A zero value means the transition has not happened (or never will, for
// instructions that take a shortened path).
type Timing struct {
	Index uint64      `json:"index"`
	Class insts.Class `json:"class"`

	// DispatchCycle is when the instruction entered the instruction queue.
	DispatchCycle uint64 `json:"dispatch_cycle"`
	// IssueCycle is when the instruction entered a reservation station.
	IssueCycle uint64 `json:"issue_cycle"`
	// ExecuteCycle is when the instruction started on a functional unit.
	ExecuteCycle uint64 `json:"execute_cycle"`
	// BroadcastCycle is when the instruction held the broadcast bus.
	BroadcastCycle uint64 `json:"broadcast_cycle"`
	// RetireCycle is when the instruction was accounted as complete.
	RetireCycle uint64 `json:"retire_cycle"`
}

// Record is the simulation state of one instruction.
type Record struct {
	Tag  Tag
	Inst *insts.Instruction
	Unit latency.UnitClass

	// Producers holds, per source operand, the instruction that will produce
	// the value, or NoTag once the value is available.
	Producers [insts.MaxSrcRegs]Tag

	Timing Timing
}

// Ready returns true if every source operand is available.
func (r *Record) Ready() bool {
	for _, p := range r.Producers {
		if p != NoTag {
			return false
		}
	}
	return true
}

// Executing returns true once the instruction has started on a unit.
func (r *Record) Executing() bool {
	return r.Timing.ExecuteCycle != 0
}

// Retired returns true once the instruction has been accounted as complete.
func (r *Record) Retired() bool {
	return r.Timing.RetireCycle != 0
}

// Arena owns the records of every instruction the pipeline simulates. A
// record is addressed by its tag; tags are stable for the whole run.
type Arena struct {
	records []Record
}

// NewArena creates records for the first n instructions of the trace.
func NewArena(trace insts.Trace, n int, table *latency.Table) *Arena {
	a := &Arena{records: make([]Record, n)}

	for i := 0; i < n; i++ {
		inst := trace.At(i)
		tag := Tag(i + 1)
		a.records[i] = Record{
			Tag:  tag,
			Inst: inst,
			Unit: table.UnitClassOf(inst),
			Timing: Timing{
				Index: uint64(tag),
				Class: inst.Class,
			},
		}
	}

	return a
}

// Get returns the record for a tag. It returns nil for NoTag.
func (a *Arena) Get(tag Tag) *Record {
	if tag == NoTag {
		return nil
	}
	return &a.records[tag-1]
}

// Len returns the number of records.
func (a *Arena) Len() int {
	return len(a.records)
}

// Timings returns a copy of every record's timing in program order.
func (a *Arena) Timings() []Timing {
	out := make([]Timing, len(a.records))
	for i := range a.records {
		out[i] = a.records[i].Timing
	}
	return out
}

func (a *Arena) reset() {
	for i := range a.records {
		r := &a.records[i]
		r.Producers = [insts.MaxSrcRegs]Tag{}
		r.Timing = Timing{Index: r.Timing.Index, Class: r.Timing.Class}
	}
}
