package insts

// Trace is a random-access sequence of instructions in program order.
type Trace interface {
	// Len returns the number of instructions in the trace.
	Len() int

	// At returns the instruction at 0-based position i. Its Index is i+1.
	At(i int) *Instruction
}

// SliceTrace is an in-memory Trace.
type SliceTrace struct {
	insts []*Instruction
}

// NewSliceTrace creates a trace from the given instructions and renumbers
// them in program order.
func NewSliceTrace(instructions ...*Instruction) *SliceTrace {
	t := &SliceTrace{}
	for _, inst := range instructions {
		t.Append(inst)
	}
	return t
}

// Append adds an instruction to the end of the trace, assigns its Index and
// returns it.
func (t *SliceTrace) Append(inst *Instruction) *Instruction {
	t.insts = append(t.insts, inst)
	inst.Index = uint64(len(t.insts))
	return inst
}

// Len returns the number of instructions.
func (t *SliceTrace) Len() int {
	return len(t.insts)
}

// At returns the instruction at position i.
func (t *SliceTrace) At(i int) *Instruction {
	return t.insts[i]
}
