package pipeline

import "github.com/sarchlab/tomasim/insts"

// MapTable is the register renaming table. Each architectural register maps
// to the in-flight instruction that will produce its next value, or NoTag if
// the committed value is current.
type MapTable struct {
	entries [insts.NumRegs]Tag
}

// NewMapTable creates an empty map table.
func NewMapTable() *MapTable {
	return &MapTable{}
}

// Producer returns the pending producer of a register.
func (m *MapTable) Producer(reg insts.Reg) Tag {
	if !reg.Valid() {
		return NoTag
	}
	return m.entries[reg]
}

// ResolveOperands captures the current producer of every source operand.
func (m *MapTable) ResolveOperands(rec *Record) {
	for i, reg := range rec.Inst.Src {
		rec.Producers[i] = m.Producer(reg)
	}
}

// BindDestinations makes rec the newest producer of its destination
// registers. Instructions that never broadcast bind nothing, since no
// consumer could ever be woken.
func (m *MapTable) BindDestinations(rec *Record) {
	if !rec.Inst.WritesBus() {
		return
	}

	for _, reg := range rec.Inst.Dst {
		if reg.Valid() {
			m.entries[reg] = rec.Tag
		}
	}
}

// Rename resolves the operands of rec and then binds its destinations, so an
// instruction that reads and writes the same register depends on the previous
// writer and never on itself.
func (m *MapTable) Rename(rec *Record) {
	m.ResolveOperands(rec)
	m.BindDestinations(rec)
}

// ClearIfMatches empties the entry of reg if it still names tag. It reports
// whether the entry was cleared.
func (m *MapTable) ClearIfMatches(reg insts.Reg, tag Tag) bool {
	if !reg.Valid() || m.entries[reg] != tag {
		return false
	}

	m.entries[reg] = NoTag
	return true
}

// ClearDestinations applies ClearIfMatches to every destination of rec.
func (m *MapTable) ClearDestinations(rec *Record) {
	for _, reg := range rec.Inst.Dst {
		m.ClearIfMatches(reg, rec.Tag)
	}
}

// Pending returns the number of registers with an in-flight producer.
func (m *MapTable) Pending() int {
	n := 0
	for _, t := range m.entries {
		if t != NoTag {
			n++
		}
	}
	return n
}

// Reset empties every entry.
func (m *MapTable) Reset() {
	m.entries = [insts.NumRegs]Tag{}
}
