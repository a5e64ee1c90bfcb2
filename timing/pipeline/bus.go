package pipeline

// BroadcastBus is the single common data bus. It carries at most one
// instruction, for exactly one cycle.
type BroadcastBus struct {
	tag Tag
}

// Busy returns true if an instruction is on the bus.
func (b *BroadcastBus) Busy() bool {
	return b.tag != NoTag
}

// Holder returns the instruction on the bus, or NoTag.
func (b *BroadcastBus) Holder() Tag {
	return b.tag
}

// Drive puts tag on the bus. The bus must be empty.
func (b *BroadcastBus) Drive(tag Tag) {
	b.tag = tag
}

// Clear empties the bus.
func (b *BroadcastBus) Clear() {
	b.tag = NoTag
}

// candidate is a completed instruction competing for the bus.
type candidate struct {
	tag  Tag
	pool *UnitPool
}

// arbiter picks the oldest candidate among the instructions that completed
// this cycle.
type arbiter struct {
	candidates []candidate
}

func (a *arbiter) reset() {
	a.candidates = a.candidates[:0]
}

func (a *arbiter) offer(tag Tag, pool *UnitPool) {
	a.candidates = append(a.candidates, candidate{tag: tag, pool: pool})
}

// winner returns the lowest-index candidate.
func (a *arbiter) winner() (candidate, bool) {
	if len(a.candidates) == 0 {
		return candidate{}, false
	}

	best := a.candidates[0]
	for _, c := range a.candidates[1:] {
		if c.tag < best.tag {
			best = c
		}
	}

	return best, true
}
