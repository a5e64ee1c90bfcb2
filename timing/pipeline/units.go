package pipeline

// UnitPool is a fixed set of non-pipelined functional units sharing one
// latency. Each unit holds one instruction from the cycle it starts until the
// cycle it is released.
type UnitPool struct {
	name    string
	latency uint64
	slots   []Tag
}

// NewUnitPool creates a pool of count units with the given latency.
func NewUnitPool(name string, count int, latency uint64) *UnitPool {
	return &UnitPool{
		name:    name,
		latency: latency,
		slots:   make([]Tag, count),
	}
}

// Name returns the name of the pool.
func (u *UnitPool) Name() string {
	return u.name
}

// Latency returns the number of cycles a unit stays busy.
func (u *UnitPool) Latency() uint64 {
	return u.latency
}

// Capacity returns the number of units.
func (u *UnitPool) Capacity() int {
	return len(u.slots)
}

// Occupied returns the number of busy units.
func (u *UnitPool) Occupied() int {
	n := 0
	for _, t := range u.slots {
		if t != NoTag {
			n++
		}
	}
	return n
}

// Free returns the number of idle units.
func (u *UnitPool) Free() int {
	return len(u.slots) - u.Occupied()
}

// TryStart places rec on the first idle unit and records cycle as its
// execute cycle. It returns false if every unit is busy.
func (u *UnitPool) TryStart(rec *Record, cycle uint64) bool {
	for i, t := range u.slots {
		if t == NoTag {
			u.slots[i] = rec.Tag
			rec.Timing.ExecuteCycle = cycle
			return true
		}
	}
	return false
}

// Completed returns true if rec has spent at least the pool latency on its
// unit by the given cycle.
func (u *UnitPool) Completed(rec *Record, cycle uint64) bool {
	return rec.Executing() && cycle >= rec.Timing.ExecuteCycle+u.latency
}

// Release frees the unit holding tag. It returns false if no unit holds it.
func (u *UnitPool) Release(tag Tag) bool {
	for i, t := range u.slots {
		if t == tag {
			u.slots[i] = NoTag
			return true
		}
	}
	return false
}

// Tags returns the busy units' tags in slot order.
func (u *UnitPool) Tags() []Tag {
	tags := make([]Tag, 0, len(u.slots))
	for _, t := range u.slots {
		if t != NoTag {
			tags = append(tags, t)
		}
	}
	return tags
}

// Reset idles every unit.
func (u *UnitPool) Reset() {
	for i := range u.slots {
		u.slots[i] = NoTag
	}
}
