package pipeline

// StationPool is a fixed set of reservation stations for one unit class.
type StationPool struct {
	name  string
	slots []Tag
}

// NewStationPool creates a pool with the given number of stations.
func NewStationPool(name string, capacity int) *StationPool {
	return &StationPool{
		name:  name,
		slots: make([]Tag, capacity),
	}
}

// Name returns the name of the pool.
func (s *StationPool) Name() string {
	return s.name
}

// Capacity returns the number of stations.
func (s *StationPool) Capacity() int {
	return len(s.slots)
}

// Occupied returns the number of stations holding an instruction.
func (s *StationPool) Occupied() int {
	n := 0
	for _, t := range s.slots {
		if t != NoTag {
			n++
		}
	}
	return n
}

// Full returns true if no station is free.
func (s *StationPool) Full() bool {
	return s.Occupied() == len(s.slots)
}

// Admit places tag in the first free station. It returns false if every
// station is occupied.
func (s *StationPool) Admit(tag Tag) bool {
	for i, t := range s.slots {
		if t == NoTag {
			s.slots[i] = tag
			return true
		}
	}
	return false
}

// Release frees the station holding tag. It returns false if no station
// holds it.
func (s *StationPool) Release(tag Tag) bool {
	for i, t := range s.slots {
		if t == tag {
			s.slots[i] = NoTag
			return true
		}
	}
	return false
}

// SelectReadyOldest returns the lowest-index instruction that holds a station,
// has not started executing, and has every operand available.
func (s *StationPool) SelectReadyOldest(arena *Arena) (Tag, bool) {
	oldest := NoTag

	for _, t := range s.slots {
		if t == NoTag {
			continue
		}

		rec := arena.Get(t)
		if rec.Executing() || !rec.Ready() {
			continue
		}

		if oldest == NoTag || t < oldest {
			oldest = t
		}
	}

	return oldest, oldest != NoTag
}

// Wakeup clears every operand reference to producer held by instructions in
// the pool. It returns the number of operands that became available.
func (s *StationPool) Wakeup(arena *Arena, producer Tag) int {
	woken := 0

	for _, t := range s.slots {
		if t == NoTag {
			continue
		}

		rec := arena.Get(t)
		for i, p := range rec.Producers {
			if p == producer {
				rec.Producers[i] = NoTag
				woken++
			}
		}
	}

	return woken
}

// Tags returns the occupied stations' tags in slot order.
func (s *StationPool) Tags() []Tag {
	tags := make([]Tag, 0, len(s.slots))
	for _, t := range s.slots {
		if t != NoTag {
			tags = append(tags, t)
		}
	}
	return tags
}

// Reset frees every station.
func (s *StationPool) Reset() {
	for i := range s.slots {
		s.slots[i] = NoTag
	}
}
