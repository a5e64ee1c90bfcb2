package pipeline

import "github.com/sarchlab/akita/v4/sim"

// InstructionQueue is the bounded in-order buffer between fetch and the
// reservation stations.
type InstructionQueue struct {
	buf sim.Buffer
}

// NewInstructionQueue creates a queue. The name must be a valid akita
// component name, such as "Core.InstQueue".
func NewInstructionQueue(name string, capacity int) *InstructionQueue {
	return &InstructionQueue{
		buf: sim.NewBuffer(name, capacity),
	}
}

// Buffer exposes the underlying akita buffer so that buffer-level hooks can
// be attached.
func (q *InstructionQueue) Buffer() sim.Buffer {
	return q.buf
}

// Enqueue appends tag. It returns false if the queue is full.
func (q *InstructionQueue) Enqueue(tag Tag) bool {
	if !q.buf.CanPush() {
		return false
	}

	q.buf.Push(tag)
	return true
}

// Head returns the oldest entry without removing it.
func (q *InstructionQueue) Head() (Tag, bool) {
	e := q.buf.Peek()
	if e == nil {
		return NoTag, false
	}
	return e.(Tag), true
}

// Dequeue removes and returns the oldest entry, or NoTag if empty.
func (q *InstructionQueue) Dequeue() Tag {
	e := q.buf.Pop()
	if e == nil {
		return NoTag
	}
	return e.(Tag)
}

// Len returns the number of queued instructions.
func (q *InstructionQueue) Len() int {
	return q.buf.Size()
}

// Capacity returns the maximum number of queued instructions.
func (q *InstructionQueue) Capacity() int {
	return q.buf.Capacity()
}

// Full returns true if no entry can be added.
func (q *InstructionQueue) Full() bool {
	return !q.buf.CanPush()
}

// Reset removes every entry.
func (q *InstructionQueue) Reset() {
	q.buf.Clear()
}
