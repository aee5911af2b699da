package tapsensor

import (
	"go.uber.org/atomic"
)

// QueueCapacity is the number of slots in a Queue. One slot is always kept free to tell a full
// queue from an empty one, so QueueCapacity-1 samples fit.
const QueueCapacity = 4

// A Queue is a lock-free ring buffer between exactly one producer and exactly one consumer.
// head is only stored by the producer and tail only by the consumer; each side loads the other's
// index atomically, which orders the slot write before the consumer's read of it.
type Queue struct {
	slots   [QueueCapacity]Sample
	head    atomic.Uint32
	tail    atomic.Uint32
	dropped atomic.Uint64
}

// TryPush appends s. When the queue is full s is dropped, counted and false is returned; the
// queued samples are left untouched. Producer side only.
func (q *Queue) TryPush(s Sample) bool {
	head := q.head.Load()
	next := (head + 1) % QueueCapacity
	if next == q.tail.Load() {
		q.dropped.Inc()
		return false
	}
	q.slots[head] = s
	q.head.Store(next)
	return true
}

// TryPop removes the oldest sample. Consumer side only.
func (q *Queue) TryPop() (Sample, bool) {
	tail := q.tail.Load()
	if tail == q.head.Load() {
		return Sample{}, false
	}
	s := q.slots[tail]
	q.tail.Store((tail + 1) % QueueCapacity)
	return s, true
}

// Len returns the number of queued samples. It is exact only when called from one of the two
// sides while the other is idle.
func (q *Queue) Len() int {
	return int((q.head.Load() + QueueCapacity - q.tail.Load()) % QueueCapacity)
}

// Dropped returns how many pushes failed because the queue was full.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
