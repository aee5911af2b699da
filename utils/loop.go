package utils

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Scheduler defers work onto a cooperative loop. There is no cancellation handle: deferred
// functions must re-check whatever state they depend on when they run.
type Scheduler interface {
	After(delay time.Duration, f func())
}

// A CooperativeLoop is a single-threaded run-to-completion loop. Each iteration first runs every
// registered poller, then every deferred function whose deadline has passed, in deadline order.
// Pollers and deferred functions never run concurrently with each other.
type CooperativeLoop struct {
	clock    MonotonicClock
	interval time.Duration

	mu       sync.Mutex
	pollers  []func()
	deferred deferredHeap
	seq      uint64
}

var _ = Scheduler(&CooperativeLoop{})

// NewCooperativeLoop creates a loop that iterates every interval once Run is called.
func NewCooperativeLoop(clock MonotonicClock, interval time.Duration) *CooperativeLoop {
	return &CooperativeLoop{clock: clock, interval: interval}
}

// AddPoller registers f to run at the start of every iteration.
func (cl *CooperativeLoop) AddPoller(f func()) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.pollers = append(cl.pollers, f)
}

// After schedules f to run on the loop once delay has elapsed. A function scheduled while the loop
// is running deferred work waits for the next iteration even if its delay is zero.
func (cl *CooperativeLoop) After(delay time.Duration, f func()) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.seq++
	heap.Push(&cl.deferred, deferredTask{
		due: cl.clock.NowMs() + DurationToMs(delay),
		seq: cl.seq,
		f:   f,
	})
}

// Pending returns how many deferred functions have not run yet.
func (cl *CooperativeLoop) Pending() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.deferred.Len()
}

// RunOnce performs a single iteration on the calling goroutine.
func (cl *CooperativeLoop) RunOnce() {
	cl.mu.Lock()
	pollers := cl.pollers
	cl.mu.Unlock()

	for _, poll := range pollers {
		poll()
	}

	now := cl.clock.NowMs()
	cl.mu.Lock()
	var due []func()
	for cl.deferred.Len() > 0 && DeadlineReached(now, cl.deferred[0].due) {
		due = append(due, heap.Pop(&cl.deferred).(deferredTask).f)
	}
	cl.mu.Unlock()

	for _, f := range due {
		f()
	}
}

// Run iterates until ctx is done.
func (cl *CooperativeLoop) Run(ctx context.Context) {
	ticker := cl.clock.Clock().Ticker(cl.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cl.RunOnce()
		}
	}
}

type deferredTask struct {
	due uint32
	seq uint64
	f   func()
}

// deferredHeap orders tasks by wrap-safe deadline, then by scheduling order.
type deferredHeap []deferredTask

func (h deferredHeap) Len() int { return len(h) }

func (h deferredHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return int32(h[i].due-h[j].due) < 0
	}
	return h[i].seq < h[j].seq
}

func (h deferredHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *deferredHeap) Push(x any) { *h = append(*h, x.(deferredTask)) }

func (h *deferredHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
