package tapsensor

import (
	"time"

	"go.uber.org/atomic"

	"go.viam.com/tapsense/utils"
)

// DefaultDoubleTapWindow is how long a first tap waits for a second one.
const DefaultDoubleTapWindow = 200 * time.Millisecond

// A Disambiguator decides whether a tap is a single tap or half of a double tap. It is either
// idle or awaiting a second tap; a first tap can only be resolved as single once the window has
// passed without a partner.
//
// HandleTap and the timeouts it schedules must all run on the same cooperative goroutine.
// Pending may be called from anywhere.
type Disambiguator struct {
	window    time.Duration
	windowMs  uint32
	clock     utils.MonotonicClock
	scheduler utils.Scheduler
	dispatch  func(Gesture)

	awaiting   bool
	pending    Sample
	pendingDir Direction
	deadline   uint32
	generation uint64

	pendingFlag atomic.Bool
}

// NewDisambiguator returns an idle disambiguator. Timeouts are scheduled on scheduler and
// resolved gestures are passed to dispatch.
func NewDisambiguator(
	window time.Duration,
	clock utils.MonotonicClock,
	scheduler utils.Scheduler,
	dispatch func(Gesture),
) *Disambiguator {
	if window <= 0 {
		window = DefaultDoubleTapWindow
	}
	return &Disambiguator{
		window:    window,
		windowMs:  utils.DurationToMs(window),
		clock:     clock,
		scheduler: scheduler,
		dispatch:  dispatch,
	}
}

// Window returns the double tap window.
func (d *Disambiguator) Window() time.Duration {
	return d.window
}

// Pending reports whether a first tap is waiting for a partner.
func (d *Disambiguator) Pending() bool {
	return d.pendingFlag.Load()
}

// HandleTap feeds a classified tap into the state machine. Unknown taps are ignored and leave a
// pending tap alone.
func (d *Disambiguator) HandleTap(s Sample, dir Direction) {
	if dir == Unknown {
		return
	}
	if d.awaiting {
		if utils.ElapsedMs(s.Timestamp, d.pending.Timestamp) <= d.windowMs {
			d.resolve(Gesture{Kind: Double, Direction: dir, Timestamp: s.Timestamp})
			return
		}
		d.resolve(Gesture{Kind: Single, Direction: d.pendingDir, Timestamp: d.pending.Timestamp})
	}
	d.await(s, dir)
}

func (d *Disambiguator) await(s Sample, dir Direction) {
	d.generation++
	d.awaiting = true
	d.pending = s
	d.pendingDir = dir
	d.deadline = s.Timestamp + d.windowMs
	d.pendingFlag.Store(true)

	// The sample may have waited in the queue, so only the rest of its window is left.
	var delay time.Duration
	if now := d.clock.NowMs(); !utils.DeadlineReached(now, d.deadline) {
		delay = time.Duration(d.deadline-now) * time.Millisecond
	}
	generation := d.generation
	d.scheduler.After(delay, func() { d.timeout(generation) })
}

func (d *Disambiguator) timeout(generation uint64) {
	if !d.awaiting || d.generation != generation {
		return
	}
	d.resolve(Gesture{Kind: Single, Direction: d.pendingDir, Timestamp: d.pending.Timestamp})
}

func (d *Disambiguator) resolve(g Gesture) {
	d.awaiting = false
	d.pendingFlag.Store(false)
	d.dispatch(g)
}
