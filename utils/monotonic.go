package utils

import (
	"time"

	"github.com/benbjohnson/clock"
)

// MonotonicClock is a millisecond counter that wraps around at the 32-bit boundary, roughly every
// 49.7 days. Intervals between two readings must be computed with ElapsedMs, never by comparing
// the raw values.
type MonotonicClock struct {
	clk   clock.Clock
	epoch time.Time
}

// NewMonotonicClock returns a clock reading zero now.
func NewMonotonicClock(clk clock.Clock) MonotonicClock {
	return MonotonicClock{clk: clk, epoch: clk.Now()}
}

// NewMonotonicClockFrom returns a clock reading startMs now. Tests use it to start close to the
// wraparound point.
func NewMonotonicClockFrom(clk clock.Clock, startMs uint32) MonotonicClock {
	return MonotonicClock{clk: clk, epoch: clk.Now().Add(-time.Duration(startMs) * time.Millisecond)}
}

// NowMs returns the current reading. Safe to call from any goroutine.
func (mc MonotonicClock) NowMs() uint32 {
	return uint32(mc.clk.Since(mc.epoch) / time.Millisecond)
}

// Clock returns the underlying clock.
func (mc MonotonicClock) Clock() clock.Clock {
	return mc.clk
}

// ElapsedMs returns how many milliseconds passed from since to now, across a wraparound.
func ElapsedMs(now, since uint32) uint32 {
	return now - since
}

// DeadlineReached reports whether now is at or past due. Valid while the two readings are less
// than 2^31 ms apart.
func DeadlineReached(now, due uint32) bool {
	return int32(now-due) >= 0
}

// DurationToMs converts a duration to a millisecond count, truncating.
func DurationToMs(d time.Duration) uint32 {
	return uint32(d / time.Millisecond)
}
