package tapsensor

import (
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.viam.com/tapsense/logging"
	"go.viam.com/tapsense/utils"
)

type dispatched struct {
	Gesture
	at uint32
}

// harness drives a pipeline on a cooperative loop one mocked millisecond at a time.
type harness struct {
	mock     *clock.Mock
	clk      utils.MonotonicClock
	loop     *utils.CooperativeLoop
	pipeline *Pipeline
	got      []dispatched
}

func newHarness(t *testing.T, window time.Duration, startMs uint32) *harness {
	t.Helper()
	mock := clock.NewMock()
	clk := utils.NewMonotonicClockFrom(mock, startMs)
	loop := utils.NewCooperativeLoop(clk, time.Millisecond)
	h := &harness{
		mock:     mock,
		clk:      clk,
		loop:     loop,
		pipeline: NewPipeline(window, SecondaryAxisUnknown, clk, loop, logging.NewTestLogger(t)),
	}
	loop.AddPoller(h.pipeline.Poll)
	for _, k := range Kinds {
		for _, d := range Directions {
			test.That(t, h.pipeline.Register(k, d, func(g Gesture) {
				h.got = append(h.got, dispatched{Gesture: g, at: clk.NowMs()})
			}), test.ShouldBeNil)
		}
	}
	return h
}

func (h *harness) tap(x, y, z int16) bool {
	return h.pipeline.Capture(Sample{Timestamp: h.clk.NowMs(), X: x, Y: y, Z: z})
}

func (h *harness) advance(ms int) {
	for i := 0; i < ms; i++ {
		h.mock.Add(time.Millisecond)
		h.loop.RunOnce()
	}
}

func (h *harness) gestures() []Gesture {
	out := make([]Gesture, 0, len(h.got))
	for _, d := range h.got {
		out = append(out, d.Gesture)
	}
	return out
}

func TestPipelineDoubleTapUp(t *testing.T) {
	h := newHarness(t, 200*time.Millisecond, 0)
	h.tap(0, 0, 800)
	h.loop.RunOnce()
	h.advance(50)
	h.tap(10, 0, 900)
	h.loop.RunOnce()

	test.That(t, h.got, test.ShouldResemble, []dispatched{
		{Gesture: Gesture{Kind: Double, Direction: Up, Timestamp: 50}, at: 50},
	})

	h.advance(500)
	test.That(t, h.got, test.ShouldHaveLength, 1)
	test.That(t, h.pipeline.GestureCount(Double, Up), test.ShouldEqual, uint64(1))
	test.That(t, h.pipeline.GestureCount(Single, Up), test.ShouldEqual, uint64(0))
	test.That(t, h.pipeline.Pending(), test.ShouldBeFalse)
}

func TestPipelineTwoSingles(t *testing.T) {
	h := newHarness(t, 200*time.Millisecond, 0)
	h.tap(-700, 0, 10)
	h.loop.RunOnce()
	test.That(t, h.pipeline.Pending(), test.ShouldBeTrue)

	h.advance(300)
	test.That(t, h.got, test.ShouldResemble, []dispatched{
		{Gesture: Gesture{Kind: Single, Direction: Left, Timestamp: 0}, at: 200},
	})

	h.tap(700, 0, 10)
	h.loop.RunOnce()
	h.advance(300)
	test.That(t, h.got, test.ShouldResemble, []dispatched{
		{Gesture: Gesture{Kind: Single, Direction: Left, Timestamp: 0}, at: 200},
		{Gesture: Gesture{Kind: Single, Direction: Right, Timestamp: 300}, at: 500},
	})
}

func TestPipelineSingleTapWithoutFollowUp(t *testing.T) {
	h := newHarness(t, 200*time.Millisecond, 0)
	h.tap(0, 0, -900)
	h.advance(199)
	test.That(t, h.got, test.ShouldBeEmpty)
	h.advance(1)
	test.That(t, h.gestures(), test.ShouldResemble, []Gesture{{Kind: Single, Direction: Down, Timestamp: 0}})
	h.advance(1000)
	test.That(t, h.got, test.ShouldHaveLength, 1)
}

// Both taps sit in the queue when the loop finally runs; they must still pair up even though the
// first tap's window has already passed on the wall clock.
func TestPipelineDrainsBeforeTimeouts(t *testing.T) {
	h := newHarness(t, 200*time.Millisecond, 0)
	h.tap(0, 0, 800)
	h.mock.Add(100 * time.Millisecond)
	h.tap(0, 0, 800)
	h.mock.Add(300 * time.Millisecond)
	h.loop.RunOnce()

	test.That(t, h.gestures(), test.ShouldResemble, []Gesture{{Kind: Double, Direction: Up, Timestamp: 100}})
	h.advance(10)
	test.That(t, h.got, test.ShouldHaveLength, 1)
}

func TestPipelineUnknownDoesNotDisturbPendingTap(t *testing.T) {
	h := newHarness(t, 200*time.Millisecond, 0)
	var taps []Direction
	h.pipeline.OnTap(func(_ Sample, d Direction) { taps = append(taps, d) })

	h.tap(500, 0, 0)
	h.advance(20)
	h.tap(0, 900, 0)
	h.advance(20)
	test.That(t, h.pipeline.Pending(), test.ShouldBeTrue)
	h.tap(-500, 0, 0)
	h.loop.RunOnce()

	test.That(t, h.gestures(), test.ShouldResemble, []Gesture{{Kind: Double, Direction: Left, Timestamp: 40}})
	test.That(t, taps, test.ShouldResemble, []Direction{Right, Left})
}

func TestPipelineDropsWhenQueueFull(t *testing.T) {
	h := newHarness(t, 200*time.Millisecond, 0)
	for i := 0; i < QueueCapacity-1; i++ {
		test.That(t, h.tap(0, 0, 800), test.ShouldBeTrue)
	}
	test.That(t, h.tap(0, 0, 800), test.ShouldBeFalse)
	test.That(t, h.pipeline.Dropped(), test.ShouldEqual, uint64(1))

	// Three queued taps at the same instant: a double, then a fresh first tap.
	h.loop.RunOnce()
	test.That(t, h.gestures(), test.ShouldResemble, []Gesture{{Kind: Double, Direction: Up, Timestamp: 0}})
	test.That(t, h.pipeline.Pending(), test.ShouldBeTrue)
	h.advance(200)
	test.That(t, h.gestures(), test.ShouldResemble, []Gesture{
		{Kind: Double, Direction: Up, Timestamp: 0},
		{Kind: Single, Direction: Up, Timestamp: 0},
	})
}

func TestPipelineAcrossClockWraparound(t *testing.T) {
	h := newHarness(t, 200*time.Millisecond, math.MaxUint32-100)
	h.tap(0, 0, 800)
	h.advance(150)
	h.tap(0, 0, 800)
	h.loop.RunOnce()
	test.That(t, h.gestures(), test.ShouldResemble, []Gesture{{Kind: Double, Direction: Up, Timestamp: 49}})

	h.tap(0, 0, -800)
	h.advance(200)
	test.That(t, h.got, test.ShouldHaveLength, 2)
	test.That(t, h.got[1], test.ShouldResemble, dispatched{
		Gesture: Gesture{Kind: Single, Direction: Down, Timestamp: 49},
		at:      249,
	})
}

func TestPipelineListenerCount(t *testing.T) {
	mock := clock.NewMock()
	clk := utils.NewMonotonicClock(mock)
	loop := utils.NewCooperativeLoop(clk, time.Millisecond)
	p := NewPipeline(50*time.Millisecond, SecondaryAxisVertical, clk, loop, logging.NewTestLogger(t))
	test.That(t, p.Window(), test.ShouldEqual, 50*time.Millisecond)
	test.That(t, p.ListenerCount(Single, Up), test.ShouldEqual, 0)
	test.That(t, p.Register(Single, Up, func(Gesture) {}), test.ShouldBeNil)
	test.That(t, p.ListenerCount(Single, Up), test.ShouldEqual, 1)
	test.That(t, p.Register(Double, Unknown, func(Gesture) {}), test.ShouldNotBeNil)
	test.That(t, p.GestureCount(Single, Unknown), test.ShouldEqual, uint64(0))
}
