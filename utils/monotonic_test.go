package utils

import (
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"
)

func TestMonotonicClock(t *testing.T) {
	mock := clock.NewMock()
	mc := NewMonotonicClock(mock)
	test.That(t, mc.NowMs(), test.ShouldEqual, uint32(0))

	mock.Add(1500 * time.Microsecond)
	test.That(t, mc.NowMs(), test.ShouldEqual, uint32(1))

	wrapping := NewMonotonicClockFrom(mock, math.MaxUint32)
	mock.Add(2 * time.Millisecond)
	test.That(t, wrapping.NowMs(), test.ShouldEqual, uint32(1))
}

func TestWrapSafeArithmetic(t *testing.T) {
	test.That(t, ElapsedMs(10, math.MaxUint32-9), test.ShouldEqual, uint32(20))
	test.That(t, ElapsedMs(300, 100), test.ShouldEqual, uint32(200))

	test.That(t, DeadlineReached(5, math.MaxUint32-5), test.ShouldBeTrue)
	test.That(t, DeadlineReached(math.MaxUint32-5, 5), test.ShouldBeFalse)
	test.That(t, DeadlineReached(200, 200), test.ShouldBeTrue)
	test.That(t, DeadlineReached(199, 200), test.ShouldBeFalse)
}

func TestInt16FromBytes(t *testing.T) {
	test.That(t, Int16FromBytesBE([]byte{0x01, 0x02}), test.ShouldEqual, int16(0x0102))
	test.That(t, Int16FromBytesBE([]byte{0xFF, 0xFE}), test.ShouldEqual, int16(-2))
	test.That(t, Int16FromBytesBE([]byte{0x80, 0x00}), test.ShouldEqual, int16(math.MinInt16))
}
