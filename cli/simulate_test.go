package cli

import (
	"context"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/tapsense/components/tapsensor"
	"go.viam.com/tapsense/logging"
)

func TestParseTapScript(t *testing.T) {
	taps, err := parseTapScript(" left@0, left , up@600,none@700")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(taps), test.ShouldEqual, 4)
	test.That(t, taps[0].name, test.ShouldEqual, "left")
	test.That(t, taps[0].x, test.ShouldEqual, -tapMagnitude)
	test.That(t, taps[1].at, test.ShouldEqual, time.Duration(0))
	test.That(t, taps[2].at, test.ShouldEqual, 600*time.Millisecond)
	test.That(t, taps[2].z, test.ShouldEqual, tapMagnitude)
	test.That(t, taps[3].name, test.ShouldEqual, noTap)
	test.That(t, taps[3].x, test.ShouldEqual, int16(0))

	_, err = parseTapScript("")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "empty")

	_, err = parseTapScript("up@100,down@50")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "before the previous tap")

	_, err = parseTapScript("up@soon")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "non-negative")

	_, err = parseTapScript("sideways@0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err, test.ShouldWrap, tapsensor.ErrUnknownDirection)
}

func TestSimulateDefaultScript(t *testing.T) {
	taps, err := parseTapScript(defaultTapScript)
	test.That(t, err, test.ShouldBeNil)

	result, err := simulate(context.Background(), defaultConfig(), taps, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(result.gestures), test.ShouldEqual, 3)

	test.That(t, result.gestures[0].gesture.String(), test.ShouldEqual, "double_right")
	test.That(t, result.gestures[0].at, test.ShouldEqual, 150*time.Millisecond)
	test.That(t, result.gestures[1].gesture.String(), test.ShouldEqual, "single_up")
	test.That(t, result.gestures[1].at, test.ShouldEqual, 800*time.Millisecond)
	test.That(t, result.gestures[2].gesture.String(), test.ShouldEqual, "single_down")
	test.That(t, result.gestures[2].at, test.ShouldEqual, 1400*time.Millisecond)

	test.That(t, result.readings["double_tap_right_count"], test.ShouldEqual, uint64(1))
	test.That(t, result.readings["single_tap_up_count"], test.ShouldEqual, uint64(1))
	test.That(t, result.readings["dropped_taps"], test.ShouldEqual, uint64(0))
	test.That(t, result.readings["tap_detected"], test.ShouldEqual, false)
	test.That(t, result.readings["pending_tap"], test.ShouldEqual, false)
}

func TestSimulateIgnoresFlatSamples(t *testing.T) {
	taps, err := parseTapScript("none@0,left@100,none@150")
	test.That(t, err, test.ShouldBeNil)

	result, err := simulate(context.Background(), defaultConfig(), taps, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(result.gestures), test.ShouldEqual, 1)
	test.That(t, result.gestures[0].gesture.String(), test.ShouldEqual, "single_left")
	test.That(t, result.gestures[0].at, test.ShouldEqual, 300*time.Millisecond)
}

func TestSimulateMissingBus(t *testing.T) {
	cfg := defaultConfig()
	cfg.Sensor.I2CBus = "elsewhere"
	_, err := simulate(context.Background(), cfg, []scriptedTap{{name: "up", z: tapMagnitude}}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "elsewhere")
}
