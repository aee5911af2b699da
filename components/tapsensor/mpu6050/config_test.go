package mpu6050

import (
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/tapsense/components/tapsensor"
	"go.viam.com/tapsense/utils"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{I2CBus: "main", InterruptPin: "int"}
	test.That(t, cfg.Validate("path"), test.ShouldBeNil)

	test.That(t, cfg.Address(), test.ShouldEqual, DefaultAddress)
	test.That(t, cfg.Thresholds(), test.ShouldResemble, Thresholds{Sensitivity: 0x40, Duration: 0x01})
	test.That(t, cfg.DoubleTapWindow(), test.ShouldEqual, 200*time.Millisecond)
	test.That(t, cfg.SecondaryAxisPolicy(), test.ShouldEqual, tapsensor.SecondaryAxisUnknown)
	test.That(t, cfg.ShouldVerifyIdentity(), test.ShouldBeTrue)
	test.That(t, cfg.SettleDelay(), test.ShouldEqual, time.Duration(0))
	test.That(t, cfg.LoopInterval(), test.ShouldEqual, 16*time.Millisecond)
	test.That(t, cfg.TapPulse(), test.ShouldEqual, 100*time.Millisecond)

	cfg.UseAlternateI2CAddress = true
	test.That(t, cfg.Address(), test.ShouldEqual, AlternateAddress)
}

func TestConfigFromAttributes(t *testing.T) {
	var cfg Config
	_, err := utils.TransformAttributeMapToStruct(&cfg, utils.AttributeMap{
		"i2c_bus":              "main",
		"interrupt_pin":        "int",
		"sensitivity":          "0x20",
		"duration":             float64(0),
		"double_tap_window_ms": float64(150),
		"secondary_axis":       "vertical",
		"verify_identity":      false,
		"on_double_tap":        map[string]interface{}{"up": "lights"},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Validate("path"), test.ShouldBeNil)

	test.That(t, cfg.Thresholds(), test.ShouldResemble, Thresholds{Sensitivity: 0x20, Duration: 0x00})
	test.That(t, cfg.DoubleTapWindow(), test.ShouldEqual, 150*time.Millisecond)
	test.That(t, cfg.SecondaryAxisPolicy(), test.ShouldEqual, tapsensor.SecondaryAxisVertical)
	test.That(t, cfg.ShouldVerifyIdentity(), test.ShouldBeFalse)
	test.That(t, cfg.OnDoubleTap, test.ShouldResemble, map[string]string{"up": "lights"})
}

func TestConfigValidate(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	for _, tc := range []struct {
		name     string
		cfg      Config
		contains string
	}{
		{"missing bus", Config{InterruptPin: "int"}, "i2c_bus"},
		{"missing interrupt", Config{I2CBus: "main"}, "interrupt_pin"},
		{"sensitivity too large", Config{I2CBus: "main", InterruptPin: "int", Sensitivity: intPtr(0x100)}, "sensitivity"},
		{"negative duration", Config{I2CBus: "main", InterruptPin: "int", Duration: intPtr(-1)}, "duration"},
		{"window too short", Config{I2CBus: "main", InterruptPin: "int", DoubleTapWindowMs: 5}, "double_tap_window_ms"},
		{"window too long", Config{I2CBus: "main", InterruptPin: "int", DoubleTapWindowMs: 2001}, "double_tap_window_ms"},
		{"negative pulse", Config{I2CBus: "main", InterruptPin: "int", TapPulseMs: -3}, "tap_pulse_ms"},
		{"bad policy", Config{I2CBus: "main", InterruptPin: "int", SecondaryAxis: "diagonal"}, "diagonal"},
		{
			"bad action direction",
			Config{I2CBus: "main", InterruptPin: "int", OnSingleTap: map[string]string{"sideways": "x"}},
			"on_single_tap",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate("path")
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, "path")
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.contains)
		})
	}

	ok := Config{I2CBus: "main", InterruptPin: "int", Sensitivity: intPtr(0), DoubleTapWindowMs: 10}
	test.That(t, ok.Validate("path"), test.ShouldBeNil)
}
