package mpu6050

import (
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/tapsense/components/tapsensor"
)

// Accepted range for the double tap window.
const (
	minDoubleTapWindowMs = 10
	maxDoubleTapWindowMs = 2000
)

// Defaults for the timing options.
const (
	DefaultLoopInterval = 16 * time.Millisecond
	DefaultTapPulse     = 100 * time.Millisecond
)

// Config is used to configure the attributes of the chip.
type Config struct {
	I2CBus                 string `json:"i2c_bus"`
	UseAlternateI2CAddress bool   `json:"use_alt_i2c_address,omitempty"`
	InterruptPin           string `json:"interrupt_pin"`

	// Sensitivity is written to MOT_THR and Duration to MOT_DUR. Both accept "0x.." strings.
	Sensitivity *int `json:"sensitivity,omitempty"`
	Duration    *int `json:"duration,omitempty"`

	DoubleTapWindowMs int    `json:"double_tap_window_ms,omitempty"`
	SecondaryAxis     string `json:"secondary_axis,omitempty"`
	VerifyIdentity    *bool  `json:"verify_identity,omitempty"`
	SettleDelayMs     int    `json:"settle_delay_ms,omitempty"`
	LoopIntervalMs    int    `json:"loop_interval_ms,omitempty"`
	TapPulseMs        int    `json:"tap_pulse_ms,omitempty"`

	// OnSingleTap and OnDoubleTap map a direction to an action label that is logged when the
	// gesture happens.
	OnSingleTap map[string]string `json:"on_single_tap,omitempty"`
	OnDoubleTap map[string]string `json:"on_double_tap,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.I2CBus == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "i2c_bus")
	}
	if cfg.InterruptPin == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "interrupt_pin")
	}
	if err := validateRegisterValue("sensitivity", cfg.Sensitivity); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if err := validateRegisterValue("duration", cfg.Duration); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if cfg.DoubleTapWindowMs != 0 &&
		(cfg.DoubleTapWindowMs < minDoubleTapWindowMs || cfg.DoubleTapWindowMs > maxDoubleTapWindowMs) {
		return utils.NewConfigValidationError(path, errors.Errorf(
			"double_tap_window_ms must be between %d and %d, got %d",
			minDoubleTapWindowMs, maxDoubleTapWindowMs, cfg.DoubleTapWindowMs))
	}
	for field, value := range map[string]int{
		"settle_delay_ms":  cfg.SettleDelayMs,
		"loop_interval_ms": cfg.LoopIntervalMs,
		"tap_pulse_ms":     cfg.TapPulseMs,
	} {
		if value < 0 {
			return utils.NewConfigValidationError(path, errors.Errorf("%s cannot be negative, got %d", field, value))
		}
	}
	if _, err := tapsensor.ParseSecondaryAxisPolicy(cfg.SecondaryAxis); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	for field, actions := range map[string]map[string]string{
		"on_single_tap": cfg.OnSingleTap,
		"on_double_tap": cfg.OnDoubleTap,
	} {
		for dir := range actions {
			if _, err := tapsensor.ParseDirection(dir); err != nil {
				return utils.NewConfigValidationError(path, errors.Wrap(err, field))
			}
		}
	}
	return nil
}

func validateRegisterValue(field string, value *int) error {
	if value == nil {
		return nil
	}
	if *value < 0 || *value > 0xFF {
		return errors.Errorf("%s must fit in one byte, got %d", field, *value)
	}
	return nil
}

// Address returns the I2C address selected by the AD0 wiring.
func (cfg *Config) Address() byte {
	if cfg.UseAlternateI2CAddress {
		return AlternateAddress
	}
	return DefaultAddress
}

// Thresholds returns the motion detection thresholds, defaulted.
func (cfg *Config) Thresholds() Thresholds {
	t := Thresholds{Sensitivity: DefaultSensitivity, Duration: DefaultDuration}
	if cfg.Sensitivity != nil {
		t.Sensitivity = byte(*cfg.Sensitivity)
	}
	if cfg.Duration != nil {
		t.Duration = byte(*cfg.Duration)
	}
	return t
}

// DoubleTapWindow returns the disambiguation window, defaulted.
func (cfg *Config) DoubleTapWindow() time.Duration {
	if cfg.DoubleTapWindowMs == 0 {
		return tapsensor.DefaultDoubleTapWindow
	}
	return time.Duration(cfg.DoubleTapWindowMs) * time.Millisecond
}

// SecondaryAxisPolicy returns the classifier policy for Y-dominant taps.
func (cfg *Config) SecondaryAxisPolicy() tapsensor.SecondaryAxisPolicy {
	// Validate already rejected anything unparseable.
	policy, err := tapsensor.ParseSecondaryAxisPolicy(cfg.SecondaryAxis)
	if err != nil {
		return tapsensor.SecondaryAxisUnknown
	}
	return policy
}

// ShouldVerifyIdentity reports whether WHO_AM_I is checked at startup. Defaults to true.
func (cfg *Config) ShouldVerifyIdentity() bool {
	return cfg.VerifyIdentity == nil || *cfg.VerifyIdentity
}

// SettleDelay returns the pause after each configuration write.
func (cfg *Config) SettleDelay() time.Duration {
	return time.Duration(cfg.SettleDelayMs) * time.Millisecond
}

// LoopInterval returns the cooperative loop period, defaulted.
func (cfg *Config) LoopInterval() time.Duration {
	if cfg.LoopIntervalMs == 0 {
		return DefaultLoopInterval
	}
	return time.Duration(cfg.LoopIntervalMs) * time.Millisecond
}

// TapPulse returns how long tap_detected stays true after a tap, defaulted.
func (cfg *Config) TapPulse() time.Duration {
	if cfg.TapPulseMs == 0 {
		return DefaultTapPulse
	}
	return time.Duration(cfg.TapPulseMs) * time.Millisecond
}
