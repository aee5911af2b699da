package mpu6050

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/tapsense/components/board"
	"go.viam.com/tapsense/logging"
)

// Thresholds are the motion detection settings that make the chip interrupt on a tap.
type Thresholds struct {
	Sensitivity byte
	Duration    byte
}

// A RegisterWrite is one step of the arming sequence.
type RegisterWrite struct {
	Register byte
	Value    byte
}

// RegisterPlan returns the ordered writes that arm the chip for tap interrupts.
func RegisterPlan(t Thresholds) []RegisterWrite {
	return []RegisterWrite{
		{RegPwrMgmt1, pwrMgmtWake},
		{RegAccelConfig, accelRange2G},
		{RegMotThr, t.Sensitivity},
		{RegMotDur, t.Duration},
		{RegIntEnable, intEnableMotion},
		{RegIntPinCfg, intPinActiveLowOpenDrain},
	}
}

// Configure writes the arming sequence. Every write is attempted even if an earlier one failed;
// failures are logged and returned combined. settle is slept on clk after each write.
func Configure(
	ctx context.Context,
	handle board.I2CHandle,
	t Thresholds,
	settle time.Duration,
	clk clock.Clock,
	logger logging.Logger,
) error {
	var errs error
	for _, w := range RegisterPlan(t) {
		if err := handle.WriteByteData(ctx, w.Register, w.Value); err != nil {
			err = errors.Wrapf(err, "writing 0x%02X to %s", w.Value, RegisterName(w.Register))
			logger.Warnw("MPU6050 configuration write failed", "register", RegisterName(w.Register), "error", err)
			errs = multierr.Combine(errs, err)
		}
		if settle > 0 {
			clk.Sleep(settle)
		}
	}
	return errs
}

// VerifyIdentity reads WHO_AM_I and logs when the chip does not answer as an MPU-6050. It never
// fails: an unexpected identity byte does not mean the bus is unusable.
func VerifyIdentity(ctx context.Context, handle board.I2CHandle, logger logging.Logger) {
	whoAmI := board.I2CRegister{Handle: handle, Register: RegWhoAmI}
	id, err := whoAmI.ReadByteData(ctx)
	if err != nil {
		logger.Warnw("unable to read MPU6050 identity", "error", err)
		return
	}
	if id != expectedWhoAmI {
		logger.Warnf("unexpected device identity 0x%02X, expected 0x%02X; continuing anyway", id, expectedWhoAmI)
		return
	}
	logger.Debugf("MPU6050 identity 0x%02X confirmed", id)
}
