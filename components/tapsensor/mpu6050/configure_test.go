package mpu6050

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"go.viam.com/test"

	"go.viam.com/tapsense/components/board/fake"
	"go.viam.com/tapsense/logging"
	"go.viam.com/tapsense/testutils/inject"
)

func TestConfigureRegisterOrder(t *testing.T) {
	ctx := context.Background()
	bus := fake.NewI2C()
	handle, err := bus.OpenHandle(DefaultAddress)
	test.That(t, err, test.ShouldBeNil)

	err = Configure(ctx, handle, Thresholds{Sensitivity: 0x22, Duration: 0x05}, 0, clock.New(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bus.Device(DefaultAddress).Writes(), test.ShouldResemble, []fake.RegisterWrite{
		{Register: 0x6B, Value: 0x00},
		{Register: 0x1C, Value: 0x00},
		{Register: 0x1F, Value: 0x22},
		{Register: 0x20, Value: 0x05},
		{Register: 0x38, Value: 0x40},
		{Register: 0x37, Value: 0xC0},
	})
}

func TestConfigureIsBestEffort(t *testing.T) {
	ctx := context.Background()
	bus := fake.NewI2C()
	dev := bus.Device(DefaultAddress)
	dev.FailWrites(RegMotThr, errors.New("nak"))
	dev.FailWrites(RegIntPinCfg, errors.New("nak"))
	handle, err := bus.OpenHandle(DefaultAddress)
	test.That(t, err, test.ShouldBeNil)

	logger, logs := logging.NewObservedTestLogger(t)
	err = Configure(ctx, handle, Thresholds{Sensitivity: 0x40, Duration: 0x01}, 0, clock.New(), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "MOT_THR")
	test.That(t, err.Error(), test.ShouldContainSubstring, "INT_PIN_CFG")

	test.That(t, dev.Writes(), test.ShouldResemble, []fake.RegisterWrite{
		{Register: 0x6B, Value: 0x00},
		{Register: 0x1C, Value: 0x00},
		{Register: 0x20, Value: 0x01},
		{Register: 0x38, Value: 0x40},
	})
	test.That(t, logs.FilterLevelExact(zapcore.WarnLevel).Len(), test.ShouldEqual, 2)
}

func TestConfigureSettleDelay(t *testing.T) {
	var writes []time.Time
	handle := &inject.I2CHandle{
		WriteByteDataFunc: func(ctx context.Context, register, data byte) error {
			writes = append(writes, time.Now())
			return nil
		},
	}
	start := time.Now()
	err := Configure(context.Background(), handle, Thresholds{}, 2*time.Millisecond, clock.New(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, writes, test.ShouldHaveLength, 6)
	test.That(t, time.Since(start) >= 12*time.Millisecond, test.ShouldBeTrue)
	test.That(t, writes[5].Sub(writes[0]) >= 10*time.Millisecond, test.ShouldBeTrue)
}

func TestVerifyIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("expected identity", func(t *testing.T) {
		logger, logs := logging.NewObservedTestLogger(t)
		handle := &inject.I2CHandle{
			ReadByteDataFunc: func(ctx context.Context, register byte) (byte, error) {
				test.That(t, register, test.ShouldEqual, RegWhoAmI)
				return 0x68, nil
			},
		}
		VerifyIdentity(ctx, handle, logger)
		test.That(t, logs.FilterLevelExact(zapcore.WarnLevel).Len(), test.ShouldEqual, 0)
	})

	t.Run("unexpected identity only warns", func(t *testing.T) {
		logger, logs := logging.NewObservedTestLogger(t)
		handle := &inject.I2CHandle{
			ReadByteDataFunc: func(ctx context.Context, register byte) (byte, error) {
				return 0x72, nil
			},
		}
		VerifyIdentity(ctx, handle, logger)
		warnings := logs.FilterLevelExact(zapcore.WarnLevel)
		test.That(t, warnings.Len(), test.ShouldEqual, 1)
		test.That(t, warnings.All()[0].Message, test.ShouldContainSubstring, "0x72")
	})

	t.Run("failed read only warns", func(t *testing.T) {
		logger, logs := logging.NewObservedTestLogger(t)
		handle := &inject.I2CHandle{
			ReadByteDataFunc: func(ctx context.Context, register byte) (byte, error) {
				return 0, errors.New("bus error")
			},
		}
		VerifyIdentity(ctx, handle, logger)
		test.That(t, logs.FilterMessageSnippet("unable to read").Len(), test.ShouldEqual, 1)
	})
}

func TestRegisterNames(t *testing.T) {
	test.That(t, RegisterName(RegPwrMgmt1), test.ShouldEqual, "PWR_MGMT_1")
	test.That(t, RegisterName(0x00), test.ShouldEqual, "UNKNOWN")
	for _, w := range RegisterPlan(Thresholds{}) {
		test.That(t, RegisterName(w.Register), test.ShouldNotEqual, "UNKNOWN")
	}
}
