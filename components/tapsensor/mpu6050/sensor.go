package mpu6050

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"go.viam.com/tapsense/components/board"
	"go.viam.com/tapsense/components/tapsensor"
	"go.viam.com/tapsense/logging"
	"go.viam.com/tapsense/utils"
)

// Sensor is an MPU-6050 armed for tap detection.
type Sensor struct {
	handle    board.I2CHandle
	interrupt board.DigitalInterrupt
	address   byte
	clock     utils.MonotonicClock
	loop      *utils.CooperativeLoop
	pipeline  *tapsensor.Pipeline
	logger    logging.Logger

	captureCtx    context.Context
	captureCancel func()
	workers       utils.StoppableWorkers

	// tapDetected is the binary "tap detected" state, cleared tap_pulse_ms after the last tap.
	tapDetected atomic.Bool
	pulseGen    uint64
	pulse       time.Duration

	stateMu        sync.Mutex
	stateListeners []func(bool)

	closeOnce sync.Once
	closeErr  error
}

// NewSensor arms the chip, installs the capture handler on the interrupt and starts the
// cooperative loop. clk is usually clock.New(); tests pass a mock.
func NewSensor(
	ctx context.Context,
	b board.Board,
	cfg *Config,
	clk clock.Clock,
	logger logging.Logger,
) (*Sensor, error) {
	s, err := newSensor(ctx, b, cfg, clk, logger)
	if err != nil {
		return nil, err
	}
	s.workers = utils.NewStoppableWorkers(s.loop.Run)
	return s, nil
}

// NewSteppedSensor is like NewSensor but starts no background loop: the caller advances the
// loop with Step. Used to replay taps against a mocked clock.
func NewSteppedSensor(
	ctx context.Context,
	b board.Board,
	cfg *Config,
	clk clock.Clock,
	logger logging.Logger,
) (*Sensor, error) {
	return newSensor(ctx, b, cfg, clk, logger)
}

// Step runs one iteration of the loop of a sensor made by NewSteppedSensor.
func (s *Sensor) Step() {
	s.loop.RunOnce()
}

// newSensor does everything NewSensor does except starting the loop.
func newSensor(
	ctx context.Context,
	b board.Board,
	cfg *Config,
	clk clock.Clock,
	logger logging.Logger,
) (*Sensor, error) {
	if err := cfg.Validate("sensor"); err != nil {
		return nil, err
	}
	bus, ok := b.I2CByName(cfg.I2CBus)
	if !ok {
		return nil, errors.Errorf("can't find I2C bus '%s' for MPU6050 sensor", cfg.I2CBus)
	}
	interrupt, ok := b.DigitalInterruptByName(cfg.InterruptPin)
	if !ok {
		return nil, errors.Errorf("can't find digital interrupt '%s' for MPU6050 sensor", cfg.InterruptPin)
	}

	address := cfg.Address()
	logger.Debugf("Using address 0x%02X for MPU6050 sensor", address)

	handle, err := bus.OpenHandle(address)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open I2C address 0x%02X on bus %s", address, cfg.I2CBus)
	}
	captureCtx, captureCancel := context.WithCancel(context.Background())
	guard := utils.NewGuard(func() {
		captureCancel()
		if err := handle.Close(); err != nil {
			logger.Error(err)
		}
	})
	defer guard.OnFail()

	if cfg.ShouldVerifyIdentity() {
		VerifyIdentity(ctx, handle, logger)
	}
	thresholds := cfg.Thresholds()
	if err := Configure(ctx, handle, thresholds, cfg.SettleDelay(), clk, logger); err != nil {
		logger.Warnw("MPU6050 configuration incomplete, taps may not be detected", "error", err)
	}

	mono := utils.NewMonotonicClock(clk)
	loop := utils.NewCooperativeLoop(mono, cfg.LoopInterval())
	s := &Sensor{
		handle:        handle,
		interrupt:     interrupt,
		address:       address,
		clock:         mono,
		loop:          loop,
		logger:        logger,
		captureCtx:    captureCtx,
		captureCancel: captureCancel,
		pulse:         cfg.TapPulse(),
	}
	s.pipeline = tapsensor.NewPipeline(
		cfg.DoubleTapWindow(), cfg.SecondaryAxisPolicy(), mono, loop, logger.Sublogger("pipeline"))
	s.pipeline.OnTap(s.onTap)
	loop.AddPoller(s.pipeline.Poll)

	if err := s.registerActions(tapsensor.Single, cfg.OnSingleTap); err != nil {
		return nil, err
	}
	if err := s.registerActions(tapsensor.Double, cfg.OnDoubleTap); err != nil {
		return nil, err
	}

	// The handler goes in before the line can deliver anything to it.
	if err := interrupt.Vector().Install(s.capture); err != nil {
		return nil, errors.Wrapf(err, "installing tap handler on interrupt %s", cfg.InterruptPin)
	}

	logger.Infow("MPU6050 tap sensor armed",
		"address", fmt.Sprintf("0x%02X", address),
		"interrupt", cfg.InterruptPin,
		"sensitivity", fmt.Sprintf("0x%02X", thresholds.Sensitivity),
		"duration", fmt.Sprintf("0x%02X", thresholds.Duration),
		"double_tap_window", s.pipeline.Window().String())
	guard.Success()
	return s, nil
}

func (s *Sensor) registerActions(kind tapsensor.Kind, actions map[string]string) error {
	for name, action := range actions {
		dir, err := tapsensor.ParseDirection(name)
		if err != nil {
			return err
		}
		action := action
		if err := s.pipeline.Register(kind, dir, func(g tapsensor.Gesture) {
			s.logger.Infow("tap action", "gesture", g.String(), "action", action)
		}); err != nil {
			return err
		}
	}
	return nil
}

// RegisterListener adds a gesture listener. Listeners run on the sensor's loop and must not block.
func (s *Sensor) RegisterListener(kind tapsensor.Kind, dir tapsensor.Direction, l tapsensor.Listener) error {
	return s.pipeline.Register(kind, dir, l)
}

// OnTapDetected adds a listener for changes of the binary "tap detected" state.
func (s *Sensor) OnTapDetected(f func(bool)) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.stateListeners = append(s.stateListeners, f)
}

// onTap runs on the loop for every classified tap.
func (s *Sensor) onTap(_ tapsensor.Sample, _ tapsensor.Direction) {
	s.pulseGen++
	generation := s.pulseGen
	if !s.tapDetected.Swap(true) {
		s.notifyState(true)
	}
	s.loop.After(s.pulse, func() {
		if generation != s.pulseGen {
			return
		}
		if s.tapDetected.Swap(false) {
			s.notifyState(false)
		}
	})
}

func (s *Sensor) notifyState(detected bool) {
	s.stateMu.Lock()
	listeners := s.stateListeners
	s.stateMu.Unlock()
	for _, f := range listeners {
		f(detected)
	}
}

// Readings returns gesture counts and the current tap state.
func (s *Sensor) Readings(ctx context.Context) (map[string]interface{}, error) {
	readings := make(map[string]interface{})
	for _, k := range tapsensor.Kinds {
		for _, d := range tapsensor.Directions {
			readings[fmt.Sprintf("%s_tap_%s_count", k, d)] = s.pipeline.GestureCount(k, d)
		}
	}
	readings["dropped_taps"] = s.pipeline.Dropped()
	readings["tap_detected"] = s.tapDetected.Load()
	readings["pending_tap"] = s.pipeline.Pending()
	return readings, nil
}

// Address returns the I2C address in use.
func (s *Sensor) Address() byte {
	return s.address
}

// Close stops the loop, detaches from the interrupt and puts the chip to sleep.
func (s *Sensor) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		if s.workers != nil {
			s.workers.Stop()
		}
		s.interrupt.Vector().Release()
		s.captureCancel()

		// Set the Sleep bit (bit 6) in the power control register.
		err := s.handle.WriteByteData(ctx, RegPwrMgmt1, pwrMgmtSleep)
		if err != nil {
			s.logger.Warnw("unable to put MPU6050 to sleep", "error", err)
		}
		s.closeErr = multierr.Combine(err, s.handle.Close())
	})
	return s.closeErr
}
