package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/tapsense/components/board/genericlinux"
	"go.viam.com/tapsense/components/tapsensor"
	"go.viam.com/tapsense/components/tapsensor/mpu6050"
)

// RunAction arms the sensor on the configured board and prints every gesture until the process
// is interrupted.
func RunAction(c *cli.Context) (err error) {
	cfg, logger, done, err := setup(c, true)
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b, err := genericlinux.NewBoard(ctx, &cfg.Board, logger.Sublogger("board"))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, b.Close(context.Background()))
	}()

	sensor, err := mpu6050.NewSensor(ctx, b, &cfg.Sensor, clock.New(), logger.Sublogger("mpu6050"))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, sensor.Close(context.Background()))
	}()

	for _, k := range tapsensor.Kinds {
		for _, d := range tapsensor.Directions {
			if err := sensor.RegisterListener(k, d, func(g tapsensor.Gesture) {
				printf(c.App.Writer, "%s", g)
			}); err != nil {
				return err
			}
		}
	}
	sensor.OnTapDetected(func(detected bool) {
		logger.Debugw("tap state changed", "detected", detected)
	})

	if schedule := c.String(readingsScheduleFlag); schedule != "" {
		scheduler, schedErr := newReadingsScheduler(ctx, schedule, sensor.Readings, logger.Sublogger("readings"))
		if schedErr != nil {
			return schedErr
		}
		defer func() {
			err = multierr.Combine(err, scheduler.Shutdown())
		}()
	}

	logger.Info("waiting for taps, press Ctrl-C to stop")
	<-ctx.Done()
	return nil
}
