package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/tapsense/components/board/fake"
	"go.viam.com/tapsense/components/tapsensor"
	"go.viam.com/tapsense/components/tapsensor/mpu6050"
	"go.viam.com/tapsense/config"
	"go.viam.com/tapsense/logging"
)

// defaultTapScript is a double tap to the right followed by two single taps.
const defaultTapScript = "right@0,right@150,up@600,down@1200"

// Acceleration written for a scripted tap: a strong reading on the tapped axis and a little
// noise on the others.
const (
	tapMagnitude int16 = 12000
	tapNoise     int16 = 700
)

// noTap is a script entry that pulses the interrupt with a flat sample.
const noTap = "none"

type scriptedTap struct {
	at   time.Duration
	name string
	x    int16
	y    int16
	z    int16
}

type simulatedGesture struct {
	at      time.Duration
	gesture tapsensor.Gesture
}

type simulation struct {
	gestures []simulatedGesture
	readings map[string]interface{}
}

// SimulateAction replays a tap script against a fake board and prints what the sensor made of it.
func SimulateAction(c *cli.Context) error {
	cfg, logger, done, err := setup(c, false)
	if err != nil {
		return err
	}
	defer done()

	taps, err := parseTapScript(c.String(tapsFlag))
	if err != nil {
		return err
	}
	result, err := simulate(c.Context, cfg, taps, logger)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", gestureTable(result.gestures))
	printf(c.App.Writer, "%s", readingsTable(result.readings))
	return nil
}

func parseTapScript(script string) ([]scriptedTap, error) {
	var taps []scriptedTap
	var last time.Duration
	for i, entry := range strings.Split(script, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, offset, hasOffset := strings.Cut(entry, "@")
		at := last
		if hasOffset {
			ms, err := strconv.Atoi(strings.TrimSpace(offset))
			if err != nil || ms < 0 {
				return nil, errors.Errorf("tap %d (%q): offset must be a non-negative number of milliseconds", i, entry)
			}
			at = time.Duration(ms) * time.Millisecond
		}
		if at < last {
			return nil, errors.Errorf("tap %d (%q): offset %v is before the previous tap at %v", i, entry, at, last)
		}
		tap, err := tapFor(strings.TrimSpace(name))
		if err != nil {
			return nil, errors.Wrapf(err, "tap %d", i)
		}
		tap.at = at
		taps = append(taps, tap)
		last = at
	}
	if len(taps) == 0 {
		return nil, errors.New("tap script is empty")
	}
	return taps, nil
}

func tapFor(name string) (scriptedTap, error) {
	if strings.EqualFold(name, noTap) {
		return scriptedTap{name: noTap}, nil
	}
	dir, err := tapsensor.ParseDirection(name)
	if err != nil {
		return scriptedTap{}, err
	}
	tap := scriptedTap{name: dir.String(), x: tapNoise, y: -tapNoise, z: tapNoise}
	switch dir {
	case tapsensor.Up:
		tap.z = tapMagnitude
	case tapsensor.Down:
		tap.z = -tapMagnitude
	case tapsensor.Right:
		tap.x = tapMagnitude
	case tapsensor.Left:
		tap.x = -tapMagnitude
	case tapsensor.Unknown:
	}
	return tap, nil
}

// simulate runs the sensor on a fake board and a mocked clock, one millisecond per loop
// iteration, until every scripted tap has been resolved.
func simulate(ctx context.Context, cfg *config.Config, taps []scriptedTap, logger logging.Logger) (_ *simulation, err error) {
	fb, err := fake.NewBoard(ctx, cfg.FakeBoard(), logger.Sublogger("board"))
	if err != nil {
		return nil, err
	}
	bus, ok := fb.I2Cs[cfg.Sensor.I2CBus]
	if !ok {
		return nil, errors.Errorf("no I2C bus named %q", cfg.Sensor.I2CBus)
	}
	interrupt, ok := fb.Digitals[cfg.Sensor.InterruptPin]
	if !ok {
		return nil, errors.Errorf("no digital interrupt named %q", cfg.Sensor.InterruptPin)
	}
	device := bus.Device(cfg.Sensor.Address())
	device.SetRegister(mpu6050.RegWhoAmI, mpu6050.DefaultAddress)

	// Nothing is settling on a fake bus.
	sensorCfg := cfg.Sensor
	sensorCfg.SettleDelayMs = 0

	mock := clock.NewMock()
	sensor, err := mpu6050.NewSteppedSensor(ctx, fb, &sensorCfg, mock, logger.Sublogger("mpu6050"))
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, sensor.Close(ctx), fb.Close(ctx))
	}()

	start := mock.Now()
	result := &simulation{}
	for _, k := range tapsensor.Kinds {
		for _, d := range tapsensor.Directions {
			if err := sensor.RegisterListener(k, d, func(g tapsensor.Gesture) {
				result.gestures = append(result.gestures, simulatedGesture{at: mock.Now().Sub(start), gesture: g})
			}); err != nil {
				return nil, err
			}
		}
	}

	end := taps[len(taps)-1].at + sensorCfg.DoubleTapWindow() + sensorCfg.TapPulse() + 10*time.Millisecond
	next := 0
	for elapsed := time.Duration(0); elapsed <= end; elapsed += time.Millisecond {
		for ; next < len(taps) && taps[next].at <= elapsed; next++ {
			tap := taps[next]
			logger.Debugw("tap", "at", tap.at, "direction", tap.name)
			device.SetRegisters(mpu6050.RegAccelXOutH, mpu6050.EncodeSample(tap.x, tap.y, tap.z))
			if err := interrupt.Pulse(ctx, uint64(mock.Now().UnixNano())); err != nil {
				return nil, err
			}
		}
		sensor.Step()
		mock.Add(time.Millisecond)
	}

	result.readings, err = sensor.Readings(ctx)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func gestureTable(gestures []simulatedGesture) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "At", "Gesture", "Timestamp"})
	for i, g := range gestures {
		t.AppendRow(table.Row{i + 1, g.at.String(), g.gesture.String(), g.gesture.Timestamp})
	}
	return t.Render()
}

func readingsTable(readings map[string]interface{}) string {
	keys := lo.Keys(readings)
	sort.Strings(keys)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Reading", "Value"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, fmt.Sprint(readings[k])})
	}
	return t.Render()
}
