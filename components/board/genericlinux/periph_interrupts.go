package genericlinux

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	goutils "go.viam.com/utils"

	"go.viam.com/tapsense/components/board"
	"go.viam.com/tapsense/utils"
)

// edgePollTimeout bounds each WaitForEdge call so the watcher notices cancellation.
const edgePollTimeout = 100 * time.Millisecond

// periphInterrupt watches a periph.io pin configured as a pulled-up input with edge detection.
type periphInterrupt struct {
	*board.BasicDigitalInterrupt
	pin     gpio.PinIO
	workers utils.StoppableWorkers
}

func periphEdge(edge board.Edge) gpio.Edge {
	switch edge {
	case board.RisingEdge:
		return gpio.RisingEdge
	case board.BothEdges:
		return gpio.BothEdges
	default:
		return gpio.FallingEdge
	}
}

func newPeriphInterrupt(config board.DigitalInterruptConfig) (*periphInterrupt, error) {
	pin := gpioreg.ByName(config.Pin)
	if pin == nil {
		return nil, errors.Errorf("no periph GPIO pin named %q", config.Pin)
	}
	if err := pin.In(gpio.PullUp, periphEdge(config.Edge)); err != nil {
		return nil, errors.Wrapf(err, "arming interrupt pin %q", config.Pin)
	}

	di := &periphInterrupt{
		BasicDigitalInterrupt: board.NewBasicDigitalInterrupt(config),
		pin:                   pin,
	}
	di.workers = utils.NewStoppableWorkers(di.watch)
	return di, nil
}

func (di *periphInterrupt) watch(ctx context.Context) {
	edge := di.Config().Edge
	for ctx.Err() == nil {
		if !di.pin.WaitForEdge(edgePollTimeout) {
			continue
		}
		var high bool
		switch edge {
		case board.RisingEdge:
			high = true
		case board.BothEdges:
			high = di.pin.Read() == gpio.High
		}
		goutils.UncheckedError(di.Tick(ctx, high, uint64(time.Now().UnixNano())))
	}
}

func (di *periphInterrupt) Close() error {
	di.workers.Stop()
	return di.pin.Halt()
}
