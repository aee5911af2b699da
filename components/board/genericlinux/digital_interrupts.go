//go:build linux

// Package genericlinux is for Linux boards, and this particular file is for digital interrupt pins
// using the ioctl interface, indirectly by way of mkch's gpio package.
package genericlinux

import (
	"context"
	"strconv"
	"sync"

	"github.com/mkch/gpio"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/tapsense/components/board"
)

type digitalInterrupt struct {
	*board.BasicDigitalInterrupt
	boardWorkers *sync.WaitGroup
	line         *gpio.LineWithEvent
	cancelCtx    context.Context
	cancelFunc   func()
}

func chardevEdge(edge board.Edge) gpio.EventFlag {
	switch edge {
	case board.RisingEdge:
		return gpio.RisingEdge
	case board.BothEdges:
		return gpio.BothEdges
	default:
		return gpio.FallingEdge
	}
}

func (b *Board) createDigitalInterrupt(
	ctx context.Context,
	chipDev string,
	config board.DigitalInterruptConfig,
) (*digitalInterrupt, error) {
	offset, err := strconv.ParseUint(config.Pin, 10, 32)
	if err != nil {
		return nil, errors.Errorf("interrupt pin %q is not a line offset on %s", config.Pin, chipDev)
	}

	chip, err := gpio.OpenChip(chipDev)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(chip.Close)

	line, err := chip.OpenLineWithEvents(
		uint32(offset), gpio.Input, chardevEdge(config.Edge), "tapsense-interrupt")
	if err != nil {
		return nil, err
	}

	cancelCtx, cancelFunc := context.WithCancel(ctx)
	result := digitalInterrupt{
		BasicDigitalInterrupt: board.NewBasicDigitalInterrupt(config),
		boardWorkers:          &b.activeBackgroundWorkers,
		line:                  line,
		cancelCtx:             cancelCtx,
		cancelFunc:            cancelFunc,
	}
	result.startMonitor()
	return &result, nil
}

func (di *digitalInterrupt) startMonitor() {
	di.boardWorkers.Add(1)
	utils.ManagedGo(func() {
		for {
			select {
			case <-di.cancelCtx.Done():
				return
			case event := <-di.line.Events():
				utils.UncheckedError(di.Tick(
					di.cancelCtx, event.RisingEdge, uint64(event.Time.UnixNano())))
			}
		}
	}, di.boardWorkers.Done)
}

// The monitor goroutine only reads the event channel, so the line can close before it exits.
func (di *digitalInterrupt) Close() error {
	di.cancelFunc()
	return di.line.Close()
}
