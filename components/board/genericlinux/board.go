// Package genericlinux implements a board for Linux hosts: I2C buses through periph.io and
// interrupt pins either through periph.io edge detection or through the GPIO character device.
package genericlinux

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/host/v3"

	"go.viam.com/tapsense/components/board"
	"go.viam.com/tapsense/logging"
)

var _ = board.Board(&Board{})

type closableInterrupt interface {
	board.DigitalInterrupt
	Close() error
}

// Board is a Linux board exposing its configured I2C buses and digital interrupts by name.
type Board struct {
	logger logging.Logger

	mu         sync.Mutex
	i2cs       map[string]*i2cBus
	interrupts map[string]closableInterrupt

	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewBoard opens every configured bus and arms every configured interrupt. On failure everything
// opened so far is closed again.
func NewBoard(ctx context.Context, conf *Config, logger logging.Logger) (_ *Board, err error) {
	if err := conf.Validate("board"); err != nil {
		return nil, err
	}

	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	b := &Board{
		logger:     logger,
		i2cs:       map[string]*i2cBus{},
		interrupts: map[string]closableInterrupt{},
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}
	defer func() {
		if err != nil {
			err = multierr.Combine(err, b.Close(ctx))
		}
	}()

	if len(conf.I2Cs) != 0 || (conf.UsePeriphGPIO && len(conf.DigitalInterrupts) != 0) {
		if _, err := host.Init(); err != nil {
			return nil, errors.Wrap(err, "initializing periph host drivers")
		}
	}

	for _, i2cConf := range conf.I2Cs {
		bus, err := newI2cBus(i2cConf.Bus)
		if err != nil {
			return nil, err
		}
		b.i2cs[i2cConf.Name] = bus
		logger.Debugw("opened I2C bus", "name", i2cConf.Name, "bus", i2cConf.Bus)
	}

	for _, diConf := range conf.DigitalInterrupts {
		var di closableInterrupt
		if conf.UsePeriphGPIO {
			di, err = newPeriphInterrupt(diConf)
		} else {
			di, err = b.createDigitalInterrupt(b.cancelCtx, conf.gpioChip(), diConf)
		}
		if err != nil {
			return nil, err
		}
		b.interrupts[diConf.Name] = di
		logger.Debugw("armed digital interrupt", "name", diConf.Name, "pin", diConf.Pin, "periph", conf.UsePeriphGPIO)
	}
	return b, nil
}

// I2CByName returns the named I2C bus.
func (b *Board) I2CByName(name string) (board.I2C, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bus, ok := b.i2cs[name]
	if !ok {
		return nil, false
	}
	return bus, true
}

// DigitalInterruptByName returns the named interrupt.
func (b *Board) DigitalInterruptByName(name string) (board.DigitalInterrupt, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	interrupt, ok := b.interrupts[name]
	if !ok {
		return nil, false
	}
	return interrupt, true
}

// I2CNames returns the names of all I2C buses, sorted.
func (b *Board) I2CNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.i2cs) == 0 {
		return nil
	}
	names := make([]string, 0, len(b.i2cs))
	for k := range b.i2cs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DigitalInterruptNames returns the names of all digital interrupts, sorted.
func (b *Board) DigitalInterruptNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.interrupts) == 0 {
		return nil
	}
	names := make([]string, 0, len(b.interrupts))
	for k := range b.interrupts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Close stops the interrupt watchers and releases every line and bus.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	b.cancelFunc()
	b.mu.Unlock()
	b.activeBackgroundWorkers.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	var err error
	for name, interrupt := range b.interrupts {
		err = multierr.Combine(err, interrupt.Close())
		delete(b.interrupts, name)
	}
	for name, bus := range b.i2cs {
		err = multierr.Combine(err, bus.Close())
		delete(b.i2cs, name)
	}
	return err
}
