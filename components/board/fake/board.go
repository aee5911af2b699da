// Package fake implements a fake board: an in-memory register file behind each I2C address and
// digital interrupts that are ticked by hand.
package fake

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/tapsense/components/board"
	"go.viam.com/tapsense/logging"
)

var _ = board.Board(&Board{})

// A Config describes the configuration of a fake board and all of its connected parts.
type Config struct {
	I2Cs              []board.I2CConfig              `json:"i2cs,omitempty"`
	DigitalInterrupts []board.DigitalInterruptConfig `json:"digital_interrupts,omitempty"`
	FailNew           bool                           `json:"fail_new"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	for idx, conf := range conf.I2Cs {
		if err := conf.Validate(fmt.Sprintf("%s.%s.%d", path, "i2cs", idx)); err != nil {
			return err
		}
	}
	for idx, conf := range conf.DigitalInterrupts {
		if err := conf.Validate(fmt.Sprintf("%s.%s.%d", path, "digital_interrupts", idx)); err != nil {
			return err
		}
	}

	if conf.FailNew {
		return errors.New("whoops")
	}

	return nil
}

// A Board provides in-memory buses and interrupts in order to implement a Board.
type Board struct {
	mu         sync.RWMutex
	I2Cs       map[string]*I2C
	Digitals   map[string]*DigitalInterrupt
	logger     logging.Logger
	CloseCount int
}

// NewBoard returns a new fake board.
func NewBoard(ctx context.Context, conf *Config, logger logging.Logger) (*Board, error) {
	if err := conf.Validate("board"); err != nil {
		return nil, err
	}
	b := &Board{
		I2Cs:     map[string]*I2C{},
		Digitals: map[string]*DigitalInterrupt{},
		logger:   logger,
	}
	for _, c := range conf.I2Cs {
		b.I2Cs[c.Name] = NewI2C()
	}
	for _, c := range conf.DigitalInterrupts {
		b.Digitals[c.Name] = NewDigitalInterrupt(c)
	}
	return b, nil
}

// I2CByName returns the I2C bus by the given name if it exists.
func (b *Board) I2CByName(name string) (board.I2C, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	bus, ok := b.I2Cs[name]
	if !ok {
		return nil, false
	}
	return bus, true
}

// DigitalInterruptByName returns the interrupt by the given name if it exists.
func (b *Board) DigitalInterruptByName(name string) (board.DigitalInterrupt, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d, ok := b.Digitals[name]
	if !ok {
		return nil, false
	}
	return d, true
}

// I2CNames returns the names of all known I2C buses.
func (b *Board) I2CNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := []string{}
	for k := range b.I2Cs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DigitalInterruptNames returns the names of all known digital interrupts.
func (b *Board) DigitalInterruptNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := []string{}
	for k := range b.Digitals {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Close attempts to cleanly close each part of the board.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCount++
	return nil
}

// DigitalInterrupt is a fake digital interrupt.
type DigitalInterrupt struct {
	*board.BasicDigitalInterrupt
}

// NewDigitalInterrupt returns a new fake digital interrupt.
func NewDigitalInterrupt(conf board.DigitalInterruptConfig) *DigitalInterrupt {
	return &DigitalInterrupt{BasicDigitalInterrupt: board.NewBasicDigitalInterrupt(conf)}
}

// Pulse drives the line low and back high, the way an active-low interrupt output does.
func (s *DigitalInterrupt) Pulse(ctx context.Context, nanoseconds uint64) error {
	if err := s.Tick(ctx, false, nanoseconds); err != nil {
		return err
	}
	return s.Tick(ctx, true, nanoseconds)
}
