package genericlinux

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"go.viam.com/tapsense/components/board"
)

// i2cBus wraps a periph.io bus. Transactions from all handles on the bus are serialized.
type i2cBus struct {
	name string

	mu     sync.Mutex
	bus    i2c.BusCloser
	opened map[byte]bool
}

func newI2cBus(name string) (*i2cBus, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "opening I2C bus %q", name)
	}
	return &i2cBus{name: name, bus: bus, opened: map[byte]bool{}}, nil
}

// This lets the i2cBus type implement the board.I2C interface.
func (bus *i2cBus) OpenHandle(addr byte) (board.I2CHandle, error) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.bus == nil {
		return nil, errors.Errorf("I2C bus %q is closed", bus.name)
	}
	if bus.opened[addr] {
		return nil, errors.Errorf("address 0x%02X on I2C bus %q is already open", addr, bus.name)
	}
	bus.opened[addr] = true
	return &i2cHandle{bus: bus, addr: addr, dev: &i2c.Dev{Bus: bus.bus, Addr: uint16(addr)}}, nil
}

func (bus *i2cBus) tx(dev *i2c.Dev, w, r []byte) error {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.bus == nil {
		return errors.Errorf("I2C bus %q is closed", bus.name)
	}
	return dev.Tx(w, r)
}

func (bus *i2cBus) release(addr byte) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.opened, addr)
}

func (bus *i2cBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.bus == nil {
		return nil
	}
	err := bus.bus.Close()
	bus.bus = nil
	return err
}

type i2cHandle struct {
	bus  *i2cBus
	addr byte
	dev  *i2c.Dev
}

func (h *i2cHandle) Write(ctx context.Context, tx []byte) error {
	return h.bus.tx(h.dev, tx, nil)
}

func (h *i2cHandle) Read(ctx context.Context, count int) ([]byte, error) {
	buffer := make([]byte, count)
	if err := h.bus.tx(h.dev, nil, buffer); err != nil {
		return nil, err
	}
	return buffer, nil
}

func (h *i2cHandle) ReadByteData(ctx context.Context, register byte) (byte, error) {
	var buffer [1]byte
	if err := h.bus.tx(h.dev, []byte{register}, buffer[:]); err != nil {
		return 0, err
	}
	return buffer[0], nil
}

func (h *i2cHandle) WriteByteData(ctx context.Context, register, data byte) error {
	return h.bus.tx(h.dev, []byte{register, data}, nil)
}

// periph fails the whole transaction when the device NAKs early, so a successful Tx always fills
// the buffer.
func (h *i2cHandle) ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
	buffer := make([]byte, numBytes)
	if err := h.bus.tx(h.dev, []byte{register}, buffer); err != nil {
		return nil, err
	}
	return buffer, nil
}

func (h *i2cHandle) WriteBlockData(ctx context.Context, register byte, data []byte) error {
	rawData := make([]byte, len(data)+1)
	rawData[0] = register
	copy(rawData[1:], data)
	return h.bus.tx(h.dev, rawData, nil)
}

func (h *i2cHandle) Close() error {
	h.bus.release(h.addr)
	return nil
}
