// Package board defines the bus and interrupt contracts a sensor driver depends on: an I2C bus
// that hands out register-addressed handles, and digital interrupts that deliver edge ticks to a
// single installed handler.
package board

import (
	"context"
)

// I2C represents a shareable I2C bus on the board.
type I2C interface {
	// OpenHandle locks returns a handle interface that MUST be closed when done.
	// you cannot have 2 open for the same addr
	OpenHandle(addr byte) (I2CHandle, error)
}

// I2CHandle is similar to an io handle. It MUST be closed to release the bus.
type I2CHandle interface {
	Write(ctx context.Context, tx []byte) error
	Read(ctx context.Context, count int) ([]byte, error)

	ReadByteData(ctx context.Context, register byte) (byte, error)
	WriteByteData(ctx context.Context, register, data byte) error

	// ReadBlockData reads numBytes starting at register. A transport that delivers fewer bytes
	// than requested returns an error rather than a partial slice.
	ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error)
	WriteBlockData(ctx context.Context, register byte, data []byte) error

	// Close closes the handle and releases the lock on the bus.
	Close() error
}

// An I2CRegister is a lightweight wrapper around a handle for a particular register.
type I2CRegister struct {
	Handle   I2CHandle
	Register byte
}

// ReadByteData reads a byte from the I2C channel register.
func (reg *I2CRegister) ReadByteData(ctx context.Context) (byte, error) {
	return reg.Handle.ReadByteData(ctx, reg.Register)
}

// WriteByteData writes a byte to the I2C channel register.
func (reg *I2CRegister) WriteByteData(ctx context.Context, data byte) error {
	return reg.Handle.WriteByteData(ctx, reg.Register, data)
}

// Tick represents a signal received by an interrupt pin.
type Tick struct {
	Name             string
	High             bool
	TimestampNanosec uint64
}

// InterruptHandler runs for every accepted tick. It is called from the goroutine that watches the
// pin and must return quickly: no blocking, no locks shared with other goroutines, no logging.
type InterruptHandler func(Tick)

// A DigitalInterrupt represents a configured interrupt on the board that, when interrupted,
// calls the handler installed in its vector.
type DigitalInterrupt interface {
	// Name returns the name of the interrupt.
	Name() string

	// Value returns the number of ticks seen so far.
	Value(ctx context.Context) (int64, error)

	// Tick is to be called either manually if the interrupt is a proxy to some real
	// hardware interrupt or for tests.
	// nanoseconds is from an arbitrary point in time, but always increasing and always needs
	// to be accurate.
	Tick(ctx context.Context, high bool, nanoseconds uint64) error

	// Vector returns the handler slot for this interrupt.
	Vector() *InterruptVector
}

// A Board owns named buses and interrupts and releases them on Close.
type Board interface {
	I2CByName(name string) (I2C, bool)
	DigitalInterruptByName(name string) (DigitalInterrupt, bool)
	I2CNames() []string
	DigitalInterruptNames() []string
	Close(ctx context.Context) error
}
