package fake

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/tapsense/components/board"
	"go.viam.com/tapsense/utils"
)

// RegisterWrite records a single register write seen by a Device.
type RegisterWrite struct {
	Register byte
	Value    byte
}

// I2C is a fake bus. Every address answers with its own Device.
type I2C struct {
	mu      sync.Mutex
	devices map[byte]*Device
	opened  map[byte]bool
}

// NewI2C returns an empty bus.
func NewI2C() *I2C {
	return &I2C{devices: map[byte]*Device{}, opened: map[byte]bool{}}
}

// Device returns the register file at addr, creating it if needed.
func (bus *I2C) Device(addr byte) *Device {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return bus.deviceLocked(addr)
}

func (bus *I2C) deviceLocked(addr byte) *Device {
	d, ok := bus.devices[addr]
	if !ok {
		d = &Device{failWrites: map[byte]error{}}
		bus.devices[addr] = d
	}
	return d
}

// OpenHandle opens a handle on addr. Only one handle per address may be open.
func (bus *I2C) OpenHandle(addr byte) (board.I2CHandle, error) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.opened[addr] {
		return nil, errors.Errorf("address 0x%02X is already open", addr)
	}
	bus.opened[addr] = true
	return &i2cHandle{bus: bus, addr: addr, device: bus.deviceLocked(addr)}, nil
}

// IsOpen reports whether a handle on addr is open.
func (bus *I2C) IsOpen(addr byte) bool {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return bus.opened[addr]
}

// Device is a 256-byte register file with auto-incrementing block access and injectable faults.
type Device struct {
	mu         sync.Mutex
	registers  [256]byte
	writes     []RegisterWrite
	failWrites map[byte]error
	readErr    error
	shortRead  int
	reads      int
}

// SetRegister sets a register without recording a write.
func (d *Device) SetRegister(register, value byte) {
	d.SetRegisters(register, []byte{value})
}

// SetRegisters sets consecutive registers starting at register.
func (d *Device) SetRegisters(register byte, values []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, v := range values {
		d.registers[register+byte(i)] = v
	}
}

// Register returns the current value of a register.
func (d *Device) Register(register byte) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registers[register]
}

// Writes returns every register write in the order it happened.
func (d *Device) Writes() []RegisterWrite {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]RegisterWrite(nil), d.writes...)
}

// Reads returns how many read transactions the device answered, failed ones included.
func (d *Device) Reads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reads
}

// FailWrites makes every write to register fail with err. A nil err clears the fault.
func (d *Device) FailWrites(register byte, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.failWrites, register)
		return
	}
	d.failWrites[register] = err
}

// FailReads makes every read fail with err. A nil err clears the fault.
func (d *Device) FailReads(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readErr = err
}

// ShortReads makes block reads deliver only n bytes. Zero clears the fault.
func (d *Device) ShortReads(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shortRead = n
}

func (d *Device) write(register byte, values []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.failWrites[register]; ok {
		return err
	}
	for i, v := range values {
		reg := register + byte(i)
		d.registers[reg] = v
		d.writes = append(d.writes, RegisterWrite{Register: reg, Value: v})
	}
	return nil
}

func (d *Device) read(register byte, count int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads++
	if d.readErr != nil {
		return nil, d.readErr
	}
	if d.shortRead > 0 && d.shortRead < count {
		return nil, utils.NewShortReadError(register, count, d.shortRead)
	}
	out := make([]byte, count)
	for i := range out {
		out[i] = d.registers[register+byte(i)]
	}
	return out, nil
}

type i2cHandle struct {
	bus    *I2C
	addr   byte
	device *Device
	// cursor is the register a bare Read starts from, set by the first byte of a bare Write.
	cursor byte
}

func (h *i2cHandle) Write(ctx context.Context, tx []byte) error {
	if len(tx) == 0 {
		return nil
	}
	h.cursor = tx[0]
	if len(tx) == 1 {
		return nil
	}
	return h.device.write(tx[0], tx[1:])
}

func (h *i2cHandle) Read(ctx context.Context, count int) ([]byte, error) {
	return h.device.read(h.cursor, count)
}

func (h *i2cHandle) ReadByteData(ctx context.Context, register byte) (byte, error) {
	data, err := h.device.read(register, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

func (h *i2cHandle) WriteByteData(ctx context.Context, register, data byte) error {
	return h.device.write(register, []byte{data})
}

func (h *i2cHandle) ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
	return h.device.read(register, int(numBytes))
}

func (h *i2cHandle) WriteBlockData(ctx context.Context, register byte, data []byte) error {
	return h.device.write(register, data)
}

func (h *i2cHandle) Close() error {
	h.bus.mu.Lock()
	defer h.bus.mu.Unlock()
	delete(h.bus.opened, h.addr)
	return nil
}
