package inject

import (
	"context"

	"go.viam.com/tapsense/components/board"
)

// DigitalInterrupt is an injected digital interrupt.
type DigitalInterrupt struct {
	board.DigitalInterrupt
	NameFunc   func() string
	ValueFunc  func(ctx context.Context) (int64, error)
	valueCap   []interface{}
	TickFunc   func(ctx context.Context, high bool, nanos uint64) error
	tickCap    []interface{}
	VectorFunc func() *board.InterruptVector
}

// Name calls the injected Name or the real version.
func (d *DigitalInterrupt) Name() string {
	if d.NameFunc == nil {
		return d.DigitalInterrupt.Name()
	}
	return d.NameFunc()
}

// Value calls the injected Value or the real version.
func (d *DigitalInterrupt) Value(ctx context.Context) (int64, error) {
	d.valueCap = []interface{}{ctx}
	if d.ValueFunc == nil {
		return d.DigitalInterrupt.Value(ctx)
	}
	return d.ValueFunc(ctx)
}

// ValueCap returns the last parameters received by Value, and then clears them.
func (d *DigitalInterrupt) ValueCap() []interface{} {
	if d == nil {
		return nil
	}
	defer func() { d.valueCap = nil }()
	return d.valueCap
}

// Tick calls the injected Tick or the real version.
func (d *DigitalInterrupt) Tick(ctx context.Context, high bool, nanos uint64) error {
	d.tickCap = []interface{}{ctx, high, nanos}
	if d.TickFunc == nil {
		return d.DigitalInterrupt.Tick(ctx, high, nanos)
	}
	return d.TickFunc(ctx, high, nanos)
}

// TickCap returns the last parameters received by Tick, and then clears them.
func (d *DigitalInterrupt) TickCap() []interface{} {
	if d == nil {
		return nil
	}
	defer func() { d.tickCap = nil }()
	return d.tickCap
}

// Vector calls the injected Vector or the real version.
func (d *DigitalInterrupt) Vector() *board.InterruptVector {
	if d.VectorFunc == nil {
		return d.DigitalInterrupt.Vector()
	}
	return d.VectorFunc()
}
