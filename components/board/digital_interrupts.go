package board

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// ErrVectorInUse is returned when a handler is installed into a vector that already has one.
var ErrVectorInUse = errors.New("interrupt vector already has a handler installed")

// An InterruptVector is the slot an interrupt dispatches through. It holds at most one handler,
// installed once before the pin is armed and released only on shutdown. Firing is a single atomic
// load, so it is safe from the pin-watching goroutine.
type InterruptVector struct {
	handler atomic.Pointer[InterruptHandler]
}

// Install sets the handler. It fails if a handler is already installed.
func (v *InterruptVector) Install(handler InterruptHandler) error {
	if handler == nil {
		return errors.New("cannot install a nil interrupt handler")
	}
	if !v.handler.CompareAndSwap(nil, &handler) {
		return ErrVectorInUse
	}
	return nil
}

// Release removes the installed handler, if any.
func (v *InterruptVector) Release() {
	v.handler.Store(nil)
}

// Installed reports whether a handler is present.
func (v *InterruptVector) Installed() bool {
	return v.handler.Load() != nil
}

// Fire invokes the installed handler and reports whether there was one.
func (v *InterruptVector) Fire(tick Tick) bool {
	handler := v.handler.Load()
	if handler == nil {
		return false
	}
	(*handler)(tick)
	return true
}

// A BasicDigitalInterrupt counts every tick and forwards the ones matching its configured edge to
// the vector.
type BasicDigitalInterrupt struct {
	cfg    DigitalInterruptConfig
	count  atomic.Int64
	vector InterruptVector
}

// NewBasicDigitalInterrupt is a public function that creates a new BasicDigitalInterrupt.
func NewBasicDigitalInterrupt(cfg DigitalInterruptConfig) *BasicDigitalInterrupt {
	return &BasicDigitalInterrupt{cfg: cfg}
}

// Name returns the name of the interrupt.
func (i *BasicDigitalInterrupt) Name() string {
	return i.cfg.Name
}

// Config returns the configuration the interrupt was created with.
func (i *BasicDigitalInterrupt) Config() DigitalInterruptConfig {
	return i.cfg
}

// Value returns the amount of ticks that have occurred.
func (i *BasicDigitalInterrupt) Value(ctx context.Context) (int64, error) {
	return i.count.Load(), nil
}

// Tick records an interrupt and dispatches it when it matches the configured edge.
func (i *BasicDigitalInterrupt) Tick(ctx context.Context, high bool, nanoseconds uint64) error {
	i.count.Inc()
	if !i.cfg.Edge.Accepts(high) {
		return nil
	}
	i.vector.Fire(Tick{Name: i.cfg.Name, High: high, TimestampNanosec: nanoseconds})
	return nil
}

// Vector returns the handler slot for this interrupt.
func (i *BasicDigitalInterrupt) Vector() *InterruptVector {
	return &i.vector
}
