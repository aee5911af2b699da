package tapsensor

import (
	"sync"

	"github.com/pkg/errors"
)

// A Registry holds the listeners for each (kind, direction) pair.
type Registry struct {
	mu    sync.RWMutex
	slots [2][4][]Listener
}

// Register appends l to the listeners of (kind, dir). Unknown is not a registrable direction.
func (r *Registry) Register(kind Kind, dir Direction, l Listener) error {
	if l == nil {
		return errors.New("cannot register a nil listener")
	}
	k, d, err := r.index(kind, dir)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[k][d] = append(r.slots[k][d], l)
	return nil
}

// Count returns how many listeners are registered for (kind, dir).
func (r *Registry) Count(kind Kind, dir Direction) int {
	k, d, err := r.index(kind, dir)
	if err != nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots[k][d])
}

// Dispatch calls every listener for the gesture's (kind, direction) in registration order, on the
// calling goroutine. A gesture nobody listens to is ignored.
func (r *Registry) Dispatch(g Gesture) {
	k, d, err := r.index(g.Kind, g.Direction)
	if err != nil {
		return
	}
	r.mu.RLock()
	listeners := r.slots[k][d]
	r.mu.RUnlock()

	for _, l := range listeners {
		l(g)
	}
}

func (r *Registry) index(kind Kind, dir Direction) (int, int, error) {
	if kind != Single && kind != Double {
		return 0, 0, errors.Errorf("unknown tap kind %d", kind)
	}
	d, ok := dir.slot()
	if !ok {
		return 0, 0, errors.Wrapf(ErrUnknownDirection, "cannot register for %s", dir)
	}
	return int(kind), d, nil
}
