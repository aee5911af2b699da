// Package tapsensor turns accelerometer tap interrupts into single and double tap gestures.
//
// Samples are captured on the interrupt side and handed to the cooperative side through a
// fixed-size single-producer/single-consumer Queue. The cooperative side classifies each sample
// by its dominant axis and feeds it to a Disambiguator, which decides between a single and a
// double tap and hands the result to the listeners in a Registry.
package tapsensor

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownDirection is returned when a direction is required but Unknown or unparseable was given.
var ErrUnknownDirection = errors.New("unknown tap direction")

// A Sample is the acceleration latched by the sensor when a tap interrupt fired.
type Sample struct {
	// Timestamp is the monotonic millisecond reading taken when the interrupt was serviced.
	Timestamp uint32
	X, Y, Z   int16
}

func (s Sample) String() string {
	return fmt.Sprintf("t=%dms x=%d y=%d z=%d", s.Timestamp, s.X, s.Y, s.Z)
}

// Direction is the side a tap came from.
type Direction uint8

// Known directions. Unknown is the zero value.
const (
	Unknown Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists every classifiable direction, in registry order.
var Directions = []Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection parses one of "up", "down", "left", "right", ignoring case.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return Unknown, errors.Wrapf(ErrUnknownDirection, "%q", s)
}

// slot returns the registry index of a classifiable direction.
func (d Direction) slot() (int, bool) {
	if d < Up || d > Right {
		return 0, false
	}
	return int(d - Up), true
}

// Kind distinguishes single from double taps.
type Kind uint8

// Tap kinds.
const (
	Single Kind = iota
	Double
)

// Kinds lists every tap kind, in registry order.
var Kinds = []Kind{Single, Double}

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case Double:
		return "double"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// A Gesture is a resolved tap.
type Gesture struct {
	Kind      Kind
	Direction Direction
	// Timestamp is the capture time of the tap the gesture resolved: the second tap of a double,
	// the only tap of a single.
	Timestamp uint32
}

func (g Gesture) String() string {
	return g.Kind.String() + "_" + g.Direction.String()
}

// A Listener is notified of a gesture on the cooperative loop. It must not block.
type Listener func(Gesture)
