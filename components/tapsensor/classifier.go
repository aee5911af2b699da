package tapsensor

import (
	"github.com/pkg/errors"
)

// SecondaryAxisPolicy decides what a tap dominated by the Y axis means. Z is the vertical axis and
// X the horizontal one; Y is the axis neither pair is built from.
type SecondaryAxisPolicy string

// Supported policies.
const (
	// SecondaryAxisUnknown treats Y-dominant taps as unclassifiable.
	SecondaryAxisUnknown SecondaryAxisPolicy = "unknown"
	// SecondaryAxisVertical reads the sign of Y as Up or Down.
	SecondaryAxisVertical SecondaryAxisPolicy = "vertical"
)

// ParseSecondaryAxisPolicy accepts "unknown", "vertical" or the empty string, which means unknown.
func ParseSecondaryAxisPolicy(s string) (SecondaryAxisPolicy, error) {
	switch SecondaryAxisPolicy(s) {
	case "", SecondaryAxisUnknown:
		return SecondaryAxisUnknown, nil
	case SecondaryAxisVertical:
		return SecondaryAxisVertical, nil
	default:
		return "", errors.Errorf("unknown secondary axis policy %q, expected %q or %q",
			s, SecondaryAxisUnknown, SecondaryAxisVertical)
	}
}

// A Classifier maps a sample to the direction of its strictly dominant axis.
type Classifier struct {
	Policy SecondaryAxisPolicy
}

// Classify is pure and total. A tie for the largest magnitude is Unknown, and so is an all-zero
// sample.
func (c Classifier) Classify(s Sample) Direction {
	ax, ay, az := abs16(s.X), abs16(s.Y), abs16(s.Z)
	switch {
	case az > ax && az > ay:
		return verticalDirection(s.Z)
	case ax > ay && ax > az:
		if s.X > 0 {
			return Right
		}
		return Left
	case ay > ax && ay > az:
		if c.Policy == SecondaryAxisVertical {
			return verticalDirection(s.Y)
		}
		return Unknown
	default:
		return Unknown
	}
}

func verticalDirection(v int16) Direction {
	if v > 0 {
		return Up
	}
	return Down
}

// abs16 widens before negating so that -32768 does not overflow.
func abs16(v int16) int32 {
	w := int32(v)
	if w < 0 {
		return -w
	}
	return w
}
