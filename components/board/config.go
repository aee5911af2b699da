package board

import (
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// I2CConfig enumerates a specific, shareable I2C bus.
type I2CConfig struct {
	Name string `json:"name"`
	Bus  string `json:"bus"`
}

// Validate ensures all parts of the config are valid.
func (config *I2CConfig) Validate(path string) error {
	if config.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if config.Bus == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "bus")
	}
	return nil
}

// Edge selects which transitions of an interrupt pin are delivered to its handler.
type Edge string

// Supported edges.
const (
	FallingEdge Edge = "falling"
	RisingEdge  Edge = "rising"
	BothEdges   Edge = "both"
)

// Accepts reports whether a tick at the given level passes this edge filter.
func (e Edge) Accepts(high bool) bool {
	switch e {
	case RisingEdge:
		return high
	case BothEdges:
		return true
	case FallingEdge, "":
		return !high
	default:
		return false
	}
}

// DigitalInterruptConfig describes the configuration of digital interrupt for a board.
type DigitalInterruptConfig struct {
	Name string `json:"name"`
	Pin  string `json:"pin"`
	// Edge defaults to falling, which matches an active-low line held up by a pull-up.
	Edge Edge `json:"edge,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (config *DigitalInterruptConfig) Validate(path string) error {
	if config.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if config.Pin == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "pin")
	}
	switch config.Edge {
	case "", FallingEdge, RisingEdge, BothEdges:
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown edge %q", config.Edge))
	}
	return nil
}
