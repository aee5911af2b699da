package utils

import (
	"github.com/pkg/errors"
)

// NewShortReadError is used when a bus returns fewer bytes than requested.
func NewShortReadError(register byte, needed, got int) error {
	return errors.Errorf("short read from register 0x%02X: needed %d bytes, got %d", register, needed, got)
}
