//go:build !linux

package genericlinux

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/tapsense/components/board"
)

type digitalInterrupt struct {
	*board.BasicDigitalInterrupt
}

func (b *Board) createDigitalInterrupt(
	ctx context.Context,
	chipDev string,
	config board.DigitalInterruptConfig,
) (*digitalInterrupt, error) {
	return nil, errors.Errorf("GPIO chardev interrupts need Linux; set use_periph_gpio for pin %q", config.Pin)
}

func (di *digitalInterrupt) Close() error {
	return nil
}
