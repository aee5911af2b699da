package genericlinux

import (
	"fmt"

	"go.viam.com/tapsense/components/board"
)

// DefaultGPIOChip is the character device used for interrupt lines when none is configured.
const DefaultGPIOChip = "/dev/gpiochip0"

// A Config describes the configuration of a board and all of its connected parts.
type Config struct {
	I2Cs              []board.I2CConfig              `json:"i2cs,omitempty"`
	DigitalInterrupts []board.DigitalInterruptConfig `json:"digital_interrupts,omitempty"`
	// UsePeriphGPIO selects periph.io pin names (e.g. "GPIO17") for interrupt pins. Otherwise
	// interrupt pins are line offsets on GPIOChip.
	UsePeriphGPIO bool   `json:"use_periph_gpio,omitempty"`
	GPIOChip      string `json:"gpio_chip,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	for idx, c := range conf.I2Cs {
		if err := c.Validate(fmt.Sprintf("%s.%s.%d", path, "i2cs", idx)); err != nil {
			return err
		}
	}
	for idx, c := range conf.DigitalInterrupts {
		if err := c.Validate(fmt.Sprintf("%s.%s.%d", path, "digital_interrupts", idx)); err != nil {
			return err
		}
	}
	return nil
}

func (conf *Config) gpioChip() string {
	if conf.GPIOChip == "" {
		return DefaultGPIOChip
	}
	return conf.GPIOChip
}
