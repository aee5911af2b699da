// Package config defines the tapd configuration file: a board section, a sensor section and
// logging options.
package config

import (
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/tapsense/components/board/fake"
	"go.viam.com/tapsense/components/board/genericlinux"
	"go.viam.com/tapsense/components/tapsensor/mpu6050"
	"go.viam.com/tapsense/logging"
)

// A Config describes the configuration of tapd.
type Config struct {
	ConfigFilePath string `json:"-"`

	Board  genericlinux.Config `json:"board"`
	Sensor mpu6050.Config      `json:"sensor"`
	Log    LogConfig           `json:"log"`
}

// LogConfig holds the logging options. File, when set, is a size-rotated log file written in
// addition to stdout.
type LogConfig struct {
	Level      string `json:"level,omitempty"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (lc *LogConfig) Validate(path string) error {
	if lc.Level != "" {
		if _, err := logging.LevelFromString(lc.Level); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	}
	if lc.MaxSizeMB < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("max_size_mb cannot be negative, got %d", lc.MaxSizeMB))
	}
	if lc.MaxBackups < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("max_backups cannot be negative, got %d", lc.MaxBackups))
	}
	return nil
}

// ParsedLevel returns the configured level, INFO when unset.
func (lc *LogConfig) ParsedLevel() logging.Level {
	level, err := logging.LevelFromString(lc.Level)
	if err != nil {
		return logging.INFO
	}
	return level
}

// Ensure ensures all parts of the config are valid and that the sensor refers to parts the board
// actually has.
func (c *Config) Ensure() error {
	if err := c.Board.Validate("board"); err != nil {
		return err
	}
	if err := c.Sensor.Validate("sensor"); err != nil {
		return err
	}
	if err := c.Log.Validate("log"); err != nil {
		return err
	}

	var haveBus, haveInterrupt bool
	for _, i2c := range c.Board.I2Cs {
		haveBus = haveBus || i2c.Name == c.Sensor.I2CBus
	}
	for _, di := range c.Board.DigitalInterrupts {
		haveInterrupt = haveInterrupt || di.Name == c.Sensor.InterruptPin
	}
	if !haveBus {
		return utils.NewConfigValidationError("sensor",
			errors.Errorf("i2c_bus %q is not one of the board's i2cs", c.Sensor.I2CBus))
	}
	if !haveInterrupt {
		return utils.NewConfigValidationError("sensor",
			errors.Errorf("interrupt_pin %q is not one of the board's digital_interrupts", c.Sensor.InterruptPin))
	}
	return nil
}

// FakeBoard returns a fake board config with the same buses and interrupts as the board section.
func (c *Config) FakeBoard() *fake.Config {
	return &fake.Config{
		I2Cs:              c.Board.I2Cs,
		DigitalInterrupts: c.Board.DigitalInterrupts,
	}
}
