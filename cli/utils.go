package cli

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"go.viam.com/tapsense/components/board"
	"go.viam.com/tapsense/components/board/genericlinux"
	"go.viam.com/tapsense/components/tapsensor/mpu6050"
	"go.viam.com/tapsense/config"
	"go.viam.com/tapsense/logging"
)

// printf prints a message with a newline to the given writer.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// defaultConfig is used by the commands that do not need real hardware when no config file is
// given.
func defaultConfig() *config.Config {
	return &config.Config{
		Board: genericlinux.Config{
			I2Cs:              []board.I2CConfig{{Name: "i2c1", Bus: "1"}},
			DigitalInterrupts: []board.DigitalInterruptConfig{{Name: "tap", Pin: "17"}},
		},
		Sensor: mpu6050.Config{I2CBus: "i2c1", InterruptPin: "tap"},
	}
}

// setup reads the config file and builds the logger. Logs go to the app's error writer and,
// when configured, to a rotating log file. The returned func releases the log file.
func setup(c *cli.Context, requireConfig bool) (*config.Config, logging.Logger, func(), error) {
	logger := logging.NewBlankLogger("tapd")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logging.ReplaceGlobal(logger)
	if !c.Bool(debugFlag) {
		logger.SetLevel(logging.INFO)
	}

	cfg := defaultConfig()
	switch path := c.String(configFlag); {
	case path != "":
		read, err := config.Read(c.Context, path, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		cfg = read
	case requireConfig:
		return nil, nil, nil, errors.Errorf("a config file is required, pass --%s", configFlag)
	}

	if !c.Bool(debugFlag) {
		logger.SetLevel(cfg.Log.ParsedLevel())
	}
	logFile := cfg.Log.File
	if f := c.String(logFileFlag); f != "" {
		logFile = f
	}
	if logFile == "" {
		return cfg, logger, func() {}, nil
	}
	appender, closer := logging.NewFileAppender(logFile, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups)
	logger.AddAppender(appender)
	logger.Debugw("logging to file", "path", logFile)
	return cfg, logger, func() {
		goutils.UncheckedError(logger.Sync())
		goutils.UncheckedErrorFunc(closer.Close)
	}, nil
}
