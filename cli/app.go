// Package cli contains the tapd command line interface.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

// Flags.
const (
	configFlag           = "config"
	debugFlag            = "debug"
	logFileFlag          = "log-file"
	readingsScheduleFlag = "readings-schedule"
	tapsFlag             = "taps"
)

var app = &cli.App{
	Name:            "tapd",
	Usage:           "detect single and double taps with an MPU-6050",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      configFlag,
			Aliases:   []string{"c"},
			Usage:     "load configuration from `FILE`",
			TakesFile: true,
		},
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.StringFlag{
			Name:      logFileFlag,
			Usage:     "also write logs to a size-rotated `FILE`",
			TakesFile: true,
		},
	},
	Commands: []*cli.Command{
		{
			Name:  "run",
			Usage: "arm the sensor on this board and print gestures until interrupted",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  readingsScheduleFlag,
					Usage: "when to log the sensor readings, as a duration or a cron expression; empty disables",
					Value: defaultReadingsSchedule,
				},
			},
			Action: RunAction,
		},
		{
			Name:  "simulate",
			Usage: "replay a tap script against a fake board and print the resulting gestures",
			UsageText: `tapd simulate [--taps <script>]

A script is a comma separated list of <direction>@<milliseconds> entries, for
example "right@0,right@150,up@600". Offsets are measured from the start of the
simulation and must not decrease. An entry without an offset happens at the same
time as the one before it. The direction "none" pulses the interrupt with a flat
sample, which the sensor ignores.`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  tapsFlag,
					Usage: "tap script to replay",
					Value: defaultTapScript,
				},
			},
			Action: SimulateAction,
		},
		{
			Name:   "registers",
			Usage:  "print the register writes that arm the sensor",
			Action: RegistersAction,
		},
		{
			Name:   "version",
			Usage:  "print version info for this program",
			Action: VersionAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
