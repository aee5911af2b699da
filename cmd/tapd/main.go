// Package main is the tapd command itself.
package main

import (
	"os"

	"go.viam.com/tapsense/cli"
	"go.viam.com/tapsense/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.Global().Error(err)
		os.Exit(1)
	}
}
