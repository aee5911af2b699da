package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"go.viam.com/tapsense/components/tapsensor/mpu6050"
)

// RegistersAction prints the writes that arm the configured sensor, in order.
func RegistersAction(c *cli.Context) error {
	cfg, logger, done, err := setup(c, false)
	if err != nil {
		return err
	}
	defer done()

	address := cfg.Sensor.Address()
	logger.Debugw("printing register plan", "address", fmt.Sprintf("0x%02X", address))
	printf(c.App.Writer, "MPU6050 at 0x%02X on bus %s", address, cfg.Sensor.I2CBus)
	printf(c.App.Writer, "%s", registerTable(mpu6050.RegisterPlan(cfg.Sensor.Thresholds())))
	return nil
}

func registerTable(plan []mpu6050.RegisterWrite) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Register", "Address", "Value"})
	for i, w := range plan {
		t.AppendRow(table.Row{
			i + 1,
			mpu6050.RegisterName(w.Register),
			fmt.Sprintf("0x%02X", w.Register),
			fmt.Sprintf("0x%02X", w.Value),
		})
	}
	return t.Render()
}
