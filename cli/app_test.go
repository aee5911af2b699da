package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"tapd"}, args...))
	return out.String(), errOut.String(), err
}

func TestRegistersCommand(t *testing.T) {
	out, _, err := runApp(t, "registers")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "MPU6050 at 0x68 on bus i2c1")
	test.That(t, out, test.ShouldContainSubstring, "PWR_MGMT_1")
	test.That(t, out, test.ShouldContainSubstring, "MOT_THR")
	test.That(t, out, test.ShouldContainSubstring, "0x40")
	test.That(t, out, test.ShouldContainSubstring, "INT_PIN_CFG")
	test.That(t, out, test.ShouldContainSubstring, "0xC0")
}

func TestRegistersCommandWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapd.json")
	content := `{
		"board": {
			"i2cs": [{"name": "bus", "bus": "3"}],
			"digital_interrupts": [{"name": "int", "pin": "5"}]
		},
		"sensor": {"i2c_bus": "bus", "interrupt_pin": "int", "use_alt_i2c_address": true, "sensitivity": "0x22"}
	}`
	test.That(t, os.WriteFile(path, []byte(content), 0o600), test.ShouldBeNil)

	logFile := filepath.Join(t.TempDir(), "tapd.log")
	out, _, err := runApp(t, "--config", path, "--debug", "--log-file", logFile, "registers")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "MPU6050 at 0x69 on bus bus")
	test.That(t, out, test.ShouldContainSubstring, "0x22")

	logged, err := os.ReadFile(logFile)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(logged), test.ShouldContainSubstring, "printing register plan")
}

func TestSimulateCommand(t *testing.T) {
	out, _, err := runApp(t, "simulate", "--taps", "left@0,left@120")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "double_left")
	test.That(t, out, test.ShouldContainSubstring, "double_tap_left_count")

	_, _, err = runApp(t, "simulate", "--taps", "sideways")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRunRequiresConfig(t *testing.T) {
	_, _, err := runApp(t, "run")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "config file is required")
}

func TestBadConfigFile(t *testing.T) {
	_, _, err := runApp(t, "-c", filepath.Join(t.TempDir(), "missing.json"), "registers")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to read config")
}
