// Package mpu6050 drives an MPU-6050 accelerometer as a tap sensor. The chip's motion detection
// interrupt pulls the INT pin low on every tap; each falling edge latches a 3-axis acceleration
// sample that is classified and disambiguated into single and double taps.
//
// A description of the I2C registers is at
// https://download.datasheets.com/pdfs/2015/3/19/8/3/59/59/invse_/manual/5rm-mpu-6000a-00v4.2.pdf
//
// The chip has two possible I2C addresses, which can be selected by wiring the AD0 pin to either
// hot or ground:
//   - if AD0 is wired to ground, it uses the default I2C address of 0x68
//   - if AD0 is wired to hot, it uses the alternate I2C address of 0x69
//
// If you use the alternate address, your config file for this component must set its
// "use_alt_i2c_address" boolean to true.
package mpu6050

// I2C addresses.
const (
	DefaultAddress   byte = 0x68
	AlternateAddress byte = 0x69
)

// Registers used by the tap sensor.
const (
	RegAccelConfig byte = 0x1C
	RegMotThr      byte = 0x1F
	RegMotDur      byte = 0x20
	RegIntPinCfg   byte = 0x37
	RegIntEnable   byte = 0x38
	RegAccelXOutH  byte = 0x3B
	RegPwrMgmt1    byte = 0x6B
	RegWhoAmI      byte = 0x75
)

// Register values.
const (
	// Clearing PWR_MGMT_1 wakes the chip; bit 6 puts it back to sleep.
	pwrMgmtWake  byte = 0x00
	pwrMgmtSleep byte = 1 << 6
	// Full scale of +/- 2g, the most sensitive range.
	accelRange2G byte = 0x00
	// MOT_EN in INT_ENABLE.
	intEnableMotion byte = 0x40
	// INT_LEVEL | INT_OPEN: active low, open drain, for an input with a pull-up.
	intPinActiveLowOpenDrain byte = 0xC0
	// WHO_AM_I always reads the default address, whatever AD0 is wired to.
	expectedWhoAmI = DefaultAddress
	// X, Y and Z high/low bytes.
	accelBlockLen uint8 = 6
)

// Default thresholds.
const (
	DefaultSensitivity byte = 0x40
	DefaultDuration    byte = 0x01
)

var registerNames = map[byte]string{
	RegAccelConfig: "ACCEL_CONFIG",
	RegMotThr:      "MOT_THR",
	RegMotDur:      "MOT_DUR",
	RegIntPinCfg:   "INT_PIN_CFG",
	RegIntEnable:   "INT_ENABLE",
	RegAccelXOutH:  "ACCEL_XOUT_H",
	RegPwrMgmt1:    "PWR_MGMT_1",
	RegWhoAmI:      "WHO_AM_I",
}

// RegisterName returns the datasheet name of a register used by this package.
func RegisterName(register byte) string {
	if name, ok := registerNames[register]; ok {
		return name
	}
	return "UNKNOWN"
}
