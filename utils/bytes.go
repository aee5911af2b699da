package utils

import "encoding/binary"

// Int16FromBytesBE converts two big-endian bytes (high byte first) into a signed 16-bit value,
// which is how most register-mapped accelerometers lay out each axis.
func Int16FromBytesBE(bytes []byte) int16 {
	return int16(binary.BigEndian.Uint16(bytes))
}
