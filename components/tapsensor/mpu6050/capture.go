package mpu6050

import (
	"go.viam.com/tapsense/components/board"
	"go.viam.com/tapsense/components/tapsensor"
	"go.viam.com/tapsense/utils"
)

// capture is installed as the interrupt handler. It runs on the goroutine watching the pin, so it
// must not log, block on the cooperative side or retry. A failed or short read loses the tap.
func (s *Sensor) capture(tick board.Tick) {
	if tick.High {
		return
	}
	now := s.clock.NowMs()
	data, err := s.handle.ReadBlockData(s.captureCtx, RegAccelXOutH, accelBlockLen)
	if err != nil || len(data) < int(accelBlockLen) {
		return
	}
	s.pipeline.Capture(decodeSample(now, data))
}

func decodeSample(timestamp uint32, data []byte) tapsensor.Sample {
	return tapsensor.Sample{
		Timestamp: timestamp,
		X:         utils.Int16FromBytesBE(data[0:2]),
		Y:         utils.Int16FromBytesBE(data[2:4]),
		Z:         utils.Int16FromBytesBE(data[4:6]),
	}
}

// EncodeSample returns the ACCEL_XOUT_H..ACCEL_ZOUT_L bytes the chip would report for a sample.
func EncodeSample(x, y, z int16) []byte {
	return []byte{
		byte(uint16(x) >> 8), byte(x),
		byte(uint16(y) >> 8), byte(y),
		byte(uint16(z) >> 8), byte(z),
	}
}
