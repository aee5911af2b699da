package utils

import (
	"testing"

	"go.viam.com/test"
)

type registerAttrs struct {
	Sensitivity uint8  `json:"sensitivity"`
	Window      int    `json:"window_ms"`
	Bus         string `json:"i2c_bus"`
	Verify      bool   `json:"verify"`
}

func TestTransformAttributeMapToStruct(t *testing.T) {
	var attrs registerAttrs
	_, err := TransformAttributeMapToStruct(&attrs, AttributeMap{
		"sensitivity": "0x40",
		"window_ms":   float64(150),
		"i2c_bus":     "1",
		"verify":      true,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, attrs, test.ShouldResemble, registerAttrs{Sensitivity: 0x40, Window: 150, Bus: "1", Verify: true})

	_, err = TransformAttributeMapToStruct(&attrs, AttributeMap{"sensitivity": "0x400"})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = TransformAttributeMapToStruct(&attrs, AttributeMap{"sensitivity": "loud"})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGuard(t *testing.T) {
	cleaned := 0
	func() {
		guard := NewGuard(func() { cleaned++ })
		defer guard.OnFail()
	}()
	test.That(t, cleaned, test.ShouldEqual, 1)

	func() {
		guard := NewGuard(func() { cleaned++ })
		defer guard.OnFail()
		guard.Success()
	}()
	test.That(t, cleaned, test.ShouldEqual, 1)
}
