package board

import (
	"context"
	"testing"

	"go.viam.com/test"
)

func TestInterruptVector(t *testing.T) {
	var v InterruptVector
	test.That(t, v.Installed(), test.ShouldBeFalse)
	test.That(t, v.Fire(Tick{}), test.ShouldBeFalse)
	test.That(t, v.Install(nil), test.ShouldNotBeNil)

	var got []Tick
	test.That(t, v.Install(func(tick Tick) { got = append(got, tick) }), test.ShouldBeNil)
	test.That(t, v.Installed(), test.ShouldBeTrue)

	err := v.Install(func(Tick) {})
	test.That(t, err, test.ShouldEqual, ErrVectorInUse)

	test.That(t, v.Fire(Tick{Name: "a", TimestampNanosec: 7}), test.ShouldBeTrue)
	test.That(t, got, test.ShouldResemble, []Tick{{Name: "a", TimestampNanosec: 7}})

	v.Release()
	test.That(t, v.Installed(), test.ShouldBeFalse)
	test.That(t, v.Fire(Tick{}), test.ShouldBeFalse)
	test.That(t, v.Install(func(Tick) {}), test.ShouldBeNil)
}

func TestBasicDigitalInterruptEdgeFilter(t *testing.T) {
	ctx := context.Background()
	di := NewBasicDigitalInterrupt(DigitalInterruptConfig{Name: "int", Pin: "17"})
	test.That(t, di.Name(), test.ShouldEqual, "int")

	var ticks []Tick
	test.That(t, di.Vector().Install(func(tick Tick) { ticks = append(ticks, tick) }), test.ShouldBeNil)

	test.That(t, di.Tick(ctx, true, 1), test.ShouldBeNil)
	test.That(t, di.Tick(ctx, false, 2), test.ShouldBeNil)
	test.That(t, di.Tick(ctx, true, 3), test.ShouldBeNil)

	count, err := di.Value(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, count, test.ShouldEqual, int64(3))
	test.That(t, ticks, test.ShouldResemble, []Tick{{Name: "int", High: false, TimestampNanosec: 2}})
}

func TestEdgeAccepts(t *testing.T) {
	test.That(t, FallingEdge.Accepts(false), test.ShouldBeTrue)
	test.That(t, FallingEdge.Accepts(true), test.ShouldBeFalse)
	test.That(t, Edge("").Accepts(false), test.ShouldBeTrue)
	test.That(t, RisingEdge.Accepts(true), test.ShouldBeTrue)
	test.That(t, RisingEdge.Accepts(false), test.ShouldBeFalse)
	test.That(t, BothEdges.Accepts(true), test.ShouldBeTrue)
	test.That(t, BothEdges.Accepts(false), test.ShouldBeTrue)
	test.That(t, Edge("sideways").Accepts(false), test.ShouldBeFalse)
}

func TestConfigValidate(t *testing.T) {
	i2cConf := I2CConfig{}
	err := i2cConf.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "name")

	i2cConf.Name = "main"
	test.That(t, i2cConf.Validate("path"), test.ShouldNotBeNil)
	i2cConf.Bus = "1"
	test.That(t, i2cConf.Validate("path"), test.ShouldBeNil)

	diConf := DigitalInterruptConfig{Name: "int"}
	err = diConf.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "pin")
	diConf.Pin = "17"
	test.That(t, diConf.Validate("path"), test.ShouldBeNil)
	diConf.Edge = BothEdges
	test.That(t, diConf.Validate("path"), test.ShouldBeNil)
}
