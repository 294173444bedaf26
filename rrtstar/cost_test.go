package rrtstar

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestFloatCostAlgebra(t *testing.T) {
	var zero FloatCost
	test.That(t, zero.Zero(), test.ShouldEqual, FloatCost(0))
	test.That(t, math.IsInf(float64(zero.Inf()), 1), test.ShouldBeTrue)

	a := FloatCost(3.5)
	b := FloatCost(2.5)
	test.That(t, a.Add(b), test.ShouldEqual, FloatCost(6))
	test.That(t, b.Less(a), test.ShouldBeTrue)
	test.That(t, a.Less(b), test.ShouldBeFalse)

	inf := a.Inf()
	test.That(t, a.Less(inf), test.ShouldBeTrue)
	test.That(t, inf.Less(inf), test.ShouldBeFalse)
}
