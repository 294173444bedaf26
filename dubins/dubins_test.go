package dubins

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/asadawan91/rrtstar/rrtstar"
)

const testRadius = 3.5
const testDelta = 0.05

func TestStraightShotCost(t *testing.T) {
	si := [3]float64{0, 0, 0}
	sf := [3]float64{10, 0, 0}
	cost, combo, states, _, ok := extendAll(si, sf, testRadius, testDelta, true)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cost, test.ShouldAlmostEqual, 10.0, 1e-6)
	test.That(t, combo == comboLeftLeft || combo == comboRightRight, test.ShouldBeTrue)
	for _, st := range states {
		test.That(t, st[1], test.ShouldAlmostEqual, 0.0, 1e-6)
		test.That(t, st[2], test.ShouldAlmostEqual, 0.0, 1e-6)
	}
}

func TestUTurnCost(t *testing.T) {
	si := [3]float64{0, 0, 0}
	sf := [3]float64{0, 0, math.Pi}
	cost, _, _, _, ok := extendAll(si, sf, testRadius, testDelta, false)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cost, test.ShouldAlmostEqual, math.Pi*testRadius, 0.01)
}

func TestIntersectingCirclesRejectsCrossCombosButOverallFeasible(t *testing.T) {
	si := [3]float64{0, 0, 0}
	sf := [3]float64{testRadius, 0, 0}

	// Cross combos requested directly on two turning circles whose centers
	// are only r apart: no cross tangent exists.
	start := point3{0, 0, 0}
	end := point3{testRadius, 0, 0}
	_, _, _, ok := extendSpheres(start, end, comboLeftRight, testRadius, testDelta, false)
	test.That(t, ok, test.ShouldBeFalse)
	_, _, _, ok = extendSpheres(start, end, comboRightLeft, testRadius, testDelta, false)
	test.That(t, ok, test.ShouldBeFalse)

	cost, combo, _, _, ok := extendAll(si, sf, testRadius, testDelta, false)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, math.IsInf(cost, 1), test.ShouldBeFalse)
	test.That(t, combo == comboLeftLeft || combo == comboRightRight, test.ShouldBeTrue)
}

func TestExtendAllWinningComboMaterializesCorrectTrajectory(t *testing.T) {
	si := [3]float64{0, 0, 0}
	sf := [3]float64{0, 0, math.Pi}

	cost, combo, states, _, ok := extendAll(si, sf, testRadius, testDelta, true)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, len(states), test.ShouldBeGreaterThan, 0)

	direct, directStates, _, ok := extendCombo(si, sf, combo, testRadius, testDelta, true)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, direct, test.ShouldAlmostEqual, cost, 1e-6)
	test.That(t, directStates, test.ShouldResemble, states)
}

func TestSystemObstacleRejectionOnStraightCorridor(t *testing.T) {
	sys := &System{
		TurningRadii:  []float64{testRadius},
		DeltaDistance: testDelta,
		XMax:          20,
		YMax:          20,
		GoalCenter:    [2]float64{10, 0},
		GoalRadius:    1,
	}

	si := rrtstar.State{0, 0, 0}
	sf := rrtstar.State{10, 0, 0}

	_, opt, ok := sys.EvaluateExtendCost(si, sf)
	test.That(t, ok, test.ShouldBeTrue)

	traj, _, ok := sys.ExtendTo(si, sf, true, opt)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, len(traj.States), test.ShouldBeGreaterThan, 0)

	sys.CollisionFunc = NewBoxObstacle(r3.Vector{X: 4, Y: -5, Z: 0}, r3.Vector{X: 6, Y: 5, Z: 0})

	_, _, ok = sys.ExtendTo(si, sf, true, opt)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestSystemGoalAndSampling(t *testing.T) {
	sys := &System{
		TurningRadii: []float64{testRadius},
		XMax:         20,
		YMax:         20,
		GoalCenter:   [2]float64{18, 18},
		GoalRadius:   1,
	}
	test.That(t, sys.IsInGoal(rrtstar.State{18, 18, 0}), test.ShouldBeTrue)
	test.That(t, sys.IsInGoal(rrtstar.State{0, 0, 0}), test.ShouldBeFalse)
	test.That(t, sys.Dim(), test.ShouldEqual, 2)
	test.That(t, sys.GetKey(rrtstar.State{3, 4, 1}), test.ShouldResemble, []float64{3, 4})
}
