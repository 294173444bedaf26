package rrtstar

import (
	"math"
	"math/rand"
)

// euclideanOpt is the OptData for testEuclideanSystem: since a straight line
// needs nothing cached beyond the two endpoints already passed to ExtendTo,
// it only records whether EvaluateExtendCost has run for this edge.
type euclideanOpt struct {
	evaluated bool
}

// testEuclideanSystem is a minimal System[FloatCost, euclideanOpt] over a
// bounded planar box with straight-line steering, used to exercise the
// kernel's tree invariants independently of any steering-model geometry.
type testEuclideanSystem struct {
	XMin, XMax, YMin, YMax float64
	GoalCenter             [2]float64
	GoalRadius             float64
	Blocked                func(State) bool
	StepSize               float64
}

func (s *testEuclideanSystem) Dim() int { return 2 }

func (s *testEuclideanSystem) GetKey(st State) []float64 {
	return []float64{st[0], st[1]}
}

func (s *testEuclideanSystem) SampleState(rng *rand.Rand) (State, bool) {
	x := s.XMin + rng.Float64()*(s.XMax-s.XMin)
	y := s.YMin + rng.Float64()*(s.YMax-s.YMin)
	return State{x, y}, true
}

func (s *testEuclideanSystem) SampleInGoal(rng *rand.Rand) (State, bool) {
	r := rng.Float64() * s.GoalRadius
	theta := rng.Float64() * 2 * math.Pi
	return State{s.GoalCenter[0] + r*math.Cos(theta), s.GoalCenter[1] + r*math.Sin(theta)}, true
}

func (s *testEuclideanSystem) IsInGoal(st State) bool {
	dx := st[0] - s.GoalCenter[0]
	dy := st[1] - s.GoalCenter[1]
	return math.Hypot(dx, dy) <= s.GoalRadius
}

func (s *testEuclideanSystem) IsInCollision(st State) bool {
	if s.Blocked == nil {
		return false
	}
	return s.Blocked(st)
}

func (s *testEuclideanSystem) ZeroCost() FloatCost { return 0 }

func (s *testEuclideanSystem) InfCost() FloatCost { return FloatCost(math.Inf(1)) }

func (s *testEuclideanSystem) EvaluateExtendCost(si, sf State) (FloatCost, euclideanOpt, bool) {
	return FloatCost(si.Dist(sf, false)), euclideanOpt{evaluated: true}, true
}

func (s *testEuclideanSystem) ExtendTo(si, sf State, checkObstacles bool, opt euclideanOpt) (Trajectory, euclideanOpt, bool) {
	opt.evaluated = true
	step := s.StepSize
	if step <= 0 {
		step = 0.25
	}
	dist := si.Dist(sf, false)
	n := int(math.Ceil(dist / step))
	if n < 1 {
		n = 1
	}

	var traj Trajectory
	prev := si
	for i := 1; i <= n; i++ {
		frac := float64(i) / float64(n)
		cur := State{si[0] + (sf[0]-si[0])*frac, si[1] + (sf[1]-si[1])*frac}
		if checkObstacles && s.IsInCollision(cur) {
			return Trajectory{}, opt, false
		}
		traj.Append(cur, Control{0}, prev.Dist(cur, false))
		prev = cur
	}
	return traj, opt, true
}

func (s *testEuclideanSystem) IsSafeTrajectory(traj Trajectory) bool {
	for _, st := range traj.States {
		if s.IsInCollision(st) {
			return false
		}
	}
	return true
}
