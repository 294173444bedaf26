package dubins

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"go.viam.com/utils"

	"github.com/asadawan91/rrtstar/rrtstar"
)

// comboTieBreakEpsilon is the tolerance extendAll's 4-combo selection and
// EvaluateExtendCost's turning-radius selection use when comparing candidate
// costs, so that floating-point noise between two near-equal candidates
// never causes the winner to flip between otherwise-identical calls.
const comboTieBreakEpsilon = 1e-9

// OptData is the per-edge side channel cached by EvaluateExtendCost and
// consumed by ExtendTo: which of the four tangent combinations won, and
// which candidate turning radius it used. Combo is zero when no evaluation
// has been cached yet, since valid combo numbers run 1..4.
type OptData struct {
	Combo       int
	RadiusIndex int
}

func (o OptData) isSet() bool { return o.Combo != 0 }

// System is the Dubins vehicle steering model: state (x, y, theta), control
// signed turning radius. It implements rrtstar.System[rrtstar.FloatCost,
// OptData] over a bounded rectangular free-space and a disk-shaped goal
// region; CollisionFunc stands in for a concrete geometry engine, which
// remains out of scope.
type System struct {
	// TurningRadii are tried from the last index to the first, the
	// turning radius that wins a given connection is cached in OptData.
	TurningRadii []float64
	// DeltaDistance is the discretization step for both arcs and straight
	// segments, default 0.05.
	DeltaDistance float64

	// XMin, XMax, YMin, YMax bound the free space sampled by SampleState.
	XMin, XMax, YMin, YMax float64

	// GoalCenter and GoalRadius describe the disk-shaped goal region.
	GoalCenter [2]float64
	GoalRadius float64

	// CollisionFunc reports whether a state collides with the obstacle
	// field. A nil CollisionFunc means free space everywhere.
	CollisionFunc func(rrtstar.State) bool
}

// Dim is the dimension of the spatial index key: (x, y), ignoring heading,
// the conventional choice for planar Dubins near-neighbor queries.
func (s *System) Dim() int { return 2 }

func (s *System) GetKey(st rrtstar.State) []float64 {
	return []float64{st[0], st[1]}
}

func (s *System) SampleState(rng *rand.Rand) (rrtstar.State, bool) {
	x := s.XMin + rng.Float64()*(s.XMax-s.XMin)
	y := s.YMin + rng.Float64()*(s.YMax-s.YMin)
	theta := -math.Pi + rng.Float64()*2*math.Pi
	return rrtstar.State{x, y, theta}, true
}

func (s *System) SampleInGoal(rng *rand.Rand) (rrtstar.State, bool) {
	radius := rng.Float64() * s.GoalRadius
	angle := rng.Float64() * 2 * math.Pi
	x := s.GoalCenter[0] + radius*math.Cos(angle)
	y := s.GoalCenter[1] + radius*math.Sin(angle)
	theta := -math.Pi + rng.Float64()*2*math.Pi
	return rrtstar.State{x, y, theta}, true
}

func (s *System) IsInGoal(st rrtstar.State) bool {
	dx := st[0] - s.GoalCenter[0]
	dy := st[1] - s.GoalCenter[1]
	return math.Hypot(dx, dy) <= s.GoalRadius
}

func (s *System) IsInCollision(st rrtstar.State) bool {
	if s.CollisionFunc == nil {
		return false
	}
	return s.CollisionFunc(st)
}

func (s *System) ZeroCost() rrtstar.FloatCost { return 0 }

func (s *System) InfCost() rrtstar.FloatCost { return rrtstar.FloatCost(math.Inf(1)) }

func (s *System) IsSafeTrajectory(traj rrtstar.Trajectory) bool {
	for _, st := range traj.States {
		if s.IsInCollision(st) {
			return false
		}
	}
	return true
}

// EvaluateExtendCost tries each candidate turning radius from last to
// first, as dubins_c::evaluate_extend_cost does, keeping the minimum-cost
// feasible (radius, combo) pair.
func (s *System) EvaluateExtendCost(si, sf rrtstar.State) (rrtstar.FloatCost, OptData, bool) {
	delta := s.deltaDistance()
	minCost := math.Inf(1)
	bestRadius := -1
	bestCombo := 0

	for i := len(s.TurningRadii) - 1; i >= 0; i-- {
		radius := s.TurningRadii[i]
		cost, combo, _, _, ok := extendAll(toArray(si), toArray(sf), radius, delta, false)
		if ok && cost < minCost && !utils.Float64AlmostEqual(cost, minCost, comboTieBreakEpsilon) {
			minCost = cost
			bestRadius = i
			bestCombo = combo
		}
	}
	if bestRadius == -1 {
		return 0, OptData{}, false
	}
	return rrtstar.FloatCost(minCost), OptData{Combo: bestCombo, RadiusIndex: bestRadius}, true
}

// ExtendTo materializes the trajectory from si to sf. If opt was never
// evaluated it is computed and cached now, per the resolution of the
// dintdrift_c undefined-return open question: never return a zero-value
// cost for an unevaluated edge.
func (s *System) ExtendTo(si, sf rrtstar.State, checkObstacles bool, opt OptData) (rrtstar.Trajectory, OptData, bool) {
	if !opt.isSet() {
		_, newOpt, ok := s.EvaluateExtendCost(si, sf)
		if !ok {
			return rrtstar.Trajectory{}, opt, false
		}
		opt = newOpt
	}

	radius := s.TurningRadii[opt.RadiusIndex]
	_, states, controls, ok := extendCombo(toArray(si), toArray(sf), opt.Combo, radius, s.deltaDistance(), true)
	if !ok {
		return rrtstar.Trajectory{}, opt, false
	}

	traj := rrtstar.Trajectory{}
	prev := si
	for i, st := range states {
		cur := rrtstar.State{st[0], st[1], st[2]}
		traj.Append(cur, rrtstar.Control{controls[i]}, prev.Dist(cur, false))
		prev = cur
	}

	if checkObstacles {
		for _, st := range traj.States {
			if s.IsInCollision(st) {
				return rrtstar.Trajectory{}, opt, false
			}
		}
	}
	return traj, opt, true
}

func (s *System) deltaDistance() float64 {
	if s.DeltaDistance > 0 {
		return s.DeltaDistance
	}
	return 0.05
}

func toArray(st rrtstar.State) [3]float64 {
	return [3]float64{st[0], st[1], st[2]}
}

// NewBoxObstacle returns a CollisionFunc flagging every state whose (x, y)
// falls inside the axis-aligned box spanned by min and max, the illustrative
// obstacle shape used by the demo binary and the obstacle-rejection test,
// standing in for the concrete geometry engine SPEC_FULL.md keeps out of
// scope. Z is ignored since the Dubins state is planar.
func NewBoxObstacle(min, max r3.Vector) func(rrtstar.State) bool {
	return func(st rrtstar.State) bool {
		return st[0] >= min.X && st[0] <= max.X && st[1] >= min.Y && st[1] <= max.Y
	}
}
