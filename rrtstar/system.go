package rrtstar

import "math/rand"

// System is the steering-model contract the planner kernel is built around.
// Implementations know how to sample states, recognize the goal, solve the
// two-point boundary value problem between two states, cost that solution,
// and check it against obstacles. The kernel never looks inside a State,
// Control, or OptData value; it only routes them through these calls.
//
// OptData is a per-edge side channel, opaque to the kernel. EvaluateExtendCost
// populates it; ExtendTo consumes it. The kernel passes the same OptData
// value through both calls for a given edge: EvaluateExtendCost computes
// and caches whatever the steering solution needs (turning radius, time
// horizon, ...), and a successful obstacle-checked ExtendTo call must leave
// OptData consistent with the trajectory it just produced, since
// find_best_parent records the edge cost from EvaluateExtendCost without
// re-deriving it from the ExtendTo call that followed.
type System[C Cost[C], O any] interface {
	// SampleState draws a state from the free configuration space. The
	// implementation may or may not itself check obstacles.
	SampleState(rng *rand.Rand) (State, bool)
	// SampleInGoal draws a state from the goal region.
	SampleInGoal(rng *rand.Rand) (State, bool)
	// IsInGoal reports whether a state lies in the goal region.
	IsInGoal(s State) bool
	// IsInCollision reports whether a state collides with the obstacle field.
	IsInCollision(s State) bool
	// GetKey projects a state to the point used for spatial indexing. Must
	// be metrically consistent with the steering cost for the RRT* near-radius
	// guarantee to hold.
	GetKey(s State) []float64
	// Dim is the dimension of the spatial index key.
	Dim() int
	// EvaluateExtendCost computes the cost of steering from si to sf,
	// caching whatever it needs to recompute the trajectory later into a
	// fresh OptData. It performs no collision checks. ok is false if si
	// cannot reach sf at all.
	EvaluateExtendCost(si, sf State) (cost C, opt O, ok bool)
	// ExtendTo materializes the trajectory from si to sf. If checkObstacles
	// is true, it fails whenever any state along the path collides. opt is
	// the OptData from the matching EvaluateExtendCost call; an
	// implementation may recompute it lazily if absent.
	ExtendTo(si, sf State, checkObstacles bool, opt O) (traj Trajectory, newOpt O, ok bool)
	// IsSafeTrajectory reports whether every state of traj is obstacle-free.
	IsSafeTrajectory(traj Trajectory) bool
	// ZeroCost returns the additive identity cost.
	ZeroCost() C
	// InfCost returns a cost no feasible edge exceeds.
	InfCost() C
}
