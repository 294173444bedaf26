package rrtstar

import "errors"

// ErrSampleUnavailable means the sampler could not produce a state this
// iteration. Transient: the caller should simply call Iteration again.
var ErrSampleUnavailable = errors.New("rrtstar: sampler produced no state this iteration")

// ErrNearQueryEmpty means the spatial index returned no neighbors and the
// nearest-vertex fallback also failed, implying an empty tree. The caller
// should ensure Initialize ran.
var ErrNearQueryEmpty = errors.New("rrtstar: near query returned no candidates")

// ErrNoFeasibleParent means every near candidate failed obstacle-checked
// steering to the sample. Transient.
var ErrNoFeasibleParent = errors.New("rrtstar: no near vertex could steer to the sample")

// ErrStaleEdgeDetected means a cached tree edge failed obstacle-checked
// re-steering during CheckTree's revalidation pass. Distinct from
// ErrNoFeasibleParent: this is a diagnostic about an edge that used to be
// feasible and no longer is, not a transient failure to find a parent
// during Iteration. Pruning the affected subtree is routine repair, not
// failure; CheckTree still returns nil overall when the root survives.
var ErrStaleEdgeDetected = errors.New("rrtstar: cached tree edge failed re-steering during check_tree")

// ErrPrunedByBound means branch-and-bound rejected the new vertex because
// its candidate cost already exceeds the current best goal cost. Normal.
var ErrPrunedByBound = errors.New("rrtstar: candidate pruned by branch-and-bound")

// ErrTreeRepairImpossible means the root itself is in collision. Fatal for
// the current plan; the caller must replan from scratch.
var ErrTreeRepairImpossible = errors.New("rrtstar: root vertex is in collision, tree cannot be repaired")

// ErrNoBestVertex means no goal-resident vertex exists yet.
var ErrNoBestVertex = errors.New("rrtstar: no best vertex has been found yet")

// ErrRootAdvancePathSteerFailed means a cached edge along the current best
// path no longer re-steers while switch_root walks it to find the cut
// point, before any pruning has happened.
var ErrRootAdvancePathSteerFailed = errors.New("rrtstar: cached edge on best path failed to re-steer during root advance")

// ErrRootAdvanceSteerFailed means switch_root could not re-steer from the
// new root to the first surviving child.
var ErrRootAdvanceSteerFailed = errors.New("rrtstar: root advance failed to steer to surviving subtree")

// ErrRootAdvanceCostFailed means switch_root could not re-cost the edge from
// the new root to the first surviving child.
var ErrRootAdvanceCostFailed = errors.New("rrtstar: root advance failed to cost edge to surviving subtree")
