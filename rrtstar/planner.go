package rrtstar

import (
	"math"
	"math/rand"
	"sort"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
)

// logEveryIterations matches the reference planner's practice of logging
// progress periodically rather than on every iteration.
const logEveryIterations = 100

// Planner is the RRT* kernel, generic over a Cost algebra C and an opaque
// per-edge OptData O. One instance owns exactly one tree and one spatial
// index; per the concurrency model, callers must not invoke its methods
// concurrently from more than one goroutine.
type Planner[C Cost[C], O any] struct {
	sys    System[C, O]
	opts   *Options
	rng    *rand.Rand
	logger golog.Logger

	arena *arena[C, O]
	index SpatialIndex

	root             Handle
	lowerBoundCost   C
	lowerBoundVertex Handle

	iterCount int
}

// NewPlanner constructs a Planner from a System, Options (DefaultOptions if
// nil), a caller-owned random source, and a logger.
func NewPlanner[C Cost[C], O any](sys System[C, O], opts *Options, rng *rand.Rand, logger golog.Logger) *Planner[C, O] {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Planner[C, O]{
		sys:              sys,
		opts:             opts,
		rng:              rng,
		logger:           logger,
		arena:            newArena[C, O](),
		index:            NewBruteForceSpatialIndex(),
		root:             noHandle,
		lowerBoundVertex: noHandle,
	}
}

// Initialize discards any existing tree and index and plants a fresh root.
func (p *Planner[C, O]) Initialize(rootState State) {
	p.arena.reset()
	p.index.Reset()
	p.lowerBoundCost = p.sys.InfCost()
	p.lowerBoundVertex = noHandle
	p.iterCount = 0

	root := p.arena.create(rootState)
	root.costFromRoot = p.sys.ZeroCost()
	root.costFromParent = p.sys.ZeroCost()
	p.root = root.handle
	p.insertIntoIndex(root)
}

func (p *Planner[C, O]) insertIntoIndex(v *vertex[C, O]) {
	p.index.Insert(p.sys.GetKey(v.state), v.handle)
}

// RootState returns the state of the current root vertex.
func (p *Planner[C, O]) RootState() State {
	return p.arena.get(p.root).state
}

// BestCost reports the cost of the current best trajectory and whether one
// has been found yet.
func (p *Planner[C, O]) BestCost() (C, bool) {
	if p.lowerBoundVertex == noHandle {
		return p.sys.ZeroCost(), false
	}
	return p.lowerBoundCost, true
}

// NumVertices reports the current tree size.
func (p *Planner[C, O]) NumVertices() int {
	return p.arena.len()
}

// Iteration runs one RRT* step: sample, near query, best-parent selection,
// insertion, and rewiring.
func (p *Planner[C, O]) Iteration() error {
	p.iterCount++

	// 1. Sample.
	var s State
	var ok bool
	if p.rng.Float64() < p.opts.GoalSampleFreq {
		s, ok = p.sys.SampleInGoal(p.rng)
	} else {
		s, ok = p.sys.SampleState(p.rng)
	}
	if !ok {
		return ErrSampleUnavailable
	}

	// 2. Near query.
	near, err := p.getNearVertices(s)
	if err != nil {
		return err
	}

	// 3. Best parent.
	parent, e, err := p.findBestParent(s, near)
	if err != nil {
		return err
	}

	// 4. Insert.
	newV, err := p.insertEdge(parent, e)
	if err != nil {
		return err
	}

	// 5. Rewire.
	if len(near) > 0 {
		p.rewireVertices(newV, near)
	}

	if p.logger != nil && p.iterCount%logEveryIterations == 0 {
		cost, found := p.BestCost()
		if found {
			p.logger.Debugf("rrtstar progress: iteration %d\tvertices %d\tbest cost %v", p.iterCount, p.arena.len(), cost)
		} else {
			p.logger.Debugf("rrtstar progress: iteration %d\tvertices %d\tno solution yet", p.iterCount, p.arena.len())
		}
	}
	return nil
}

func (p *Planner[C, O]) getNearVertices(s State) ([]Handle, error) {
	key := p.sys.GetKey(s)
	n := p.arena.len()
	dim := float64(p.sys.Dim())
	r := p.opts.Gamma * math.Pow(math.Log(float64(n)+1)/(float64(n)+1), 1/dim)

	near := p.index.Range(key, r)
	if len(near) == 0 {
		h, found := p.index.Nearest(key)
		if !found {
			return nil, ErrNearQueryEmpty
		}
		return []Handle{h}, nil
	}
	return near, nil
}

type parentCandidate[C Cost[C], O any] struct {
	handle     Handle
	edgeCost   C
	totalCost  C
	opt        O
}

func (p *Planner[C, O]) findBestParent(s State, near []Handle) (Handle, *edge[C, O], error) {
	candidates := make([]parentCandidate[C, O], 0, len(near))
	for _, h := range near {
		v := p.arena.get(h)
		if v == nil {
			continue
		}
		cost, opt, ok := p.sys.EvaluateExtendCost(v.state, s)
		if !ok {
			continue
		}
		candidates = append(candidates, parentCandidate[C, O]{
			handle:    h,
			edgeCost:  cost,
			totalCost: v.costFromRoot.Add(cost),
			opt:       opt,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].totalCost.Less(candidates[j].totalCost)
	})

	for _, c := range candidates {
		v := p.arena.get(c.handle)
		_, _, ok := p.sys.ExtendTo(v.state, s, true, c.opt)
		if !ok {
			continue
		}
		e := &edge[C, O]{
			startState: v.state,
			endState:   s,
			cost:       c.edgeCost,
			opt:        c.opt,
		}
		return c.handle, e, nil
	}
	return noHandle, nil, ErrNoFeasibleParent
}

func (p *Planner[C, O]) insertEdge(parent Handle, e *edge[C, O]) (Handle, error) {
	pv := p.arena.get(parent)

	if p.opts.DoBranchAndBound {
		newCost := pv.costFromRoot.Add(e.cost)
		if p.lowerBoundCost.Less(newCost) {
			return noHandle, ErrPrunedByBound
		}
	}

	nv := p.arena.create(e.endState)
	p.insertIntoIndex(nv)
	p.attachEdge(pv, e, nv)
	return nv.handle, nil
}

// attachEdge installs e as the edge from parent pv to child cv, updating
// costs, parent/child links, and the best-vertex tracker. If cv already has
// a parent, cv is removed from that parent's child set first.
func (p *Planner[C, O]) attachEdge(pv *vertex[C, O], e *edge[C, O], cv *vertex[C, O]) {
	cv.costFromParent = e.cost
	cv.costFromRoot = pv.costFromRoot.Add(cv.costFromParent)
	cv.edgeFromParent = e

	if cv.parent != noHandle {
		if oldParent := p.arena.get(cv.parent); oldParent != nil {
			delete(oldParent.children, cv.handle)
		}
	}
	cv.parent = pv.handle
	pv.children[cv.handle] = struct{}{}

	p.updateBestVertex(cv)
}

func (p *Planner[C, O]) updateBestVertex(v *vertex[C, O]) {
	if !p.sys.IsInGoal(v.state) {
		return
	}
	if p.lowerBoundVertex == noHandle || v.costFromRoot.Less(p.lowerBoundCost) {
		p.lowerBoundCost = v.costFromRoot
		p.lowerBoundVertex = v.handle
	}
}

func (p *Planner[C, O]) rewireVertices(newHandle Handle, near []Handle) {
	nv := p.arena.get(newHandle)
	for _, h := range near {
		if h == nv.parent {
			continue
		}
		wv := p.arena.get(h)
		if wv == nil || wv.handle == nv.handle {
			continue
		}
		cost, opt, ok := p.sys.EvaluateExtendCost(nv.state, wv.state)
		if !ok {
			continue
		}
		candidate := nv.costFromRoot.Add(cost)
		if !candidate.Less(wv.costFromRoot) {
			continue
		}
		_, _, ok = p.sys.ExtendTo(nv.state, wv.state, true, opt)
		if !ok {
			continue
		}
		e := &edge[C, O]{startState: nv.state, endState: wv.state, cost: cost, opt: opt}
		p.attachEdge(nv, e, wv)
		p.updateBranchCost(wv)
	}
}

// updateBranchCost recomputes cost_from_root for the entire subtree rooted
// at v using an explicit work queue, per the design note preferring
// iterative traversal over recursion for large trees.
func (p *Planner[C, O]) updateBranchCost(v *vertex[C, O]) {
	queue := []*vertex[C, O]{v}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for ch := range cur.children {
			child := p.arena.get(ch)
			child.costFromRoot = cur.costFromRoot.Add(child.costFromParent)
			p.updateBestVertex(child)
			queue = append(queue, child)
		}
	}
}

func (p *Planner[C, O]) updateAllCosts() {
	p.lowerBoundCost = p.sys.InfCost()
	p.lowerBoundVertex = noHandle
	root := p.arena.get(p.root)
	root.costFromRoot = p.sys.ZeroCost()
	p.updateBranchCost(root)
}

// GetBestTrajectory walks parent links from the best vertex to the root,
// re-materializing each edge's trajectory from cached OptData, and returns
// the concatenated root-to-goal trajectory.
func (p *Planner[C, O]) GetBestTrajectory() (Trajectory, error) {
	if p.lowerBoundVertex == noHandle {
		return Trajectory{}, ErrNoBestVertex
	}
	var best Trajectory
	vc := p.arena.get(p.lowerBoundVertex)
	for vc != nil {
		if vc.parent == noHandle {
			break
		}
		vp := p.arena.get(vc.parent)
		traj, _, _ := p.sys.ExtendTo(vp.state, vc.state, false, vc.edgeFromParent.opt)
		traj.Reverse()
		best.AppendTrajectory(traj)
		vc = vp
	}
	best.Reverse()
	return best, nil
}

// CheckTree revalidates every edge of the tree against the current obstacle
// field. It removes every vertex whose parent edge no longer steers, along
// with that vertex's entire subtree, rebuilds the spatial index, and
// refreshes cost_from_root and the best-vertex tracker. Pruning stale
// subtrees is routine repair, not failure: CheckTree returns a non-nil
// error only when the root itself is in collision, since that is the one
// condition I1-I6 cannot survive. Every pruned edge is logged via
// ErrStaleEdgeDetected rather than folded into the return value.
func (p *Planner[C, O]) CheckTree() error {
	root := p.arena.get(p.root)
	if p.sys.IsInCollision(root.state) {
		return ErrTreeRepairImpossible
	}
	if len(root.children) == 0 {
		return nil
	}

	var staleEdges error
	for ch := range root.children {
		staleEdges = multierr.Append(staleEdges, p.checkAndMarkChildren(p.arena.get(ch)))
	}
	if staleEdges != nil && p.logger != nil {
		p.logger.Debugf("rrtstar: check_tree pruned stale subtrees: %v", staleEdges)
	}

	p.rebuildSurviving()
	p.updateAllCosts()
	return nil
}

// checkAndMarkChildren walks v's subtree with an explicit stack. A vertex
// whose parent edge fails re-steering is detached from its parent and its
// whole subtree is marked doomed; otherwise traversal continues into its
// children.
func (p *Planner[C, O]) checkAndMarkChildren(v *vertex[C, O]) error {
	stack := []*vertex[C, O]{v}
	var errs error
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		parent := p.arena.get(cur.parent)
		_, _, ok := p.sys.ExtendTo(parent.state, cur.state, true, cur.edgeFromParent.opt)
		if !ok {
			errs = multierr.Append(errs, ErrStaleEdgeDetected)
			p.markVertexAndRemoveFromParent(cur)
			continue
		}
		for ch := range cur.children {
			stack = append(stack, p.arena.get(ch))
		}
	}
	return errs
}

func (p *Planner[C, O]) markVertexAndRemoveFromParent(v *vertex[C, O]) {
	if parent := p.arena.get(v.parent); parent != nil {
		delete(parent.children, v.handle)
	}
	p.markDescendentVertices(v)
}

// markDescendentVertices marks v and its entire subtree, using an explicit
// stack rather than recursion.
func (p *Planner[C, O]) markDescendentVertices(v *vertex[C, O]) {
	stack := []*vertex[C, O]{v}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cur.mark = true
		for ch := range cur.children {
			stack = append(stack, p.arena.get(ch))
		}
	}
}

// rebuildSurviving deletes every marked vertex from the arena and rebuilds
// the spatial index from what remains.
func (p *Planner[C, O]) rebuildSurviving() {
	var doomed []Handle
	for h, v := range p.arena.vertices {
		if v.mark {
			doomed = append(doomed, h)
		}
	}
	for _, h := range doomed {
		p.arena.delete(h)
	}

	p.index.Reset()
	for _, v := range p.arena.vertices {
		p.insertIntoIndex(v)
	}
}

// LazyCheckTree runs CheckTree only when the committed trajectory is no
// longer obstacle-free.
func (p *Planner[C, O]) LazyCheckTree(committed Trajectory) error {
	if p.sys.IsSafeTrajectory(committed) {
		return nil
	}
	return p.CheckTree()
}

// SwitchRoot advances the root along the current best trajectory by
// distance (measured with State.Dist(..., onlyXY=true)) and discards
// everything outside the subtree beneath the new root. It returns the
// committed trajectory prefix.
func (p *Planner[C, O]) SwitchRoot(distance float64) (Trajectory, error) {
	if p.lowerBoundVertex == noHandle {
		return Trajectory{}, ErrNoBestVertex
	}
	root := p.arena.get(p.root)
	if p.sys.IsInGoal(root.state) {
		return Trajectory{}, nil
	}

	path := p.bestTrajectoryVertices()

	var committed Trajectory
	length := 0.0
	var newRootState State
	childOfNewRoot := noHandle
	newRootFound := false

	for _, h := range path {
		if newRootFound {
			break
		}
		vc := p.arena.get(h)
		if vc.parent == noHandle {
			continue
		}
		vp := p.arena.get(vc.parent)
		traj, _, ok := p.sys.ExtendTo(vp.state, vc.state, false, vc.edgeFromParent.opt)
		if !ok {
			return Trajectory{}, ErrRootAdvancePathSteerFailed
		}

		if length+traj.TotalVariation < distance {
			length += traj.TotalVariation
			committed.AppendTrajectory(traj)
			continue
		}

		sp := traj.States[0]
		for i, sc := range traj.States {
			step := sp.Dist(sc, true)
			if step+length < distance {
				length += step
				committed.Append(sc, traj.Controls[i], step)
				sp = sc
				continue
			}
			newRootState = sc
			childOfNewRoot = h
			newRootFound = true
			break
		}
	}

	if !newRootFound {
		newRootState = p.arena.get(p.lowerBoundVertex).state
		childOfNewRoot = noHandle
	}

	if childOfNewRoot == noHandle {
		p.arena.reset()
		p.index.Reset()
		newRoot := p.arena.create(newRootState)
		newRoot.costFromRoot = p.sys.ZeroCost()
		newRoot.costFromParent = p.sys.ZeroCost()
		p.root = newRoot.handle
		p.insertIntoIndex(newRoot)
		p.updateAllCosts()
		return committed, nil
	}

	survivorHandle := childOfNewRoot
	survivor := p.arena.get(survivorHandle)
	p.markDescendentVertices(survivor)

	surviving := make([]*vertex[C, O], 0, p.arena.len())
	for _, v := range p.arena.vertices {
		if v.mark {
			surviving = append(surviving, v)
		}
	}

	p.arena.reset()
	p.index.Reset()

	newRoot := p.arena.create(newRootState)
	newRoot.costFromRoot = p.sys.ZeroCost()
	newRoot.costFromParent = p.sys.ZeroCost()
	p.root = newRoot.handle
	p.insertIntoIndex(newRoot)

	for _, v := range surviving {
		v.mark = false
		p.arena.adopt(v)
	}

	var zeroOpt O
	if _, _, ok := p.sys.ExtendTo(newRootState, survivor.state, false, zeroOpt); !ok {
		return Trajectory{}, ErrRootAdvanceSteerFailed
	}
	edgeCost, newOpt, ok := p.sys.EvaluateExtendCost(newRootState, survivor.state)
	if !ok {
		return Trajectory{}, ErrRootAdvanceCostFailed
	}

	survivor.edgeFromParent = &edge[C, O]{
		startState: newRootState,
		endState:   survivor.state,
		cost:       edgeCost,
		opt:        newOpt,
	}
	survivor.parent = newRoot.handle
	survivor.costFromParent = edgeCost
	newRoot.children[survivor.handle] = struct{}{}

	for _, v := range surviving {
		p.insertIntoIndex(v)
	}

	p.updateAllCosts()
	return committed, nil
}

func (p *Planner[C, O]) bestTrajectoryVertices() []Handle {
	var path []Handle
	vc := p.arena.get(p.lowerBoundVertex)
	for vc != nil {
		path = append([]Handle{vc.handle}, path...)
		if vc.parent == noHandle {
			break
		}
		vc = p.arena.get(vc.parent)
	}
	return path
}
