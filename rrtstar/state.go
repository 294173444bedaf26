package rrtstar

import "gonum.org/v1/gonum/floats"

// State is a fixed-arity tuple of real numbers. Its dimension is whatever a
// concrete System chooses to populate; the kernel never inspects it beyond
// passing it to System methods and computing distances for commit-length
// accounting.
type State []float64

// Dist returns the Euclidean distance between two states. If onlyXY is true,
// only the first two coordinates are compared, matching the distilled
// source's dist(a, b, only_xy) used for switch_root's commit-length
// accounting on planar (x, y, theta) states.
func (s State) Dist(other State, onlyXY bool) float64 {
	n := len(s)
	if onlyXY && n > 2 {
		n = 2
	}
	diff := make([]float64, n)
	for i := 0; i < n; i++ {
		diff[i] = s[i] - other[i]
	}
	return floats.Norm(diff, 2)
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	copy(out, s)
	return out
}

// Control is a fixed-arity real tuple, dimension M from the System.
type Control []float64

// Trajectory is an ordered sequence of states paired with an ordered
// sequence of controls, plus a scalar length-like accumulator.
type Trajectory struct {
	States        []State
	Controls      []Control
	TotalVariation float64
}

// Append adds a state/control pair and folds extraCost into TotalVariation.
func (t *Trajectory) Append(s State, c Control, extraCost float64) {
	t.States = append(t.States, s)
	t.Controls = append(t.Controls, c)
	t.TotalVariation += extraCost
}

// AppendTrajectory concatenates other onto t, summing TotalVariation.
func (t *Trajectory) AppendTrajectory(other Trajectory) {
	t.States = append(t.States, other.States...)
	t.Controls = append(t.Controls, other.Controls...)
	t.TotalVariation += other.TotalVariation
}

// Reverse reverses both sequences in place and preserves TotalVariation.
func (t *Trajectory) Reverse() {
	for i, j := 0, len(t.States)-1; i < j; i, j = i+1, j-1 {
		t.States[i], t.States[j] = t.States[j], t.States[i]
	}
	for i, j := 0, len(t.Controls)-1; i < j; i, j = i+1, j-1 {
		t.Controls[i], t.Controls[j] = t.Controls[j], t.Controls[i]
	}
}
