package rrtstar

import "math"

// Cost is a totally ordered monoid: it has an additive identity (Zero), an
// absorbing maximum (Inf), an associative combine (Add), and a strict
// ordering (Less). Implementing it as a generic constraint rather than an
// interface value means every comparison in the rewiring hot path resolves
// to a direct method call instead of a dynamic dispatch.
type Cost[C any] interface {
	// Add combines this cost with another, in the order self followed by other.
	Add(other C) C
	// Less reports whether this cost is strictly smaller than other.
	Less(other C) bool
	// Zero is the additive identity for this cost's concrete type.
	Zero() C
	// Inf is a value no feasible cost ever exceeds.
	Inf() C
}

// FloatCost is the concrete Cost used by the Dubins system and by any other
// System whose cost is a single nonnegative scalar.
type FloatCost float64

// Add returns the sum of the two costs.
func (c FloatCost) Add(other FloatCost) FloatCost { return c + other }

// Less reports strict ordering.
func (c FloatCost) Less(other FloatCost) bool { return c < other }

// Zero returns the additive identity, 0.
func (c FloatCost) Zero() FloatCost { return 0 }

// Inf returns positive infinity.
func (c FloatCost) Inf() FloatCost { return FloatCost(math.Inf(1)) }
