package depack

import (
	"math"

	"circlepack/geom"
)

// Weights are the penalty coefficients combining raw radius with the
// squared constraint violations. They are calibration values, not a
// contract: any choice that makes feasibility dominate objective
// improvement within the search bounds is acceptable. WeightOverlap must
// stay much larger than WeightContain, which must stay much larger than 1.
type Weights struct {
	Contain float64
	Overlap float64
}

// DefaultWeights returns the reference calibration from the design notes.
func DefaultWeights() Weights {
	return Weights{Contain: 1e3, Overlap: 1e4}
}

// Evaluate computes the scalar cost of a candidate state vector: R plus the
// weighted squared containment and overlap violations. angles supplies the
// externally fixed per-rectangle rotation in fixed/discrete modes and is
// ignored in Free mode. The result is a pure function of its inputs.
func Evaluate(mode RotationMode, rects []geom.Rect, padding Padding, w Weights, s State, angles []float64) float64 {
	cost, _ := EvaluateWithPenalty(mode, rects, padding, w, s, angles)
	return cost
}

// EvaluateWithPenalty is Evaluate, additionally returning the penalty term
// alone (cost - R) so callers can test validity without a float comparison
// against the cost.
func EvaluateWithPenalty(mode RotationMode, rects []geom.Rect, padding Padding, w Weights, s State, angles []float64) (cost, penalty float64) {
	n := len(rects)
	r := s.Radius()
	effectiveR := r - padding.Outer

	corners := make([][4]geom.Point, n)

	for i := 0; i < n; i++ {
		corners[i] = Corners(mode, i, s, rects, angles)
		excess := geom.ContainmentExcess(corners[i], effectiveR)
		for _, e := range excess {
			if e > 0 {
				penalty += w.Contain * e * e
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p := geom.SATPenetration(corners[i], corners[j], padding.Inner)
			if p > 0 {
				penalty += w.Overlap * p * p
			}
		}
	}

	cost = r + penalty
	if math.IsNaN(cost) || math.IsNaN(penalty) {
		return math.Inf(1), math.Inf(1)
	}
	return cost, penalty
}

// Valid reports whether a penalty term is exactly (within float noise) zero.
func Valid(penalty float64) bool {
	return penalty < 1e-6
}
