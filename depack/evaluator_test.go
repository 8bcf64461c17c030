package depack

import (
	"math"
	"testing"

	"circlepack/geom"
)

func TestEvaluateValidLayoutCostEqualsRadius(t *testing.T) {
	rects := []geom.Rect{{W: 2, H: 2}}
	s := State{10, 0, 0}
	cost, penalty := EvaluateWithPenalty(FixedZero, rects, Padding{}, DefaultWeights(), s, []float64{0})
	if !Valid(penalty) {
		t.Fatalf("expected valid layout, penalty=%v", penalty)
	}
	if math.Abs(cost-10) > 1e-9 {
		t.Fatalf("cost = %v, want 10", cost)
	}
}

func TestEvaluatePenalizesContainmentViolation(t *testing.T) {
	rects := []geom.Rect{{W: 10, H: 10}}
	s := State{1, 0, 0} // rectangle half-diagonal exceeds R
	cost, penalty := EvaluateWithPenalty(FixedZero, rects, Padding{}, DefaultWeights(), s, []float64{0})
	if Valid(penalty) {
		t.Fatalf("expected invalid layout")
	}
	if cost <= 1 {
		t.Fatalf("cost = %v, want > R due to containment penalty", cost)
	}
}

func TestEvaluatePenalizesOverlap(t *testing.T) {
	rects := []geom.Rect{{W: 4, H: 4}, {W: 4, H: 4}}
	s := State{20, 0, 0, 1, 0} // heavily overlapping, both near center
	cost, penalty := EvaluateWithPenalty(FixedZero, rects, Padding{Inner: 1}, DefaultWeights(), s, []float64{0, 0})
	if Valid(penalty) {
		t.Fatalf("expected overlap penalty")
	}
	if cost <= 20 {
		t.Fatalf("cost = %v, want > R", cost)
	}
}

func TestEvaluateFeasibilityDominatesObjective(t *testing.T) {
	// Any feasible R within bounds must cost less than any infeasible R,
	// however small the infeasible R's radius term is.
	rects := []geom.Rect{{W: 2, H: 2}}
	feasible := State{100, 0, 0}
	infeasible := State{1, 0, 0}

	feasibleCost := Evaluate(FixedZero, rects, Padding{}, DefaultWeights(), feasible, []float64{0})
	infeasibleCost := Evaluate(FixedZero, rects, Padding{}, DefaultWeights(), infeasible, []float64{0})

	if feasibleCost >= infeasibleCost {
		t.Fatalf("feasible cost %v should be lower than infeasible cost %v", feasibleCost, infeasibleCost)
	}
}

func TestEvaluateNaNBecomesInfinite(t *testing.T) {
	rects := []geom.Rect{{W: 2, H: 2}}
	s := State{math.NaN(), 0, 0}
	cost := Evaluate(FixedZero, rects, Padding{}, DefaultWeights(), s, []float64{0})
	if !math.IsInf(cost, 1) {
		t.Fatalf("cost = %v, want +Inf for NaN input", cost)
	}
}
