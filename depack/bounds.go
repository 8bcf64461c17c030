package depack

import (
	"math"

	"circlepack/geom"
)

// Bounds holds the per-dimension search interval for a state vector.
// Low and High must have the same length as the state dimension.
type Bounds struct {
	Low, High []float64
}

// halfDiagonal returns half the diagonal length of a rectangle, the
// farthest any of its corners can be from its own center.
func halfDiagonal(r geom.Rect) float64 {
	return math.Hypot(r.W/2, r.H/2)
}

// NewBounds derives the search bounds for n rectangles under mode, per the
// data model: R in [R_min, R_max], centers in [-R_max, R_max], and (in Free
// mode) angles in [0, pi].
func NewBounds(mode RotationMode, rects []geom.Rect, padding Padding) Bounds {
	n := len(rects)

	var maxHalfDiag, sumHalfDiag float64
	for _, r := range rects {
		hd := halfDiagonal(r)
		if hd > maxHalfDiag {
			maxHalfDiag = hd
		}
		sumHalfDiag += hd
	}

	rMin := maxHalfDiag + padding.Outer
	rMax := sumHalfDiag*1.5 + float64(n)*padding.Inner + padding.Outer + maxHalfDiag

	dim := Dim(mode, n)
	low := make([]float64, dim)
	high := make([]float64, dim)

	low[0], high[0] = rMin, rMax

	if mode == Free {
		for i := 0; i < n; i++ {
			base := 1 + i*3
			low[base], high[base] = -rMax, rMax
			low[base+1], high[base+1] = -rMax, rMax
			low[base+2], high[base+2] = 0, math.Pi
		}
	} else {
		for i := 0; i < n; i++ {
			base := 1 + i*2
			low[base], high[base] = -rMax, rMax
			low[base+1], high[base+1] = -rMax, rMax
		}
	}

	return Bounds{Low: low, High: high}
}

// IsAngleDim reports whether dimension j of a state vector under mode holds
// an angle (and thus wraps modulo pi rather than reflecting).
func IsAngleDim(mode RotationMode, j int) bool {
	if mode != Free {
		return false
	}
	if j == 0 {
		return false
	}
	return (j-1)%3 == 2
}
