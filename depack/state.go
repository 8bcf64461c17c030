// Package depack implements the penalty evaluator and the Differential
// Evolution engine that drives a population of candidate layouts toward a
// minimal enclosing radius.
package depack

import "circlepack/geom"

// RotationMode selects how rectangle angles are treated during a solve.
type RotationMode int

const (
	FixedZero RotationMode = iota
	Discrete90
	Discrete45
	Free
	Auto
)

func (m RotationMode) String() string {
	switch m {
	case FixedZero:
		return "FIXED_0"
	case Discrete90:
		return "DISCRETE_90"
	case Discrete45:
		return "DISCRETE_45"
	case Free:
		return "FREE"
	case Auto:
		return "AUTO"
	default:
		return "UNKNOWN"
	}
}

// Padding holds the two clearance parameters of a problem instance.
type Padding struct {
	Outer float64 // clearance between a rectangle and the circle boundary
	Inner float64 // clearance between any two rectangles
}

// State is a flat decision vector. In fixed/discrete modes it is laid out
// as [R, x1, y1, ..., xN, yN]; in Free mode as [R, x1, y1, t1, ..., xN, yN, tN].
type State []float64

// Clone returns an independent copy of the state vector.
func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Dim returns the dimension of the state vector for n rectangles under mode.
func Dim(mode RotationMode, n int) int {
	if mode == Free {
		return 1 + 3*n
	}
	return 1 + 2*n
}

// Radius returns the R component of the state vector.
func (s State) Radius() float64 {
	return s[0]
}

// Pose is the resolved placement of one rectangle.
type Pose struct {
	CX, CY, Theta float64
}

// Poses decodes a state vector into per-rectangle poses. For fixed/discrete
// modes, angles must supply the externally fixed per-rectangle theta; it is
// ignored (may be nil) in Free mode.
func Poses(mode RotationMode, n int, s State, angles []float64) []Pose {
	poses := make([]Pose, n)
	if mode == Free {
		for i := 0; i < n; i++ {
			base := 1 + i*3
			poses[i] = Pose{CX: s[base], CY: s[base+1], Theta: s[base+2]}
		}
		return poses
	}
	for i := 0; i < n; i++ {
		base := 1 + i*2
		poses[i] = Pose{CX: s[base], CY: s[base+1], Theta: angles[i]}
	}
	return poses
}

// Seed is a previous solve's outcome, used to warm-start a later Engine's
// population the way the greedy chromosome seeds a genetic algorithm's
// initial generation: radius and per-rectangle centers from a prior run,
// replayed as one member of a fresh population instead of a random vector.
type Seed struct {
	Radius float64
	Poses  []Pose
}

// SeedVector builds a state vector for mode from seed, so it can be dropped
// into Config.SeedVectors. In fixed/discrete modes, seed.Poses'
// Theta values are discarded, since those modes carry angles externally
// rather than in the state vector.
func SeedVector(mode RotationMode, seed Seed) State {
	v := make(State, Dim(mode, len(seed.Poses)))
	v[0] = seed.Radius
	if mode == Free {
		for i, p := range seed.Poses {
			base := 1 + i*3
			v[base], v[base+1], v[base+2] = p.CX, p.CY, p.Theta
		}
		return v
	}
	for i, p := range seed.Poses {
		base := 1 + i*2
		v[base], v[base+1] = p.CX, p.CY
	}
	return v
}

// Corners returns the rotated corner positions of rectangle i under state s.
func Corners(mode RotationMode, i int, s State, rects []geom.Rect, angles []float64) [4]geom.Point {
	var cx, cy, theta float64
	if mode == Free {
		base := 1 + i*3
		cx, cy, theta = s[base], s[base+1], s[base+2]
	} else {
		base := 1 + i*2
		cx, cy, theta = s[base], s[base+1], angles[i]
	}
	return geom.Corners(cx, cy, theta, rects[i])
}
