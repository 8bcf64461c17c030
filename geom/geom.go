// Package geom implements the collision geometry shared by the penalty
// evaluator: rotated rectangle corners, axis projection, circle containment
// and the Separating Axis Theorem overlap test.
package geom

import "math"

// Point is a position in the plane.
type Point struct {
	X, Y float64
}

// Vec is a direction in the plane, not necessarily normalized unless the
// producing function documents otherwise.
type Vec struct {
	X, Y float64
}

// Rect describes a rectangle's size. Width and Height must be positive.
type Rect struct {
	W, H float64
}

// Corners returns the four corners of a rectangle of size r centered at
// (cx, cy) and rotated by theta radians, in counter-clockwise order.
func Corners(cx, cy, theta float64, r Rect) [4]Point {
	c, s := math.Cos(theta), math.Sin(theta)
	hw, hh := r.W/2, r.H/2

	local := [4]Point{
		{hw, hh},
		{-hw, hh},
		{-hw, -hh},
		{hw, -hh},
	}

	var out [4]Point
	for i, p := range local {
		out[i] = Point{
			X: cx + p.X*c - p.Y*s,
			Y: cy + p.X*s + p.Y*c,
		}
	}
	return out
}

// Axes returns the two distinct edge-normal axes of a CCW rectangle given
// its corners. The remaining two edges of a rectangle are anti-parallel to
// these and contribute no new separating direction, so only two axes per
// rectangle are needed for SAT.
func Axes(corners [4]Point) [2]Vec {
	var axes [2]Vec
	for i := 0; i < 2; i++ {
		p1, p2 := corners[i], corners[i+1]
		edge := Vec{p2.X - p1.X, p2.Y - p1.Y}
		normal := Vec{-edge.Y, edge.X}
		length := math.Hypot(normal.X, normal.Y)
		if length > 1e-12 {
			axes[i] = Vec{normal.X / length, normal.Y / length}
		} else {
			axes[i] = Vec{0, 0}
		}
	}
	return axes
}

// Project returns the [min, max] range of the corners projected onto axis.
func Project(corners [4]Point, axis Vec) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, c := range corners {
		p := c.X*axis.X + c.Y*axis.Y

		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return min, max
}

// ContainmentExcess returns, per corner, the distance by which the corner
// lies outside a circle of radius effectiveR centered at the origin.
// A non-positive value means the corner is inside (or exactly on) the
// boundary.
func ContainmentExcess(corners [4]Point, effectiveR float64) [4]float64 {
	var excess [4]float64
	for i, c := range corners {
		d := math.Hypot(c.X, c.Y)
		excess[i] = d - effectiveR
	}
	return excess
}

// SATPenetration returns the minimum, over the four candidate separating
// axes of rectangles a and b, of the clearance violation
// innerPad - separation(axis). A non-positive result means a separating
// axis with sufficient clearance exists and the pair is valid; a positive
// result is the squared-penalty-ready penetration depth.
func SATPenetration(a, b [4]Point, innerPad float64) float64 {
	axesA := Axes(a)
	axesB := Axes(b)

	minViolation := math.Inf(1)
	for _, axis := range [4]Vec{axesA[0], axesA[1], axesB[0], axesB[1]} {
		if axis.X == 0 && axis.Y == 0 {
			continue
		}
		minA, maxA := Project(a, axis)
		minB, maxB := Project(b, axis)

		// Signed separation between the two projected intervals: positive
		// when disjoint by that much, negative when they overlap by that
		// much. Matches the reference solver's `d` exactly.
		d := math.Max(minB-maxA, minA-maxB)
		violation := innerPad - d
		if violation < minViolation {
			minViolation = violation
		}
	}
	if math.IsInf(minViolation, 1) {
		return 0
	}
	return minViolation
}
