package geom

import (
	"math"
	"testing"
)

func TestCornersAxisAligned(t *testing.T) {
	corners := Corners(0, 0, 0, Rect{W: 10, H: 4})
	want := [4]Point{
		{5, 2}, {-5, 2}, {-5, -2}, {5, -2},
	}
	for i := range corners {
		if math.Abs(corners[i].X-want[i].X) > 1e-9 || math.Abs(corners[i].Y-want[i].Y) > 1e-9 {
			t.Fatalf("corner %d = %+v, want %+v", i, corners[i], want[i])
		}
	}
}

func TestCornersRotationPreservesDistanceFromCenter(t *testing.T) {
	r := Rect{W: 6, H: 8}
	wantDist := math.Hypot(3, 4)
	for _, theta := range []float64{0, math.Pi / 6, math.Pi / 4, math.Pi / 2, math.Pi} {
		corners := Corners(1, -2, theta, r)
		for _, c := range corners {
			d := math.Hypot(c.X-1, c.Y-(-2))
			if math.Abs(d-wantDist) > 1e-9 {
				t.Fatalf("theta=%v: corner distance from center = %v, want %v", theta, d, wantDist)
			}
		}
	}
}

func TestContainmentExcessBoundaryIsValid(t *testing.T) {
	corners := Corners(0, 0, 0, Rect{W: 2, H: 2})
	d := math.Hypot(1, 1)
	excess := ContainmentExcess(corners, d)
	for i, e := range excess {
		if e > 1e-9 {
			t.Fatalf("corner %d excess = %v, want <= 0 at exact boundary", i, e)
		}
	}
}

func TestSATPenetrationSeparatedPairIsValid(t *testing.T) {
	a := Corners(0, 0, 0, Rect{W: 4, H: 4})
	b := Corners(10, 0, 0, Rect{W: 4, H: 4})
	p := SATPenetration(a, b, 1.0)
	if p > 0 {
		t.Fatalf("widely separated rectangles should have non-positive penetration, got %v", p)
	}
}

func TestSATPenetrationOverlappingPairIsInvalid(t *testing.T) {
	a := Corners(0, 0, 0, Rect{W: 4, H: 4})
	b := Corners(1, 0, 0, Rect{W: 4, H: 4})
	p := SATPenetration(a, b, 0)
	if p <= 0 {
		t.Fatalf("overlapping rectangles should have positive penetration, got %v", p)
	}
}

func TestSATPenetrationExactClearanceIsValid(t *testing.T) {
	// Two 2x2 squares placed exactly innerPad apart on the x-axis.
	const innerPad = 0.5
	a := Corners(0, 0, 0, Rect{W: 2, H: 2})
	b := Corners(2+innerPad, 0, 0, Rect{W: 2, H: 2})
	p := SATPenetration(a, b, innerPad)
	if p > 1e-9 {
		t.Fatalf("exact clearance should be valid (penetration <= 0), got %v", p)
	}
}

func TestProjectRange(t *testing.T) {
	corners := Corners(0, 0, 0, Rect{W: 10, H: 2})
	min, max := Project(corners, Vec{1, 0})
	if math.Abs(min-(-5)) > 1e-9 || math.Abs(max-5) > 1e-9 {
		t.Fatalf("projection on x axis = [%v, %v], want [-5, 5]", min, max)
	}
}
