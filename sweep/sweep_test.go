package sweep

import (
	"context"
	"testing"

	"circlepack/depack"
	"circlepack/geom"
)

func TestEnumeratePermutationCounts(t *testing.T) {
	cases := []struct {
		mode depack.RotationMode
		n    int
		want int
	}{
		{depack.FixedZero, 3, 1},
		{depack.Free, 3, 1},
		{depack.Discrete90, 3, 8},
		{depack.Discrete45, 2, 16},
	}
	for _, c := range cases {
		got := Enumerate(c.mode, c.n)
		if len(got) != c.want {
			t.Errorf("Enumerate(%v, %d) = %d permutations, want %d", c.mode, c.n, len(got), c.want)
		}
	}
}

func TestEnumerateDiscrete90ChoicesAreZeroOrHalfPi(t *testing.T) {
	perms := Enumerate(depack.Discrete90, 2)
	for _, p := range perms {
		for _, angle := range p {
			if angle != 0 && angle != discrete90Choices[1] {
				t.Fatalf("unexpected angle %v in DISCRETE_90 permutation", angle)
			}
		}
	}
}

func TestDispatchFindsValidLayoutForTwoSquares(t *testing.T) {
	rects := []geom.Rect{{W: 10, H: 10}, {W: 10, H: 10}}
	padding := depack.Padding{Outer: 0.5, Inner: 0.5}
	perms := Enumerate(depack.Discrete90, len(rects))

	result := Dispatch(context.Background(), rects, padding, perms, Config{
		Mode:           depack.Discrete90,
		MaxGenerations: 400,
		Seed:           123,
		Parallel:       false,
	}, nil)

	if !result.Best.Valid {
		t.Fatalf("expected a valid layout, got penalty=%v radius=%v", result.Best.Penalty, result.Best.Vector.Radius())
	}
	if len(result.BestAngles) != len(rects) {
		t.Fatalf("BestAngles length = %d, want %d", len(result.BestAngles), len(rects))
	}
}

func TestDispatchReportsProgress(t *testing.T) {
	rects := []geom.Rect{{W: 4, H: 4}}
	padding := depack.Padding{}
	perms := Enumerate(depack.Discrete90, len(rects))

	sink := &CounterSink{}
	Dispatch(context.Background(), rects, padding, perms, Config{
		Mode:           depack.Discrete90,
		MaxGenerations: 20,
		Seed:           1,
		Parallel:       false,
	}, sink)

	if sink.Completed() != len(perms) {
		t.Fatalf("Completed() = %d, want %d", sink.Completed(), len(perms))
	}
}

func TestDispatchRespectsCancelledContext(t *testing.T) {
	rects := []geom.Rect{{W: 4, H: 4}, {W: 4, H: 4}}
	padding := depack.Padding{}
	perms := Enumerate(depack.Discrete90, len(rects))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Dispatch(ctx, rects, padding, perms, Config{
		Mode: depack.Discrete90,
		Seed: 5,
	}, nil)

	_ = result // cancelled before any permutation completes; must not panic or hang
}

func TestMixSeedIsDeterministicAndVariesByIndex(t *testing.T) {
	a := mixSeed(42, 0)
	b := mixSeed(42, 1)
	if a == b {
		t.Fatal("mixSeed should vary by permutation index")
	}
	if mixSeed(42, 0) != a {
		t.Fatal("mixSeed should be deterministic for the same inputs")
	}
}
