package circlepack

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"circlepack/depack"
	"circlepack/geom"
)

func TestSolveTwoSquaresFixedZero(t *testing.T) {
	instance := Instance{
		Rects:   []geom.Rect{{W: 10, H: 10}, {W: 10, H: 10}},
		Padding: depack.Padding{Outer: 0.5, Inner: 0.5},
	}

	result, err := Solve(context.Background(), instance, Options{
		Mode:           depack.FixedZero,
		MaxGenerations: 500,
		Seed:           1,
	})

	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Len(t, result.Poses, 2)
	require.NotEqual(t, result.RunID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestSolveSingleRectangleFixedZero(t *testing.T) {
	instance := Instance{
		Rects:   []geom.Rect{{W: 20, H: 10}},
		Padding: depack.Padding{Outer: 1},
	}

	result, err := Solve(context.Background(), instance, Options{
		Mode:           depack.FixedZero,
		MaxGenerations: 200,
		Seed:           2,
	})

	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Len(t, result.Poses, 1)
	wantRadius := geomHalfDiagonal(20, 10) + 1
	require.InDelta(t, wantRadius, result.Radius, 0.5)
}

func TestSolveFourSquaresDiscrete90(t *testing.T) {
	rects := []geom.Rect{{W: 10, H: 10}, {W: 10, H: 10}, {W: 10, H: 10}, {W: 10, H: 10}}
	instance := Instance{Rects: rects, Padding: depack.Padding{Outer: 0.5, Inner: 0.5}}

	result, err := Solve(context.Background(), instance, Options{
		Mode:           depack.Discrete90,
		MaxGenerations: 600,
		Seed:           3,
	})

	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Len(t, result.Poses, 4)
	require.Equal(t, 16, result.PermutationsAttempted)
}

func TestSolveThreeMixedRectanglesAuto(t *testing.T) {
	rects := []geom.Rect{{W: 10, H: 5}, {W: 8, H: 8}, {W: 6, H: 12}}
	instance := Instance{Rects: rects, Padding: depack.Padding{Outer: 0.5, Inner: 0.5}}

	result, err := Solve(context.Background(), instance, Options{
		Mode:           depack.Auto,
		MaxGenerations: 300,
		Seed:           4,
	})

	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Len(t, result.Poses, 3)
}

func TestSolveSingleRectangleFree(t *testing.T) {
	instance := Instance{
		Rects:   []geom.Rect{{W: 5, H: 5}},
		Padding: depack.Padding{Outer: 0.25},
	}

	result, err := Solve(context.Background(), instance, Options{
		Mode:           depack.Free,
		MaxGenerations: 300,
		Seed:           5,
	})

	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Len(t, result.Poses, 1)
}

func TestSolveUnreachableTargetRadiusCascadesToFree(t *testing.T) {
	rects := []geom.Rect{{W: 10, H: 10}, {W: 10, H: 10}}
	instance := Instance{Rects: rects, Padding: depack.Padding{Outer: 0.5, Inner: 0.5}}
	target := 1.0

	result, err := Solve(context.Background(), instance, Options{
		Mode:           depack.Auto,
		TargetRadius:   &target,
		MaxGenerations: 400,
		Seed:           6,
	})

	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Greater(t, result.Radius, target)
	require.Equal(t, depack.Free, result.Stage)
}

func TestSolveWarmStartNeverIncreasesRadius(t *testing.T) {
	rects := []geom.Rect{{W: 10, H: 10}, {W: 10, H: 10}, {W: 8, H: 8}}
	instance := Instance{Rects: rects, Padding: depack.Padding{Outer: 0.5, Inner: 0.5}}

	first, err := Solve(context.Background(), instance, Options{
		Mode:           depack.FixedZero,
		MaxGenerations: 400,
		Seed:           7,
	})
	require.NoError(t, err)
	require.True(t, first.Valid)

	seed := first.Seed()
	second, err := Solve(context.Background(), instance, Options{
		Mode:           depack.FixedZero,
		MaxGenerations: 400,
		Seed:           7,
		WarmStart:      &seed,
	})
	require.NoError(t, err)
	require.True(t, second.Valid)
	require.LessOrEqual(t, second.Radius, first.Radius+1e-9)
}

func TestSolveRejectsInvalidInstance(t *testing.T) {
	cases := []Instance{
		{Rects: nil},
		{Rects: []geom.Rect{{W: 0, H: 5}}},
		{Rects: []geom.Rect{{W: 5, H: -1}}},
		{Rects: []geom.Rect{{W: 5, H: 5}}, Padding: depack.Padding{Outer: -1}},
	}
	for _, instance := range cases {
		_, err := Solve(context.Background(), instance, Options{})
		require.ErrorIs(t, err, ErrInvalidInstance)
	}
}

func geomHalfDiagonal(w, h float64) float64 {
	return math.Hypot(w/2, h/2)
}
