// Package stage orchestrates the FIXED_0 -> DISCRETE_90 -> DISCRETE_45 ->
// FREE cascade, short-circuiting when a valid result already meets a
// caller-supplied target radius.
package stage

import (
	"context"

	"circlepack/depack"
	"circlepack/geom"
	"circlepack/sweep"
)

// Options configures a staged solve. TargetRadius, when non-nil, enables
// early stopping once a valid result at or below it is found.
type Options struct {
	Mode           depack.RotationMode // Auto runs the full cascade
	TargetRadius   *float64
	MaxGenerations int
	PopulationSize int
	F, CR          float64
	Seed           int64
	Parallel       bool
	Progress       sweep.ProgressSink
	StagesToTry    []depack.RotationMode // overrides the default cascade order under Auto

	// WarmStart, if non-nil, seeds one member of the FIXED_0/FREE stages'
	// initial population with a prior solve's outcome (see
	// depack.SeedVector). Discrete stages sweep independent per-permutation
	// populations with externally fixed angles that a single prior pose set
	// cannot be mapped onto consistently, so WarmStart has no effect there.
	WarmStart *depack.Seed
}

// Outcome is the result of running one or more stages.
type Outcome struct {
	Radius                float64
	Valid                 bool
	Poses                 []depack.Pose
	Stage                 depack.RotationMode
	Generations           int
	PermutationsAttempted int
}

var defaultCascade = []depack.RotationMode{
	depack.FixedZero, depack.Discrete90, depack.Discrete45, depack.Free,
}

// Run executes opts.Mode (or the full cascade, for Auto) and returns the
// best result found across every stage attempted.
func Run(ctx context.Context, rects []geom.Rect, padding depack.Padding, opts Options) Outcome {
	stages := []depack.RotationMode{opts.Mode}
	if opts.Mode == depack.Auto {
		if len(opts.StagesToTry) > 0 {
			stages = opts.StagesToTry
		} else {
			stages = defaultCascade
		}
	}

	var best Outcome
	haveBest := false

	for _, mode := range stages {
		res := runStage(ctx, rects, padding, mode, opts)

		if !haveBest || betterOutcome(res, best, opts.TargetRadius) {
			best = res
			haveBest = true
		}

		if opts.TargetRadius != nil && res.Valid && res.Radius <= *opts.TargetRadius {
			return res
		}

		select {
		case <-ctx.Done():
			return best
		default:
		}
	}

	return best
}

// betterOutcome prefers validity first, then (among valid results, or among
// invalid ones) the lower radius. Invalid outcomes are compared by radius
// only; their penalized cost is not considered.
func betterOutcome(a, b Outcome, target *float64) bool {
	if a.Valid != b.Valid {
		return a.Valid
	}
	return a.Radius < b.Radius
}

func runStage(ctx context.Context, rects []geom.Rect, padding depack.Padding, mode depack.RotationMode, opts Options) Outcome {
	n := len(rects)

	if mode == depack.FixedZero || mode == depack.Free {
		angles := make([]float64, n)
		best, gens := runSingle(ctx, rects, padding, mode, angles, opts)
		poses := depack.Poses(mode, n, best.Vector, angles)
		return Outcome{
			Radius:                best.Vector.Radius(),
			Valid:                 best.Valid,
			Poses:                 poses,
			Stage:                 mode,
			Generations:           gens,
			PermutationsAttempted: 1,
		}
	}

	perms := sweep.Enumerate(mode, n)
	result := sweep.Dispatch(ctx, rects, padding, perms, sweep.Config{
		Mode:           mode,
		MaxGenerations: opts.MaxGenerations,
		PopulationSize: opts.PopulationSize,
		F:              opts.F,
		CR:             opts.CR,
		Seed:           opts.Seed,
		Parallel:       opts.Parallel,
		TargetRadius:   opts.TargetRadius,
	}, opts.Progress)

	return Outcome{
		Radius:                result.Best.Vector.Radius(),
		Valid:                 result.Best.Valid,
		Poses:                 depack.Poses(mode, n, result.Best.Vector, result.BestAngles),
		Stage:                 mode,
		Generations:           result.Best.Generation,
		PermutationsAttempted: len(perms),
	}
}

func runSingle(ctx context.Context, rects []geom.Rect, padding depack.Padding, mode depack.RotationMode, angles []float64, opts Options) (depack.Best, int) {
	bounds := depack.NewBounds(mode, rects, padding)
	dim := depack.Dim(mode, len(rects))

	cfg := depack.DefaultConfig(dim)
	if opts.MaxGenerations > 0 {
		cfg.MaxGenerations = opts.MaxGenerations
	}
	if opts.PopulationSize > 0 {
		cfg.PopSize = opts.PopulationSize
	}
	if opts.F > 0 {
		cfg.F = opts.F
	}
	if opts.CR > 0 {
		cfg.CR = opts.CR
	}
	cfg.Seed = opts.Seed
	if opts.WarmStart != nil {
		cfg.SeedVectors = []depack.State{depack.SeedVector(mode, *opts.WarmStart)}
	}

	weights := depack.DefaultWeights()
	objective := func(s depack.State) (float64, float64) {
		return depack.EvaluateWithPenalty(mode, rects, padding, weights, s, angles)
	}

	engine := depack.NewEngine(bounds, cfg, objective)
	engine.AngleDim = func(j int) bool { return depack.IsAngleDim(mode, j) }

	var stop func(depack.Best) bool
	if opts.TargetRadius != nil {
		target := *opts.TargetRadius
		stop = func(b depack.Best) bool {
			return b.Valid && b.Vector.Radius() <= target
		}
	}

	best := engine.Run(ctx, stop)
	return best, best.Generation
}
