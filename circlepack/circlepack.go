// Package circlepack packs a set of rectangles inside the smallest enclosing
// circle it can find via a staged Differential Evolution search, exposing a
// single Solve entry point over the geom/depack/stage/sweep packages.
package circlepack

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"circlepack/depack"
	"circlepack/geom"
	"circlepack/stage"
	"circlepack/sweep"
)

// ErrInvalidInstance is returned by Solve when the instance fails basic
// validation (non-positive rectangle dimensions, no rectangles, or negative
// padding) before any search begins.
var ErrInvalidInstance = errors.New("circlepack: invalid instance")

// Instance is the input to a solve: the rectangles to pack and the two
// clearance parameters.
type Instance struct {
	Rects   []geom.Rect
	Padding depack.Padding
}

// Options tunes a single Solve call. The zero value of Mode is
// depack.FixedZero, so the zero Options runs only the FIXED_0 stage with the
// package defaults; set Mode to depack.Auto for the full cascade.
type Options struct {
	Mode           depack.RotationMode
	TargetRadius   *float64
	MaxGenerations int
	PopulationSize int
	F, CR          float64
	Seed           int64
	Parallel       bool
	Progress       sweep.ProgressSink
	StagesToTry    []depack.RotationMode

	// WarmStart, if non-nil, seeds the FIXED_0/FREE stages' initial
	// population with a prior Result (e.g. to re-run a solve with a
	// tightened TargetRadius starting from where the last one left off). The
	// seed vector competes for survival against the rest of the population
	// exactly like any other candidate, so a seeded stage's best cost never
	// exceeds the seed's own cost. See Result.Seed.
	WarmStart *Seed
}

// Pose is the resolved placement of one rectangle in the solved layout.
type Pose = depack.Pose

// Seed is a prior solve's outcome, suitable for warm-starting a later call
// via Options.WarmStart.
type Seed = depack.Seed

// Result is the outcome of a Solve call.
type Result struct {
	RunID                 uuid.UUID
	Radius                float64
	Valid                 bool
	Poses                 []Pose
	Stage                 depack.RotationMode
	Generations           int
	PermutationsAttempted int
}

// Seed returns result as a Seed, suitable for passing to a later Solve
// call's Options.WarmStart.
func (r Result) Seed() Seed {
	return Seed{Radius: r.Radius, Poses: r.Poses}
}

// Solve runs the staged search described by options over instance and
// returns the best layout found. The only error it returns is
// ErrInvalidInstance; infeasibility is reported via Result.Valid, not an
// error.
func Solve(ctx context.Context, instance Instance, options Options) (Result, error) {
	if err := validate(instance); err != nil {
		return Result{}, err
	}

	outcome := stage.Run(ctx, instance.Rects, instance.Padding, stage.Options{
		Mode:           options.Mode,
		TargetRadius:   options.TargetRadius,
		MaxGenerations: options.MaxGenerations,
		PopulationSize: options.PopulationSize,
		F:              options.F,
		CR:             options.CR,
		Seed:           options.Seed,
		Parallel:       options.Parallel,
		Progress:       options.Progress,
		StagesToTry:    options.StagesToTry,
		WarmStart:      options.WarmStart,
	})

	return Result{
		RunID:                 uuid.New(),
		Radius:                outcome.Radius,
		Valid:                 outcome.Valid,
		Poses:                 outcome.Poses,
		Stage:                 outcome.Stage,
		Generations:           outcome.Generations,
		PermutationsAttempted: outcome.PermutationsAttempted,
	}, nil
}

func validate(instance Instance) error {
	if len(instance.Rects) < 1 {
		return fmt.Errorf("%w: at least one rectangle is required", ErrInvalidInstance)
	}
	for i, r := range instance.Rects {
		if r.W <= 0 || r.H <= 0 {
			return fmt.Errorf("%w: rectangle %d has non-positive dimensions (%v x %v)", ErrInvalidInstance, i, r.W, r.H)
		}
	}
	if instance.Padding.Outer < 0 || instance.Padding.Inner < 0 {
		return fmt.Errorf("%w: padding must be non-negative", ErrInvalidInstance)
	}
	return nil
}
