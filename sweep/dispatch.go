package sweep

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"circlepack/depack"
	"circlepack/geom"
)

// Config configures every per-permutation DE run a Dispatch call launches.
type Config struct {
	Mode           depack.RotationMode
	MaxGenerations int
	PopulationSize int
	F, CR          float64
	Seed           int64
	Parallel       bool // false forces a single-worker pool, for deterministic tests
	TargetRadius   *float64
}

// Result is the aggregate outcome of sweeping every permutation: the single
// best (lowest-radius, feasibility-first) DE result found, together with the
// fixed angle assignment that produced it.
type Result struct {
	Best       depack.Best
	BestAngles []float64
}

// Dispatch runs one independent sequential DE engine per permutation on a
// bounded goroutine pool, sized like the teacher's CreateAtlasImage worker
// pool (runtime.NumCPU() concurrent workers). It returns as soon as every
// worker has finished or ctx is cancelled because cfg.TargetRadius was
// already met; in-flight workers are always drained before Dispatch returns.
func Dispatch(ctx context.Context, rects []geom.Rect, padding depack.Padding, perms []Permutation, cfg Config, sink ProgressSink) Result {
	if sink == nil {
		sink = NopSink{}
	}
	if len(rects) > 8 && cfg.Mode == depack.Discrete45 {
		slog.Warn("discrete-45 permutation count grows as 4^N; this sweep may be slow",
			"rectangles", len(rects), "permutations", len(perms))
	}

	workers := runtime.NumCPU()
	if !cfg.Parallel {
		workers = 1
	}
	if workers > len(perms) {
		workers = len(perms)
	}
	if workers < 1 {
		workers = 1
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var aggregate Result
	haveResult := false
	completed := 0
	total := len(perms)

	for idx, perm := range perms {
		if runCtx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, perm Permutation) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("sweep worker panicked", "permutation", idx, "panic", r)
				}
			}()

			best, ok := runPermutation(runCtx, rects, padding, cfg, perm, idx)

			mu.Lock()
			completed++
			if ok && (!haveResult || better(best, aggregate.Best)) {
				aggregate = Result{Best: best, BestAngles: perm}
				haveResult = true
			}
			var bestR *float64
			if haveResult {
				r := aggregate.Best.Vector.Radius()
				bestR = &r
			}
			n, tot := completed, total
			mu.Unlock()

			sink.Report(n, tot, bestR)

			if ok && cfg.TargetRadius != nil && best.Valid && best.Vector.Radius() <= *cfg.TargetRadius {
				cancel()
			}
		}(idx, perm)
	}

	wg.Wait()
	return aggregate
}

func better(a, b depack.Best) bool {
	if a.Valid != b.Valid {
		return a.Valid
	}
	return a.Vector.Radius() < b.Vector.Radius()
}

func runPermutation(ctx context.Context, rects []geom.Rect, padding depack.Padding, cfg Config, perm Permutation, idx int) (depack.Best, bool) {
	select {
	case <-ctx.Done():
		return depack.Best{}, false
	default:
	}

	mode := cfg.Mode
	dim := depack.Dim(mode, len(rects))
	bounds := depack.NewBounds(mode, rects, padding)

	deCfg := depack.DefaultConfig(dim)
	if cfg.MaxGenerations > 0 {
		deCfg.MaxGenerations = cfg.MaxGenerations
	}
	if cfg.PopulationSize > 0 {
		deCfg.PopSize = cfg.PopulationSize
	}
	if cfg.F > 0 {
		deCfg.F = cfg.F
	}
	if cfg.CR > 0 {
		deCfg.CR = cfg.CR
	}
	deCfg.Seed = mixSeed(cfg.Seed, idx)

	weights := depack.DefaultWeights()
	objective := func(s depack.State) (float64, float64) {
		return depack.EvaluateWithPenalty(mode, rects, padding, weights, s, perm)
	}

	engine := depack.NewEngine(bounds, deCfg, objective)

	var stop func(depack.Best) bool
	if cfg.TargetRadius != nil {
		target := *cfg.TargetRadius
		stop = func(b depack.Best) bool {
			return b.Valid && b.Vector.Radius() <= target
		}
	}

	return engine.Run(ctx, stop), true
}

// mixSeed combines the master seed with a permutation index using a
// splitmix64-style finalizer, so every permutation's worker gets an
// independent, reproducible stream even though they share a master seed.
func mixSeed(master int64, idx int) int64 {
	x := uint64(master) + uint64(idx)*0x9E3779B97F4A7C15
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return int64(x)
}
