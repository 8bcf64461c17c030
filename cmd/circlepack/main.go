package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"circlepack/circlepack"
	"circlepack/depack"
	"circlepack/internal/instanceio"
	"circlepack/sweep"
)

const version = "0.1.0"

// DebugInfo accumulates stage timings across a single run, printed as a
// summary block once main returns, the same shape as the teacher's own
// debug-timing struct.
type DebugInfo struct {
	TotalTime  time.Duration
	LoadTime   time.Duration
	SolveTime  time.Duration
	RenderTime time.Duration
	EncodeTime time.Duration
}

var debugInfo DebugInfo

type cliOptions struct {
	InputPath      string
	OutputDir      string
	Mode           string
	TargetRadius   float64
	MaxGenerations int
	PopulationSize int
	F, CR          float64
	Seed           int64
	Parallel       bool
	RenderPNG      bool
	Quiet          bool
}

func flagArgs() cliOptions {
	inputPtr := flag.String("input", "instance.json", "path to the instance JSON file")
	outputPtr := flag.String("output", "output", "output directory for result.json and layout.png")
	modePtr := flag.String("mode", "AUTO", "rotation mode: FIXED_0, DISCRETE_90, DISCRETE_45, FREE, AUTO")
	targetPtr := flag.Float64("target-radius", 0, "stop as soon as a valid layout at or below this radius is found (0 disables)")
	maxGenPtr := flag.Int("max-generations", 0, "override the default max generations per DE run (0 keeps the default)")
	popSizePtr := flag.Int("population", 0, "override the default DE population size (0 keeps the default)")
	fPtr := flag.Float64("f", 0, "override the DE mutation factor (0 keeps the default)")
	crPtr := flag.Float64("cr", 0, "override the DE crossover rate (0 keeps the default)")
	seedPtr := flag.Int64("seed", 1, "master RNG seed")
	parallelPtr := flag.Bool("parallel", true, "run discrete-rotation permutations concurrently")
	renderPtr := flag.Bool("render", true, "render the solved layout to layout.png")
	quietPtr := flag.Bool("quiet", false, "suppress the progress bar")
	flag.Parse()

	return cliOptions{
		InputPath:      *inputPtr,
		OutputDir:      *outputPtr,
		Mode:           *modePtr,
		TargetRadius:   *targetPtr,
		MaxGenerations: *maxGenPtr,
		PopulationSize: *popSizePtr,
		F:              *fPtr,
		CR:             *crPtr,
		Seed:           *seedPtr,
		Parallel:       *parallelPtr,
		RenderPNG:      *renderPtr,
		Quiet:          *quietPtr,
	}
}

func resolveMode(name string) (depack.RotationMode, error) {
	switch name {
	case "FIXED_0":
		return depack.FixedZero, nil
	case "DISCRETE_90":
		return depack.Discrete90, nil
	case "DISCRETE_45":
		return depack.Discrete45, nil
	case "FREE":
		return depack.Free, nil
	case "AUTO":
		return depack.Auto, nil
	default:
		return depack.Auto, fmt.Errorf("unknown rotation mode %q", name)
	}
}

func main() {
	start := time.Now()
	defer func() {
		debugInfo.TotalTime = time.Since(start)
		fmt.Printf("load: %v  solve: %v  render: %v  encode: %v  total: %v\n",
			debugInfo.LoadTime, debugInfo.SolveTime, debugInfo.RenderTime, debugInfo.EncodeTime, debugInfo.TotalTime)
	}()

	opts := flagArgs()
	mode, err := resolveMode(opts.Mode)
	if err != nil {
		slog.Error("invalid mode", "mode", opts.Mode, "err", err)
		os.Exit(1)
	}

	loadStart := time.Now()
	f, err := os.Open(opts.InputPath)
	if err != nil {
		slog.Error("failed to open instance file", "path", opts.InputPath, "err", err)
		os.Exit(1)
	}
	instance, labels, err := instanceio.DecodeInstance(f)
	f.Close()
	debugInfo.LoadTime = time.Since(loadStart)
	if err != nil {
		slog.Error("invalid instance", "err", err)
		os.Exit(1)
	}

	var progress sweep.ProgressSink = sweep.NopSink{}
	if !opts.Quiet {
		progress = &sweep.BarSink{}
	}

	solveOpts := circlepack.Options{
		Mode:           mode,
		MaxGenerations: opts.MaxGenerations,
		PopulationSize: opts.PopulationSize,
		F:              opts.F,
		CR:             opts.CR,
		Seed:           opts.Seed,
		Parallel:       opts.Parallel,
		Progress:       progress,
	}
	if opts.TargetRadius > 0 {
		solveOpts.TargetRadius = &opts.TargetRadius
	}

	solveStart := time.Now()
	result, err := circlepack.Solve(context.Background(), instance, solveOpts)
	debugInfo.SolveTime = time.Since(solveStart)
	if err != nil {
		slog.Error("solve failed", "err", err)
		os.Exit(1)
	}

	if !result.Valid {
		slog.Warn("no valid layout found within the configured budget", "radius", result.Radius, "stage", result.Stage)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		slog.Error("failed to create output directory", "dir", opts.OutputDir, "err", err)
		os.Exit(1)
	}

	encodeStart := time.Now()
	resultPath := opts.OutputDir + "/result.json"
	rf, err := os.Create(resultPath)
	if err != nil {
		slog.Error("failed to create result file", "path", resultPath, "err", err)
		os.Exit(1)
	}
	err = instanceio.EncodeResult(rf, result, labels)
	rf.Close()
	debugInfo.EncodeTime = time.Since(encodeStart)
	if err != nil {
		slog.Error("failed to write result file", "err", err)
		os.Exit(1)
	}

	if opts.RenderPNG {
		renderStart := time.Now()
		pngPath := opts.OutputDir + "/layout.png"
		if err := renderLayout(pngPath, instance, result); err != nil {
			slog.Error("failed to render layout", "err", err)
		}
		debugInfo.RenderTime = time.Since(renderStart)
	}

	fmt.Printf("circlepack %s: radius=%.4f valid=%v stage=%v generations=%d permutations=%d\n",
		version, result.Radius, result.Valid, result.Stage, result.Generations, result.PermutationsAttempted)
	fmt.Printf("result written to %s\n", resultPath)
}
