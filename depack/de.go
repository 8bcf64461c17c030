package depack

import (
	"context"
	"math"
	"math/rand"
)

// Config holds the tunable parameters of a single Differential Evolution
// run. Defaults follow the best/1/bin reference strategy.
type Config struct {
	PopSize        int
	MaxGenerations int
	F              float64 // mutation factor, acceptable range [0.3, 1.0]
	CR             float64 // crossover rate
	Seed           int64
	ConvergenceTol float64 // relative spread tolerance on population cost

	// SeedVectors, if non-empty, replace the corresponding number of random
	// initial population members with caller-supplied vectors (e.g. a prior
	// solve's result), the way a greedy chromosome seeds one slot of a
	// genetic algorithm's first generation. A vector whose length does not
	// match the run's dimension is ignored and that slot is randomized
	// instead.
	SeedVectors []State
}

// DefaultConfig returns sensible defaults for a state vector of dimension
// dim, per the population-size rule max(5*dim, 15).
func DefaultConfig(dim int) Config {
	pop := 5 * dim
	if pop < 15 {
		pop = 15
	}
	return Config{
		PopSize:        pop,
		MaxGenerations: 1000,
		F:              0.5,
		CR:             0.9,
		ConvergenceTol: 1e-6,
	}
}

// Member is one state vector in the population together with its cached,
// already-evaluated cost.
type Member struct {
	Vector State
	Cost   float64
}

// Population is the ordered collection of candidate vectors the DE engine
// mutates across generations.
type Population []Member

// Best records the lowest-cost vector observed by an Engine run.
type Best struct {
	Vector     State
	Cost       float64
	Penalty    float64
	Valid      bool
	Generation int
}

// Objective scores a candidate state vector; it must be a pure function and
// must never return NaN (callers that might produce NaN internally should
// map it to +Inf, as depack.Evaluate already does).
type Objective func(State) (cost, penalty float64)

// Engine runs a single, strictly sequential Differential Evolution
// optimization over a bounded state space.
type Engine struct {
	bounds    Bounds
	cfg       Config
	objective Objective
	rng       *rand.Rand

	population Population
	best       Best

	// AngleDim, when non-nil, reports whether dimension j is an angular
	// dimension that must wrap modulo pi rather than reflect. Callers set
	// it to depack.IsAngleDim bound to the run's RotationMode before
	// calling Run; it defaults to "no angular dimensions."
	AngleDim func(j int) bool
}

// NewEngine constructs an Engine ready to Run. The RNG is seeded from
// cfg.Seed and is exclusively owned by this Engine; it is never shared with
// another goroutine.
func NewEngine(bounds Bounds, cfg Config, objective Objective) *Engine {
	return &Engine{
		bounds:    bounds,
		cfg:       cfg,
		objective: objective,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Best returns the best vector observed so far.
func (e *Engine) Best() Best {
	return e.best
}

func (e *Engine) dim() int {
	return len(e.bounds.Low)
}

func (e *Engine) randomVector() State {
	dim := e.dim()
	v := make(State, dim)
	for j := 0; j < dim; j++ {
		v[j] = e.bounds.Low[j] + e.rng.Float64()*(e.bounds.High[j]-e.bounds.Low[j])
	}
	return v
}

func (e *Engine) initPopulation() {
	e.population = make(Population, e.cfg.PopSize)
	for i := range e.population {
		var v State
		if i < len(e.cfg.SeedVectors) && len(e.cfg.SeedVectors[i]) == e.dim() {
			v = e.cfg.SeedVectors[i].Clone()
			e.applyBounds(v)
		} else {
			v = e.randomVector()
		}
		cost, penalty := e.objective(v)
		e.population[i] = Member{Vector: v, Cost: cost}
		if i == 0 || cost < e.best.Cost {
			e.best = Best{Vector: v.Clone(), Cost: cost, Penalty: penalty, Valid: Valid(penalty), Generation: 0}
		}
	}
}

// bestIndex returns the index of the lowest-cost member of the population.
func (e *Engine) bestIndex() int {
	best := 0
	for i := 1; i < len(e.population); i++ {
		if e.population[i].Cost < e.population[best].Cost {
			best = i
		}
	}
	return best
}

// mutate produces a trial vector v = x_best + F*(x_r1 - x_r2) following the
// best/1/bin strategy; r1 and r2 are distinct from each other, from i, and
// from the best index.
func (e *Engine) mutate(i, bestIdx int) State {
	n := len(e.population)
	r1, r2 := e.distinctIndices(i, bestIdx, n)

	best := e.population[bestIdx].Vector
	x1 := e.population[r1].Vector
	x2 := e.population[r2].Vector

	dim := e.dim()
	trial := make(State, dim)
	for j := 0; j < dim; j++ {
		trial[j] = best[j] + e.cfg.F*(x1[j]-x2[j])
	}
	return trial
}

func (e *Engine) distinctIndices(i, bestIdx, n int) (r1, r2 int) {
	pick := func(exclude map[int]bool) int {
		for {
			c := e.rng.Intn(n)
			if !exclude[c] {
				return c
			}
		}
	}
	r1 = pick(map[int]bool{i: true, bestIdx: true})
	r2 = pick(map[int]bool{i: true, bestIdx: true, r1: true})
	return r1, r2
}

// crossover performs binomial crossover between the target and trial
// vectors, guaranteeing at least one inherited trial dimension.
func (e *Engine) crossover(target, trial State) State {
	dim := e.dim()
	jRand := e.rng.Intn(dim)
	out := make(State, dim)
	for j := 0; j < dim; j++ {
		if j == jRand || e.rng.Float64() <= e.cfg.CR {
			out[j] = trial[j]
		} else {
			out[j] = target[j]
		}
	}
	e.applyBounds(out)
	return out
}

// applyBounds reflects non-angular dimensions into [low, high] and wraps
// angular dimensions modulo pi, in place.
func (e *Engine) applyBounds(v State) {
	for j := range v {
		lo, hi := e.bounds.Low[j], e.bounds.High[j]
		if e.AngleDim != nil && e.AngleDim(j) {
			v[j] = math.Mod(v[j], math.Pi)
			if v[j] < 0 {
				v[j] += math.Pi
			}
			continue
		}
		v[j] = reflectIntoBounds(v[j], lo, hi)
	}
}

func reflectIntoBounds(x, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	width := hi - lo
	for x < lo || x > hi {
		if x < lo {
			x = lo + (lo - x)
		}
		if x > hi {
			x = hi - (x - hi)
		}
		if x < lo || x > hi {
			// Degenerate multi-bounce case (x far outside range): fold
			// using modulo arithmetic on the doubled interval.
			m := math.Mod(x-lo, 2*width)
			if m < 0 {
				m += 2 * width
			}
			if m > width {
				m = 2*width - m
			}
			x = lo + m
			break
		}
	}
	return x
}

// Run evolves the population until ctx is cancelled, stop returns true for
// the current best, the maximum generation count is reached, or the
// population cost spread falls below the configured convergence tolerance.
// stop may be nil. It always returns the best vector observed, whether or
// not it is feasible.
func (e *Engine) Run(ctx context.Context, stop func(Best) bool) Best {
	if e.population == nil {
		e.initPopulation()
	}

	for gen := 1; gen <= e.cfg.MaxGenerations; gen++ {
		select {
		case <-ctx.Done():
			return e.best
		default:
		}

		bestIdx := e.bestIndex()
		for i := range e.population {
			trialVec := e.mutate(i, bestIdx)
			candidate := e.crossover(e.population[i].Vector, trialVec)

			cost, penalty := e.objective(candidate)
			if math.IsNaN(cost) {
				cost = math.Inf(1)
			}

			if cost <= e.population[i].Cost {
				e.population[i] = Member{Vector: candidate, Cost: cost}
				if cost < e.best.Cost {
					e.best = Best{
						Vector:     candidate.Clone(),
						Cost:       cost,
						Penalty:    penalty,
						Valid:      Valid(penalty),
						Generation: gen,
					}
				}
			}
		}

		if stop != nil && stop(e.best) {
			return e.best
		}
		if e.converged() {
			return e.best
		}
	}
	return e.best
}

// converged reports whether the spread of population costs has fallen
// below ConvergenceTol relative to the magnitude of the best cost. The
// magnitude is floored at 1, so for best costs below 1 the tolerance is
// absolute.
func (e *Engine) converged() bool {
	if len(e.population) == 0 {
		return false
	}
	min, max := e.population[0].Cost, e.population[0].Cost
	for _, m := range e.population {
		if m.Cost < min {
			min = m.Cost
		}
		if m.Cost > max {
			max = m.Cost
		}
	}
	if math.IsInf(min, 1) || math.IsInf(max, 1) {
		return false
	}
	denom := math.Abs(e.best.Cost)
	if denom < 1 {
		denom = 1
	}
	return (max-min)/denom < e.cfg.ConvergenceTol
}
