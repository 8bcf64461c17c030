// Package sweep fans a staged solve out across every discrete rotation
// permutation of a rectangle set, running one independent Differential
// Evolution engine per permutation on a bounded goroutine pool.
package sweep

import (
	"math"

	"circlepack/depack"
)

// Permutation is one per-rectangle angle assignment handed to a single DE
// run. Its length always equals the rectangle count.
type Permutation []float64

var discrete90Choices = []float64{0, math.Pi / 2}

// Enumerate returns every angle permutation a stage must try under mode:
// 2^N for DISCRETE_90, 4^N for DISCRETE_45, and a single all-zero
// permutation for FIXED_0 and FREE (where angles are not swept externally).
func Enumerate(mode depack.RotationMode, n int) []Permutation {
	switch mode {
	case depack.Discrete90:
		return cartesian(discrete90Choices, n)
	case depack.Discrete45:
		return cartesian(discrete45Choices, n)
	default:
		return []Permutation{make(Permutation, n)}
	}
}

var discrete45Choices = []float64{0, math.Pi / 4, math.Pi / 2, 3 * math.Pi / 4}

func cartesian(choices []float64, n int) []Permutation {
	if n == 0 {
		return []Permutation{{}}
	}
	total := 1
	for i := 0; i < n; i++ {
		total *= len(choices)
	}
	out := make([]Permutation, total)
	for idx := 0; idx < total; idx++ {
		perm := make(Permutation, n)
		rem := idx
		for i := 0; i < n; i++ {
			perm[i] = choices[rem%len(choices)]
			rem /= len(choices)
		}
		out[idx] = perm
	}
	return out
}
