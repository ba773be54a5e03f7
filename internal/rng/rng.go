// Package rng wraps the seeded generator shared by one experiment run.
package rng

import "math/rand/v2"

// New returns a PCG-backed generator for seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Choice returns a uniformly chosen element, or the zero value for an empty slice.
func Choice[T any](r *rand.Rand, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[r.IntN(len(items))]
}

// Between returns a uniform integer in [lo, hi]. hi < lo yields lo.
func Between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Coin returns true with probability 1/2.
func Coin(r *rand.Rand) bool {
	return r.Float64() > 0.5
}

// Sample returns k distinct items in random order. k >= len(items) returns a
// shuffled copy.
func Sample[T any](r *rand.Rand, items []T, k int) []T {
	perm := r.Perm(len(items))
	if k > len(perm) {
		k = len(perm)
	}
	out := make([]T, k)
	for i := 0; i < k; i++ {
		out[i] = items[perm[i]]
	}
	return out
}
