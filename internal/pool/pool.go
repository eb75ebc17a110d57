// Package pool implements the weighted pool sampler (spec §4.2,
// "Weighted pool sampler"): an ordered table of (value, weight) pairs
// drawn from by scaling a uniform [0,1) value into weight-space and
// walking prefix sums.
package pool

import "github.com/seedfinder/balatro/internal/simd"

// Entry is one (value, weight) pair in a pool, identified by its index
// into the owning Pool's Values slice.
type Entry struct {
	Weight float64
}

// Pool is an immutable weighted table built once from a static
// configuration and shared read-only across every lane and worker.
type Pool[T any] struct {
	Values     []T
	weights    []float64
	prefixSums []float64
	total      float64
}

// New builds a Pool from parallel values/weights slices. The last
// entry's effective cumulative weight is inflated slightly above the
// raw total so that a draw of u arbitrarily close to 1 still resolves
// to a valid entry under floating-point drift (spec §3, pool
// invariant; spec §8, "Pool termination").
func New[T any](values []T, weights []float64) *Pool[T] {
	if len(values) != len(weights) {
		panic("pool: values and weights length mismatch")
	}
	prefix := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		sum += w
		prefix[i] = sum
	}
	if len(prefix) > 0 {
		// Inflate the last prefix sum so that u*total, for any u in
		// [0,1), never exceeds the final cumulative weight even after
		// floating-point rounding during the scale-and-walk.
		prefix[len(prefix)-1] += 1e-9 * (sum + 1)
	}
	return &Pool[T]{Values: values, weights: weights, prefixSums: prefix, total: sum}
}

// Total returns the sum of all weights (pre-inflation).
func (p *Pool[T]) Total() float64 { return p.total }

// Len returns the number of entries.
func (p *Pool[T]) Len() int { return len(p.Values) }

// Draw scales u by the pool's total weight and walks the prefix sums,
// returning the first entry whose cumulative weight is >= the scaled
// draw, and that entry's index.
func (p *Pool[T]) Draw(u float64) (T, int) {
	target := u * p.total
	for i, cum := range p.prefixSums {
		if cum >= target {
			return p.Values[i], i
		}
	}
	// Not reached for u in [0,1): the inflation in New keeps the last
	// prefix sum above u*total, even when total is zero.
	last := len(p.Values) - 1
	return p.Values[last], last
}

// VectorDraw evaluates eight independent draws in one pass (spec §4.2,
// "SIMD variant: evaluates eight u's in one pass, uses lane masks to
// freeze lanes that have already chosen"). It returns, per lane, the
// chosen index; lanes are frozen (their mask bit cleared) as soon as
// they resolve, so later loop iterations skip already-decided lanes.
func (p *Pool[T]) VectorDraw(u simd.Vec8f64) [simd.Lanes]int {
	var targets simd.Vec8f64
	for lane := range targets {
		targets[lane] = u[lane] * p.total
	}
	var chosen [simd.Lanes]int
	var done simd.Mask8
	for i, cum := range p.prefixSums {
		if done == simd.FullMask {
			break
		}
		for lane := 0; lane < simd.Lanes; lane++ {
			if done.Lane(lane) {
				continue
			}
			if cum >= targets[lane] {
				chosen[lane] = i
				done = done.Set(lane, true)
			}
		}
	}
	last := len(p.Values) - 1
	for lane := 0; lane < simd.Lanes; lane++ {
		if !done.Lane(lane) {
			chosen[lane] = last
		}
	}
	return chosen
}

// Lanes re-exports simd.Lanes for callers that only import pool.
const Lanes = simd.Lanes
