// Package backpressure provides saturating arithmetic for demand
// counters shared between requesting and emitting goroutines.
package backpressure

import (
	"math"
	"sync/atomic"
)

// Unbounded is the sticky sentinel for unlimited demand. Once a counter
// reaches Unbounded it is never reduced by emission accounting.
const Unbounded = math.MaxUint64

// Add accumulates n units of demand into r, saturating at Unbounded.
// It returns the value of the counter before the addition.
func Add(r *atomic.Uint64, n uint64) uint64 {
	for {
		cur := r.Load()
		if cur == Unbounded {
			return Unbounded
		}
		next := cur + n
		if next < cur {
			next = Unbounded
		}
		if r.CompareAndSwap(cur, next) {
			return cur
		}
	}
}

// Produced subtracts n emitted elements from r and returns the new
// value. Unbounded demand is left untouched. The counter clamps at zero
// rather than going negative if a publisher over-emits.
func Produced(r *atomic.Uint64, n uint64) uint64 {
	for {
		cur := r.Load()
		if cur == Unbounded {
			return Unbounded
		}
		next := uint64(0)
		if cur > n {
			next = cur - n
		}
		if r.CompareAndSwap(cur, next) {
			return next
		}
	}
}
