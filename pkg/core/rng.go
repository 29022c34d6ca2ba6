package core

import "math/rand/v2"

const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
	twoPow32             = 4294967296.0
)

// RNG is a deterministic 32-bit linear congruential generator. It keeps only
// integer state so a given seed yields the same sequence on every platform.
type RNG struct {
	state uint32
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{state: uint32(seed)}
}

// Next advances the generator and returns the new 32-bit state.
func (r *RNG) Next() uint32 {
	r.state = r.state*lcgMultiplier + lcgIncrement
	return r.state
}

// Float returns a uniform value in [0, 1).
func (r *RNG) Float() float64 {
	return float64(r.Next()) / twoPow32
}

// Range returns a uniform value in [min, max).
func (r *RNG) Range(min, max float64) float64 {
	return min + r.Float()*(max-min)
}

// IntRange returns a uniform integer in the inclusive range [min, max].
func (r *RNG) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + int(r.Float()*float64(max-min+1))
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.Next()&0x80000000 != 0
}

// Uint64 combines two steps so RNG satisfies rand.Source.
func (r *RNG) Uint64() uint64 {
	hi := uint64(r.Next())
	lo := uint64(r.Next())
	return hi<<32 | lo
}

// Source exposes a rand.Rand driven by this generator for advanced use.
func (r *RNG) Source() *rand.Rand { return rand.New(r) }

// Choice returns a uniformly chosen element. ok is false for an empty slice.
func Choice[T any](r *RNG, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[r.IntRange(0, len(items)-1)], true
}

// Shuffle permutes items in place with a Fisher–Yates pass.
func Shuffle[T any](r *RNG, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.IntRange(0, i)
		items[i], items[j] = items[j], items[i]
	}
}
