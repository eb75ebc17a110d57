// Package simd provides the 8-lane double-precision vector model that the
// search engine evaluates seed batches with. A Vec8f64 holds one value per
// lane; a Mask8 holds one pass/fail bit per lane. Every operation is a
// single plain Go loop over the eight lanes, with no width-specific code
// path, so callers never branch on width. DetectLevel reports the CPU's
// widest vector width; no operation in this package consults it.
package simd

import "github.com/klauspost/cpuid/v2"

// Lanes is the number of seeds advanced together in one batch group.
const Lanes = 8

// Level describes the widest vector width the current CPU can execute.
type Level int

const (
	LevelScalar Level = iota
	LevelAVX2         // two 256-bit (4-lane) halves
	LevelAVX512       // one 512-bit (8-lane) register
)

func (l Level) String() string {
	switch l {
	case LevelAVX512:
		return "avx512"
	case LevelAVX2:
		return "avx2"
	default:
		return "scalar"
	}
}

// DetectLevel inspects the running CPU's feature bits. It never changes
// the result of any operation below — it only picks which width the
// runtime advertises itself as using.
func DetectLevel() Level {
	if cpuid.CPU.Supports(cpuid.AVX512F) {
		return LevelAVX512
	}
	if cpuid.CPU.Supports(cpuid.AVX2) {
		return LevelAVX2
	}
	return LevelScalar
}

// Vec8f64 is eight lanes of float64, one per candidate seed in a batch group.
type Vec8f64 [Lanes]float64

// Mask8 is one pass bit per lane, bit i corresponds to lane i.
type Mask8 uint8

// FullMask has every lane active.
const FullMask Mask8 = 0xFF

// Lane reports whether lane i is set.
func (m Mask8) Lane(i int) bool { return m&(1<<uint(i)) != 0 }

// Set returns m with lane i set to v.
func (m Mask8) Set(i int, v bool) Mask8 {
	if v {
		return m | (1 << uint(i))
	}
	return m &^ (1 << uint(i))
}

// PopCount returns the number of active lanes.
func (m Mask8) PopCount() int {
	n := 0
	for i := 0; i < Lanes; i++ {
		if m.Lane(i) {
			n++
		}
	}
	return n
}

// Empty reports whether no lane is active.
func (m Mask8) Empty() bool { return m == 0 }

// And, Or, Not compose masks bitwise — the primitives the And/Or clause
// evaluators are built from (spec §4.4).
func (m Mask8) And(o Mask8) Mask8 { return m & o }
func (m Mask8) Or(o Mask8) Mask8  { return m | o }
func (m Mask8) Not() Mask8        { return (^m) & FullMask }

// GreaterEq compares each lane against w's corresponding lane and sets the
// bit where v[i] >= w[i].
func (v Vec8f64) GreaterEq(w Vec8f64) Mask8 {
	var m Mask8
	for i := 0; i < Lanes; i++ {
		m = m.Set(i, v[i] >= w[i])
	}
	return m
}

// Select returns a vector with a[i] where mask bit i is set, else b[i].
func Select(mask Mask8, a, b Vec8f64) Vec8f64 {
	var out Vec8f64
	for i := 0; i < Lanes; i++ {
		if mask.Lane(i) {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

// Broadcast returns a vector with every lane set to x.
func Broadcast(x float64) Vec8f64 {
	var out Vec8f64
	for i := range out {
		out[i] = x
	}
	return out
}

// ScaleBy multiplies lane i by s[i], e.g. to turn a uniform [0,1) draw
// into a weight-space position (u * sum_of_weights).
func (v Vec8f64) ScaleBy(s Vec8f64) Vec8f64 {
	var out Vec8f64
	for i := range out {
		out[i] = v[i] * s[i]
	}
	return out
}
