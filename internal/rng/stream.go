// Package rng reimplements the game's deterministic pseudorandom streams.
// A stream is keyed by a domain tag, a per-ante index, and the candidate
// seed string; calling Next repeatedly yields the same sequence of
// doubles in [0, 1) for equal keys over equal seeds (spec §3, "PRNG
// stream key"). The mixer is a fixed 64-bit bit-mixing hash (splitmix64's
// finalizer) over a counter and a key-derived state — specified
// precisely so that downstream samplers which compare these doubles
// against weighted-pool thresholds never diverge between runs, threads,
// or the scalar/vector evaluation paths (spec §8, "Stream invariance").
package rng

import (
	"errors"

	"github.com/seedfinder/balatro/internal/simd"
)

// ErrBadStreamKey is returned by NewStream when the key is empty or
// exceeds maxKeyLen (spec §4.1, "Invalid keys ... fail with
// BadStreamKey at construction").
var ErrBadStreamKey = errors.New("rng: bad stream key")

const maxKeyLen = 256

// StreamKey names a single pseudorandom stream: a domain tag ("Voucher",
// "Joker1", "Tag2", ...), an optional per-ante index (0 means the tag
// carries no ante component, e.g. global streams), and the seed bytes.
type StreamKey struct {
	Tag  string
	Ante int
	Seed string
}

// Bytes returns the canonical encoding used to derive a stream's initial
// state. Two StreamKeys with equal fields always produce equal bytes.
func (k StreamKey) Bytes() []byte {
	b := make([]byte, 0, len(k.Tag)+8+len(k.Seed))
	b = append(b, k.Tag...)
	if k.Ante > 0 {
		b = appendItoa(b, k.Ante)
	}
	b = append(b, k.Seed...)
	return b
}

func appendItoa(b []byte, n int) []byte {
	if n == 0 {
		return append(b, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
	}
	return append(b, tmp[i:]...)
}

// fnv1a64 seeds a stream's initial 64-bit state from arbitrary key bytes.
func fnv1a64(data []byte) uint64 {
	const offset = 14695981039346656037
	const prime = 1099511628211
	h := uint64(offset)
	for _, c := range data {
		h ^= uint64(c)
		h *= prime
	}
	return h
}

// mix64 is splitmix64's finalizer: a fixed, invertible bit-mixing hash
// over a 64-bit integer. All arithmetic is 64-bit unsigned, matching the
// spec's requirement that no other representation is acceptable.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// toUnitFloat casts the top 53 bits of h to a double in [0, 1).
func toUnitFloat(h uint64) float64 {
	return float64(h>>11) / float64(uint64(1)<<53)
}

// Stream is a single scalar pseudorandom sequence of doubles in [0, 1).
type Stream struct {
	state   uint64
	counter uint64
}

// NewStream constructs a stream keyed by keyBytes and seedBytes. Equal
// keys over equal seeds always yield equal sequences.
func NewStream(keyBytes, seedBytes []byte) (*Stream, error) {
	if len(keyBytes) == 0 || len(keyBytes) > maxKeyLen {
		return nil, ErrBadStreamKey
	}
	combined := make([]byte, 0, len(keyBytes)+len(seedBytes))
	combined = append(combined, keyBytes...)
	combined = append(combined, seedBytes...)
	return &Stream{state: fnv1a64(combined)}, nil
}

// NewStreamFromKey is a convenience constructor over a StreamKey.
func NewStreamFromKey(key StreamKey) (*Stream, error) {
	return NewStream(key.Bytes(), nil)
}

// Next returns the next uniform double in [0, 1). It never fails.
func (s *Stream) Next() float64 {
	h := mix64(s.state ^ mix64(s.counter))
	s.counter++
	return toUnitFloat(h)
}

// Counter reports how many draws have been made so far.
func (s *Stream) Counter() uint64 { return s.counter }

// Skip advances the stream by n draws without computing their values.
func (s *Stream) Skip(n uint64) { s.counter += n }

// VectorStream advances eight independent scalar streams — one per
// lane, sharing a domain key but keyed to eight distinct candidate
// seeds — in lockstep, yielding a simd.Vec8f64 per draw (spec §4.1,
// "SIMD variant").
type VectorStream struct {
	states  [simd.Lanes]uint64
	counter uint64
}

// NewVectorStream builds a VectorStream for one shared key across eight
// seed strings, one per lane.
func NewVectorStream(keyBytes []byte, seeds [simd.Lanes]string) (*VectorStream, error) {
	if len(keyBytes) == 0 || len(keyBytes) > maxKeyLen {
		return nil, ErrBadStreamKey
	}
	var vs VectorStream
	for i := 0; i < simd.Lanes; i++ {
		combined := make([]byte, 0, len(keyBytes)+len(seeds[i]))
		combined = append(combined, keyBytes...)
		combined = append(combined, seeds[i]...)
		vs.states[i] = fnv1a64(combined)
	}
	return &vs, nil
}

// Next draws one double per lane. The result for lane i is bit-identical
// to calling Next on a scalar Stream built from the same key and
// seeds[i] the same number of times (spec §8, "Stream invariance").
func (v *VectorStream) Next() simd.Vec8f64 {
	var out simd.Vec8f64
	for i := 0; i < simd.Lanes; i++ {
		h := mix64(v.states[i] ^ mix64(v.counter))
		out[i] = toUnitFloat(h)
	}
	v.counter++
	return out
}

// Counter reports the shared draw count across all lanes.
func (v *VectorStream) Counter() uint64 { return v.counter }

// Skip advances every lane by n draws.
func (v *VectorStream) Skip(n uint64) { v.counter += n }
