// Package search drives the batched, multithreaded enumeration of the
// seed lattice against a compiled filter pipeline (spec §4.5). It
// mirrors the teacher's BlockScanner: atomic progress counters, a
// context-cancellable background goroutine per run, and a shared
// channel of batch indices workers dequeue from.
package search

// Alphabet is the seed character set: A-Z minus I, plus 2-9 minus 1 and
// 0 (spec §9, "Seed string alphabet"). Base is derived from its length
// rather than hardcoded, since the literal alphabet is 33 characters
// even though spec prose rounds the lattice size to "35^8".
const Alphabet = "ABCDEFGHJKLMNOPQRSTUVWXYZ23456789"

// Base is the seed lattice's numeral base: len(Alphabet), not a
// hardcoded constant.
var Base = len(Alphabet)

// SeedLength is the fixed seed string length (spec §3, "Seed").
const SeedLength = 8

var digitOf = buildDigitIndex()

func buildDigitIndex() map[byte]int {
	m := make(map[byte]int, len(Alphabet))
	for i := 0; i < len(Alphabet); i++ {
		m[Alphabet[i]] = i
	}
	return m
}

// EncodePrefix renders b as a fixed-width L-character base-Alphabet
// string, most-significant character first (spec §3, "Search batch":
// "the *prefix* (base-35 encoding of b into L characters)").
func EncodePrefix(b uint64, l int) string {
	out := make([]byte, l)
	for i := l - 1; i >= 0; i-- {
		out[i] = Alphabet[b%uint64(Base)]
		b /= uint64(Base)
	}
	return string(out)
}

// DecodeIndex inverts EncodePrefix/full-seed encoding: the numeral
// value of an upper-cased alphabet string; false if any character is
// outside Alphabet.
func DecodeIndex(s string) (uint64, bool) {
	var b uint64
	for i := 0; i < len(s); i++ {
		d, ok := digitOf[s[i]]
		if !ok {
			return 0, false
		}
		b = b*uint64(Base) + uint64(d)
	}
	return b, true
}

// Canonicalize upper-cases a seed and validates every character is in
// Alphabet and its length is exactly SeedLength (spec §9: "Seeds are
// case-insensitive on input; canonical form is upper-case").
func Canonicalize(seed string) (string, bool) {
	if len(seed) != SeedLength {
		return "", false
	}
	out := make([]byte, SeedLength)
	for i := 0; i < SeedLength; i++ {
		c := seed[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if _, ok := digitOf[c]; !ok {
			return "", false
		}
		out[i] = c
	}
	return string(out), true
}

// suffixSeed reconstructs the full SeedLength-character seed for
// suffix index i (0 <= i < Base^(SeedLength-prefixLen)) under a fixed
// prefix, by concatenation (spec §4.5, "Batch enumeration": "The seed
// string is reconstructed bit-exactly by concatenation").
func suffixSeed(prefix string, suffixLen int, i uint64) string {
	return prefix + EncodePrefix(i, suffixLen)
}

// batchLaneSeeds returns the 8 consecutive full seeds for lane group
// `group` (0-indexed) within the suffix space under `prefix`.
func batchLaneSeeds(prefix string, suffixLen int, group uint64) [8]string {
	var out [8]string
	base := group * 8
	for lane := 0; lane < 8; lane++ {
		out[lane] = suffixSeed(prefix, suffixLen, base+uint64(lane))
	}
	return out
}
