package api

import "github.com/seedfinder/balatro/internal/search"

// canonicalSeedOrEmpty canonicalizes a user-supplied seed string,
// reusing the search lattice's own rules (spec §9, "Seeds are
// case-insensitive on input").
func canonicalSeedOrEmpty(s string) (string, bool) {
	return search.Canonicalize(s)
}
