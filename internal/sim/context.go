// Package sim reimplements the per-domain sampling kernels that turn
// stream draws into game values: jokers, soul jokers, vouchers, the
// four consumable-card domains, tags, boss blinds, the erratic starting
// deck, and mid-run random events (spec §4.2). Every sampler returns an
// 8-wide lane vector, and every sub-draw inside a composite sampler
// (rarity → appearance → edition, for instance) uses its own stream
// key, in a fixed order — that ordering is part of the PRNG contract.
package sim

import (
	"fmt"

	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/rng"
	"github.com/seedfinder/balatro/internal/simd"
)

// Context is the per-batch state shared by every clause evaluator
// touching one 8-lane seed group: the eight seed strings, the chosen
// deck/stake, and caches of already-materialized vector streams keyed by
// their declared stream key (spec §4.1, "Stream caching") and of event
// outcomes drawn so far. The seeds, deck and stake are fixed at
// construction; the caches fill as the batch is evaluated. A compiled
// clause.Pipeline warms its declared keys via Declare once per batch;
// Stream then reuses the cached stream state instead of re-deriving it,
// which is mandatory for throughput (a naive implementation runs 3-10x
// slower per spec).
type Context struct {
	Seeds [simd.Lanes]string
	Deck  game.Deck
	Stake game.Stake

	streams map[string]*rng.VectorStream

	// eventRolls caches every event outcome drawn so far, keyed by event
	// stream tag and roll index, so SampleEvent can serve indices out of
	// the order clauses happen to request them in (spec §4.4: "Roll
	// indices are allowed to be non-contiguous and out-of-order").
	eventRolls map[string]map[uint64][simd.Lanes]EventOutcome
}

// NewContext builds a fresh per-batch context. Streams are constructed
// lazily on first Stream() call and cached for the remainder of the
// batch group's lifetime.
func NewContext(seeds [simd.Lanes]string, deck game.Deck, stake game.Stake) *Context {
	return &Context{
		Seeds:      seeds,
		Deck:       deck,
		Stake:      stake,
		streams:    make(map[string]*rng.VectorStream),
		eventRolls: make(map[string]map[uint64][simd.Lanes]EventOutcome),
	}
}

// streamCacheKey is the canonical cache key for a (tag, ante) pair,
// independent of seed (seeds are fixed for the context's lifetime).
func streamCacheKey(tag string, ante int) string {
	return fmt.Sprintf("%s#%d", tag, ante)
}

// Stream returns a copy of the cached vector stream for (tag, ante),
// positioned at its first draw, constructing and caching it on first
// use from the context's eight seeds. Because every caller gets its own
// copy, a sampler's draws for one (tag, ante) are the same no matter
// which clauses drew from that key before it.
func (c *Context) Stream(tag string, ante int) *rng.VectorStream {
	key := streamCacheKey(tag, ante)
	s, ok := c.streams[key]
	if !ok {
		keyBytes := rng.StreamKey{Tag: tag, Ante: ante}.Bytes()
		var err error
		s, err = rng.NewVectorStream(keyBytes, c.Seeds)
		if err != nil {
			// Keys are always built from a non-empty tag by every caller in
			// this package; a failure here is an invariant violation, not a
			// recoverable runtime condition (spec §7).
			panic(fmt.Sprintf("sim: invalid stream key %q: %v", tag, err))
		}
		c.streams[key] = s
	}
	fresh := *s
	return &fresh
}

// Declare pre-builds and caches the stream for (tag, ante) without
// drawing from it; clause.Pipeline.Declare calls it for every stream a
// compiled pipeline will need before each batch is evaluated.
func (c *Context) Declare(tag string, ante int) {
	c.Stream(tag, ante)
}
