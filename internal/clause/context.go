// Package clause compiles a filter.Pipeline's normalized clauses into
// concrete evaluators that walk an 8-lane sim.Context and produce a
// pass mask per clause (spec §4.4, "Clause evaluators"). Evaluators
// never allocate per-call state beyond what a single 8-lane batch
// needs, and every evaluator is built once per compiled pipeline and
// reused across every batch the search driver enumerates.
package clause

import (
	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/sim"
	"github.com/seedfinder/balatro/internal/simd"
)

// EvalContext wraps one batch's sim.Context with the two pieces of
// cross-ante state several clause categories share: the boss-blind
// history (ante N's boss depends on the no-repeat window from antes
// N-1, N-2, regardless of which antes a single clause asks about) and
// the erratic starting deck (every erratic-rank/suit clause, fused or
// not, walks the same generated deck). Both are computed at most once
// per batch, on first use.
type EvalContext struct {
	Sim *sim.Context

	bosses    *[9][simd.Lanes]game.Boss
	erraticOk bool
	erratic   [simd.Lanes]sim.ErraticDeck
}

// NewEvalContext wraps a fresh per-batch sim.Context.
func NewEvalContext(sc *sim.Context) *EvalContext {
	return &EvalContext{Sim: sc}
}

// Bosses returns the boss blind drawn in each ante (1-indexed; index 0
// is unused), computing the full ante-1..8 sequence once so every Boss
// clause sees a history consistent with every other.
func (ec *EvalContext) Bosses() *[9][simd.Lanes]game.Boss {
	if ec.bosses != nil {
		return ec.bosses
	}
	var out [9][simd.Lanes]game.Boss
	hist := sim.NewBossHistory()
	for ante := 1; ante <= 8; ante++ {
		out[ante] = sim.SampleBoss(ec.Sim, ante, hist)
	}
	ec.bosses = &out
	return ec.bosses
}

// ErraticDeck returns the 52-card erratic starting deck, computed once.
func (ec *EvalContext) ErraticDeck() [simd.Lanes]sim.ErraticDeck {
	if !ec.erraticOk {
		ec.erratic = sim.SampleErraticDeck(ec.Sim)
		ec.erraticOk = true
	}
	return ec.erratic
}

// Evaluator tests a compiled clause against every active lane of a
// batch and reports which lanes satisfy it, along with how many
// matching occurrences each lane found (spec §4.4: "evaluate(seed_batch,
// ctx) → (pass_mask: u8, tally: [u16; 8])"). must/mustNot only consume
// the mask; should accumulates score as count × clause.score from the
// tally. Evaluate must not alter the pass bit of any lane outside
// active. No evaluator takes a cutoff: there is no cutoff-driven early
// exit, and cutoff filtering happens in the search driver after the
// whole pipeline has run.
type Evaluator interface {
	Evaluate(ec *EvalContext, active simd.Mask8) (pass simd.Mask8, tally [simd.Lanes]uint16)
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if v == "Any" || v == s {
			return true
		}
	}
	return false
}

func countTrueLanes(mask simd.Mask8, active simd.Mask8) int {
	return (mask & active).PopCount()
}
