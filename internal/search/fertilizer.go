package search

import (
	"github.com/seedfinder/balatro/internal/clause"
	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/sim"
	"github.com/seedfinder/balatro/internal/simd"
)

// ReplayFertilizer evaluates a set of previously-found seeds against a
// freshly compiled pipeline, without touching the lattice enumeration
// at all. It is how a new search returns instant hits from the
// fertilizer pile in its first response (spec §4.6, "fertilizer
// pile"; §8, "Fertilizer replay": "starting an unrelated search B
// must, within its first response, return every seed from A's
// top-1000 that also passes B's must").
func ReplayFertilizer(p *clause.Pipeline, deck game.Deck, stake game.Stake, candidates []string) []Result {
	var out []Result
	for i := 0; i < len(candidates); i += simd.Lanes {
		chunk := candidates[i:min(i+simd.Lanes, len(candidates))]

		var seeds [simd.Lanes]string
		var active simd.Mask8
		for lane, seed := range chunk {
			seeds[lane] = seed
			active = active.Set(lane, true)
		}
		for lane := len(chunk); lane < simd.Lanes; lane++ {
			seeds[lane] = seeds[0]
		}

		sc := sim.NewContext(seeds, deck, stake)
		ec := clause.NewEvalContext(sc)
		p.Declare(sc)

		pass, score, tally := p.Evaluate(ec, active)
		for lane := range chunk {
			if !pass.Lane(lane) {
				continue
			}
			laneTally := make(map[string]int, len(tally[lane]))
			for i, count := range tally[lane] {
				laneTally[p.Columns[i+2]] = int(count)
			}
			out = append(out, Result{Seed: seeds[lane], Score: score[lane], Tally: laneTally})
		}
	}
	return out
}
