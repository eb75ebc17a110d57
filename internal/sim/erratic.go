package sim

import (
	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/simd"
)

// ErraticDeck holds the 52 independently-rolled starting cards produced
// for the Erratic deck only (spec §4.2, "Erratic deck generator"). The
// erratic-rank and erratic-suit clause evaluators, and their fused
// form, all walk this single generated deck rather than re-rolling it
// (spec §4.3, "Erratic fusion"; spec §4.4, "Erratic-rank / erratic-suit
// / fused").
type ErraticDeck [52]game.PlayingCard

// SampleErraticDeck draws all 52 starting cards, one independent
// rank/suit roll per card, per lane.
func SampleErraticDeck(ctx *Context) [simd.Lanes]ErraticDeck {
	rankStream := ctx.Stream("Erratic_rank", 0)
	suitStream := ctx.Stream("Erratic_suit", 0)

	var out [simd.Lanes]ErraticDeck
	for card := 0; card < 52; card++ {
		rankU := rankStream.Next()
		suitU := suitStream.Next()
		for lane := 0; lane < simd.Lanes; lane++ {
			r, _ := rankPool.Draw(rankU[lane])
			s, _ := suitPool.Draw(suitU[lane])
			out[lane][card] = game.PlayingCard{Rank: r, Suit: s}
		}
	}
	return out
}
