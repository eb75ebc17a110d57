package sim

import (
	"fmt"

	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/simd"
)

// JokerDraw is the result of sampling one joker at one (ante, source
// slot) — the unit the joker/soul-joker clause evaluators compare
// against a clause's wanted identity and edition (spec §4.4).
type JokerDraw struct {
	Name    string
	Rarity  game.Rarity
	Edition game.Edition
}

// sourceTag names the stream domain tag for a shop or pack source slot,
// matching spec's "Source slot. A shop slot index or a pack slot index
// from which a joker/card is sampled within an ante."
func sourceTag(base string, sourceSlot int) string {
	return fmt.Sprintf("%s_src%d", base, sourceSlot)
}

// SampleJoker draws one joker per lane for the given ante and source
// slot: rarity roll -> appearance pool (conditioned on rarity) ->
// edition roll, each its own declared stream (spec §4.2, "Joker
// sampler"). Stickers are not modeled: no clause in this system filters
// on eternal/perishable/rental state, so no stream is spent on them.
func SampleJoker(ctx *Context, ante, sourceSlot int) [simd.Lanes]JokerDraw {
	rarityStream := ctx.Stream(sourceTag("Joker_rarity", sourceSlot), ante)
	appearanceStream := ctx.Stream(sourceTag("Joker_appearance", sourceSlot), ante)
	editionStream := ctx.Stream(sourceTag("Joker_edition", sourceSlot), ante)

	rarityU := rarityStream.Next()
	appearanceU := appearanceStream.Next()
	editionU := editionStream.Next()

	var out [simd.Lanes]JokerDraw
	for lane := 0; lane < simd.Lanes; lane++ {
		rarity, _ := rarityPool.Draw(rarityU[lane])
		appearancePool := jokerPoolByRarity[rarity]
		joker, _ := appearancePool.Draw(appearanceU[lane])
		edition, _ := editionPool.Draw(editionU[lane])
		out[lane] = JokerDraw{Name: joker.Name, Rarity: joker.Rarity, Edition: edition}
	}
	return out
}

// SampleSoulJoker draws one legendary joker per lane (spec §4.2, "Soul
// joker sampler"): a sub-sampler of the joker pool restricted to the
// legendary set, with its own edition roll over legendaryEditionPool.
// It does no mega-tag gating, and the clause evaluators call it for
// every declared slot: a clause's RequireMega flag is parsed and kept
// on the clause but is not consulted by any evaluator.
func SampleSoulJoker(ctx *Context, ante, sourceSlot int) [simd.Lanes]JokerDraw {
	appearanceStream := ctx.Stream(sourceTag("Soul_appearance", sourceSlot), ante)
	editionStream := ctx.Stream(sourceTag("Soul_edition", sourceSlot), ante)

	appearanceU := appearanceStream.Next()
	editionU := editionStream.Next()

	var out [simd.Lanes]JokerDraw
	for lane := 0; lane < simd.Lanes; lane++ {
		joker, _ := soulJokerPool.Draw(appearanceU[lane])
		edition, _ := legendaryEditionPool.Draw(editionU[lane])
		out[lane] = JokerDraw{Name: joker.Name, Rarity: joker.Rarity, Edition: edition}
	}
	return out
}
