package sim

import "github.com/seedfinder/balatro/internal/game"
import "github.com/seedfinder/balatro/internal/pool"

// Package-level weighted pools, built once at process start from the
// static domain tables in package game and shared read-only by every
// sampler and every worker (spec §3, "Weighted pool ... Lifetime: built
// once from a static table at startup; immutable thereafter").

var rarityPool = pool.New(game.Rarities, weightsFor(game.Rarities, game.RarityWeights))

func weightsFor(rarities []game.Rarity, m map[game.Rarity]float64) []float64 {
	w := make([]float64, len(rarities))
	for i, r := range rarities {
		w[i] = m[r]
	}
	return w
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

var jokerPoolByRarity = buildJokerPools()

func buildJokerPools() map[game.Rarity]*pool.Pool[game.Joker] {
	out := make(map[game.Rarity]*pool.Pool[game.Joker], len(game.Rarities))
	for _, r := range game.Rarities {
		jokers := game.JokersByRarity[r]
		out[r] = pool.New(jokers, uniformWeights(len(jokers)))
	}
	return out
}

var soulJokerPool = pool.New(game.LegendaryJokers, uniformWeights(len(game.LegendaryJokers)))

// editionPool models the standard edition roll: heavily weighted toward
// None, with Negative reserved for the separate soul-joker path (it
// never appears on a standard shop/pack or voucher roll).
var editionPool = pool.New(
	[]game.Edition{game.EditionNone, game.EditionFoil, game.EditionHolo, game.EditionPolychrome},
	[]float64{96, 2.4, 1.28, 0.32},
)

// legendaryEditionPool models the soul-joker edition roll, which can
// additionally land Negative.
var legendaryEditionPool = pool.New(
	[]game.Edition{game.EditionNone, game.EditionFoil, game.EditionHolo, game.EditionPolychrome, game.EditionNegative},
	[]float64{88, 5, 3, 1, 3},
)

var voucherPool = pool.New(game.Vouchers, uniformWeights(len(game.Vouchers)))
var tagPool = pool.New(game.Tags, uniformWeights(len(game.Tags)))
var tarotPool = pool.New(game.Tarots, uniformWeights(len(game.Tarots)))
var planetPool = pool.New(game.Planets, uniformWeights(len(game.Planets)))
var spectralPool = pool.New(game.Spectrals, uniformWeights(len(game.Spectrals)))
var rankPool = pool.New(game.Ranks, uniformWeights(len(game.Ranks)))
var suitPool = pool.New(game.Suits, uniformWeights(len(game.Suits)))
var enhancementPool = pool.New(game.Enhancements, uniformWeights(len(game.Enhancements)))
var sealPool = pool.New(game.Seals, uniformWeights(len(game.Seals)))
var bossPool = pool.New(game.Bosses, uniformWeights(len(game.Bosses)))

// bossWindow is the number of most recent antes a boss blind may not
// repeat within (spec §4.2, "a 'no repeat within window' constraint").
const bossWindow = 2
