package sim

import (
	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/simd"
)

// VoucherDraw is the result of sampling one ante's voucher.
type VoucherDraw struct {
	Voucher game.Voucher
	Edition game.Edition
}

// SampleVoucher draws the single voucher offered in an ante (spec §4.4,
// "Voucher evaluator"): identity roll followed by an independent
// edition roll, each its own stream.
func SampleVoucher(ctx *Context, ante int) [simd.Lanes]VoucherDraw {
	idStream := ctx.Stream("Voucher", ante)
	editionStream := ctx.Stream("Voucher_edition", ante)

	idU := idStream.Next()
	editionU := editionStream.Next()

	var out [simd.Lanes]VoucherDraw
	for lane := 0; lane < simd.Lanes; lane++ {
		v, _ := voucherPool.Draw(idU[lane])
		e, _ := editionPool.Draw(editionU[lane])
		out[lane] = VoucherDraw{Voucher: v, Edition: e}
	}
	return out
}

// TarotDraw, PlanetDraw, SpectralDraw and PlayingCardDraw are the
// per-pack-slot results for the four consumable/card domains (spec
// §4.2, "Card samplers").
type TarotDraw struct {
	Tarot   game.Tarot
	Edition game.Edition
}

type PlanetDraw struct {
	Planet  game.Planet
	Edition game.Edition
}

type SpectralDraw struct {
	Spectral game.Spectral
	Edition  game.Edition
}

type PlayingCardDraw struct {
	Card        game.PlayingCard
	Enhancement game.Enhancement
	Edition     game.Edition
	Seal        game.Seal
}

// SampleTarot draws one tarot card from a pack slot in the given ante.
func SampleTarot(ctx *Context, ante, packSlot int) [simd.Lanes]TarotDraw {
	idStream := ctx.Stream(sourceTag("Tarot", packSlot), ante)
	editionStream := ctx.Stream(sourceTag("Tarot_edition", packSlot), ante)

	idU := idStream.Next()
	editionU := editionStream.Next()

	var out [simd.Lanes]TarotDraw
	for lane := 0; lane < simd.Lanes; lane++ {
		t, _ := tarotPool.Draw(idU[lane])
		e, _ := editionPool.Draw(editionU[lane])
		out[lane] = TarotDraw{Tarot: t, Edition: e}
	}
	return out
}

// SamplePlanet draws one planet card from a pack slot in the given ante.
func SamplePlanet(ctx *Context, ante, packSlot int) [simd.Lanes]PlanetDraw {
	idStream := ctx.Stream(sourceTag("Planet", packSlot), ante)
	editionStream := ctx.Stream(sourceTag("Planet_edition", packSlot), ante)

	idU := idStream.Next()
	editionU := editionStream.Next()

	var out [simd.Lanes]PlanetDraw
	for lane := 0; lane < simd.Lanes; lane++ {
		p, _ := planetPool.Draw(idU[lane])
		e, _ := editionPool.Draw(editionU[lane])
		out[lane] = PlanetDraw{Planet: p, Edition: e}
	}
	return out
}

// SampleSpectral draws one spectral card from a pack slot in the given ante.
func SampleSpectral(ctx *Context, ante, packSlot int) [simd.Lanes]SpectralDraw {
	idStream := ctx.Stream(sourceTag("Spectral", packSlot), ante)
	editionStream := ctx.Stream(sourceTag("Spectral_edition", packSlot), ante)

	idU := idStream.Next()
	editionU := editionStream.Next()

	var out [simd.Lanes]SpectralDraw
	for lane := 0; lane < simd.Lanes; lane++ {
		s, _ := spectralPool.Draw(idU[lane])
		e, _ := editionPool.Draw(editionU[lane])
		out[lane] = SpectralDraw{Spectral: s, Edition: e}
	}
	return out
}

// SamplePlayingCard draws one standard playing card from a pack slot,
// with independent rank, suit, enhancement, edition and seal rolls.
func SamplePlayingCard(ctx *Context, ante, packSlot int) [simd.Lanes]PlayingCardDraw {
	rankStream := ctx.Stream(sourceTag("Card_rank", packSlot), ante)
	suitStream := ctx.Stream(sourceTag("Card_suit", packSlot), ante)
	enhStream := ctx.Stream(sourceTag("Card_enhancement", packSlot), ante)
	editionStream := ctx.Stream(sourceTag("Card_edition", packSlot), ante)
	sealStream := ctx.Stream(sourceTag("Card_seal", packSlot), ante)

	rankU := rankStream.Next()
	suitU := suitStream.Next()
	enhU := enhStream.Next()
	editionU := editionStream.Next()
	sealU := sealStream.Next()

	var out [simd.Lanes]PlayingCardDraw
	for lane := 0; lane < simd.Lanes; lane++ {
		r, _ := rankPool.Draw(rankU[lane])
		s, _ := suitPool.Draw(suitU[lane])
		enh, _ := enhancementPool.Draw(enhU[lane])
		e, _ := editionPool.Draw(editionU[lane])
		seal, _ := sealPool.Draw(sealU[lane])
		out[lane] = PlayingCardDraw{
			Card:        game.PlayingCard{Rank: r, Suit: s},
			Enhancement: enh,
			Edition:     e,
			Seal:        seal,
		}
	}
	return out
}
