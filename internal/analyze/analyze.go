// Package analyze implements the `analyze` operation shared by the CLI
// and the HTTP façade: dumping one seed's full per-ante sampled
// sequence (spec §6, "analyze"; grounded on the teacher's
// handleAnalyzeTx one-document forensic dump).
package analyze

import (
	"time"

	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/sim"
	"github.com/seedfinder/balatro/internal/simd"
	"github.com/seedfinder/balatro/pkg/models"
)

// Seed dumps vouchers, tags, boss, shop/pack jokers and cards, the
// starting deck, and mid-run event rolls for one seed under one
// deck/stake. Only lane 0 of the underlying 8-wide sampler is read;
// the other seven lanes are filled with the same seed so the shared
// Context machinery can be reused unmodified.
func Seed(seed string, deck game.Deck, stake game.Stake) models.SeedAnalysis {
	var seeds [simd.Lanes]string
	for i := range seeds {
		seeds[i] = seed
	}
	ctx := sim.NewContext(seeds, deck, stake)
	hist := sim.NewBossHistory()

	out := models.SeedAnalysis{Seed: seed, Deck: string(deck), Stake: string(stake), GeneratedAt: time.Now()}

	for ante := 1; ante <= 8; ante++ {
		maxSlot := 5
		if ante == 1 {
			maxSlot = 3
		}

		voucher := sim.SampleVoucher(ctx, ante)[0]
		tags := sim.SampleTags(ctx, ante)[0]
		boss := sim.SampleBoss(ctx, ante, hist)[0]

		report := models.AnteReport{
			Ante:      ante,
			Voucher:   string(voucher.Voucher),
			VoucherEd: string(voucher.Edition),
			SmallTag:  string(tags.Small),
			BigTag:    string(tags.Big),
			Boss:      string(boss),
		}

		for slot := 0; slot <= maxSlot; slot++ {
			joker := sim.SampleJoker(ctx, ante, slot)[0]
			report.ShopJokers = append(report.ShopJokers, models.ItemReport{
				Slot: slot, Kind: "Joker", Name: joker.Name, Edition: string(joker.Edition),
			})
		}

		for slot := 0; slot <= maxSlot; slot++ {
			tarot := sim.SampleTarot(ctx, ante, slot)[0]
			planet := sim.SamplePlanet(ctx, ante, slot)[0]
			spectral := sim.SampleSpectral(ctx, ante, slot)[0]
			card := sim.SamplePlayingCard(ctx, ante, slot)[0]

			report.PackItems = append(report.PackItems,
				models.ItemReport{Slot: slot, Kind: "Tarot", Name: string(tarot.Tarot), Edition: string(tarot.Edition)},
				models.ItemReport{Slot: slot, Kind: "Planet", Name: string(planet.Planet), Edition: string(planet.Edition)},
				models.ItemReport{Slot: slot, Kind: "Spectral", Name: string(spectral.Spectral), Edition: string(spectral.Edition)},
				models.ItemReport{Slot: slot, Kind: "PlayingCard", Name: string(card.Card.Rank) + " of " + string(card.Card.Suit), Edition: string(card.Edition)},
			)
		}

		out.Antes = append(out.Antes, report)
	}

	deck52 := sim.SampleErraticDeck(ctx)[0]
	for _, c := range deck52 {
		out.ErraticDeck = append(out.ErraticDeck, string(c.Rank)+" of "+string(c.Suit))
	}

	for _, kind := range []sim.EventKind{
		sim.EventLuckyMoney, sim.EventLuckyMult, sim.EventMisprintMult,
		sim.EventWheelEdition, sim.EventCavendish, sim.EventGrosMichel,
	} {
		outcome := sim.SampleEvent(ctx, kind, 0)[0]
		out.Events = append(out.Events, models.EventReport{
			Kind: string(kind), Index: 0,
			Triggered: outcome.Triggered, Value: outcome.Value, Edition: string(outcome.Edition),
		})
	}

	return out
}
