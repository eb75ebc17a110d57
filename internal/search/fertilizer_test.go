package search

import (
	"testing"

	"github.com/seedfinder/balatro/internal/clause"
	"github.com/seedfinder/balatro/internal/filter"
	"github.com/seedfinder/balatro/internal/game"
)

func TestReplayFertilizerFindsPassingSeedsWithoutEnumeration(t *testing.T) {
	doc, err := filter.Normalize(filter.Document{
		Must: []filter.RawClause{{Voucher: "Overstock", Antes: []int{1}}},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	p := clause.CompilePipeline(filter.Compile(doc))

	candidates := make([]string, 0, Base+3)
	for i := uint64(0); i < uint64(Base)+3; i++ {
		candidates = append(candidates, EncodePrefix(i, SeedLength))
	}

	results := ReplayFertilizer(p, game.DeckRed, game.StakeWhite, candidates)
	for _, r := range results {
		found := false
		for _, c := range candidates {
			if c == r.Seed {
				found = true
			}
		}
		if !found {
			t.Fatalf("result seed %q was not among the replayed candidates", r.Seed)
		}
	}
}
