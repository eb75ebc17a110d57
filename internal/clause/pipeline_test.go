package clause

import (
	"testing"

	"github.com/seedfinder/balatro/internal/filter"
	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/sim"
	"github.com/seedfinder/balatro/internal/simd"
)

func testSeeds() [simd.Lanes]string {
	return [simd.Lanes]string{"AAAAAAAA", "BBBBBBBB", "CCCCCCCC", "DDDDDDDD", "EEEEEEEE", "FFFFFFFF", "GGGGGGGG", "HHHHHHHH"}
}

func newTestEvalContext() *EvalContext {
	sc := sim.NewContext(testSeeds(), game.DeckRed, game.StakeWhite)
	return NewEvalContext(sc)
}

func TestVoucherEvaluatorMatchesSampler(t *testing.T) {
	doc, err := filter.Normalize(filter.Document{
		Must: []filter.RawClause{{Voucher: "Overstock", Antes: []int{1}}},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	pipeline := filter.Compile(doc)
	cp := CompilePipeline(pipeline)
	ec := newTestEvalContext()
	cp.Declare(ec.Sim)

	got, _, _ := cp.Evaluate(ec, simd.FullMask)

	draws := sim.SampleVoucher(ec.Sim, 1)
	var want simd.Mask8
	for lane := 0; lane < simd.Lanes; lane++ {
		want = want.Set(lane, string(draws[lane].Voucher) == "Overstock")
	}
	if got != want {
		t.Fatalf("voucher evaluator mask %08b != direct sampler mask %08b", got, want)
	}
}

func TestFusedErraticMatchesAndOfSeparate(t *testing.T) {
	fusedDoc, err := filter.Normalize(filter.Document{
		Should: []filter.RawClause{{Rank: "Ace"}, {Suit: "Hearts"}},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	fusedPipeline := CompilePipeline(filter.Compile(fusedDoc))

	ec := newTestEvalContext()
	fusedPipeline.Declare(ec.Sim)
	_, fusedScore, _ := fusedPipeline.Evaluate(ec, simd.FullMask)

	rankDoc, err := filter.Normalize(filter.Document{Should: []filter.RawClause{{Rank: "Ace"}}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	suitDoc, err := filter.Normalize(filter.Document{Should: []filter.RawClause{{Suit: "Hearts"}}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	rankPipeline := CompilePipeline(filter.Compile(rankDoc))
	suitPipeline := CompilePipeline(filter.Compile(suitDoc))

	ec2 := newTestEvalContext()
	rankPipeline.Declare(ec2.Sim)
	_, rankScore, _ := rankPipeline.Evaluate(ec2, simd.FullMask)
	ec3 := newTestEvalContext()
	suitPipeline.Declare(ec3.Sim)
	_, suitScore, _ := suitPipeline.Evaluate(ec3, simd.FullMask)

	// A should-only pipeline's first return is the must gate (every
	// active lane), so each separate clause's pass is read from its score.
	for lane := 0; lane < simd.Lanes; lane++ {
		gotPass := fusedScore[lane] > 0
		wantPass := rankScore[lane] > 0 && suitScore[lane] > 0
		if gotPass != wantPass {
			t.Fatalf("lane %d: fused pass=%v, AND-of-separate pass=%v", lane, gotPass, wantPass)
		}
	}
}

// TestShouldScoreMultipliesByOccurrenceCount pins spec §4.4/§8 scenario 3:
// a should clause's score contribution is count × clause.score, not a flat
// clause.score applied once per passing lane, and the reported tally column
// carries that same per-clause occurrence count (spec §3, "Result record").
func TestShouldScoreMultipliesByOccurrenceCount(t *testing.T) {
	score := 100
	doc, err := filter.Normalize(filter.Document{
		Should: []filter.RawClause{{Joker: "Blueprint", Antes: []int{1, 2, 3}, Score: &score}},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	cp := CompilePipeline(filter.Compile(doc))
	ec := newTestEvalContext()
	cp.Declare(ec.Sim)

	pass, gotScore, tally := cp.Evaluate(ec, simd.FullMask)

	colIdx := -1
	for i, name := range cp.Columns {
		if name == "Joker:Blueprint" {
			colIdx = i - 2
		}
	}
	if colIdx < 0 {
		t.Fatalf("Columns %v has no Blueprint tally column", cp.Columns)
	}

	for lane := 0; lane < simd.Lanes; lane++ {
		count := int(tally[lane][colIdx])
		want := count * score
		if pass.Lane(lane) && gotScore[lane] != want {
			t.Fatalf("lane %d: score=%d, want count(%d) * score(%d) = %d", lane, gotScore[lane], count, score, want)
		}
		if !pass.Lane(lane) && count > 0 {
			t.Fatalf("lane %d: did not pass but tally reports count=%d", lane, count)
		}
	}
}

func TestMustNotExcludesMatchingLanes(t *testing.T) {
	doc, err := filter.Normalize(filter.Document{
		MustNot: []filter.RawClause{{Voucher: "Overstock", Antes: []int{1}}},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	cp := CompilePipeline(filter.Compile(doc))
	ec := newTestEvalContext()
	cp.Declare(ec.Sim)
	pass, _, _ := cp.Evaluate(ec, simd.FullMask)

	draws := sim.SampleVoucher(ec.Sim, 1)
	for lane := 0; lane < simd.Lanes; lane++ {
		isOverstock := string(draws[lane].Voucher) == "Overstock"
		if isOverstock && pass.Lane(lane) {
			t.Fatalf("lane %d matched the forbidden voucher but still passed", lane)
		}
	}
}
