package sim

import (
	"testing"

	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/simd"
)

func testEventSeeds() [simd.Lanes]string {
	return [simd.Lanes]string{"AAAAAAAA", "BBBBBBBB", "CCCCCCCC", "DDDDDDDD",
		"EEEEEEEE", "FFFFFFFF", "GGGGGGGG", "HHHHHHHH"}
}

// TestSampleEventOutOfOrderMatchesSequential pins spec §4.4: "Roll
// indices are allowed to be non-contiguous and out-of-order." Asking for
// a high index before a lower one must not panic, and every index must
// resolve to the same outcome regardless of request order.
func TestSampleEventOutOfOrderMatchesSequential(t *testing.T) {
	seeds := testEventSeeds()

	sequential := NewContext(seeds, game.DeckRed, game.StakeWhite)
	var want [6]([simd.Lanes]EventOutcome)
	for i, idx := range []uint64{0, 1, 2, 3, 4, 5} {
		want[i] = SampleEvent(sequential, EventLuckyMoney, idx)
	}

	outOfOrder := NewContext(seeds, game.DeckRed, game.StakeWhite)
	order := []uint64{5, 2, 0, 4, 1, 3}
	for _, idx := range order {
		got := SampleEvent(outOfOrder, EventLuckyMoney, idx)
		if got != want[idx] {
			t.Fatalf("idx %d out of order: got %+v, want %+v", idx, got, want[idx])
		}
	}

	// Re-requesting an already-resolved index (including one served
	// purely from cache, never freshly drawn) must still match.
	for idx := uint64(0); idx <= 5; idx++ {
		got := SampleEvent(outOfOrder, EventLuckyMoney, idx)
		if got != want[idx] {
			t.Fatalf("re-request idx %d: got %+v, want %+v", idx, got, want[idx])
		}
	}
}

// TestSampleEventNonContiguousIndices pins the sparse half of the same
// allowance: a clause asking only for index 7 must not force every
// intermediate index to be requested by the caller.
func TestSampleEventNonContiguousIndices(t *testing.T) {
	ctx := NewContext(testEventSeeds(), game.DeckRed, game.StakeWhite)
	out := SampleEvent(ctx, EventWheelEdition, 7)
	for lane := 0; lane < simd.Lanes; lane++ {
		_ = out[lane] // reaching here without panicking is the assertion
	}
}

// TestSampleEventDistinctKindsUseIndependentStreams ensures each event
// kind draws from its own stream rather than one shared across kinds.
// The two kinds' outcomes themselves are usually equal (both are rare
// 1-in-1000 extinction rolls), so the raw draws are compared instead.
func TestSampleEventDistinctKindsUseIndependentStreams(t *testing.T) {
	ctx := NewContext(testEventSeeds(), game.DeckRed, game.StakeWhite)
	a := SampleEvent(ctx, EventCavendish, 0)
	b := SampleEvent(ctx, EventGrosMichel, 0)
	ua := ctx.Stream(streamTagFor(EventCavendish), 0).Next()
	ub := ctx.Stream(streamTagFor(EventGrosMichel), 0).Next()
	if ua == ub {
		t.Fatalf("distinct event kinds at idx 0 drew identical values (stream collision)")
	}
	if a != eventOutcomeFromDraw(EventCavendish, ua) || b != eventOutcomeFromDraw(EventGrosMichel, ub) {
		t.Fatalf("event outcome at idx 0 was not drawn from its own kind's stream")
	}
}
