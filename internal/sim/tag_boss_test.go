package sim

import (
	"testing"

	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/rng"
	"github.com/seedfinder/balatro/internal/simd"
)

func testBossSeeds() [simd.Lanes]string {
	return [simd.Lanes]string{"AAAAAAAA", "BBBBBBBB", "CCCCCCCC", "1234567A",
		"ZZZZZZZZ", "A1B2C3D4", "22222222", "9988776A"}
}

// TestSampleBossHonorsNoRepeatWindow exercises the boss domain end to
// end: no two of the last bossWindow antes for a given lane share a boss.
func TestSampleBossHonorsNoRepeatWindow(t *testing.T) {
	ctx := NewContext(testBossSeeds(), game.DeckRed, game.StakeWhite)
	hist := NewBossHistory()

	var draws [9][simd.Lanes]game.Boss
	for ante := 1; ante <= 8; ante++ {
		draws[ante] = SampleBoss(ctx, ante, hist)
	}

	for lane := 0; lane < simd.Lanes; lane++ {
		for ante := 2; ante <= 8; ante++ {
			for back := 1; back <= bossWindow && ante-back >= 1; back++ {
				if draws[ante][lane] == draws[ante-back][lane] {
					t.Fatalf("lane %d: ante %d repeats ante %d's boss %v within window %d",
						lane, ante, ante-back, draws[ante][lane], bossWindow)
				}
			}
		}
	}
}

// TestSampleBossLaneIndependentOfOtherLanesRetries pins the fix for a
// shared-VectorStream-counter bug: a lane that needs zero retries must
// draw the exact same boss whether or not other lanes in the same batch
// needed retries, because every round reads one synchronized
// stream.Next() call rather than a per-lane sequential retry loop.
func TestSampleBossLaneIndependentOfOtherLanesRetries(t *testing.T) {
	seeds := testBossSeeds()

	full := NewContext(seeds, game.DeckRed, game.StakeWhite)
	fullHist := NewBossHistory()
	fullDraw := SampleBoss(full, 1, fullHist)

	// Build a scalar reference for lane 0 directly from a single-lane
	// rng.Stream: lane 0's result must match reading round-by-round from
	// its own independent stream, proving its draw never depends on how
	// many rounds any other lane consumed.
	key := rng.StreamKey{Tag: "Boss", Ante: 1}.Bytes()
	scalar, err := rng.NewStream(key, []byte(seeds[0]))
	if err != nil {
		t.Fatal(err)
	}
	var want game.Boss
	for attempt := 0; ; attempt++ {
		u := scalar.Next()
		candidate, _ := bossPool.Draw(u)
		if !recentlyUsed(nil, candidate) {
			want = candidate
			break
		}
		if attempt > 64 {
			t.Fatal("scalar reference failed to resolve a boss")
		}
	}

	if fullDraw[0] != want {
		t.Fatalf("lane 0 boss = %v, want %v (scalar/vector round equivalence broken)", fullDraw[0], want)
	}
}

func TestSampleTagsDrawsBothSlots(t *testing.T) {
	ctx := NewContext(testBossSeeds(), game.DeckRed, game.StakeWhite)
	pairs := SampleTags(ctx, 1)
	for lane := 0; lane < simd.Lanes; lane++ {
		if pairs[lane].Small == "" || pairs[lane].Big == "" {
			t.Fatalf("lane %d: empty tag draw %+v", lane, pairs[lane])
		}
	}
}
