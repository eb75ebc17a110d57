package sim

import (
	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/simd"
)

// TagPairDraw holds one ante's small-blind and big-blind tag draws
// (spec §4.2, "Tag sampler. Two draws per ante").
type TagPairDraw struct {
	Small game.Tag
	Big   game.Tag
}

// SampleTags draws both of an ante's tags.
func SampleTags(ctx *Context, ante int) [simd.Lanes]TagPairDraw {
	smallStream := ctx.Stream("Tag_small", ante)
	bigStream := ctx.Stream("Tag_big", ante)

	smallU := smallStream.Next()
	bigU := bigStream.Next()

	var out [simd.Lanes]TagPairDraw
	for lane := 0; lane < simd.Lanes; lane++ {
		small, _ := tagPool.Draw(smallU[lane])
		big, _ := tagPool.Draw(bigU[lane])
		out[lane] = TagPairDraw{Small: small, Big: big}
	}
	return out
}

// BossHistory tracks, per lane, the boss blinds chosen in prior antes so
// SampleBoss can enforce the "no repeat within window" constraint (spec
// §4.2, "Boss blind sampler"). Callers advance ante-by-ante in order and
// reuse one BossHistory for the whole run.
type BossHistory struct {
	history [simd.Lanes][]game.Boss
}

// NewBossHistory returns an empty per-lane boss history.
func NewBossHistory() *BossHistory {
	return &BossHistory{}
}

// SampleBoss draws the ante's boss blind for every lane from one shared
// stream.Next() call per round, re-rolling only the lanes still stuck on
// a repeat within bossWindow. VectorStream.counter is shared across all
// eight lanes (spec §4.1, "Stream invariance"), so resolving lanes one at
// a time with independent per-lane retry loops would advance that shared
// counter on lane 0's rejections before lane 1 ever draws, contaminating
// every later lane's "first" draw with however many rounds lane 0 needed.
// Drawing one round for every still-active lane at once keeps each lane's
// round N draw keyed to counter value N regardless of how many other
// lanes already resolved.
func SampleBoss(ctx *Context, ante int, hist *BossHistory) [simd.Lanes]game.Boss {
	stream := ctx.Stream("Boss", ante)

	var out [simd.Lanes]game.Boss
	pending := simd.FullMask
	for attempt := 0; !pending.Empty(); attempt++ {
		if attempt > 64 {
			// Invariant violation: the pool can't satisfy the no-repeat
			// window — treated as a bug, not masked.
			panic("sim: boss sampler failed to find a non-repeating boss within bound")
		}
		u := stream.Next()
		for lane := 0; lane < simd.Lanes; lane++ {
			if !pending.Lane(lane) {
				continue
			}
			candidate, _ := bossPool.Draw(u[lane])
			if recentlyUsed(hist.history[lane], candidate) {
				continue
			}
			out[lane] = candidate
			pending = pending.Set(lane, false)
		}
	}
	for lane := 0; lane < simd.Lanes; lane++ {
		hist.history[lane] = append(hist.history[lane], out[lane])
		if len(hist.history[lane]) > bossWindow {
			hist.history[lane] = hist.history[lane][len(hist.history[lane])-bossWindow:]
		}
	}
	return out
}

func recentlyUsed(history []game.Boss, candidate game.Boss) bool {
	for _, b := range history {
		if b == candidate {
			return true
		}
	}
	return false
}

