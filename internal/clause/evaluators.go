package clause

import (
	"github.com/seedfinder/balatro/internal/filter"
	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/sim"
	"github.com/seedfinder/balatro/internal/simd"
)

// Compile builds a concrete Evaluator for one normalized clause,
// dispatching on its category (spec §4.4).
func Compile(c *filter.Clause) Evaluator {
	switch c.Category {
	case filter.CategoryVoucher:
		return &voucherEval{c}
	case filter.CategoryJoker:
		return &jokerEval{c, false}
	case filter.CategorySoulJoker:
		return &jokerEval{c, true}
	case filter.CategorySoulJokerEditionOnly:
		return &soulEditionOnlyEval{c}
	case filter.CategoryTarotCard:
		return &tarotEval{c}
	case filter.CategoryPlanetCard:
		return &planetEval{c}
	case filter.CategorySpectralCard:
		return &spectralEval{c}
	case filter.CategoryPlayingCard:
		return &playingCardEval{c}
	case filter.CategoryTag:
		return &tagEval{c}
	case filter.CategoryBoss:
		return &bossEval{c}
	case filter.CategoryEvent:
		return &eventEval{c}
	case filter.CategoryErraticRank:
		return &erraticEval{rank: c}
	case filter.CategoryErraticSuit:
		return &erraticEval{suit: c}
	case filter.CategoryAnd:
		return &andEval{compileChildren(c)}
	case filter.CategoryOr:
		return &orEval{compileChildren(c)}
	}
	panic("clause: unknown category " + string(c.Category))
}

func compileChildren(c *filter.Clause) []Evaluator {
	out := make([]Evaluator, len(c.Children))
	for i, child := range c.Children {
		out[i] = Compile(child)
	}
	return out
}

// unionSlots merges a clause's shop and pack slot lists into one
// iteration space — this system has no notion of shop-vs-pack stream
// identity distinct from the numeric slot index (spec §4.2, "Joker
// sampler").
func unionSlots(c *filter.Clause) []int {
	if len(c.PackSlots) == 0 {
		return c.ShopSlots
	}
	if len(c.ShopSlots) == 0 {
		return c.PackSlots
	}
	return append(append([]int{}, c.ShopSlots...), c.PackSlots...)
}

func editionMatches(want *game.Edition, got game.Edition) bool {
	return want == nil || *want == got
}

// --- Voucher ---

type voucherEval struct{ c *filter.Clause }

func (e *voucherEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	var count [simd.Lanes]int
	for _, ante := range e.c.Antes {
		draws := sim.SampleVoucher(ec.Sim, ante)
		for lane := 0; lane < simd.Lanes; lane++ {
			if !active.Lane(lane) {
				continue
			}
			d := draws[lane]
			if containsFold(e.c.Values, string(d.Voucher)) && editionMatches(e.c.Edition, d.Edition) {
				count[lane]++
			}
		}
	}
	return passAndTally(count, active, e.c.Min)
}

// passAndTally turns a per-lane occurrence count into a pass mask
// (count >= min, restricted to active lanes) and the tally itself, the
// value should-clauses multiply by their score (spec §4.4).
func passAndTally(count [simd.Lanes]int, active simd.Mask8, min int) (simd.Mask8, [simd.Lanes]uint16) {
	var out simd.Mask8
	var tally [simd.Lanes]uint16
	for lane := 0; lane < simd.Lanes; lane++ {
		out = out.Set(lane, active.Lane(lane) && count[lane] >= min)
		if active.Lane(lane) {
			tally[lane] = uint16(count[lane])
		}
	}
	return out, tally
}

// --- Joker / SoulJoker ---

type jokerEval struct {
	c    *filter.Clause
	soul bool
}

func (e *jokerEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	var count [simd.Lanes]int
	slots := unionSlots(e.c)
	for _, ante := range e.c.Antes {
		for _, slot := range slots {
			var draws [simd.Lanes]sim.JokerDraw
			if e.soul {
				draws = sim.SampleSoulJoker(ec.Sim, ante, slot)
			} else {
				draws = sim.SampleJoker(ec.Sim, ante, slot)
			}
			for lane := 0; lane < simd.Lanes; lane++ {
				if !active.Lane(lane) {
					continue
				}
				d := draws[lane]
				if containsFold(e.c.Values, d.Name) && editionMatches(e.c.Edition, d.Edition) {
					count[lane]++
				}
			}
		}
	}
	return passAndTally(count, active, e.c.Min)
}

// soulEditionOnlyEval is the cheap early-exit category: a soul-joker
// clause whose value is "Any" collapses to a pure edition check, so it
// skips the appearance-pool comparison entirely (spec §4.3, "Category
// grouping": SoulJokerEditionOnly is evaluated first).
type soulEditionOnlyEval struct{ c *filter.Clause }

func (e *soulEditionOnlyEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	var count [simd.Lanes]int
	for _, ante := range e.c.Antes {
		for _, slot := range unionSlots(e.c) {
			draws := sim.SampleSoulJoker(ec.Sim, ante, slot)
			for lane := 0; lane < simd.Lanes; lane++ {
				if !active.Lane(lane) {
					continue
				}
				if editionMatches(e.c.Edition, draws[lane].Edition) {
					count[lane]++
				}
			}
		}
	}
	return passAndTally(count, active, e.c.Min)
}

// --- Consumable cards ---

type tarotEval struct{ c *filter.Clause }

func (e *tarotEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	var count [simd.Lanes]int
	for _, ante := range e.c.Antes {
		for _, slot := range e.c.PackSlots {
			draws := sim.SampleTarot(ec.Sim, ante, slot)
			for lane := 0; lane < simd.Lanes; lane++ {
				if !active.Lane(lane) {
					continue
				}
				d := draws[lane]
				if containsFold(e.c.Values, string(d.Tarot)) && editionMatches(e.c.Edition, d.Edition) {
					count[lane]++
				}
			}
		}
	}
	return passAndTally(count, active, e.c.Min)
}

type planetEval struct{ c *filter.Clause }

func (e *planetEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	var count [simd.Lanes]int
	for _, ante := range e.c.Antes {
		for _, slot := range e.c.PackSlots {
			draws := sim.SamplePlanet(ec.Sim, ante, slot)
			for lane := 0; lane < simd.Lanes; lane++ {
				if !active.Lane(lane) {
					continue
				}
				d := draws[lane]
				if containsFold(e.c.Values, string(d.Planet)) && editionMatches(e.c.Edition, d.Edition) {
					count[lane]++
				}
			}
		}
	}
	return passAndTally(count, active, e.c.Min)
}

type spectralEval struct{ c *filter.Clause }

func (e *spectralEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	var count [simd.Lanes]int
	for _, ante := range e.c.Antes {
		for _, slot := range e.c.PackSlots {
			draws := sim.SampleSpectral(ec.Sim, ante, slot)
			for lane := 0; lane < simd.Lanes; lane++ {
				if !active.Lane(lane) {
					continue
				}
				d := draws[lane]
				if containsFold(e.c.Values, string(d.Spectral)) && editionMatches(e.c.Edition, d.Edition) {
					count[lane]++
				}
			}
		}
	}
	return passAndTally(count, active, e.c.Min)
}

type playingCardEval struct{ c *filter.Clause }

func (e *playingCardEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	var count [simd.Lanes]int
	for _, ante := range e.c.Antes {
		for _, slot := range e.c.PackSlots {
			draws := sim.SamplePlayingCard(ec.Sim, ante, slot)
			for lane := 0; lane < simd.Lanes; lane++ {
				if !active.Lane(lane) {
					continue
				}
				d := draws[lane]
				if (containsFold(e.c.Values, string(d.Card.Rank)) || containsFold(e.c.Values, string(d.Card.Suit))) &&
					editionMatches(e.c.Edition, d.Edition) {
					count[lane]++
				}
			}
		}
	}
	return passAndTally(count, active, e.c.Min)
}

// --- Tag ---

type tagEval struct{ c *filter.Clause }

func (e *tagEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	var count [simd.Lanes]int
	for _, ante := range e.c.Antes {
		draws := sim.SampleTags(ec.Sim, ante)
		for lane := 0; lane < simd.Lanes; lane++ {
			if !active.Lane(lane) {
				continue
			}
			d := draws[lane]
			if containsFold(e.c.Values, string(d.Small)) || containsFold(e.c.Values, string(d.Big)) {
				count[lane]++
			}
		}
	}
	return passAndTally(count, active, e.c.Min)
}

// --- Boss ---

type bossEval struct{ c *filter.Clause }

func (e *bossEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	bosses := ec.Bosses()
	var count [simd.Lanes]int
	for _, ante := range e.c.Antes {
		draws := bosses[ante]
		for lane := 0; lane < simd.Lanes; lane++ {
			if !active.Lane(lane) {
				continue
			}
			if containsFold(e.c.Values, string(draws[lane])) {
				count[lane]++
			}
		}
	}
	return passAndTally(count, active, e.c.Min)
}

// --- Event ---

type eventEval struct{ c *filter.Clause }

func (e *eventEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	var count [simd.Lanes]int
	for _, v := range e.c.Values {
		kind := sim.EventKind(v)
		for _, idx := range e.c.Indices {
			outcomes := sim.SampleEvent(ec.Sim, kind, idx)
			for lane := 0; lane < simd.Lanes; lane++ {
				if !active.Lane(lane) {
					continue
				}
				if outcomes[lane].Triggered {
					count[lane]++
				}
			}
		}
	}
	return passAndTally(count, active, e.c.Min)
}

// --- Erratic rank / suit, unfused ---

type erraticEval struct {
	rank *filter.Clause
	suit *filter.Clause
}

func (e *erraticEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	deck := ec.ErraticDeck()
	var rankCount, suitCount [simd.Lanes]int
	for lane := 0; lane < simd.Lanes; lane++ {
		if !active.Lane(lane) {
			continue
		}
		for _, card := range deck[lane] {
			if e.rank != nil && containsFold(e.rank.Values, string(card.Rank)) {
				rankCount[lane]++
			}
			if e.suit != nil && containsFold(e.suit.Values, string(card.Suit)) {
				suitCount[lane]++
			}
		}
	}
	if e.rank != nil && e.suit == nil {
		return passAndTally(rankCount, active, e.rank.Min)
	}
	return passAndTally(suitCount, active, e.suit.Min)
}

// compileFusedErratic builds one evaluator for a fused
// ErraticRankAndSuit group, walking the 52-card deck exactly once
// instead of once per separate rank/suit evaluator (spec §4.3, "Erratic
// fusion"). clauses holds every original clause the group merged (one
// or more ErraticRank, one or more ErraticSuit; see
// filter.fuseErraticPair) — only the first of each is fused; additional
// clauses of the same sub-category are rare and evaluated separately
// via Compile.
func compileFusedErratic(clauses []*filter.Clause) []Evaluator {
	var rank, suit *filter.Clause
	var rest []Evaluator
	for _, c := range clauses {
		switch {
		case c.Category == filter.CategoryErraticRank && rank == nil:
			rank = c
		case c.Category == filter.CategoryErraticSuit && suit == nil:
			suit = c
		default:
			rest = append(rest, Compile(c))
		}
	}
	return append([]Evaluator{&fusedErraticEval{rank: rank, suit: suit}}, rest...)
}

type fusedErraticEval struct {
	rank *filter.Clause
	suit *filter.Clause
}

// Evaluate gates on both rank and suit thresholds but is attributed
// (by pipeline.go's expand) to the fused group's first original
// clause, the rank clause — so its reported tally is the rank
// occurrence count, matching what an unfused erraticEval would report
// for that same clause.
func (e *fusedErraticEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	deck := ec.ErraticDeck()
	var rankCount, suitCount [simd.Lanes]int
	for lane := 0; lane < simd.Lanes; lane++ {
		if !active.Lane(lane) {
			continue
		}
		for _, card := range deck[lane] {
			if e.rank != nil && containsFold(e.rank.Values, string(card.Rank)) {
				rankCount[lane]++
			}
			if e.suit != nil && containsFold(e.suit.Values, string(card.Suit)) {
				suitCount[lane]++
			}
		}
	}
	rankMask, rankTally := passAndTally(rankCount, active, minOrOne(e.rank))
	suitMask, _ := passAndTally(suitCount, active, minOrOne(e.suit))
	return rankMask.And(suitMask), rankTally
}

func minOrOne(c *filter.Clause) int {
	if c == nil {
		return 0
	}
	return c.Min
}

// --- And / Or ---

// And/Or are structural composition, not repeated-occurrence clauses,
// so they report a tally of 1 per passing lane (0 otherwise) rather
// than a child-derived count — a should-role And/Or clause contributes
// its score exactly once when it passes, same as before this tally was
// introduced for leaf clause categories.
func tallyFromMask(mask simd.Mask8) [simd.Lanes]uint16 {
	var tally [simd.Lanes]uint16
	for lane := 0; lane < simd.Lanes; lane++ {
		if mask.Lane(lane) {
			tally[lane] = 1
		}
	}
	return tally
}

type andEval struct{ children []Evaluator }

func (e *andEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	mask := active
	for _, child := range e.children {
		if mask.Empty() {
			break
		}
		hit, _ := child.Evaluate(ec, mask)
		mask = mask.And(hit)
	}
	return mask, tallyFromMask(mask)
}

type orEval struct{ children []Evaluator }

func (e *orEval) Evaluate(ec *EvalContext, active simd.Mask8) (simd.Mask8, [simd.Lanes]uint16) {
	var mask simd.Mask8
	for _, child := range e.children {
		hit, _ := child.Evaluate(ec, active)
		mask = mask.Or(hit)
	}
	mask = mask.And(active)
	return mask, tallyFromMask(mask)
}
