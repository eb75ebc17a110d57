package sim

import (
	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/simd"
)

// EventKind identifies one of the mid-run random events a clause can
// test (spec §4.2, "Event sampler"). Each kind owns its own stream;
// SampleEvent reaches a roll index by drawing every index up to it in
// order and caching each outcome (spec §4.4, "Event evaluator").
type EventKind string

const (
	EventLuckyMoney     EventKind = "LuckyMoney"
	EventLuckyMult      EventKind = "LuckyMult"
	EventMisprintMult   EventKind = "MisprintMult"
	EventWheelEdition   EventKind = "WheelOfFortune"
	EventCavendish      EventKind = "Cavendish"
	EventGrosMichel     EventKind = "GrosMichel"
)

// streamTagFor maps an event kind to its stream domain tag.
func streamTagFor(kind EventKind) string {
	return "Event_" + string(kind)
}

// EventOutcome is the generic result of one event roll: a continuous
// value (lucky-card money/mult amount, misprint mult) or a discrete
// enum (wheel-of-fortune edition), plus a boolean for the
// pass/fail-shaped events (extinction rolls).
type EventOutcome struct {
	Triggered bool
	Value     float64
	Edition   game.Edition
}

// luckyTriggerChance: 1-in-15 chance of $20 (matches spec's Lucky Card
// money event: triggered vs not, with a fixed payout on trigger).
const luckyTriggerChance = 1.0 / 15.0

// SampleEvent returns the outcome of the named event's roll index idx,
// per lane. Roll indices may be requested non-contiguously and out of
// order (spec §4.4: "Roll indices are allowed to be non-contiguous and
// out-of-order") — a clause's own Indices list is sorted at normalize
// time, but distinct clauses sharing one event kind can still interleave
// requests in any order. Every draw the stream has produced so far is
// cached by index so a later request for an earlier index is answered
// from cache instead of re-deriving (stream.Skip cannot recover a value
// it jumped over without computing it).
func SampleEvent(ctx *Context, kind EventKind, idx uint64) [simd.Lanes]EventOutcome {
	tag := streamTagFor(kind)
	cache, ok := ctx.eventRolls[tag]
	if !ok {
		cache = make(map[uint64][simd.Lanes]EventOutcome)
		ctx.eventRolls[tag] = cache
	}
	if out, ok := cache[idx]; ok {
		return out
	}

	stream := ctx.Stream(tag, 0)
	for {
		at := stream.Counter()
		out := eventOutcomeFromDraw(kind, stream.Next())
		cache[at] = out
		if at == idx {
			return out
		}
	}
}

func eventOutcomeFromDraw(kind EventKind, u simd.Vec8f64) [simd.Lanes]EventOutcome {
	var out [simd.Lanes]EventOutcome
	for lane := 0; lane < simd.Lanes; lane++ {
		switch kind {
		case EventLuckyMoney:
			triggered := u[lane] < luckyTriggerChance
			out[lane] = EventOutcome{Triggered: triggered, Value: 20}
		case EventLuckyMult:
			triggered := u[lane] < luckyTriggerChance
			out[lane] = EventOutcome{Triggered: triggered, Value: 20}
		case EventMisprintMult:
			// Misprint rolls a uniform integer mult bonus in [0, 23].
			out[lane] = EventOutcome{Triggered: true, Value: float64(int(u[lane] * 24))}
		case EventWheelEdition:
			e, _ := editionPool.Draw(u[lane])
			out[lane] = EventOutcome{Triggered: e != game.EditionNone, Edition: e}
		case EventCavendish, EventGrosMichel:
			// 1-in-1000 extinction roll.
			out[lane] = EventOutcome{Triggered: u[lane] < 1.0/1000.0}
		}
	}
	return out
}
