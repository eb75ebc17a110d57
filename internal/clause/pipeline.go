package clause

import (
	"github.com/seedfinder/balatro/internal/filter"
	"github.com/seedfinder/balatro/internal/sim"
	"github.com/seedfinder/balatro/internal/simd"
)

// CompileGroup compiles every clause in one category group, fusing the
// whole group into a single evaluator when its category is
// ErraticRankAndSuit (spec §4.3, "Erratic fusion") and compiling each
// clause independently otherwise.
func CompileGroup(g filter.Group) []Evaluator {
	if g.Category == filter.CategoryErraticRankAndSuit {
		return compileFusedErratic(g.Clauses)
	}
	out := make([]Evaluator, len(g.Clauses))
	for i, c := range g.Clauses {
		out[i] = Compile(c)
	}
	return out
}

// weighted pairs an evaluator with the clause it was compiled from, so
// the runner can read its Score for should-role accumulation.
type weighted struct {
	eval   Evaluator
	clause *filter.Clause
}

// Pipeline is a fully compiled filter: independent evaluator lists for
// must/mustNot (each lane must pass every one) and should (each lane
// accumulates count × Score for every one it passes), plus the stream
// declarations every compiled evaluator needs warmed.
type Pipeline struct {
	Must    []weighted
	Should  []weighted
	MustNot []weighted

	Columns []string
	decls   []filter.StreamDeclaration
}

// CompilePipeline turns a filter.Pipeline (already grouped by category) into a
// clause.Pipeline ready to evaluate batches.
func CompilePipeline(fp *filter.Pipeline) *Pipeline {
	p := &Pipeline{decls: fp.StreamDeclarations()}
	expand := func(groups []filter.Group) []weighted {
		var out []weighted
		for _, g := range groups {
			evals := CompileGroup(g)
			// A fused group's []Evaluator can be shorter than
			// g.Clauses (the two fused clauses collapse to one
			// evaluator); attribute the fused evaluator's pass/score to
			// the first original clause so every Should group still
			// contributes its declared Score exactly once.
			for i, e := range evals {
				cl := g.Clauses[0]
				if i < len(g.Clauses) {
					cl = g.Clauses[i]
				}
				out = append(out, weighted{eval: e, clause: cl})
			}
		}
		return out
	}
	p.Must = expand(fp.Must)
	p.Should = expand(fp.Should)
	p.MustNot = expand(fp.MustNot)

	// Columns are derived from p.Should directly (one per weighted
	// evaluator) rather than copied from fp.Columns: a fused erratic
	// rank/suit group collapses two original clauses into one weighted
	// entry, so fp.Columns (built per-clause in filter.Compile) would
	// otherwise carry one more name than this pipeline has tallies for.
	p.Columns = append(p.Columns, "seed", "score")
	for _, w := range p.Should {
		p.Columns = append(p.Columns, w.clause.Name)
	}
	return p
}

// Declare warms every stream the pipeline's evaluators will touch.
func (p *Pipeline) Declare(sc *sim.Context) {
	for _, d := range p.decls {
		sc.Declare(d.Tag, d.Ante)
	}
}

// Evaluate runs the two-phase gate-then-score pass over one batch (spec
// §4.5, "Two-phase evaluation"): must and mustNot gate which lanes
// survive, then should accumulates score as count × clause.score for
// surviving lanes (spec §4.4), and records each should-clause's own
// count in tally (one slice per lane, aligned with Columns[2:], spec
// §3 "Result record" / §235 "Tally"). Evaluate applies no cutoff and
// skips no lane by score: the search driver passes every valid lane in
// active and compares the returned score against its cutoff afterwards.
// Evaluate never un-masks a lane.
func (p *Pipeline) Evaluate(ec *EvalContext, active simd.Mask8) (pass simd.Mask8, score [simd.Lanes]int, tally [simd.Lanes][]uint16) {
	mask := active
	for _, w := range p.Must {
		if mask.Empty() {
			break
		}
		hit, _ := w.eval.Evaluate(ec, mask)
		mask = mask.And(hit)
	}
	for _, w := range p.MustNot {
		if mask.Empty() {
			break
		}
		hit, _ := w.eval.Evaluate(ec, mask)
		mask = mask.And(hit.Not())
	}

	// One backing allocation per 8-lane batch group, not per lane:
	// each lane's tally is a slice view into a shared [Lanes*len(Should)]
	// buffer so callers can still range over tally[lane] per-clause.
	buf := make([]uint16, simd.Lanes*len(p.Should))
	for lane := 0; lane < simd.Lanes; lane++ {
		tally[lane] = buf[lane*len(p.Should) : lane*len(p.Should) : lane*len(p.Should)+len(p.Should)]
	}

	for _, w := range p.Should {
		if mask.Empty() {
			for lane := 0; lane < simd.Lanes; lane++ {
				tally[lane] = append(tally[lane], 0)
			}
			continue
		}
		hit, count := w.eval.Evaluate(ec, mask)
		for lane := 0; lane < simd.Lanes; lane++ {
			if !mask.Lane(lane) {
				tally[lane] = append(tally[lane], 0)
				continue
			}
			tally[lane] = append(tally[lane], count[lane])
			if hit.Lane(lane) {
				score[lane] += int(count[lane]) * w.clause.Score
			}
		}
	}
	return mask, score, tally
}
