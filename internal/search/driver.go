package search

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/seedfinder/balatro/internal/clause"
	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/sim"
	"github.com/seedfinder/balatro/internal/simd"
)

// Result is one seed's outcome: its total should-score and the
// per-clause tally columns a sink persists (spec §4.6).
type Result struct {
	Seed  string
	Score int
	Tally map[string]int
}

// Sink receives accepted results (spec §4.6, "Result sink"). It is
// write-only from the driver's side: autoCutoff reads the in-process
// topKTracker, not the sink. Implementations must serialize concurrent
// Upsert calls.
type Sink interface {
	Upsert(ctx context.Context, filterID string, r Result) error
}

// Checkpointer persists and loads last_completed_batch (spec §4.5,
// "Checkpointing").
type Checkpointer interface {
	Load(ctx context.Context, filterID string) (lastCompletedBatch uint64, ok bool, err error)
	Save(ctx context.Context, filterID string, lastCompletedBatch uint64) error
}

// Config parameterizes one search run (spec §9, CLI surface; §4.5).
type Config struct {
	FilterID string
	Pipeline *clause.Pipeline
	Deck     game.Deck
	Stake    game.Stake

	Threads        int
	BatchCharCount int // L
	StartBatch     uint64
	EndBatch       uint64 // exclusive; 0 means Base^L

	Cutoff     int
	AutoCutoff bool

	Sink        Sink
	Checkpoints Checkpointer
}

// Progress is a point-in-time snapshot of a running search (spec §6,
// "GET /search?id=... returns running status, speed, current batch").
type Progress struct {
	IsRunning          bool
	CurrentBatch       uint64
	LastCompletedBatch uint64
	SeedsEvaluated     int64
	ResultsFound       int64
	BestScore          int64
	CurrentCutoff      int64
}

// Run drives one filter's batched enumeration (spec §4.5). It mirrors
// the teacher's BlockScanner: atomic progress counters readable
// concurrently from the HTTP façade, a background goroutine per run,
// and cooperative cancellation checked at batch and lane-group
// granularity.
type Run struct {
	cfg Config

	isRunning      atomic.Bool
	currentBatch   atomic.Uint64
	seedsEvaluated atomic.Int64
	resultsFound   atomic.Int64
	bestScore      atomic.Int64
	cutoff         atomic.Int64

	front *frontier
	top   *topKTracker

	done chan struct{}
}

// NewRun prepares (but does not start) one search run.
func NewRun(cfg Config) *Run {
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	end := cfg.EndBatch
	if end == 0 {
		end = pow(uint64(Base), uint64(cfg.BatchCharCount))
	}
	cfg.EndBatch = end

	r := &Run{
		cfg:   cfg,
		front: newFrontier(cfg.StartBatch),
		top:   newTopKTracker(1000),
		done:  make(chan struct{}),
	}
	r.cutoff.Store(int64(cfg.Cutoff))
	return r
}

// Progress returns a thread-safe snapshot.
func (r *Run) Progress() Progress {
	return Progress{
		IsRunning:          r.isRunning.Load(),
		CurrentBatch:       r.currentBatch.Load(),
		LastCompletedBatch: r.front.Frontier(),
		SeedsEvaluated:     r.seedsEvaluated.Load(),
		ResultsFound:       r.resultsFound.Load(),
		BestScore:          r.bestScore.Load(),
		CurrentCutoff:      r.cutoff.Load(),
	}
}

// Done returns a channel closed when the run's goroutine exits.
func (r *Run) Done() <-chan struct{} { return r.done }

// Start launches the run in the background. ctx cancellation is the
// only way to stop a run early (spec §4.5, "Cancellation").
func (r *Run) Start(ctx context.Context) {
	if r.isRunning.Swap(true) {
		log.Printf("[Search] run for %s already started, ignoring duplicate Start", r.cfg.FilterID)
		return
	}
	go r.drive(ctx)
}

func (r *Run) drive(ctx context.Context) {
	defer close(r.done)
	defer r.isRunning.Store(false)

	suffixLen := SeedLength - r.cfg.BatchCharCount
	batches := make(chan uint64)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < r.cfg.Threads; w++ {
		g.Go(func() error {
			for b := range batches {
				select {
				case <-gctx.Done():
					return nil
				default:
				}
				r.runBatch(gctx, b, suffixLen)
			}
			return nil
		})
	}

	log.Printf("[Search] starting run filter=%s batches=[%d,%d) threads=%d",
		r.cfg.FilterID, r.cfg.StartBatch, r.cfg.EndBatch, r.cfg.Threads)

feed:
	for b := r.cfg.StartBatch; b < r.cfg.EndBatch; b++ {
		select {
		case <-ctx.Done():
			break feed
		case batches <- b:
		}
	}
	close(batches)
	_ = g.Wait()

	if r.cfg.Checkpoints != nil {
		if err := r.cfg.Checkpoints.Save(context.Background(), r.cfg.FilterID, r.front.Frontier()); err != nil {
			log.Printf("[Search] failed to persist checkpoint for %s: %v", r.cfg.FilterID, err)
		}
	}
	log.Printf("[Search] run %s stopped: evaluated=%d results=%d lastCompletedBatch=%d",
		r.cfg.FilterID, r.seedsEvaluated.Load(), r.resultsFound.Load(), r.front.Frontier())
}

func (r *Run) runBatch(ctx context.Context, b uint64, suffixLen int) {
	r.currentBatch.Store(b)
	prefix := EncodePrefix(b, r.cfg.BatchCharCount)

	total := pow(uint64(Base), uint64(suffixLen))
	groups := total / 8
	if total%8 != 0 {
		groups++
	}

	cutoff := int(r.cutoff.Load())
	for group := uint64(0); group < groups; group++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		seeds := batchLaneSeeds(prefix, suffixLen, group)

		// The last group in a batch may run past `total` when it isn't
		// a multiple of 8; those trailing lanes would otherwise wrap
		// around to duplicate an earlier suffix index.
		validLanes := simd.Lanes
		if remaining := total - group*8; remaining < uint64(simd.Lanes) {
			validLanes = int(remaining)
		}
		var active simd.Mask8
		for lane := 0; lane < validLanes; lane++ {
			active = active.Set(lane, true)
		}

		sc := sim.NewContext(seeds, r.cfg.Deck, r.cfg.Stake)
		ec := clause.NewEvalContext(sc)
		r.cfg.Pipeline.Declare(sc)

		pass, score, tally := r.cfg.Pipeline.Evaluate(ec, active)
		r.seedsEvaluated.Add(int64(validLanes))
		for lane := 0; lane < validLanes; lane++ {
			if !pass.Lane(lane) {
				continue
			}
			if score[lane] < cutoff {
				continue
			}
			r.accept(ctx, seeds[lane], score[lane], tally[lane], r.cfg.Pipeline.Columns)
		}
	}

	if advanced, frontier := r.front.MarkDone(b); advanced && r.cfg.Checkpoints != nil {
		if err := r.cfg.Checkpoints.Save(ctx, r.cfg.FilterID, frontier); err != nil {
			log.Printf("[Search] checkpoint save failed at batch %d: %v", b, err)
		}
	}

	if r.cfg.AutoCutoff {
		if tenth, ok := r.top.NthBest(10); ok {
			newCutoff := int64(tenth - 1)
			if newCutoff > r.cutoff.Load() {
				r.cutoff.Store(newCutoff)
			}
		}
	}
}

// accept records one passing seed. tallyCounts holds one per-clause
// occurrence count, aligned with columns[2:] (columns[0:2] are the
// fixed "seed"/"score" names) — not the aggregate score (spec §3,
// "Result record": "tally has one integer per should clause, its
// contribution count for that seed").
func (r *Run) accept(ctx context.Context, seed string, score int, tallyCounts []uint16, columns []string) {
	tally := make(map[string]int, len(tallyCounts))
	for i, count := range tallyCounts {
		tally[columns[i+2]] = int(count)
	}
	result := Result{Seed: seed, Score: score, Tally: tally}
	r.top.Insert(score)
	r.resultsFound.Add(1)
	for {
		best := r.bestScore.Load()
		if int64(score) <= best {
			break
		}
		if r.bestScore.CompareAndSwap(best, int64(score)) {
			break
		}
	}
	if r.cfg.Sink != nil {
		if err := r.cfg.Sink.Upsert(ctx, r.cfg.FilterID, result); err != nil {
			log.Printf("[Search] sink upsert failed for seed %s: %v", seed, err)
		}
	}
}

func pow(base, exp uint64) uint64 {
	result := uint64(1)
	for i := uint64(0); i < exp; i++ {
		result *= base
	}
	return result
}

// frontier tracks the highest batch index B such that every batch in
// [startBatch, B] has completed, even though batches may finish out of
// order across workers (spec §4.5, "Ordering"; §4.5, "Checkpointing").
type frontier struct {
	mu        sync.Mutex
	next      uint64
	completed map[uint64]bool
}

func newFrontier(start uint64) *frontier {
	return &frontier{next: start, completed: make(map[uint64]bool)}
}

// MarkDone records b as finished and advances the contiguous frontier
// as far as completed batches allow. Returns whether the frontier
// moved and its new value.
func (f *frontier) MarkDone(b uint64) (bool, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed[b] = true
	advanced := false
	for f.completed[f.next] {
		delete(f.completed, f.next)
		f.next++
		advanced = true
	}
	if f.next == 0 {
		return advanced, 0
	}
	return advanced, f.next - 1
}

func (f *frontier) Frontier() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next == 0 {
		return 0
	}
	return f.next - 1
}

// topKTracker keeps a bounded, sorted-descending view of accepted
// scores so autoCutoff can read the current Nth-best score without a
// sink round trip (spec §4.5, "Cutoff adaptation").
type topKTracker struct {
	mu     sync.Mutex
	scores []int
	cap    int
}

func newTopKTracker(cap int) *topKTracker {
	return &topKTracker{cap: cap}
}

func (t *topKTracker) Insert(score int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := 0
	for i < len(t.scores) && t.scores[i] >= score {
		i++
	}
	t.scores = append(t.scores, 0)
	copy(t.scores[i+1:], t.scores[i:])
	t.scores[i] = score
	if len(t.scores) > t.cap {
		t.scores = t.scores[:t.cap]
	}
}

func (t *topKTracker) NthBest(n int) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.scores) < n {
		return 0, false
	}
	return t.scores[n-1], true
}

var _ fmt.Stringer = Progress{}

func (p Progress) String() string {
	return fmt.Sprintf("batch=%d evaluated=%d results=%d best=%d cutoff=%d running=%v",
		p.CurrentBatch, p.SeedsEvaluated, p.ResultsFound, p.BestScore, p.CurrentCutoff, p.IsRunning)
}
