package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/seedfinder/balatro/internal/clause"
	"github.com/seedfinder/balatro/internal/filter"
	"github.com/seedfinder/balatro/internal/game"
)

type memSink struct {
	mu      sync.Mutex
	results map[string]Result
}

func newMemSink() *memSink { return &memSink{results: make(map[string]Result)} }

func (m *memSink) Upsert(ctx context.Context, filterID string, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.results[r.Seed]; ok && existing.Score >= r.Score {
		return nil
	}
	m.results[r.Seed] = r
	return nil
}

func (m *memSink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

func buildTestPipeline(t *testing.T) *clause.Pipeline {
	t.Helper()
	doc, err := filter.Normalize(filter.Document{
		Should: []filter.RawClause{{Voucher: "Overstock", Antes: []int{1}}},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return clause.CompilePipeline(filter.Compile(doc))
}

func TestRunEvaluatesAllSeedsInRange(t *testing.T) {
	sink := newMemSink()
	cfg := Config{
		FilterID:       "t1",
		Pipeline:       buildTestPipeline(t),
		Deck:           game.DeckRed,
		Stake:          game.StakeWhite,
		Threads:        2,
		BatchCharCount: 7, // prefix fixes 7 of 8 chars, 1 free char = Base suffixes
		StartBatch:     0,
		EndBatch:       2,
		Cutoff:         0,
	}
	r := NewRun(cfg)
	r.cfg.Sink = sink
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r.Start(ctx)
	<-r.Done()

	want := int64(2 * Base)
	if got := r.Progress().SeedsEvaluated; got != want {
		t.Fatalf("expected %d seeds evaluated across 2 batches of %d suffixes, got %d", want, Base, got)
	}
	if r.Progress().LastCompletedBatch != 1 {
		t.Fatalf("expected frontier to reach batch 1, got %d", r.Progress().LastCompletedBatch)
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	sink := newMemSink()
	cfg := Config{
		FilterID:       "t2",
		Pipeline:       buildTestPipeline(t),
		Deck:           game.DeckRed,
		Stake:          game.StakeWhite,
		Threads:        1,
		BatchCharCount: 5,
		StartBatch:     0,
		EndBatch:       pow(uint64(Base), 5),
	}
	r := NewRun(cfg)
	r.cfg.Sink = sink
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()
	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop promptly after cancellation")
	}
}

// TestCoordinatorRejectsConcurrentStart pins Start's own guard: it
// refuses to clobber a run still in flight unless a caller explicitly
// drains the old one first (see TestStopRunningDrainsThenStartDisplaces
// for that displacement path, which is what the HTTP façade uses).
func TestCoordinatorRejectsConcurrentStart(t *testing.T) {
	co := NewCoordinator()
	cfg := Config{
		FilterID:       "t3",
		Pipeline:       buildTestPipeline(t),
		Deck:           game.DeckRed,
		Stake:          game.StakeWhite,
		Threads:        1,
		BatchCharCount: 5,
		StartBatch:     0,
		EndBatch:       pow(uint64(Base), 5),
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	id, err := co.Start(ctx, cfg)
	if err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if _, err := co.Start(ctx, cfg); err == nil {
		t.Fatal("expected second concurrent Start to be rejected")
	}
	if err := co.Stop(id); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

// TestStopRunningDrainsThenStartDisplaces pins spec §5: "starting a new
// search first cancels and drains the running one." StopRunning must
// block until the prior run's goroutine has fully exited (Done()
// closed) so the coordinator never holds two active runs, even for an
// instant, and Start immediately afterward always succeeds.
func TestStopRunningDrainsThenStartDisplaces(t *testing.T) {
	co := NewCoordinator()
	longCfg := Config{
		FilterID:       "long",
		Pipeline:       buildTestPipeline(t),
		Deck:           game.DeckRed,
		Stake:          game.StakeWhite,
		Threads:        1,
		BatchCharCount: 5,
		StartBatch:     0,
		EndBatch:       pow(uint64(Base), 5),
	}
	firstID, err := co.Start(context.Background(), longCfg)
	if err != nil {
		t.Fatalf("first Start: %v", err)
	}

	co.StopRunning()

	if _, ok := co.Status(firstID); ok {
		t.Fatal("first run's status still visible after StopRunning drained it")
	}

	shortCfg := Config{
		FilterID:       "short",
		Pipeline:       buildTestPipeline(t),
		Deck:           game.DeckRed,
		Stake:          game.StakeWhite,
		Threads:        1,
		BatchCharCount: 8,
		StartBatch:     0,
		EndBatch:       1,
	}
	secondID, err := co.Start(context.Background(), shortCfg)
	if err != nil {
		t.Fatalf("Start after StopRunning should succeed, got: %v", err)
	}
	if secondID == firstID {
		t.Fatal("expected a fresh search ID for the displacing run")
	}
	if err := co.Stop(secondID); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
