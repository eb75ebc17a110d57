package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Coordinator holds at most one active search, mirroring the teacher's
// APIHandler holding a single *scanner.BlockScanner (spec §6,
// "Concurrency: at most one active search").
type Coordinator struct {
	mu       sync.Mutex
	active   *Run
	searchID string
	cancel   context.CancelFunc
}

// NewCoordinator returns an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Start begins a new run, returning its generated search ID. Start
// itself refuses to clobber a run still in flight — callers that want
// the spec §5 "a new search displaces the running one" behavior call
// StopRunning() first (the HTTP façade does this on every POST /search,
// see handleStartSearch).
func (c *Coordinator) Start(parent context.Context, cfg Config) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil && c.active.Progress().IsRunning {
		return "", fmt.Errorf("search: a run is already active (id=%s)", c.searchID)
	}

	ctx, cancel := context.WithCancel(parent)
	run := NewRun(cfg)
	id := uuid.NewString()

	c.active = run
	c.searchID = id
	c.cancel = cancel

	run.Start(ctx)
	return id, nil
}

// StopRunning cancels and drains whatever search is currently active,
// regardless of its ID, blocking until its goroutine has fully exited.
// A no-op if nothing is active.
func (c *Coordinator) StopRunning() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopActiveLocked()
}

// stopActiveLocked cancels and drains c.active. Callers must hold mu.
func (c *Coordinator) stopActiveLocked() {
	if c.active == nil {
		return
	}
	c.cancel()
	<-c.active.Done()
	c.active = nil
	c.searchID = ""
	c.cancel = nil
}

// Stop cancels the active run if its ID matches, per spec's
// `POST /search/stop { searchId }`. Unlike StopRunning, it does not
// block for drain: the endpoint reports "stopping" and the client polls
// GET /search for IsRunning to go false.
func (c *Coordinator) Stop(searchID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil || c.searchID != searchID {
		return fmt.Errorf("search: no active run with id %s", searchID)
	}
	c.cancel()
	return nil
}

// Status returns the active run's progress and ID, or ok=false if none.
func (c *Coordinator) Status(searchID string) (Progress, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil || c.searchID != searchID {
		return Progress{}, false
	}
	return c.active.Progress(), true
}

// ActiveID returns the current search ID, or "" if none is running.
func (c *Coordinator) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil || !c.active.Progress().IsRunning {
		return ""
	}
	return c.searchID
}
