package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seedfinder/balatro/internal/analyze"
	"github.com/seedfinder/balatro/internal/clause"
	"github.com/seedfinder/balatro/internal/filter"
	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/search"
	"github.com/seedfinder/balatro/internal/store"
	"github.com/seedfinder/balatro/pkg/models"
)

// defaultBatchCharCount fixes the HTTP façade's prefix length: it
// trades batch granularity (smaller = more frequent progress/
// checkpoint updates) against per-batch overhead. The CLI's `search`
// command exposes this as --batch-size; the façade picks one value
// for every run rather than accepting it as a request field.
const defaultBatchCharCount = 4

// APIHandler wires the HTTP surface onto the search coordinator and
// its durable store, mirroring the teacher's APIHandler holding the
// scanner/db/wsHub trio.
type APIHandler struct {
	coord *search.Coordinator
	db    *store.PostgresStore
	wsHub *Hub

	mu               sync.Mutex
	currentFilterID  string
	currentFilterTxt string
}

// SetupRouter builds the gin engine: public health/stream endpoints,
// bearer-auth + rate-limited search/analyze endpoints (spec §6, "HTTP
// surface").
func SetupRouter(db *store.PostgresStore, wsHub *Hub, allowedOrigins string) *gin.Engine {
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{
		coord: search.NewCoordinator(),
		db:    db,
		wsHub: wsHub,
	}

	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/stream", wsHub.Subscribe)
	}

	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware())
	// Searches and analyses are CPU-bound, not I/O-bound like the
	// teacher's RPC calls, but the same per-IP guard applies: cap at
	// 30 req/min, burst 5 — weighted per route below so a single search
	// launch can't be followed by 29 more in the same minute.
	rl := NewRateLimiter(30, 5)
	{
		auth.POST("/search", rl.MiddlewareCost(searchStartCost), handler.handleStartSearch)
		auth.GET("/search", rl.MiddlewareCost(statusPollCost), handler.handleSearchStatus)
		auth.POST("/search/stop", rl.MiddlewareCost(statusPollCost), handler.handleStopSearch)
		auth.POST("/analyze", rl.MiddlewareCost(statusPollCost), handler.handleAnalyze)
	}

	return r
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "operational",
		"engine":      "seed-search engine",
		"dbConnected": h.db != nil,
		"activeSearch": h.coord.ActiveID() != "",
	})
}

// handleStartSearch implements `POST /search { filterText }` (spec
// §6): registers (or resumes) the filter's persisted state, replays
// the fertilizer pile for instant hits, and launches the batched
// search in the background.
func (h *APIHandler) handleStartSearch(c *gin.Context) {
	var req models.StartSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var doc filter.Document
	if err := json.Unmarshal([]byte(req.FilterText), &doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filterText is not valid JSON", "details": err.Error()})
		return
	}

	norm, err := filter.Normalize(doc)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid filter document", "details": err.Error()})
		return
	}

	if req.Cutoff == nil && !req.AutoCutoff && !IsExhaustiveModeEnabled() {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "a search with no cutoff and no autoCutoff runs unbounded across the full keyspace",
			"hint":  "set cutoff, set autoCutoff, or enable SEEDFINDER_ENABLE_EXHAUSTIVE=true on the server",
		})
		return
	}

	pipeline := clause.CompilePipeline(filter.Compile(norm))
	filterID := filter.FilterID(norm.Name, string(norm.Deck), string(norm.Stake))

	ctx := c.Request.Context()
	var startBatch uint64
	if h.db != nil {
		if err := h.db.RegisterFilter(ctx, filterID, norm.Name, req.FilterText, string(norm.Deck), string(norm.Stake), defaultBatchCharCount); err != nil {
			log.Printf("[API] failed to register filter %s: %v", filterID, err)
		}
		if last, ok, err := h.db.Load(ctx, filterID); err == nil && ok {
			startBatch = last + 1
		}
	}

	var fertilized []search.Result
	if h.db != nil {
		if candidates, err := h.db.FertilizerCandidates(ctx, 1000); err == nil && len(candidates) > 0 {
			fertilized = search.ReplayFertilizer(pipeline, norm.Deck, norm.Stake, candidates)
			for _, r := range fertilized {
				if err := h.db.Upsert(ctx, filterID, r); err != nil {
					log.Printf("[API] failed to persist fertilized hit for %s: %v", filterID, err)
				}
			}
		}
	}

	threads := req.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	cutoff := 0
	if req.Cutoff != nil {
		cutoff = *req.Cutoff
	}

	cfg := search.Config{
		FilterID:       filterID,
		Pipeline:       pipeline,
		Deck:           norm.Deck,
		Stake:          norm.Stake,
		Threads:        threads,
		BatchCharCount: defaultBatchCharCount,
		StartBatch:     startBatch,
		Cutoff:         cutoff,
		AutoCutoff:     req.AutoCutoff,
	}
	if h.db != nil {
		cfg.Sink = h.db
		cfg.Checkpoints = h.db
	}

	// Spec §5: a new search first cancels and drains whatever search is
	// currently running rather than rejecting the request — the façade
	// enforces this by calling StopRunning() before Start().
	h.coord.StopRunning()
	searchID, err := h.coord.Start(context.Background(), cfg)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.currentFilterID = filterID
	h.currentFilterTxt = req.FilterText
	h.mu.Unlock()

	go h.tickSpeed(searchID)

	c.JSON(http.StatusOK, models.StartSearchResponse{
		SearchID:       searchID,
		FertilizedHits: toModelResults(fertilized),
	})
}

// handleSearchStatus implements `GET /search?id=...`.
func (h *APIHandler) handleSearchStatus(c *gin.Context) {
	id := c.Query("id")
	progress, ok := h.coord.Status(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active search with that id"})
		return
	}

	h.mu.Lock()
	filterID, filterTxt := h.currentFilterID, h.currentFilterTxt
	h.mu.Unlock()

	status := models.SearchStatus{
		SearchID:           id,
		FilterText:         filterTxt,
		IsRunning:          progress.IsRunning,
		CurrentBatch:       progress.CurrentBatch,
		LastCompletedBatch: progress.LastCompletedBatch,
		SeedsEvaluated:     progress.SeedsEvaluated,
		ResultsFound:       progress.ResultsFound,
		BestScore:          progress.BestScore,
		CurrentCutoff:      progress.CurrentCutoff,
	}
	if h.db != nil && filterID != "" {
		if results, err := h.db.TopResults(c.Request.Context(), filterID, 1000); err == nil {
			status.TopResults = toModelResults(results)
		}
	}
	c.JSON(http.StatusOK, status)
}

// handleStopSearch implements `POST /search/stop { searchId }`.
func (h *APIHandler) handleStopSearch(c *gin.Context) {
	var req models.StopSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.coord.Stop(req.SearchID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stopping"})
}

// handleAnalyze implements `POST /analyze { seed, deck, stake }`.
func (h *APIHandler) handleAnalyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	canonical, ok := canonicalSeedOrEmpty(req.Seed)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seed: must be 8 characters from the seed alphabet"})
		return
	}
	deck := game.DeckRed
	if req.Deck != "" {
		deck = game.Deck(req.Deck)
	}
	stake := game.StakeWhite
	if req.Stake != "" {
		stake = game.Stake(req.Stake)
	}
	c.JSON(http.StatusOK, analyze.Seed(canonical, deck, stake))
}

// tickSpeed broadcasts a periodic seeds/sec + best-score telemetry
// frame over the websocket hub every 2 seconds while a search is
// running, and on any tick that sees the best score improve since the
// previous tick also pushes a separate new-top-result frame (spec §4, "Live
// search telemetry": "broadcast-on-new-top-result and a periodic speed
// tick"), grounded on the teacher's StreamPayload/CoinJoinAlert
// broadcast-on-detection pattern.
func (h *APIHandler) tickSpeed(searchID string) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	var lastEvaluated int64
	var lastBestScore int64 = -1
	lastTick := time.Now()
	for range ticker.C {
		progress, ok := h.coord.Status(searchID)
		if !ok {
			return
		}
		now := time.Now()
		elapsed := now.Sub(lastTick).Seconds()
		var rate float64
		if elapsed > 0 {
			rate = float64(progress.SeedsEvaluated-lastEvaluated) / elapsed
		}
		lastEvaluated = progress.SeedsEvaluated
		lastTick = now

		h.wsHub.BroadcastFrame(SearchProgressFrame{
			Type:           FrameSearchProgress,
			SearchID:       searchID,
			SeedsPerSecond: rate,
			CurrentBatch:   progress.CurrentBatch,
			BestScore:      progress.BestScore,
			ResultsFound:   progress.ResultsFound,
		})

		if progress.BestScore > lastBestScore {
			lastBestScore = progress.BestScore
			h.broadcastNewTopResult(searchID)
		}
		if !progress.IsRunning {
			return
		}
	}
}

// broadcastNewTopResult looks up the current best result for the
// running search's filter and pushes it as a NewTopResultFrame. A miss
// (no store, or a race where the leaderboard hasn't caught up yet) is
// silently skipped — the next periodic tick will retry once the sink
// settles.
func (h *APIHandler) broadcastNewTopResult(searchID string) {
	if h.db == nil {
		return
	}
	h.mu.Lock()
	filterID := h.currentFilterID
	h.mu.Unlock()
	if filterID == "" {
		return
	}
	top, err := h.db.TopResults(context.Background(), filterID, 1)
	if err != nil || len(top) == 0 {
		return
	}
	h.wsHub.BroadcastFrame(NewTopResultFrame{
		Type:     FrameNewTopResult,
		SearchID: searchID,
		Result:   models.Result{Seed: top[0].Seed, Score: top[0].Score, Tally: top[0].Tally},
	})
}

func toModelResults(in []search.Result) []models.Result {
	out := make([]models.Result, 0, len(in))
	for _, r := range in {
		out = append(out, models.Result{Seed: r.Seed, Score: r.Score, Tally: r.Tally})
	}
	return out
}
