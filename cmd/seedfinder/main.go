// Command seedfinder is the CLI entrypoint: search, analyze, and serve
// subcommands over the seed-search engine (spec §6, "CLI surface").
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/seedfinder/balatro/internal/analyze"
	"github.com/seedfinder/balatro/internal/api"
	"github.com/seedfinder/balatro/internal/clause"
	"github.com/seedfinder/balatro/internal/config"
	"github.com/seedfinder/balatro/internal/filter"
	"github.com/seedfinder/balatro/internal/game"
	"github.com/seedfinder/balatro/internal/search"
	"github.com/seedfinder/balatro/internal/store"
)

// Exit codes (spec §6, "CLI surface").
const (
	exitSuccess         = 0
	exitInternalError   = 1
	exitInvalidArgument = 2
	exitInvalidFilter   = 3
	exitCancelled       = 4
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: seedfinder <search|analyze|serve> [flags]")
		os.Exit(exitInvalidArgument)
	}

	var code int
	switch os.Args[1] {
	case "search":
		code = runSearch(os.Args[2:])
	case "analyze":
		code = runAnalyze(os.Args[2:])
	case "serve":
		code = runServe(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		code = exitInvalidArgument
	}
	os.Exit(code)
}

func runSearch(args []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	filterPath := fs.String("filter", "", "path to a filter document (JSON)")
	threads := fs.Int("threads", runtime.NumCPU(), "worker thread count")
	batchSize := fs.Int("batch-size", 4, "prefix character count L")
	startBatch := fs.Uint64("start-batch", 0, "first batch index (overridden by a saved checkpoint if --resume)")
	endBatch := fs.Uint64("end-batch", 0, "exclusive final batch index (0 means Base^L)")
	cutoffFlag := fs.String("cutoff", "0", "minimum should-score to accept, or \"auto\"")
	deckFlag := fs.String("deck", "", "deck enum")
	stakeFlag := fs.String("stake", "", "stake enum")
	resume := fs.Bool("resume", true, "resume from the persisted checkpoint for this filter")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgument
	}
	if *filterPath == "" {
		fmt.Fprintln(os.Stderr, "search: --filter is required")
		return exitInvalidArgument
	}

	raw, err := os.ReadFile(*filterPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: failed to read filter file: %v\n", err)
		return exitInvalidArgument
	}
	var doc filter.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "search: filter file is not valid JSON: %v\n", err)
		return exitInvalidFilter
	}
	if *deckFlag != "" {
		doc.Deck = *deckFlag
	}
	if *stakeFlag != "" {
		doc.Stake = *stakeFlag
	}

	norm, err := filter.Normalize(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: invalid filter document: %v\n", err)
		return exitInvalidFilter
	}
	pipeline := clause.CompilePipeline(filter.Compile(norm))
	filterID := filter.FilterID(norm.Name, string(norm.Deck), string(norm.Stake))

	cutoff, autoCutoff := 0, false
	if *cutoffFlag == "auto" {
		autoCutoff = true
	} else if n, err := strconv.Atoi(*cutoffFlag); err == nil {
		cutoff = n
	} else {
		fmt.Fprintf(os.Stderr, "search: --cutoff must be an integer or \"auto\"\n")
		return exitInvalidArgument
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := search.Config{
		FilterID:       filterID,
		Pipeline:       pipeline,
		Deck:           norm.Deck,
		Stake:          norm.Stake,
		Threads:        *threads,
		BatchCharCount: *batchSize,
		StartBatch:     *startBatch,
		EndBatch:       *endBatch,
		Cutoff:         cutoff,
		AutoCutoff:     autoCutoff,
	}

	db, err := connectStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: %v\n", err)
		return exitInternalError
	}
	if db != nil {
		defer db.Close()
		if err := db.RegisterFilter(ctx, filterID, norm.Name, string(raw), string(norm.Deck), string(norm.Stake), *batchSize); err != nil {
			fmt.Fprintf(os.Stderr, "search: failed to register filter: %v\n", err)
		}
		if *resume {
			if last, ok, err := db.Load(ctx, filterID); err == nil && ok {
				cfg.StartBatch = last + 1
			}
		}
		cfg.Sink = db
		cfg.Checkpoints = db
	}

	run := search.NewRun(cfg)
	run.Start(ctx)
	<-run.Done()

	progress := run.Progress()
	fmt.Printf("search complete: evaluated=%d results=%d best=%d lastCompletedBatch=%d\n",
		progress.SeedsEvaluated, progress.ResultsFound, progress.BestScore, progress.LastCompletedBatch)

	if ctx.Err() != nil {
		return exitCancelled
	}
	return exitSuccess
}

func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	deckFlag := fs.String("deck", string(game.DeckRed), "deck enum")
	stakeFlag := fs.String("stake", string(game.StakeWhite), "stake enum")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgument
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: seedfinder analyze <seed> [--deck] [--stake]")
		return exitInvalidArgument
	}

	canonical, ok := search.Canonicalize(fs.Arg(0))
	if !ok {
		fmt.Fprintln(os.Stderr, "analyze: invalid seed: must be 8 characters from the seed alphabet")
		return exitInvalidArgument
	}

	result := analyze.Seed(canonical, game.Deck(*deckFlag), game.Stake(*stakeFlag))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: failed to encode result: %v\n", err)
		return exitInternalError
	}
	return exitSuccess
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	host := fs.String("host", "", "bind host (overrides SEEDFINDER_HOST)")
	port := fs.String("port", "", "bind port (overrides SEEDFINDER_PORT)")
	if err := fs.Parse(args); err != nil {
		return exitInvalidArgument
	}

	cfg := config.Load()
	if *host != "" {
		cfg.Host = *host
	}
	if *port != "" {
		cfg.Port = *port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		return exitInternalError
	}
	defer db.Close()
	if err := db.InitSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "serve: failed to init schema: %v\n", err)
		return exitInternalError
	}

	wsHub := api.NewHub()
	go wsHub.Run()

	router := api.SetupRouter(db, wsHub, cfg.AllowedOrigins)
	fmt.Printf("seedfinder engine listening on %s\n", cfg.Addr())
	if err := router.Run(cfg.Addr()); err != nil {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		return exitInternalError
	}
	return exitSuccess
}

// connectStore opens the result sink/checkpoint store if
// SEEDFINDER_DATABASE_URL is configured; search runs without one are
// still useful for a quick unsaved scan.
func connectStore(ctx context.Context) (*store.PostgresStore, error) {
	url := os.Getenv("SEEDFINDER_DATABASE_URL")
	if url == "" {
		return nil, nil
	}
	db, err := store.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
