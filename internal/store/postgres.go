// Package store is the Postgres-backed result sink, checkpoint store,
// and fertilizer pile behind internal/search's Sink and Checkpointer
// interfaces (spec §4.6, §6 "Persisted state layout"). It is grounded
// on the teacher's internal/db.PostgresStore: a pgxpool connection, a
// schema file loaded at startup, and transactional upserts.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seedfinder/balatro/internal/search"
)

// PostgresStore is the durable backing for one engine instance's
// search_state, results, and seeds (fertilizer pile) tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect opens the pool and verifies connectivity, the way the
// teacher's db.Connect does.
func Connect(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("store: unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("store: ping failed: %w", err)
	}
	log.Println("[Store] connected to PostgreSQL for seed-search engine")
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema loads and executes schema.sql, mirroring the teacher's
// PostgresStore.InitSchema.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schemaBytes, err := os.ReadFile("internal/store/schema.sql")
	if err != nil {
		return fmt.Errorf("store: failed to read schema file: %w", err)
	}
	if _, err := s.pool.Exec(ctx, string(schemaBytes)); err != nil {
		return fmt.Errorf("store: failed to execute schema migrations: %w", err)
	}
	log.Println("[Store] seed-search schema initialized")
	return nil
}

// RegisterFilter inserts or refreshes a search_state row for filterID.
// If filterText differs from the stored value, the prior results and
// last_completed_batch are cleared first (spec §8, "Filter-change
// invalidation"), after salvaging its top rows to the fertilizer pile.
func (s *PostgresStore) RegisterFilter(ctx context.Context, filterID, filterName, filterText, deck, stake string, batchSize int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existingText string
	err = tx.QueryRow(ctx, `SELECT filter_text FROM search_state WHERE filter_id = $1`, filterID).Scan(&existingText)
	switch {
	case err == nil && existingText != filterText:
		if err := salvageToFertilizerTx(ctx, tx, filterID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM results WHERE filter_id = $1`, filterID); err != nil {
			return fmt.Errorf("store: failed to clear stale results: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE search_state
			SET filter_name = $2, filter_text = $3, deck = $4, stake = $5, batch_size = $6,
			    last_completed_batch = 0, updated_at = NOW()
			WHERE filter_id = $1`,
			filterID, filterName, filterText, deck, stake, batchSize); err != nil {
			return fmt.Errorf("store: failed to reset invalidated filter state: %w", err)
		}
	case err == nil:
		// Unchanged filter text: leave last_completed_batch and results alone.
	default:
		if _, err := tx.Exec(ctx, `
			INSERT INTO search_state (filter_id, filter_name, filter_text, deck, stake, batch_size, last_completed_batch)
			VALUES ($1, $2, $3, $4, $5, $6, 0)`,
			filterID, filterName, filterText, deck, stake, batchSize); err != nil {
			return fmt.Errorf("store: failed to register filter: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// salvageToFertilizerTx copies a filter's current results into the
// fertilizer pile before they are discarded by invalidation (spec §8,
// "Filter-change invalidation": "salvaged seeds are pushed to the
// fertilizer pile").
func salvageToFertilizerTx(ctx context.Context, tx pgx.Tx, filterID string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO seeds (seed, first_seen_filter, score)
		SELECT seed, filter_id, score FROM results WHERE filter_id = $1
		ON CONFLICT (seed) DO UPDATE SET score = EXCLUDED.score
		WHERE seeds.score < EXCLUDED.score`, filterID)
	if err != nil {
		return fmt.Errorf("store: failed to salvage results to fertilizer pile: %w", err)
	}
	return nil
}

// Upsert implements search.Sink. Higher score wins on conflict; the
// table is capped at 1000 rows per filter by dropping the lowest score
// once the cap is exceeded (spec §4.6, "Result sink").
func (s *PostgresStore) Upsert(ctx context.Context, filterID string, r search.Result) error {
	tally, err := json.Marshal(r.Tally)
	if err != nil {
		return fmt.Errorf("store: failed to marshal tally: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO results (filter_id, seed, score, tally)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (filter_id, seed) DO UPDATE
		SET score = EXCLUDED.score, tally = EXCLUDED.tally, found_at = NOW()
		WHERE results.score < EXCLUDED.score`,
		filterID, r.Seed, r.Score, tally); err != nil {
		return fmt.Errorf("store: failed to upsert result: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM results
		WHERE filter_id = $1 AND seed NOT IN (
			SELECT seed FROM results WHERE filter_id = $1
			ORDER BY score DESC, seed ASC LIMIT 1000
		)`, filterID); err != nil {
		return fmt.Errorf("store: failed to trim result table: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO seeds (seed, first_seen_filter, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (seed) DO UPDATE SET score = EXCLUDED.score
		WHERE seeds.score < EXCLUDED.score`,
		r.Seed, filterID, r.Score); err != nil {
		return fmt.Errorf("store: failed to upsert into fertilizer pile: %w", err)
	}

	return tx.Commit(ctx)
}

// Load implements search.Checkpointer.
func (s *PostgresStore) Load(ctx context.Context, filterID string) (uint64, bool, error) {
	var last int64
	err := s.pool.QueryRow(ctx, `SELECT last_completed_batch FROM search_state WHERE filter_id = $1`, filterID).Scan(&last)
	if err != nil {
		return 0, false, nil
	}
	return uint64(last), true, nil
}

// Save implements search.Checkpointer.
func (s *PostgresStore) Save(ctx context.Context, filterID string, lastCompletedBatch uint64) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE search_state SET last_completed_batch = $2, updated_at = NOW()
		WHERE filter_id = $1`, filterID, int64(lastCompletedBatch))
	if err != nil {
		return fmt.Errorf("store: failed to persist checkpoint: %w", err)
	}
	return nil
}

// TopResults returns up to limit rows for filterID, best score first,
// for the `GET /search?id=...` response.
func (s *PostgresStore) TopResults(ctx context.Context, filterID string, limit int) ([]search.Result, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT seed, score, tally FROM results
		WHERE filter_id = $1 ORDER BY score DESC, seed ASC LIMIT $2`, filterID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: failed to query top results: %w", err)
	}
	defer rows.Close()

	var out []search.Result
	for rows.Next() {
		var r search.Result
		var tally []byte
		if err := rows.Scan(&r.Seed, &r.Score, &tally); err != nil {
			return nil, err
		}
		if len(tally) > 0 {
			if err := json.Unmarshal(tally, &r.Tally); err != nil {
				return nil, fmt.Errorf("store: failed to unmarshal tally for seed %s: %w", r.Seed, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FertilizerCandidates returns up to limit seed strings from the
// fertilizer pile, best score first, for a new search's instant-hit
// replay pass (spec §8, "Fertilizer replay").
func (s *PostgresStore) FertilizerCandidates(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT seed FROM seeds ORDER BY score DESC, seed ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: failed to query fertilizer pile: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var seed string
		if err := rows.Scan(&seed); err != nil {
			return nil, err
		}
		out = append(out, seed)
	}
	return out, rows.Err()
}
