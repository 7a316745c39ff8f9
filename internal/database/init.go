package database

import (
	"context"
	"fmt"

	"github.com/yourusername/diamond-tactics/internal/config"
)

// schema is the corpus DDL, applied idempotently on startup. The filtered
// index mirrors the enhancer's similarity query (exact inning/outs plus a
// pressure window).
const schema = `
CREATE TABLE IF NOT EXISTS game_situations (
    id             UUID PRIMARY KEY,
    game_id        UUID NOT NULL,
    inning         INTEGER NOT NULL,
    outs           INTEGER NOT NULL,
    pressure_index DOUBLE PRECISION NOT NULL,
    tactic         TEXT NOT NULL,
    success        BOOLEAN NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_game_situations_similarity
    ON game_situations (inning, outs, pressure_index);
CREATE INDEX IF NOT EXISTS idx_game_situations_game
    ON game_situations (game_id);
`

// Initialize creates a database connection pool and applies the corpus schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply corpus schema: %w", err)
	}

	return db, nil
}
