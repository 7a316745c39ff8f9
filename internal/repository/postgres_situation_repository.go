package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/diamond-tactics/internal/database"
	"github.com/yourusername/diamond-tactics/internal/models"
)

// PostgresSituationRepository implements SituationRepository for PostgreSQL
type PostgresSituationRepository struct {
	db *database.DB
}

// NewPostgresSituationRepository creates a new situation repository
func NewPostgresSituationRepository(db *database.DB) SituationRepository {
	return &PostgresSituationRepository{db: db}
}

// Create inserts a new historical situation
func (r *PostgresSituationRepository) Create(ctx context.Context, situation *models.HistoricalSituation) error {
	query := `
		INSERT INTO game_situations (id, game_id, inning, outs, pressure_index, tactic, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if situation.ID == uuid.Nil {
		situation.ID = uuid.New()
	}

	_, err := r.db.GetPool().Exec(ctx, query,
		situation.ID, situation.GameID, situation.Inning, situation.Outs,
		situation.PressureIndex, situation.Tactic, situation.Success, situation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create situation: %w", err)
	}

	return nil
}

// CreateBatch inserts situations in a single batch round trip
func (r *PostgresSituationRepository) CreateBatch(ctx context.Context, situations []*models.HistoricalSituation) error {
	if len(situations) == 0 {
		return nil
	}

	query := `
		INSERT INTO game_situations (id, game_id, inning, outs, pressure_index, tactic, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, situation := range situations {
		if situation.ID == uuid.Nil {
			situation.ID = uuid.New()
		}
		batch.Queue(query,
			situation.ID, situation.GameID, situation.Inning, situation.Outs,
			situation.PressureIndex, situation.Tactic, situation.Success, situation.CreatedAt,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range situations {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to batch insert situations: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a situation by ID
func (r *PostgresSituationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HistoricalSituation, error) {
	query := `
		SELECT id, game_id, inning, outs, pressure_index, tactic, success, created_at
		FROM game_situations WHERE id = $1
	`

	situation := &models.HistoricalSituation{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&situation.ID, &situation.GameID, &situation.Inning, &situation.Outs,
		&situation.PressureIndex, &situation.Tactic, &situation.Success, &situation.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get situation: %w", err)
	}

	return situation, nil
}

// GetByGameID retrieves all situations recorded for a game
func (r *PostgresSituationRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.HistoricalSituation, error) {
	query := `
		SELECT id, game_id, inning, outs, pressure_index, tactic, success, created_at
		FROM game_situations
		WHERE game_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.GetPool().Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query situations by game: %w", err)
	}
	defer rows.Close()

	return scanSituations(rows)
}

// FindSimilar retrieves situations matching inning and outs exactly with the
// pressure index inside the window.
func (r *PostgresSituationRepository) FindSimilar(ctx context.Context, inning, outs int, pressure, window float64) ([]*models.HistoricalSituation, error) {
	query := `
		SELECT id, game_id, inning, outs, pressure_index, tactic, success, created_at
		FROM game_situations
		WHERE inning = $1 AND outs = $2 AND pressure_index > $3 AND pressure_index < $4
		ORDER BY created_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, inning, outs, pressure-window, pressure+window)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar situations: %w", err)
	}
	defer rows.Close()

	return scanSituations(rows)
}

func scanSituations(rows pgx.Rows) ([]*models.HistoricalSituation, error) {
	var situations []*models.HistoricalSituation
	for rows.Next() {
		situation := &models.HistoricalSituation{}
		err := rows.Scan(
			&situation.ID, &situation.GameID, &situation.Inning, &situation.Outs,
			&situation.PressureIndex, &situation.Tactic, &situation.Success, &situation.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan situation: %w", err)
		}
		situations = append(situations, situation)
	}
	return situations, rows.Err()
}
