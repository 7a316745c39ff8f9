// Package repository provides data access for the historical situation corpus.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/diamond-tactics/internal/models"
)

// SituationRepository defines the interface for historical situation data access
type SituationRepository interface {
	Create(ctx context.Context, situation *models.HistoricalSituation) error
	CreateBatch(ctx context.Context, situations []*models.HistoricalSituation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.HistoricalSituation, error)
	GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.HistoricalSituation, error)
	// FindSimilar returns situations with the exact inning and outs whose
	// pressure index lies within the window around pressure.
	FindSimilar(ctx context.Context, inning, outs int, pressure, window float64) ([]*models.HistoricalSituation, error)
}
