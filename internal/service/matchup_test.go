package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/diamond-tactics/internal/models"
)

type stubStats struct {
	batter  *models.BatterStats
	pitcher *models.PitcherStats
	matchup *models.MatchupStats
}

func (s *stubStats) BatterStats(ctx context.Context, playerID int) (*models.BatterStats, error) {
	return s.batter, nil
}

func (s *stubStats) PitcherStats(ctx context.Context, playerID int) (*models.PitcherStats, error) {
	return s.pitcher, nil
}

func (s *stubStats) MatchupHistory(ctx context.Context, batterID, pitcherID int) (*models.MatchupStats, error) {
	return s.matchup, nil
}

func TestMatchupAdvantageBatter(t *testing.T) {
	svc := NewMatchupService(&stubStats{
		batter:  &models.BatterStats{OPS: 0.950, SLG: 0.560},
		pitcher: &models.PitcherStats{ERA: 5.10, BBPer9: 4.5},
		matchup: &models.MatchupStats{},
	}, nil)

	analysis, err := svc.Analyze(context.Background(), models.Matchup{BatterID: 1, PitcherID: 2})
	require.NoError(t, err)

	assert.Equal(t, AdvantageBatter, analysis.Advantage)

	require.Len(t, analysis.KeyFactors, 1)
	assert.Equal(t, "power_threat", analysis.KeyFactors[0].Factor)

	require.Len(t, analysis.Recommendations, 2)
	assert.Equal(t, "aggressive_hitting", analysis.Recommendations[0].Tactic)
	assert.Equal(t, "patient_hitting", analysis.Recommendations[1].Tactic)
}

func TestMatchupAdvantagePitcher(t *testing.T) {
	svc := NewMatchupService(&stubStats{
		batter:  &models.BatterStats{OPS: 0.620},
		pitcher: &models.PitcherStats{ERA: 2.80, KPer9: 10.5},
		matchup: &models.MatchupStats{},
	}, nil)

	analysis, err := svc.Analyze(context.Background(), models.Matchup{BatterID: 1, PitcherID: 2})
	require.NoError(t, err)

	assert.Equal(t, AdvantagePitcher, analysis.Advantage)
	require.Len(t, analysis.KeyFactors, 1)
	assert.Equal(t, "strikeout_pitcher", analysis.KeyFactors[0].Factor)
	assert.Empty(t, analysis.Recommendations)
}

func TestMatchupAdvantageNeutral(t *testing.T) {
	svc := NewMatchupService(&stubStats{
		batter:  &models.BatterStats{OPS: 0.750},
		pitcher: &models.PitcherStats{ERA: 4.00},
		matchup: &models.MatchupStats{},
	}, nil)

	analysis, err := svc.Analyze(context.Background(), models.Matchup{BatterID: 1, PitcherID: 2})
	require.NoError(t, err)
	assert.Equal(t, AdvantageNeutral, analysis.Advantage)
}

func TestMatchupUnknownPitcherIsNeverAnAdvantage(t *testing.T) {
	// A zero ERA means no data, not a dominant pitcher.
	svc := NewMatchupService(&stubStats{
		batter:  &models.BatterStats{OPS: 0.500},
		pitcher: &models.PitcherStats{},
		matchup: &models.MatchupStats{},
	}, nil)

	analysis, err := svc.Analyze(context.Background(), models.Matchup{BatterID: 1, PitcherID: 2})
	require.NoError(t, err)
	assert.Equal(t, AdvantageNeutral, analysis.Advantage)
}
