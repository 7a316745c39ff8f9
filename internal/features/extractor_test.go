package features

import (
	"context"
	"errors"
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

func validPlay() models.Play {
	return models.Play{
		Inning:     8,
		HalfInning: models.HalfTop,
		Result:     "Single",
		Outs:       2,
		Balls:      1,
		Strikes:    2,
		ScoreHome:  2,
		ScoreAway:  3,
	}
}

func TestValidatePlayRejectsMalformedPlays(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.Play)
	}{
		{"zero inning", func(p *models.Play) { p.Inning = 0 }},
		{"bad half inning", func(p *models.Play) { p.HalfInning = "middle" }},
		{"too many outs", func(p *models.Play) { p.Outs = 4 }},
		{"negative balls", func(p *models.Play) { p.Balls = -1 }},
		{"too many strikes", func(p *models.Play) { p.Strikes = 4 }},
		{"missing result", func(p *models.Play) { p.Result = "" }},
		{"negative score", func(p *models.Play) { p.ScoreAway = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			play := validPlay()
			tc.mutate(&play)
			err := validatePlay(play)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrMalformedPlay))
		})
	}
}

func TestExtractAllFiltersUnknownActions(t *testing.T) {
	e := NewExtractor(nil, nil, nil)

	known := validPlay()
	unknown := validPlay()
	unknown.Result = "Balk"

	situations, err := e.ExtractAll(context.Background(), []models.Play{known, unknown, known})
	require.NoError(t, err)
	assert.Len(t, situations, 2)
}

func TestExtractAllFailsOnMalformedPlay(t *testing.T) {
	e := NewExtractor(nil, nil, nil)

	bad := validPlay()
	bad.Inning = 0

	_, err := e.ExtractAll(context.Background(), []models.Play{bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMalformedPlay))
}

func TestExtractDerivedMetrics(t *testing.T) {
	e := NewExtractor(nil, nil, nil)

	play := validPlay()
	play.Runners = []models.RunnerMovement{
		{Start: models.BaseSecond, End: models.BaseScore},
	}

	s, err := e.Extract(context.Background(), play)
	require.NoError(t, err)

	// Late inning, two outs, runner in scoring position: the raw pressure
	// 1.5 * 1.4 * 1.3 = 2.73 caps at 2.0.
	assert.InDelta(t, 2.0, s.PressureIndex, 1e-9)
	assert.InDelta(t, (8.0-1+2.0/3)/9, s.GameStage, 1e-9)
	assert.InDelta(t, 1*0.5*(1.0/3), s.RunExpectancy, 1e-9)
	// Close game doubles leverage, late stage adds half again, capped at 3.
	assert.InDelta(t, 3.0, s.LeverageIndex, 1e-9)

	assert.Equal(t, 1, s.ScoreDiff)
	assert.True(t, s.CloseGame)
	assert.True(t, s.ScoringPosition)
	assert.True(t, s.RunnerOnSecond)
	assert.Equal(t, 1, s.RunsScored)
	assert.Equal(t, 1, s.NumRunners)

	assert.InDelta(t, 1.0/4*(1-2.0/3), s.CountLeverage, 1e-9)
}

func TestExtractIsDeterministic(t *testing.T) {
	e := NewExtractor(nil, nil, nil)
	play := validPlay()

	first, err := e.Extract(context.Background(), play)
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), play)
	require.NoError(t, err)

	assert.Equal(t, first.FeatureMap(), second.FeatureMap())
}

func TestExtractMergesPlayerStats(t *testing.T) {
	stats := &stubStats{
		batter:  &models.BatterStats{AVG: 0.310, OPS: 0.880},
		pitcher: &models.PitcherStats{ERA: 3.20, KPer9: 9.8},
		matchup: &models.MatchupStats{AtBats: 12, OPS: 0.700},
	}
	e := NewExtractor(nil, stats, nil)

	play := validPlay()
	play.Matchup = models.Matchup{BatterID: 101, PitcherID: 202}

	s, err := e.Extract(context.Background(), play)
	require.NoError(t, err)

	features := s.FeatureMap()
	assert.InDelta(t, 0.310, features["batter_avg"], 1e-9)
	assert.InDelta(t, 9.8, features["pitcher_k_per_9"], 1e-9)
	assert.InDelta(t, 12, features["matchup_abs"], 1e-9)
}

func TestExtractWithoutStatsOmitsStatColumns(t *testing.T) {
	e := NewExtractor(nil, nil, nil)

	play := validPlay()
	play.Matchup = models.Matchup{BatterID: 101, PitcherID: 202}

	s, err := e.Extract(context.Background(), play)
	require.NoError(t, err)

	features := s.FeatureMap()
	_, hasBatter := features["batter_avg"]
	_, hasPitcher := features["pitcher_era"]
	assert.False(t, hasBatter)
	assert.False(t, hasPitcher)
}
