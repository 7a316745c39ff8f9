package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/diamond-tactics/internal/models"
	"github.com/yourusername/diamond-tactics/internal/tactics"
)

func hit(pressure float64) models.RecentPlay {
	return models.RecentPlay{Hit: true, PressureIndex: pressure}
}

func out(pressure float64) models.RecentPlay {
	return models.RecentPlay{Out: true, PressureIndex: pressure}
}

func TestAnalyzeMomentumEmpty(t *testing.T) {
	assert.Nil(t, AnalyzeMomentum(nil))
	assert.Nil(t, AnalyzeMomentum([]models.RecentPlay{}))
}

func TestAnalyzeMomentumRatios(t *testing.T) {
	plays := []models.RecentPlay{
		hit(1.8), hit(1.0), hit(1.0), hit(1.0), out(1.8),
	}

	momentum := AnalyzeMomentum(plays)
	require.NotNil(t, momentum)

	assert.InDelta(t, 0.8, momentum.BattingTeam.RecentSuccess, 1e-9)
	assert.InDelta(t, 0.2, momentum.PitchingTeam.RecentSuccess, 1e-9)

	// Only the two plays above the pressure threshold count, one success
	// for each side.
	assert.InDelta(t, 0.5, momentum.BattingTeam.PressureHandling, 1e-9)
	assert.InDelta(t, 0.5, momentum.PitchingTeam.PressureHandling, 1e-9)
}

func TestAnalyzeMomentumUsesTrailingWindow(t *testing.T) {
	plays := []models.RecentPlay{
		hit(1.0), hit(1.0),
		out(1.0), out(1.0), out(1.0), out(1.0), out(1.0),
	}

	momentum := AnalyzeMomentum(plays)
	require.NotNil(t, momentum)

	// The two leading hits fall outside the five-play window.
	assert.Zero(t, momentum.BattingTeam.RecentSuccess)
	assert.InDelta(t, 1.0, momentum.PitchingTeam.RecentSuccess, 1e-9)
	// No high-pressure plays in the window.
	assert.Zero(t, momentum.BattingTeam.PressureHandling)
}

func TestMomentumFactor(t *testing.T) {
	assert.Zero(t, momentumFactor(nil, "power_hitting"))

	momentum := &models.MomentumAnalysis{
		BattingTeam:  models.TeamMomentum{RecentSuccess: 0.8},
		PitchingTeam: models.TeamMomentum{RecentSuccess: 0.2},
	}

	assert.InDelta(t, 0.6*0.15, momentumFactor(momentum, "power_hitting"), 1e-9)
	assert.InDelta(t, 0.6*-0.1, momentumFactor(momentum, "patient_hitting"), 1e-9)
	// Unmapped tactics take the default weight.
	assert.InDelta(t, 0.6*0.1, momentumFactor(momentum, "double_play"), 1e-9)
}

func historicalCorpus() []models.HistoricalSituation {
	return []models.HistoricalSituation{
		{Inning: 7, Outs: 2, PressureIndex: 1.85, Tactic: "power_hitting", Success: true},
		{Inning: 7, Outs: 2, PressureIndex: 1.90, Tactic: "power_hitting", Success: false},
		{Inning: 7, Outs: 2, PressureIndex: 2.00, Tactic: "contact_hitting", Success: true},
		// Different inning and out-of-window pressure never match.
		{Inning: 6, Outs: 2, PressureIndex: 1.90, Tactic: "power_hitting", Success: true},
		{Inning: 7, Outs: 2, PressureIndex: 1.60, Tactic: "power_hitting", Success: true},
	}
}

func TestAnalyzeHistoryNoMatches(t *testing.T) {
	game := models.GameSituation{Inning: 3, Outs: 0, PressureIndex: 1.0}

	patterns := AnalyzeHistory(tactics.Default(), historicalCorpus(), game)
	require.NotNil(t, patterns)

	assert.Zero(t, patterns.SampleSize)
	assert.Empty(t, patterns.SuccessRates)
	assert.Nil(t, patterns.SimilarSituations)
}

func TestAnalyzeHistorySuccessRates(t *testing.T) {
	game := models.GameSituation{Inning: 7, Outs: 2, PressureIndex: 1.9}

	patterns := AnalyzeHistory(tactics.Default(), historicalCorpus(), game)
	require.NotNil(t, patterns)

	assert.Equal(t, 3, patterns.SampleSize)
	assert.InDelta(t, 50.0, patterns.SuccessRates["OFFENSIVE"]["power_hitting"], 1e-9)
	assert.InDelta(t, 100.0, patterns.SuccessRates["OFFENSIVE"]["contact_hitting"], 1e-9)
	// Tactics with no matching samples report a zero rate.
	assert.Zero(t, patterns.SuccessRates["DEFENSIVE"]["strikeout_pitching"])

	summary := patterns.SimilarSituations
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.TotalCount)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.InDelta(t, 1.92, summary.AvgPressure, 1e-9)
	assert.Equal(t, "power_hitting", summary.MostCommonTactic)
}

func baseResult() *models.PredictionResult {
	return &models.PredictionResult{
		TacticalProbabilities: models.CategoryProbabilities{
			"OFFENSIVE": {"power_hitting": 40.0, "contact_hitting": 25.0},
		},
		TopTactics: map[string]float64{"power_hitting": 40.0},
		ContextAnalysis: models.ContextAnalysis{
			GameSituation: models.GameSituation{Inning: 7, Outs: 2, PressureIndex: 1.9},
		},
	}
}

func TestEnhanceIdentityWithoutSignals(t *testing.T) {
	e := NewEnhancer(nil, nil)
	result := baseResult()

	enhanced := e.Enhance(result, nil, nil)

	assert.Equal(t, result.TacticalProbabilities, enhanced.TacticalProbabilities)
	assert.Nil(t, enhanced.MomentumAnalysis)
	require.NotNil(t, enhanced.HistoricalPatterns)
	assert.Zero(t, enhanced.HistoricalPatterns.SampleSize)

	// The input result is never mutated.
	assert.Nil(t, result.MomentumAnalysis)
	assert.Nil(t, result.HistoricalPatterns)
}

func TestEnhanceAppliesBothAdjustments(t *testing.T) {
	e := NewEnhancer(nil, nil)
	result := baseResult()

	recent := []models.RecentPlay{
		hit(1.0), hit(1.0), hit(1.0), hit(1.0), out(1.0),
	}
	corpus := []models.HistoricalSituation{
		{Inning: 7, Outs: 2, PressureIndex: 1.9, Tactic: "power_hitting", Success: true},
		{Inning: 7, Outs: 2, PressureIndex: 1.9, Tactic: "power_hitting", Success: true},
		{Inning: 7, Outs: 2, PressureIndex: 1.9, Tactic: "power_hitting", Success: false},
		{Inning: 7, Outs: 2, PressureIndex: 1.9, Tactic: "power_hitting", Success: true},
	}

	enhanced := e.Enhance(result, recent, corpus)

	// Historical rate 75% scales by 1.25; the 0.6 batting differential at
	// weight 0.15 scales by 1.09.
	assert.InDelta(t, 40.0*1.25*1.09, enhanced.TacticalProbabilities["OFFENSIVE"]["power_hitting"], 0.005)
	// No matching contact_hitting samples: only momentum applies at the
	// default weight.
	assert.InDelta(t, 25.0*1.06, enhanced.TacticalProbabilities["OFFENSIVE"]["contact_hitting"], 0.005)

	require.NotNil(t, enhanced.MomentumAnalysis)
	assert.InDelta(t, 0.8, enhanced.MomentumAnalysis.BattingTeam.RecentSuccess, 1e-9)
	assert.Equal(t, 4, enhanced.HistoricalPatterns.SampleSize)

	// Base probabilities are untouched.
	assert.InDelta(t, 40.0, result.TacticalProbabilities["OFFENSIVE"]["power_hitting"], 1e-9)
}

func TestEnhanceClampsProbabilities(t *testing.T) {
	e := NewEnhancer(nil, nil)
	result := baseResult()
	result.TacticalProbabilities = models.CategoryProbabilities{
		"OFFENSIVE": {"power_hitting": 95.0},
	}

	corpus := []models.HistoricalSituation{
		{Inning: 7, Outs: 2, PressureIndex: 1.9, Tactic: "power_hitting", Success: true},
	}

	enhanced := e.Enhance(result, nil, corpus)
	assert.InDelta(t, 100.0, enhanced.TacticalProbabilities["OFFENSIVE"]["power_hitting"], 1e-9)
}
