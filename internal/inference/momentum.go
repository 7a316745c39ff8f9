package inference

import (
	"github.com/yourusername/diamond-tactics/internal/models"
	"github.com/yourusername/diamond-tactics/internal/tactics"
)

// momentumWindow is how many trailing plays feed the momentum analysis
const momentumWindow = 5

// momentumWeights scales the batting/pitching success differential per
// tactic. Positive weights favor the batting side when it is hot; the
// negative patient_hitting weight deflates walking strategies against a
// hot offense. Unmapped tactics take the default weight.
var momentumWeights = map[string]float64{
	"aggressive_hitting": 0.2,
	"patient_hitting":    -0.1,
	"power_hitting":      0.15,
	"small_ball":         0.1,
	"defensive_pressure": 0.2,
	"strikeout_hunting":  0.15,
}

const defaultMomentumWeight = 0.1

// AnalyzeMomentum computes both sides' recent-success and pressure-handling
// ratios over the last plays. Returns nil when no plays are available.
func AnalyzeMomentum(plays []models.RecentPlay) *models.MomentumAnalysis {
	if len(plays) == 0 {
		return nil
	}
	if len(plays) > momentumWindow {
		plays = plays[len(plays)-momentumWindow:]
	}

	return &models.MomentumAnalysis{
		BattingTeam: models.TeamMomentum{
			RecentSuccess:    recentSuccess(plays, models.RecentPlay.BattingSuccess),
			PressureHandling: pressureHandling(plays, models.RecentPlay.BattingSuccess),
		},
		PitchingTeam: models.TeamMomentum{
			RecentSuccess:    recentSuccess(plays, models.RecentPlay.PitchingSuccess),
			PressureHandling: pressureHandling(plays, models.RecentPlay.PitchingSuccess),
		},
	}
}

func recentSuccess(plays []models.RecentPlay, success func(models.RecentPlay) bool) float64 {
	count := 0
	for _, play := range plays {
		if success(play) {
			count++
		}
	}
	ratio := float64(count) / float64(len(plays))
	if ratio > 1.0 {
		ratio = 1.0
	}
	return ratio
}

// pressureHandling is the success ratio restricted to high-pressure plays
func pressureHandling(plays []models.RecentPlay, success func(models.RecentPlay) bool) float64 {
	count, total := 0, 0
	for _, play := range plays {
		if play.PressureIndex <= tactics.HighPressureThreshold {
			continue
		}
		total++
		if success(play) {
			count++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// momentumFactor is the per-tactic probability adjustment derived from the
// batting/pitching success differential.
func momentumFactor(momentum *models.MomentumAnalysis, tactic string) float64 {
	if momentum == nil {
		return 0
	}
	weight, ok := momentumWeights[tactic]
	if !ok {
		weight = defaultMomentumWeight
	}
	diff := momentum.BattingTeam.RecentSuccess - momentum.PitchingTeam.RecentSuccess
	return diff * weight
}
