package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/features"
	"github.com/yourusername/diamond-tactics/internal/models"
)

// Matchup advantage values
const (
	AdvantageBatter  = "batter"
	AdvantagePitcher = "pitcher"
	AdvantageNeutral = "neutral"
)

// KeyFactor is one notable influence on a matchup
type KeyFactor struct {
	Factor      string `json:"factor"`
	Description string `json:"description"`
}

// MatchupRecommendation is one tactic suggested by the matchup numbers
type MatchupRecommendation struct {
	Tactic string `json:"tactic"`
	Reason string `json:"reason"`
}

// MatchupAnalysis is the full batter-versus-pitcher breakdown
type MatchupAnalysis struct {
	Batter          *models.BatterStats     `json:"batter"`
	Pitcher         *models.PitcherStats    `json:"pitcher"`
	HeadToHead      *models.MatchupStats    `json:"head_to_head"`
	Advantage       string                  `json:"advantage"`
	KeyFactors      []KeyFactor             `json:"key_factors"`
	Recommendations []MatchupRecommendation `json:"recommendations"`
}

// MatchupService analyzes batter-versus-pitcher matchups
type MatchupService struct {
	stats  features.StatsProvider
	logger *logrus.Logger
}

// NewMatchupService creates a matchup service
func NewMatchupService(stats features.StatsProvider, logger *logrus.Logger) *MatchupService {
	if logger == nil {
		logger = logrus.New()
	}
	return &MatchupService{stats: stats, logger: logger}
}

// Analyze fetches both players' stats and derives the advantage call, the
// key factors and the tactical recommendations.
func (m *MatchupService) Analyze(ctx context.Context, matchup models.Matchup) (*MatchupAnalysis, error) {
	batter, err := m.stats.BatterStats(ctx, matchup.BatterID)
	if err != nil {
		return nil, err
	}
	pitcher, err := m.stats.PitcherStats(ctx, matchup.PitcherID)
	if err != nil {
		return nil, err
	}
	headToHead, err := m.stats.MatchupHistory(ctx, matchup.BatterID, matchup.PitcherID)
	if err != nil {
		return nil, err
	}

	return &MatchupAnalysis{
		Batter:          batter,
		Pitcher:         pitcher,
		HeadToHead:      headToHead,
		Advantage:       determineAdvantage(batter, pitcher),
		KeyFactors:      keyFactors(batter, pitcher),
		Recommendations: matchupRecommendations(batter, pitcher),
	}, nil
}

// determineAdvantage calls the matchup for one side only when both the
// batter's and pitcher's season lines point the same way.
func determineAdvantage(batter *models.BatterStats, pitcher *models.PitcherStats) string {
	if batter == nil || pitcher == nil {
		return AdvantageNeutral
	}
	switch {
	case batter.OPS > 0.900 && pitcher.ERA > 4.50:
		return AdvantageBatter
	case batter.OPS < 0.700 && pitcher.ERA < 3.50 && pitcher.ERA > 0:
		return AdvantagePitcher
	default:
		return AdvantageNeutral
	}
}

func keyFactors(batter *models.BatterStats, pitcher *models.PitcherStats) []KeyFactor {
	var factors []KeyFactor
	if batter == nil || pitcher == nil {
		return factors
	}

	if batter.SLG > 0.500 {
		factors = append(factors, KeyFactor{
			Factor:      "power_threat",
			Description: "Batter shows significant power potential",
		})
	}
	if pitcher.KPer9 > 9.0 {
		factors = append(factors, KeyFactor{
			Factor:      "strikeout_pitcher",
			Description: "Pitcher has high strikeout rate",
		})
	}
	return factors
}

func matchupRecommendations(batter *models.BatterStats, pitcher *models.PitcherStats) []MatchupRecommendation {
	var recommendations []MatchupRecommendation
	if batter == nil || pitcher == nil {
		return recommendations
	}

	if batter.OPS > 0.800 {
		recommendations = append(recommendations, MatchupRecommendation{
			Tactic: "aggressive_hitting",
			Reason: "Batter showing strong offensive performance",
		})
	}
	if pitcher.BBPer9 > 4.0 {
		recommendations = append(recommendations, MatchupRecommendation{
			Tactic: "patient_hitting",
			Reason: "Pitcher has control issues",
		})
	}
	return recommendations
}
