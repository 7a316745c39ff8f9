// Package inference adjusts raw classifier output with momentum and
// historical-pattern signals before results are served.
package inference

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/models"
	"github.com/yourusername/diamond-tactics/internal/tactics"
)

// Enhancer blends recent-play momentum and historically similar situations
// into the classifier's probability output. Every enrichment input is
// optional; absent data leaves the corresponding adjustment at identity.
type Enhancer struct {
	registry *tactics.Registry
	logger   *logrus.Logger
}

// NewEnhancer creates an enhancer over the given taxonomy
func NewEnhancer(registry *tactics.Registry, logger *logrus.Logger) *Enhancer {
	if registry == nil {
		registry = tactics.Default()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Enhancer{registry: registry, logger: logger}
}

// Enhance applies the momentum and historical adjustments to the result's
// tactical probabilities and attaches both analyses. The input result is not
// mutated. With no recent plays and no matching corpus entries the returned
// probabilities equal the input probabilities.
func (e *Enhancer) Enhance(result *models.PredictionResult, recent []models.RecentPlay, corpus []models.HistoricalSituation) *models.PredictionResult {
	enhanced := *result

	momentum := AnalyzeMomentum(recent)
	patterns := AnalyzeHistory(e.registry, corpus, result.ContextAnalysis.GameSituation)

	enhanced.TacticalProbabilities = e.adjustProbabilities(result.TacticalProbabilities, momentum, patterns)
	enhanced.MomentumAnalysis = momentum
	enhanced.HistoricalPatterns = patterns

	e.logger.WithFields(logrus.Fields{
		"recent_plays":       len(recent),
		"similar_situations": patterns.SampleSize,
	}).Debug("Enhanced prediction")

	return &enhanced
}

// adjustProbabilities rescales each tactic's probability by its historical
// success rate and momentum factor, clamped to [0, 100]. A zero historical
// rate means no matching samples and leaves the historical term at identity.
func (e *Enhancer) adjustProbabilities(base models.CategoryProbabilities,
	momentum *models.MomentumAnalysis, patterns *models.HistoricalPatterns) models.CategoryProbabilities {

	adjusted := make(models.CategoryProbabilities, len(base))
	for category, entries := range base {
		adjustedEntries := make(map[string]float64, len(entries))
		for tactic, prob := range entries {
			if rate := historicalRate(patterns, category, tactic); rate > 0 {
				prob *= 1 + (rate-50)/100
			}
			if momentum != nil {
				prob *= 1 + momentumFactor(momentum, tactic)
			}
			adjustedEntries[tactic] = round2(clamp(prob, 0, 100))
		}
		adjusted[category] = adjustedEntries
	}
	return adjusted
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
