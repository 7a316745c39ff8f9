package inference

import (
	"sort"

	"github.com/yourusername/diamond-tactics/internal/models"
	"github.com/yourusername/diamond-tactics/internal/tactics"
)

// pressureMatchWindow bounds how far a prior situation's pressure index may
// differ from the current one and still count as similar.
const pressureMatchWindow = 0.2

// AnalyzeHistory finds prior situations matching the current inning and outs
// exactly and the pressure index within the match window, and computes the
// per-tactic success rate across them. Returns zero-valued patterns when the
// corpus is empty or nothing matches.
func AnalyzeHistory(registry *tactics.Registry, corpus []models.HistoricalSituation, game models.GameSituation) *models.HistoricalPatterns {
	patterns := &models.HistoricalPatterns{SuccessRates: make(models.CategoryProbabilities)}

	similar := findSimilar(corpus, game)
	if len(similar) == 0 {
		return patterns
	}

	for _, tactic := range registry.Tactics() {
		success, total := 0, 0
		for _, situation := range similar {
			if situation.Tactic != tactic.Name {
				continue
			}
			total++
			if situation.Success {
				success++
			}
		}
		rate := 0.0
		if total > 0 {
			rate = round2(float64(success) / float64(total) * 100)
		}
		category := string(tactic.Category)
		if patterns.SuccessRates[category] == nil {
			patterns.SuccessRates[category] = make(map[string]float64)
		}
		patterns.SuccessRates[category][tactic.Name] = rate
	}

	patterns.SampleSize = len(similar)
	patterns.SimilarSituations = summarize(similar)
	return patterns
}

func findSimilar(corpus []models.HistoricalSituation, game models.GameSituation) []models.HistoricalSituation {
	var similar []models.HistoricalSituation
	for _, situation := range corpus {
		if situation.Inning != game.Inning || situation.Outs != game.Outs {
			continue
		}
		diff := situation.PressureIndex - game.PressureIndex
		if diff < 0 {
			diff = -diff
		}
		if diff < pressureMatchWindow {
			similar = append(similar, situation)
		}
	}
	return similar
}

// summarize reduces the matched situations to the counts, average pressure
// and modal tactic reported alongside the success rates.
func summarize(similar []models.HistoricalSituation) *models.SituationSummary {
	summary := &models.SituationSummary{TotalCount: len(similar)}

	pressureSum := 0.0
	tacticCounts := make(map[string]int)
	for _, situation := range similar {
		if situation.Success {
			summary.SuccessCount++
		}
		pressureSum += situation.PressureIndex
		tacticCounts[situation.Tactic]++
	}
	summary.AvgPressure = round2(pressureSum / float64(len(similar)))

	names := make([]string, 0, len(tacticCounts))
	for name := range tacticCounts {
		names = append(names, name)
	}
	sort.Strings(names)
	best := 0
	for _, name := range names {
		if tacticCounts[name] > best {
			best = tacticCounts[name]
			summary.MostCommonTactic = name
		}
	}
	return summary
}

// historicalRate looks up a tactic's success rate, zero when absent
func historicalRate(patterns *models.HistoricalPatterns, category, tactic string) float64 {
	if patterns == nil {
		return 0
	}
	rates, ok := patterns.SuccessRates[category]
	if !ok {
		return 0
	}
	return rates[tactic]
}
