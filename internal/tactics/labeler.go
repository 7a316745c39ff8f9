package tactics

import (
	"github.com/yourusername/diamond-tactics/internal/models"
)

// Scoring constants for the heuristic labeler. The resulting scores are an
// intentionally un-normalized heuristic: candidates start from a shared base,
// earn up to contextWeight for matched context clauses, then take situational
// and player-quality multipliers. Downstream consumers expect this exact
// shape; the scores are not rescaled to sum to 1.
const (
	baseProbability     = 0.4
	contextWeight       = 0.6
	minProbability      = 0.05
	fallbackProbability = 100.0
)

// Labeler maps a situation's outcome action and context to a probability
// weighted set of tactic candidates.
type Labeler struct {
	registry *Registry
}

// NewLabeler creates a labeler over the given taxonomy registry
func NewLabeler(registry *Registry) *Labeler {
	if registry == nil {
		registry = Default()
	}
	return &Labeler{registry: registry}
}

// LabelResult carries the candidate scores and the selected primary tactic
type LabelResult struct {
	Probabilities map[string]float64
	PrimaryTactic string
}

// Label scores every tactic candidate mapped to the situation's outcome
// action. Actions with no mapping, or whose candidates are all discarded,
// fall back to the default tactic at 100%.
func (l *Labeler) Label(s *models.Situation) LabelResult {
	candidates, ok := l.registry.ForAction(s.Result)
	if !ok {
		return fallbackResult()
	}

	probs := make(map[string]float64, len(candidates))
	primary := ""
	best := 0.0

	for _, tactic := range candidates {
		prob := baseProbability

		matched, total := tactic.Context.MatchFraction(s)
		if total > 0 {
			prob += contextWeight * float64(matched) / float64(total)
			prob = applyPressureBoost(tactic.Name, s, prob)
		}

		if prob < minProbability {
			continue
		}
		prob = applyPlayerBoosts(tactic.Name, s, prob)

		probs[tactic.Name] = prob
		// Strictly-greater comparison keeps the first-seen taxonomy
		// order as the tie-break.
		if primary == "" || prob > best {
			primary = tactic.Name
			best = prob
		}
	}

	if len(probs) == 0 {
		return fallbackResult()
	}
	return LabelResult{Probabilities: probs, PrimaryTactic: primary}
}

func fallbackResult() LabelResult {
	return LabelResult{
		Probabilities: map[string]float64{FallbackTactic: fallbackProbability},
		PrimaryTactic: FallbackTactic,
	}
}

func applyPressureBoost(tactic string, s *models.Situation, prob float64) float64 {
	if s.PressureIndex < HighPressureThreshold {
		return prob
	}
	switch tactic {
	case "power_hitting", "patient_hitting":
		return prob * 1.2
	case "contact_hitting", "defensive_outs":
		return prob * 1.1
	}
	return prob
}

// applyPlayerBoosts applies quality multipliers when player or matchup
// statistics were attached to the situation. Absent stats mean no adjustment.
func applyPlayerBoosts(tactic string, s *models.Situation, prob float64) float64 {
	if s.Batter != nil {
		if tactic == "power_hitting" && s.Batter.OPS > 0.800 {
			prob *= 1.2
		} else if tactic == "contact_hitting" && s.Batter.AVG > 0.300 {
			prob *= 1.1
		}
	}

	if s.Pitcher != nil {
		if tactic == "strikeout_pitching" && s.Pitcher.KPer9 > 9.0 {
			prob *= 1.2
		} else if tactic == "defensive_outs" && s.Pitcher.GroundBallRate > 0.5 {
			prob *= 1.1
		}
	}

	if s.MatchupStats != nil && s.MatchupStats.AtBats > 10 {
		if s.MatchupStats.OPS > 0.800 {
			if tactic == "power_hitting" || tactic == "contact_hitting" {
				prob *= 1.15
			}
		} else if s.MatchupStats.OPS < 0.600 {
			if tactic == "defensive_outs" || tactic == "strikeout_pitching" {
				prob *= 1.15
			}
		}
	}

	return prob
}
