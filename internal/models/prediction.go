package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryProbabilities maps category name -> tactic -> probability percentage
type CategoryProbabilities map[string]map[string]float64

// GameSituation is the context snapshot attached to every analysis result
type GameSituation struct {
	Inning        int     `json:"inning"`
	Outs          int     `json:"outs"`
	ScoreDiff     int     `json:"score_diff"`
	PressureIndex float64 `json:"pressure_index"`
}

// RunnerSituation summarizes base occupancy for the analysis context
type RunnerSituation struct {
	Runners         int  `json:"runners"`
	ScoringPosition bool `json:"scoring_position"`
}

// ContextAnalysis groups the situational context of a prediction
type ContextAnalysis struct {
	GameSituation   GameSituation   `json:"game_situation"`
	RunnerSituation RunnerSituation `json:"runner_situation"`
}

// Recommendation is one ranked tactical recommendation with its reasoning
type Recommendation struct {
	Tactic          string   `json:"tactic"`
	Probability     float64  `json:"probability"`
	Reasoning       string   `json:"reasoning"`
	SpecificActions []string `json:"specific_actions"`
}

// TeamMomentum captures one side's recent form
type TeamMomentum struct {
	RecentSuccess    float64 `json:"recent_success"`
	PressureHandling float64 `json:"pressure_handling"`
}

// MomentumAnalysis captures both sides' recent form over the last plays
type MomentumAnalysis struct {
	BattingTeam  TeamMomentum `json:"batting_team"`
	PitchingTeam TeamMomentum `json:"pitching_team"`
}

// SituationSummary summarizes the historically similar situations found
type SituationSummary struct {
	TotalCount       int     `json:"total_count"`
	SuccessCount     int     `json:"success_count"`
	AvgPressure      float64 `json:"avg_pressure"`
	MostCommonTactic string  `json:"most_common_tactic"`
}

// HistoricalPatterns carries per-tactic success rates from matching situations
type HistoricalPatterns struct {
	SuccessRates      CategoryProbabilities `json:"success_rates"`
	SampleSize        int                   `json:"sample_size"`
	SimilarSituations *SituationSummary     `json:"similar_situations,omitempty"`
}

// PredictionResult is the full output of one inference call
type PredictionResult struct {
	ID                    uuid.UUID             `json:"id"`
	TacticalProbabilities CategoryProbabilities `json:"tactical_probabilities"`
	TopTactics            map[string]float64    `json:"top_tactics"`
	ContextAnalysis       ContextAnalysis       `json:"context_analysis"`
	Recommendations       []Recommendation      `json:"recommendations"`
	GameContext           *GameContext          `json:"game_context,omitempty"`
	MomentumAnalysis      *MomentumAnalysis     `json:"momentum_analysis,omitempty"`
	HistoricalPatterns    *HistoricalPatterns   `json:"historical_patterns,omitempty"`
	PredictedAt           time.Time             `json:"predicted_at"`
}

// Flatten serializes the result to a flat key-value document for downstream
// consumers (CSV export, API layer).
func (r *PredictionResult) Flatten() (map[string]float64, error) {
	flat := make(map[string]float64)
	for category, tactics := range r.TacticalProbabilities {
		for tactic, prob := range tactics {
			flat[category+"."+tactic] = prob
		}
	}
	for tactic, prob := range r.TopTactics {
		flat["top."+tactic] = prob
	}
	return flat, nil
}
