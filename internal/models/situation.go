package models

// Situation is one play's fully derived state: categorical context, runner
// occupancy, derived pressure/leverage metrics and optional player statistics.
// It is built once by the feature extractor and never mutated afterwards.
type Situation struct {
	Inning     int    `json:"inning"`
	HalfInning string `json:"half_inning"`
	Result     string `json:"result"`
	Outs       int    `json:"outs"`
	Balls      int    `json:"balls"`
	Strikes    int    `json:"strikes"`
	ScoreHome  int    `json:"score_home"`
	ScoreAway  int    `json:"score_away"`
	ScoreDiff  int    `json:"score_diff"`
	CloseGame  bool   `json:"is_close_game"`

	BatterID  int `json:"batter_id,omitempty"`
	PitcherID int `json:"pitcher_id,omitempty"`

	NumRunners      int  `json:"num_runners"`
	ScoringPosition bool `json:"scoring_position"`
	RunsScored      int  `json:"runs_scored"`
	RunnerOnFirst   bool `json:"runner_on_first"`
	RunnerOnSecond  bool `json:"runner_on_second"`
	RunnerOnThird   bool `json:"runner_on_third"`

	PressureIndex        float64 `json:"pressure_index"`
	GameStage            float64 `json:"game_stage"`
	RunExpectancy        float64 `json:"run_expectancy"`
	LeverageIndex        float64 `json:"leverage_index"`
	WinProbabilityAdded  float64 `json:"win_probability_added"`
	OffensiveOpportunity float64 `json:"offensive_opportunity"`
	DefensivePressure    float64 `json:"defensive_pressure"`
	CountLeverage        float64 `json:"count_leverage"`
	ScoringThreat        float64 `json:"scoring_threat"`

	Batter       *BatterStats  `json:"batter_stats,omitempty"`
	Pitcher      *PitcherStats `json:"pitcher_stats,omitempty"`
	MatchupStats *MatchupStats `json:"matchup_stats,omitempty"`

	// Heuristic labeling output. TacticProbs columns are never used as
	// model features.
	PrimaryTactic string             `json:"primary_tactic,omitempty"`
	TacticProbs   map[string]float64 `json:"tactic_probs,omitempty"`
}

// FeatureMap flattens the situation into named numeric columns. Categorical
// fields become one-hot indicators; player statistic columns appear only when
// the corresponding stats were attached at extraction time.
func (s *Situation) FeatureMap() map[string]float64 {
	m := map[string]float64{
		"inning":                float64(s.Inning),
		"outs":                  float64(s.Outs),
		"balls":                 float64(s.Balls),
		"strikes":               float64(s.Strikes),
		"score_home":            float64(s.ScoreHome),
		"score_away":            float64(s.ScoreAway),
		"score_diff":            float64(s.ScoreDiff),
		"is_close_game":         boolToFloat(s.CloseGame),
		"num_runners":           float64(s.NumRunners),
		"scoring_position":      boolToFloat(s.ScoringPosition),
		"runs_scored":           float64(s.RunsScored),
		"runner_on_first":       boolToFloat(s.RunnerOnFirst),
		"runner_on_second":      boolToFloat(s.RunnerOnSecond),
		"runner_on_third":       boolToFloat(s.RunnerOnThird),
		"pressure_index":        s.PressureIndex,
		"game_stage":            s.GameStage,
		"run_expectancy":        s.RunExpectancy,
		"leverage_index":        s.LeverageIndex,
		"win_probability_added": s.WinProbabilityAdded,
		"offensive_opportunity": s.OffensiveOpportunity,
		"defensive_pressure":    s.DefensivePressure,
		"count_leverage":        s.CountLeverage,
		"scoring_threat":        s.ScoringThreat,
	}

	if s.HalfInning != "" {
		m["half_inning_"+s.HalfInning] = 1
	}
	if s.Result != "" {
		m["result_"+s.Result] = 1
	}

	if s.Batter != nil {
		m["batter_avg"] = s.Batter.AVG
		m["batter_obp"] = s.Batter.OBP
		m["batter_slg"] = s.Batter.SLG
		m["batter_ops"] = s.Batter.OPS
		m["batter_hr"] = float64(s.Batter.HomeRuns)
		m["batter_so"] = float64(s.Batter.Strikeouts)
		m["batter_bb"] = float64(s.Batter.Walks)
		m["batter_risp_avg"] = s.Batter.RISPAvg
		m["batter_clutch_ops"] = s.Batter.ClutchOPS
	}
	if s.Pitcher != nil {
		m["pitcher_era"] = s.Pitcher.ERA
		m["pitcher_whip"] = s.Pitcher.WHIP
		m["pitcher_k_per_9"] = s.Pitcher.KPer9
		m["pitcher_bb_per_9"] = s.Pitcher.BBPer9
		m["pitcher_h_per_9"] = s.Pitcher.HitsPer9
		m["pitcher_gb_rate"] = s.Pitcher.GroundBallRate
		m["pitcher_k_rate"] = s.Pitcher.StrikeoutRate
		m["pitcher_bb_rate"] = s.Pitcher.WalkRate
	}
	if s.MatchupStats != nil {
		m["matchup_avg"] = s.MatchupStats.AVG
		m["matchup_ops"] = s.MatchupStats.OPS
		m["matchup_abs"] = float64(s.MatchupStats.AtBats)
		m["matchup_hr"] = float64(s.MatchupStats.HomeRuns)
		m["matchup_so"] = float64(s.MatchupStats.Strikeouts)
		m["matchup_bb"] = float64(s.MatchupStats.Walks)
	}

	return m
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
