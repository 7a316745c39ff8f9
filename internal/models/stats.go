package models

// BatterStats represents season hitting rate stats for one batter
type BatterStats struct {
	AVG              float64 `json:"avg"`
	OBP              float64 `json:"obp"`
	SLG              float64 `json:"slg"`
	OPS              float64 `json:"ops"`
	HomeRuns         int     `json:"home_runs"`
	Hits             int     `json:"hits"`
	Strikeouts       int     `json:"strikeouts"`
	Walks            int     `json:"walks"`
	AtBats           int     `json:"at_bats"`
	PlateAppearances int     `json:"plate_appearances"`
	BABIP            float64 `json:"babip"`
	TotalBases       int     `json:"total_bases"`
	Runs             int     `json:"runs"`
	Doubles          int     `json:"doubles"`
	Triples          int     `json:"triples"`
	StolenBases      int     `json:"stolen_bases"`
	CaughtStealing   int     `json:"caught_stealing"`
	GroundOuts       int     `json:"ground_outs"`
	AirOuts          int     `json:"air_outs"`
	RBI              int     `json:"rbi"`
	// RISP average and clutch OPS use the season line as a proxy until
	// split-level data is wired in.
	RISPAvg   float64 `json:"risp_avg"`
	ClutchOPS float64 `json:"clutch_ops"`
}

// PitcherStats represents season pitching rate stats for one pitcher
type PitcherStats struct {
	ERA            float64 `json:"era"`
	WHIP           float64 `json:"whip"`
	KPer9          float64 `json:"k_per_9"`
	BBPer9         float64 `json:"bb_per_9"`
	HitsPer9       float64 `json:"hits_per_9"`
	Strikeouts     int     `json:"strikeouts"`
	Walks          int     `json:"walks"`
	InningsPitched float64 `json:"innings_pitched"`
	Hits           int     `json:"hits"`
	EarnedRuns     int     `json:"earned_runs"`
	Games          int     `json:"games"`
	GamesStarted   int     `json:"games_started"`
	Saves          int     `json:"saves"`
	GroundBallRate float64 `json:"ground_ball_rate"`
	StrikeoutRate  float64 `json:"strikeout_rate"`
	WalkRate       float64 `json:"walk_rate"`
}

// MatchupStats represents head-to-head history between a batter and pitcher
type MatchupStats struct {
	AtBats     int     `json:"at_bats"`
	Hits       int     `json:"hits"`
	HomeRuns   int     `json:"home_runs"`
	Strikeouts int     `json:"strikeouts"`
	Walks      int     `json:"walks"`
	AVG        float64 `json:"avg"`
	OPS        float64 `json:"ops"`
}
