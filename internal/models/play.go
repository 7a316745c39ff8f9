// Package models defines the core data types shared across the tactical engine.
package models

import "encoding/json"

// Base codes used by the feed for runner movements
const (
	BaseFirst  = "1B"
	BaseSecond = "2B"
	BaseThird  = "3B"
	BaseScore  = "score"
)

// HalfInning values
const (
	HalfTop    = "top"
	HalfBottom = "bottom"
)

// RunnerMovement represents a single runner's movement during a play
type RunnerMovement struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Matchup identifies the batter and pitcher for a play
type Matchup struct {
	BatterID  int `json:"batter_id"`
	PitcherID int `json:"pitcher_id"`
}

// Play represents one raw play-by-play event from the game feed
type Play struct {
	Inning     int              `json:"inning"`
	HalfInning string           `json:"half_inning"`
	Result     string           `json:"result"`
	Outs       int              `json:"outs"`
	Balls      int              `json:"balls"`
	Strikes    int              `json:"strikes"`
	ScoreHome  int              `json:"score_home"`
	ScoreAway  int              `json:"score_away"`
	Matchup    Matchup          `json:"matchup"`
	Runners    []RunnerMovement `json:"runners"`
}

// GameContext carries the season and game-type context extracted from the feed
type GameContext struct {
	Season           int    `json:"season"`
	GameType         string `json:"game_type"`
	IsSpringTraining bool   `json:"is_spring_training"`
}

// MarshalPlays serializes a play list for export or fixtures
func MarshalPlays(plays []Play) ([]byte, error) {
	return json.Marshal(plays)
}
