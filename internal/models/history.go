package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoricalSituation is one prior labeled situation stored in the corpus,
// used by the inference enhancer for pattern matching.
type HistoricalSituation struct {
	ID            uuid.UUID `db:"id" json:"id"`
	GameID        uuid.UUID `db:"game_id" json:"game_id"`
	Inning        int       `db:"inning" json:"inning"`
	Outs          int       `db:"outs" json:"outs"`
	PressureIndex float64   `db:"pressure_index" json:"pressure_index"`
	Tactic        string    `db:"tactic" json:"tactic"`
	Success       bool      `db:"success" json:"success"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// RecentPlay is one play from the recent history window with the boolean
// outcome indicators the momentum analysis counts.
type RecentPlay struct {
	Hit           bool    `json:"hit"`
	Walk          bool    `json:"walk"`
	RunScored     bool    `json:"run_scored"`
	Strikeout     bool    `json:"strikeout"`
	Out           bool    `json:"out"`
	DoublePlay    bool    `json:"double_play"`
	PressureIndex float64 `json:"pressure_index"`
}

// BattingSuccess reports whether the play was a positive outcome for the
// batting side.
func (p RecentPlay) BattingSuccess() bool {
	return p.Hit || p.Walk || p.RunScored
}

// PitchingSuccess reports whether the play was a positive outcome for the
// pitching side.
func (p RecentPlay) PitchingSuccess() bool {
	return p.Strikeout || p.Out || p.DoublePlay
}
