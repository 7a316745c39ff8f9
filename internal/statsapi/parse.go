package statsapi

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/diamond-tactics/internal/models"
)

// The Stats API reports rate stats for players with no qualifying appearances
// as dashed placeholder strings instead of numbers.
var placeholderStats = map[string]struct{}{
	"0.---": {},
	"-0.--": {},
	"-.--":  {},
	"-.---": {},
	"*.**":  {},
}

// statFloat parses a stat value that may arrive as a JSON number or a string
// like ".300" or "4.50". Placeholders and unparseable values become 0.
func statFloat(line map[string]json.RawMessage, key string) float64 {
	raw, ok := line[key]
	if !ok {
		return 0
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.TrimSpace(s)
	if _, placeholder := placeholderStats[s]; placeholder || s == "" {
		return 0
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// statInt parses an integer stat value, defaulting to 0
func statInt(line map[string]json.RawMessage, key string) int {
	raw, ok := line[key]
	if !ok {
		return 0
	}
	var num int
	if err := json.Unmarshal(raw, &num); err == nil {
		return num
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return int(d.IntPart())
}

// mapBatterStats converts a raw hitting stat line to the model type. A nil
// line maps to all-zero defaults.
func mapBatterStats(line map[string]json.RawMessage) *models.BatterStats {
	if line == nil {
		return &models.BatterStats{}
	}

	stats := &models.BatterStats{
		AVG:              statFloat(line, "avg"),
		OBP:              statFloat(line, "obp"),
		SLG:              statFloat(line, "slg"),
		OPS:              statFloat(line, "ops"),
		HomeRuns:         statInt(line, "homeRuns"),
		Hits:             statInt(line, "hits"),
		Strikeouts:       statInt(line, "strikeOuts"),
		Walks:            statInt(line, "baseOnBalls"),
		AtBats:           statInt(line, "atBats"),
		PlateAppearances: statInt(line, "plateAppearances"),
		BABIP:            statFloat(line, "babip"),
		TotalBases:       statInt(line, "totalBases"),
		Runs:             statInt(line, "runs"),
		Doubles:          statInt(line, "doubles"),
		Triples:          statInt(line, "triples"),
		StolenBases:      statInt(line, "stolenBases"),
		CaughtStealing:   statInt(line, "caughtStealing"),
		GroundOuts:       statInt(line, "groundOuts"),
		AirOuts:          statInt(line, "airOuts"),
		RBI:              statInt(line, "rbi"),
	}

	// Season line stands in for the split-level clutch numbers.
	stats.RISPAvg = stats.AVG
	stats.ClutchOPS = stats.OPS
	return stats
}

// mapPitcherStats converts a raw pitching stat line to the model type,
// deriving the per-nine and per-batter rates.
func mapPitcherStats(line map[string]json.RawMessage) *models.PitcherStats {
	if line == nil {
		return &models.PitcherStats{}
	}

	stats := &models.PitcherStats{
		ERA:            statFloat(line, "era"),
		WHIP:           statFloat(line, "whip"),
		Strikeouts:     statInt(line, "strikeOuts"),
		Walks:          statInt(line, "baseOnBalls"),
		InningsPitched: statFloat(line, "inningsPitched"),
		Hits:           statInt(line, "hits"),
		EarnedRuns:     statInt(line, "earnedRuns"),
		Games:          statInt(line, "gamesPlayed"),
		GamesStarted:   statInt(line, "gamesStarted"),
		Saves:          statInt(line, "saves"),
	}

	if stats.InningsPitched > 0 {
		stats.KPer9 = float64(stats.Strikeouts) * 9 / stats.InningsPitched
		stats.BBPer9 = float64(stats.Walks) * 9 / stats.InningsPitched
		stats.HitsPer9 = float64(stats.Hits) * 9 / stats.InningsPitched
	}

	totalBatters := stats.Hits + stats.Walks + stats.Strikeouts
	if totalBatters > 0 {
		stats.StrikeoutRate = float64(stats.Strikeouts) / float64(totalBatters)
		stats.WalkRate = float64(stats.Walks) / float64(totalBatters)
	}

	groundOuts := statInt(line, "groundOuts")
	airOuts := statInt(line, "airOuts")
	if totalOuts := groundOuts + airOuts; totalOuts > 0 {
		stats.GroundBallRate = float64(groundOuts) / float64(totalOuts)
	}

	return stats
}
