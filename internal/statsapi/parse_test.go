package statsapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawLine(t *testing.T, src string) map[string]json.RawMessage {
	t.Helper()
	var line map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(src), &line))
	return line
}

func TestStatFloatParsesNumbersAndStrings(t *testing.T) {
	line := rawLine(t, `{
		"num": 4.5,
		"str": ".300",
		"padded": " 0.275 ",
		"placeholder": "0.---",
		"dashes": "-.--",
		"stars": "*.**",
		"empty": "",
		"junk": "abc",
		"object": {"nested": 1}
	}`)

	assert.InDelta(t, 4.5, statFloat(line, "num"), 1e-9)
	assert.InDelta(t, 0.300, statFloat(line, "str"), 1e-9)
	assert.InDelta(t, 0.275, statFloat(line, "padded"), 1e-9)
	assert.Zero(t, statFloat(line, "placeholder"))
	assert.Zero(t, statFloat(line, "dashes"))
	assert.Zero(t, statFloat(line, "stars"))
	assert.Zero(t, statFloat(line, "empty"))
	assert.Zero(t, statFloat(line, "junk"))
	assert.Zero(t, statFloat(line, "object"))
	assert.Zero(t, statFloat(line, "absent"))
}

func TestStatIntParsesNumbersAndStrings(t *testing.T) {
	line := rawLine(t, `{"num": 42, "str": "17", "dash": "-", "junk": "x"}`)

	assert.Equal(t, 42, statInt(line, "num"))
	assert.Equal(t, 17, statInt(line, "str"))
	assert.Zero(t, statInt(line, "dash"))
	assert.Zero(t, statInt(line, "junk"))
	assert.Zero(t, statInt(line, "absent"))
}

func TestMapBatterStats(t *testing.T) {
	line := rawLine(t, `{
		"avg": ".312",
		"obp": ".380",
		"slg": ".540",
		"ops": ".920",
		"homeRuns": 28,
		"hits": 160,
		"strikeOuts": 110,
		"baseOnBalls": 55,
		"atBats": 512
	}`)

	stats := mapBatterStats(line)

	assert.InDelta(t, 0.312, stats.AVG, 1e-9)
	assert.InDelta(t, 0.920, stats.OPS, 1e-9)
	assert.Equal(t, 28, stats.HomeRuns)
	assert.Equal(t, 512, stats.AtBats)

	// The season line proxies for split-level numbers.
	assert.InDelta(t, stats.AVG, stats.RISPAvg, 1e-9)
	assert.InDelta(t, stats.OPS, stats.ClutchOPS, 1e-9)
}

func TestMapBatterStatsNilLine(t *testing.T) {
	stats := mapBatterStats(nil)
	assert.Zero(t, stats.AVG)
	assert.Zero(t, stats.AtBats)
}

func TestMapPitcherStatsDerivesRates(t *testing.T) {
	line := rawLine(t, `{
		"era": "3.20",
		"whip": "1.10",
		"strikeOuts": 180,
		"baseOnBalls": 40,
		"hits": 140,
		"inningsPitched": "180.0",
		"groundOuts": 150,
		"airOuts": 100
	}`)

	stats := mapPitcherStats(line)

	assert.InDelta(t, 3.20, stats.ERA, 1e-9)
	assert.InDelta(t, 180.0*9/180.0, stats.KPer9, 1e-9)
	assert.InDelta(t, 40.0*9/180.0, stats.BBPer9, 1e-9)
	assert.InDelta(t, 140.0*9/180.0, stats.HitsPer9, 1e-9)
	assert.InDelta(t, 180.0/(140+40+180), stats.StrikeoutRate, 1e-9)
	assert.InDelta(t, 40.0/(140+40+180), stats.WalkRate, 1e-9)
	assert.InDelta(t, 150.0/250, stats.GroundBallRate, 1e-9)
}

func TestMapPitcherStatsZeroInnings(t *testing.T) {
	line := rawLine(t, `{"era": "-.--", "strikeOuts": 0, "inningsPitched": "0.0"}`)

	stats := mapPitcherStats(line)

	assert.Zero(t, stats.ERA)
	assert.Zero(t, stats.KPer9)
	assert.Zero(t, stats.StrikeoutRate)
	assert.Zero(t, stats.GroundBallRate)
}
