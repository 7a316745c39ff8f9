package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/diamond-tactics/internal/models"
)

func TestToRecentPlayOutcomeIndicators(t *testing.T) {
	cases := []struct {
		result    string
		hit       bool
		walk      bool
		strikeout bool
		out       bool
		dp        bool
	}{
		{result: "Single", hit: true},
		{result: "Home Run", hit: true},
		{result: "Walk", walk: true},
		{result: "Hit By Pitch", walk: true},
		{result: "Strikeout", strikeout: true},
		{result: "Groundout", out: true},
		{result: "Grounded Into DP", dp: true},
		{result: "Field Error"},
	}

	for _, tc := range cases {
		t.Run(tc.result, func(t *testing.T) {
			play := toRecentPlay(&models.Situation{Result: tc.result, PressureIndex: 1.4})
			assert.Equal(t, tc.hit, play.Hit)
			assert.Equal(t, tc.walk, play.Walk)
			assert.Equal(t, tc.strikeout, play.Strikeout)
			assert.Equal(t, tc.out, play.Out)
			assert.Equal(t, tc.dp, play.DoublePlay)
			assert.InDelta(t, 1.4, play.PressureIndex, 1e-9)
		})
	}
}

func TestToRecentPlayRunScored(t *testing.T) {
	play := toRecentPlay(&models.Situation{Result: "Sac Fly", RunsScored: 1})
	assert.True(t, play.RunScored)
	assert.True(t, play.BattingSuccess())
}

func TestRecentPlaysWindow(t *testing.T) {
	situations := make([]models.Situation, 8)
	for i := range situations {
		situations[i] = models.Situation{Result: "Single"}
	}
	situations[7].Result = "Strikeout"

	plays := recentPlays(situations, 5)
	require.Len(t, plays, 5)
	assert.True(t, plays[0].Hit)
	assert.True(t, plays[4].Strikeout)
}

func TestTacticSucceededUsesTacticCategory(t *testing.T) {
	svc := NewAnalysisService(nil, nil, nil, nil, nil, nil, nil)

	// A strikeout is a pitching success, so a defensive tactic succeeded.
	strikeout := &models.Situation{Result: "Strikeout", PrimaryTactic: "strikeout_pitching"}
	assert.True(t, svc.tacticSucceeded(strikeout))

	// The same play is a failure for an offensive tactic.
	strikeout.PrimaryTactic = "contact_hitting"
	assert.False(t, svc.tacticSucceeded(strikeout))

	// A hit flips both judgements.
	single := &models.Situation{Result: "Single", PrimaryTactic: "contact_hitting"}
	assert.True(t, svc.tacticSucceeded(single))
	single.PrimaryTactic = "strikeout_pitching"
	assert.False(t, svc.tacticSucceeded(single))
}
