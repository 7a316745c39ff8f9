package tactics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/diamond-tactics/internal/models"
)

func TestRegistryLookups(t *testing.T) {
	r := Default()

	require.Len(t, r.Tactics(), 10)

	candidates, ok := r.ForAction("Home Run")
	require.True(t, ok)
	require.Len(t, candidates, 1)
	assert.Equal(t, "power_hitting", candidates[0].Name)

	// Triple triggers both an offensive and a baserunning tactic, in
	// taxonomy insertion order.
	candidates, ok = r.ForAction("Triple")
	require.True(t, ok)
	require.Len(t, candidates, 2)
	assert.Equal(t, "power_hitting", candidates[0].Name)
	assert.Equal(t, "aggressive_baserunning", candidates[1].Name)

	_, ok = r.ForAction("Balk")
	assert.False(t, ok)
	assert.False(t, r.KnownAction("Balk"))
	assert.True(t, r.KnownAction("Strikeout"))

	assert.Equal(t, CategoryDefensive, r.CategoryOf("double_play"))
	assert.Equal(t, Category(""), r.CategoryOf("nonsense"))

	assert.Equal(t, []string{"Single", "Ground Ball"}, r.Actions("contact_hitting"))
	assert.Nil(t, r.Actions("nonsense"))
}

func TestLabelFallbackForUnknownAction(t *testing.T) {
	labeler := NewLabeler(nil)

	result := labeler.Label(&models.Situation{Result: "Balk"})

	assert.Equal(t, FallbackTactic, result.PrimaryTactic)
	assert.Equal(t, map[string]float64{FallbackTactic: 100.0}, result.Probabilities)
}

func TestLabelScoresFromContextMatch(t *testing.T) {
	labeler := NewLabeler(Default())

	// No context clause matches: bases empty, no pressure.
	s := &models.Situation{
		Result:        "Home Run",
		Inning:        2,
		PressureIndex: 1.0,
	}
	result := labeler.Label(s)
	require.Equal(t, "power_hitting", result.PrimaryTactic)
	assert.InDelta(t, 0.4, result.Probabilities["power_hitting"], 1e-9)

	// Every clause matches and high pressure plus a strong batter multiply
	// the score: (0.4 + 0.6) * 1.2 * 1.2.
	s = &models.Situation{
		Result:          "Home Run",
		Inning:          8,
		NumRunners:      2,
		ScoringPosition: true,
		PressureIndex:   1.8,
		Batter:          &models.BatterStats{OPS: 0.910},
	}
	result = labeler.Label(s)
	require.Equal(t, "power_hitting", result.PrimaryTactic)
	assert.InDelta(t, 1.44, result.Probabilities["power_hitting"], 1e-9)
}

func TestLabelContactHittingBoosts(t *testing.T) {
	labeler := NewLabeler(Default())

	s := &models.Situation{
		Result:        "Single",
		Outs:          1,
		PressureIndex: 1.0,
		Batter:        &models.BatterStats{AVG: 0.320},
	}
	result := labeler.Label(s)

	require.Equal(t, "contact_hitting", result.PrimaryTactic)
	// Both clauses match (1.0) and the high-average batter adds 10%.
	assert.InDelta(t, 1.1, result.Probabilities["contact_hitting"], 1e-9)
}

func TestLabelMatchupAdjustments(t *testing.T) {
	labeler := NewLabeler(Default())

	base := models.Situation{
		Result:        "Strikeout",
		Strikes:       2,
		PressureIndex: 1.0,
	}

	plain := labeler.Label(&base)

	dominated := base
	dominated.MatchupStats = &models.MatchupStats{AtBats: 25, OPS: 0.450}
	adjusted := labeler.Label(&dominated)

	assert.InDelta(t,
		plain.Probabilities["strikeout_pitching"]*1.15,
		adjusted.Probabilities["strikeout_pitching"], 1e-9)

	// Small samples are ignored.
	tiny := base
	tiny.MatchupStats = &models.MatchupStats{AtBats: 4, OPS: 0.450}
	assert.InDelta(t,
		plain.Probabilities["strikeout_pitching"],
		labeler.Label(&tiny).Probabilities["strikeout_pitching"], 1e-9)
}

func TestLabelPrimaryIsHighestScore(t *testing.T) {
	labeler := NewLabeler(Default())

	s := &models.Situation{
		Result:               "Triple",
		Outs:                 1,
		NumRunners:           1,
		OffensiveOpportunity: 1.2,
		PressureIndex:        1.0,
	}
	result := labeler.Label(s)

	require.Len(t, result.Probabilities, 2)
	best := result.Probabilities[result.PrimaryTactic]
	for name, prob := range result.Probabilities {
		assert.LessOrEqual(t, prob, best, "tactic %s outscored the primary", name)
	}
}
