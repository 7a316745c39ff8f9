package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/diamond-tactics/internal/models"
)

func TestBuildDatasetDropsPseudoClassAndZeroFills(t *testing.T) {
	withStats := models.Situation{
		Inning:        3,
		HalfInning:    models.HalfTop,
		Result:        "Single",
		PressureIndex: 1.2,
		PrimaryTactic: "contact_hitting",
		Batter:        &models.BatterStats{AVG: 0.300},
	}
	withoutStats := models.Situation{
		Inning:        5,
		HalfInning:    models.HalfBottom,
		Result:        "Strikeout",
		PressureIndex: 1.0,
		PrimaryTactic: "strikeout_pitching",
	}
	pseudo := withoutStats
	pseudo.PrimaryTactic = "other"

	ds := BuildDataset([]models.Situation{withStats, withoutStats, pseudo})

	require.Len(t, ds.Rows, 2)
	require.Equal(t, []string{"contact_hitting", "strikeout_pitching"}, ds.Labels)

	// Columns are the sorted union of both feature maps.
	assert.True(t, columnsSorted(ds.Columns))
	colIdx := make(map[string]int, len(ds.Columns))
	for i, c := range ds.Columns {
		colIdx[c] = i
	}

	// The batter column exists because of the first row and zero-fills for
	// the second.
	idx, ok := colIdx["batter_avg"]
	require.True(t, ok)
	assert.InDelta(t, 0.300, ds.Rows[0][idx], 1e-9)
	assert.Zero(t, ds.Rows[1][idx])

	// One-hot result columns are disjoint per row.
	assert.EqualValues(t, 1, ds.Rows[0][colIdx["result_Single"]])
	assert.EqualValues(t, 0, ds.Rows[1][colIdx["result_Single"]])
	assert.EqualValues(t, 1, ds.Rows[1][colIdx["result_Strikeout"]])
}

func columnsSorted(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return false
		}
	}
	return true
}

func TestComputeClassWeights(t *testing.T) {
	labels := make([]string, 0, 111)
	for i := 0; i < 100; i++ {
		labels = append(labels, "a")
	}
	for i := 0; i < 10; i++ {
		labels = append(labels, "b")
	}
	labels = append(labels, "c")

	weights := computeClassWeights(labels)

	// Balanced base weight n/(k*count).
	assert.InDelta(t, 111.0/(3*100), weights["a"], 1e-9)
	assert.InDelta(t, 111.0/(3*10), weights["b"], 1e-9)
	// The rare class sits below 20% of the median count and gets the boost.
	assert.InDelta(t, 111.0/3*1.5, weights["c"], 1e-9)
}

func TestStratifiedKFold(t *testing.T) {
	labels := make([]string, 0, 50)
	for i := 0; i < 40; i++ {
		labels = append(labels, "majority")
	}
	for i := 0; i < 10; i++ {
		labels = append(labels, "minority")
	}

	folds, err := stratifiedKFold(labels, 5, 7)
	require.NoError(t, err)
	require.Len(t, folds, 5)

	seen := make(map[int]bool)
	for _, fold := range folds {
		// Class proportions survive: 8 majority and 2 minority per fold.
		minority := 0
		for _, idx := range fold {
			require.False(t, seen[idx], "index %d assigned twice", idx)
			seen[idx] = true
			if labels[idx] == "minority" {
				minority++
			}
		}
		assert.Len(t, fold, 10)
		assert.Equal(t, 2, minority)
	}
	assert.Len(t, seen, 50)
}

func TestStratifiedKFoldRejectsTinyDatasets(t *testing.T) {
	_, err := stratifiedKFold([]string{"a", "b", "a"}, 5, 1)
	require.Error(t, err)
}

func TestStratifiedSplit(t *testing.T) {
	situations := syntheticSituations(40, 40)
	ds := BuildDataset(situations)

	train, test := stratifiedSplit(ds, 0.2, 11)

	assert.Len(t, test.Rows, 16)
	assert.Len(t, train.Rows, 64)
	assert.Equal(t, ds.Columns, train.Columns)

	// Each class contributes proportionally to the test split.
	testDist := classDistribution(test.Labels)
	assert.Equal(t, 8, testDist["contact_hitting"])
	assert.Equal(t, 8, testDist["strikeout_pitching"])
}

func TestFoldSplitPartitionsAllRows(t *testing.T) {
	folds := [][]int{{0, 1}, {2, 3}, {4}}
	train, val := foldSplit(folds, 1)
	assert.ElementsMatch(t, []int{0, 1, 4}, train)
	assert.ElementsMatch(t, []int{2, 3}, val)
}
