// Package classifier implements the random-forest tactical classifier:
// dataset preparation, training with imbalance-aware class weights, optional
// grid-search optimization, evaluation diagnostics and model persistence.
package classifier

import (
	"sort"

	"github.com/yourusername/diamond-tactics/internal/models"
)

// pseudoClass rows are excluded from training
const pseudoClass = "other"

// requiredColumns must be present in any training dataset
var requiredColumns = []string{"inning", "outs", "pressure_index"}

// Dataset is a dense feature table with one label per row. Column order is
// deterministic; missing values are zero-filled at construction.
type Dataset struct {
	Columns []string
	Rows    [][]float64
	Labels  []string
}

// BuildDataset flattens labeled situations into the training table. Rows
// labeled with the pseudo-class are dropped; the column set is the union of
// all feature maps, sorted for determinism, with absent values filled as 0.
func BuildDataset(situations []models.Situation) Dataset {
	columnSet := make(map[string]struct{})
	maps := make([]map[string]float64, 0, len(situations))
	labels := make([]string, 0, len(situations))

	for i := range situations {
		if situations[i].PrimaryTactic == pseudoClass {
			continue
		}
		m := situations[i].FeatureMap()
		maps = append(maps, m)
		labels = append(labels, situations[i].PrimaryTactic)
		for k := range m {
			columnSet[k] = struct{}{}
		}
	}

	columns := make([]string, 0, len(columnSet))
	for k := range columnSet {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	rows := make([][]float64, len(maps))
	for i, m := range maps {
		row := make([]float64, len(columns))
		for j, col := range columns {
			row[j] = m[col] // zero-fill for absent columns
		}
		rows[i] = row
	}

	return Dataset{Columns: columns, Rows: rows, Labels: labels}
}

// classDistribution counts rows per label
func classDistribution(labels []string) map[string]int {
	dist := make(map[string]int)
	for _, l := range labels {
		dist[l]++
	}
	return dist
}

// classNames returns the distinct labels in sorted order
func classNames(labels []string) []string {
	dist := classDistribution(labels)
	names := make([]string, 0, len(dist))
	for name := range dist {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// computeClassWeights derives per-class sample weights: the balanced base
// weight n/(k*count), boosted 1.5x for classes below 20% of the median count.
func computeClassWeights(labels []string) map[string]float64 {
	dist := classDistribution(labels)
	n := float64(len(labels))
	k := float64(len(dist))

	weights := make(map[string]float64, len(dist))
	for class, count := range dist {
		weights[class] = n / (k * float64(count))
	}

	median := medianCount(dist)
	for class, count := range dist {
		if float64(count) < median*0.2 {
			weights[class] *= 1.5
		}
	}
	return weights
}

func medianCount(dist map[string]int) float64 {
	counts := make([]int, 0, len(dist))
	for _, c := range dist {
		counts = append(counts, c)
	}
	sort.Ints(counts)
	mid := len(counts) / 2
	if len(counts)%2 == 1 {
		return float64(counts[mid])
	}
	return float64(counts[mid-1]+counts[mid]) / 2
}
