package classifier

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a CART decision tree. Internal nodes carry a
// feature/threshold split; leaves carry the weighted class distribution seen
// at fit time. Feature is -1 for leaves.
type treeNode struct {
	Feature     int       `json:"feature"`
	Threshold   float64   `json:"threshold"`
	Left        *treeNode `json:"left,omitempty"`
	Right       *treeNode `json:"right,omitempty"`
	ClassCounts []float64 `json:"class_counts,omitempty"`
}

func (n *treeNode) isLeaf() bool {
	return n.Feature < 0
}

// treeConfig bounds tree growth
type treeConfig struct {
	maxDepth            int
	minSamplesLeaf      int
	minSamplesSplit     int
	maxFeatures         int
	minImpurityDecrease float64
}

// buildTree grows a weighted CART tree on the given sample indexes.
// importances accumulates weighted impurity decrease per feature.
func buildTree(rows [][]float64, classes []int, weights []float64, indexes []int,
	nClasses int, cfg treeConfig, rng *rand.Rand, depth int, importances []float64) *treeNode {

	counts := weightedCounts(classes, weights, indexes, nClasses)
	total := sum(counts)
	impurity := gini(counts, total)

	if depth >= cfg.maxDepth || len(indexes) < cfg.minSamplesSplit || impurity == 0 {
		return &treeNode{Feature: -1, ClassCounts: counts}
	}

	feature, threshold, decrease, left, right := bestSplit(rows, classes, weights, indexes, nClasses, cfg, rng, impurity, total)
	if feature < 0 || decrease < cfg.minImpurityDecrease {
		return &treeNode{Feature: -1, ClassCounts: counts}
	}

	importances[feature] += decrease * total

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(rows, classes, weights, left, nClasses, cfg, rng, depth+1, importances),
		Right:     buildTree(rows, classes, weights, right, nClasses, cfg, rng, depth+1, importances),
	}
}

// bestSplit scans a random feature subset for the split with the largest
// weighted impurity decrease. Returns feature -1 when no valid split exists.
func bestSplit(rows [][]float64, classes []int, weights []float64, indexes []int,
	nClasses int, cfg treeConfig, rng *rand.Rand, parentImpurity, parentWeight float64) (int, float64, float64, []int, []int) {

	nFeatures := len(rows[indexes[0]])
	candidates := sampleFeatures(nFeatures, cfg.maxFeatures, rng)

	bestFeature := -1
	bestThreshold := 0.0
	bestDecrease := 0.0
	var bestLeft, bestRight []int

	for _, f := range candidates {
		sorted := append([]int(nil), indexes...)
		sort.Slice(sorted, func(i, j int) bool {
			return rows[sorted[i]][f] < rows[sorted[j]][f]
		})

		leftCounts := make([]float64, nClasses)
		rightCounts := weightedCounts(classes, weights, sorted, nClasses)
		leftWeight := 0.0
		rightWeight := sum(rightCounts)

		for i := 0; i < len(sorted)-1; i++ {
			idx := sorted[i]
			w := weights[idx]
			leftCounts[classes[idx]] += w
			rightCounts[classes[idx]] -= w
			leftWeight += w
			rightWeight -= w

			v, next := rows[idx][f], rows[sorted[i+1]][f]
			if v == next {
				continue
			}
			if i+1 < cfg.minSamplesLeaf || len(sorted)-i-1 < cfg.minSamplesLeaf {
				continue
			}

			decrease := parentImpurity -
				leftWeight/parentWeight*gini(leftCounts, leftWeight) -
				rightWeight/parentWeight*gini(rightCounts, rightWeight)

			if decrease > bestDecrease {
				bestDecrease = decrease
				bestFeature = f
				bestThreshold = (v + next) / 2
				bestLeft = append([]int(nil), sorted[:i+1]...)
				bestRight = append([]int(nil), sorted[i+1:]...)
			}
		}
	}

	return bestFeature, bestThreshold, bestDecrease, bestLeft, bestRight
}

// predictProba walks the tree and returns the normalized leaf distribution
func (n *treeNode) predictProba(row []float64, nClasses int) []float64 {
	node := n
	for !node.isLeaf() {
		if node.Feature < len(row) && row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	probs := make([]float64, nClasses)
	total := sum(node.ClassCounts)
	if total == 0 {
		return probs
	}
	for i, c := range node.ClassCounts {
		probs[i] = c / total
	}
	return probs
}

func sampleFeatures(nFeatures, maxFeatures int, rng *rand.Rand) []int {
	if maxFeatures <= 0 || maxFeatures >= nFeatures {
		all := make([]int, nFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := rng.Perm(nFeatures)
	return perm[:maxFeatures]
}

func weightedCounts(classes []int, weights []float64, indexes []int, nClasses int) []float64 {
	counts := make([]float64, nClasses)
	for _, idx := range indexes {
		counts[classes[idx]] += weights[idx]
	}
	return counts
}

func gini(counts []float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := c / total
		impurity -= p * p
	}
	return impurity
}

func sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}

func resolveMaxFeatures(mode string, nFeatures int) int {
	switch mode {
	case "log2":
		return int(math.Max(1, math.Floor(math.Log2(float64(nFeatures)))))
	case "sqrt", "":
		return int(math.Max(1, math.Floor(math.Sqrt(float64(nFeatures)))))
	default:
		return nFeatures
	}
}
