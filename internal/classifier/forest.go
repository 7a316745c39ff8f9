package classifier

import (
	"math/rand"
)

// Hyperparameters configures one random-forest fit
type Hyperparameters struct {
	NEstimators         int     `json:"n_estimators"`
	MaxDepth            int     `json:"max_depth"`
	MinSamplesLeaf      int     `json:"min_samples_leaf"`
	MinSamplesSplit     int     `json:"min_samples_split"`
	MaxFeatures         string  `json:"max_features"`
	MinImpurityDecrease float64 `json:"min_impurity_decrease"`
}

// DefaultHyperparameters is the fixed configuration used when grid search is
// disabled.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		NEstimators:         200,
		MaxDepth:            8,
		MinSamplesLeaf:      30,
		MinSamplesSplit:     30,
		MaxFeatures:         "sqrt",
		MinImpurityDecrease: 0.01,
	}
}

// Forest is a fitted random-forest ensemble. Immutable after fitting; safe
// for concurrent prediction.
type Forest struct {
	Classes     []string        `json:"classes"`
	Trees       []*treeNode     `json:"trees"`
	Params      Hyperparameters `json:"params"`
	Importances []float64       `json:"feature_importances"`
	Seed        int64           `json:"seed"`
}

// fitForest trains an ensemble on the dataset with per-class sample weights.
// Each tree fits a bootstrap resample with feature subsampling; the seed
// makes the whole fit reproducible.
func fitForest(ds Dataset, classWeights map[string]float64, params Hyperparameters, seed int64) *Forest {
	classes := classNames(ds.Labels)
	classIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	rowClasses := make([]int, len(ds.Labels))
	weights := make([]float64, len(ds.Labels))
	for i, label := range ds.Labels {
		rowClasses[i] = classIndex[label]
		weights[i] = classWeights[label]
		if weights[i] == 0 {
			weights[i] = 1
		}
	}

	cfg := treeConfig{
		maxDepth:            params.MaxDepth,
		minSamplesLeaf:      params.MinSamplesLeaf,
		minSamplesSplit:     params.MinSamplesSplit,
		maxFeatures:         resolveMaxFeatures(params.MaxFeatures, len(ds.Columns)),
		minImpurityDecrease: params.MinImpurityDecrease,
	}

	rng := rand.New(rand.NewSource(seed))
	trees := make([]*treeNode, params.NEstimators)
	importances := make([]float64, len(ds.Columns))

	n := len(ds.Rows)
	for t := 0; t < params.NEstimators; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		treeImportances := make([]float64, len(ds.Columns))
		trees[t] = buildTree(ds.Rows, rowClasses, weights, sample, len(classes), cfg, rng, 0, treeImportances)
		for f, v := range treeImportances {
			importances[f] += v
		}
	}

	normalizeImportances(importances)

	return &Forest{
		Classes:     classes,
		Trees:       trees,
		Params:      params,
		Importances: importances,
		Seed:        seed,
	}
}

// PredictProba returns the averaged per-class probability for one row,
// ordered like Classes.
func (f *Forest) PredictProba(row []float64) []float64 {
	probs := make([]float64, len(f.Classes))
	if len(f.Trees) == 0 {
		return probs
	}
	for _, tree := range f.Trees {
		treeProbs := tree.predictProba(row, len(f.Classes))
		for i, p := range treeProbs {
			probs[i] += p
		}
	}
	for i := range probs {
		probs[i] /= float64(len(f.Trees))
	}
	return probs
}

// Predict returns the arg-max class for one row
func (f *Forest) Predict(row []float64) string {
	probs := f.PredictProba(row)
	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}
	if len(f.Classes) == 0 {
		return ""
	}
	return f.Classes[best]
}

func normalizeImportances(importances []float64) {
	total := sum(importances)
	if total == 0 {
		return
	}
	for i := range importances {
		importances[i] /= total
	}
}
