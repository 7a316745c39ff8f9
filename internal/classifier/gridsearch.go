package classifier

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// crossValidationFolds is the fold count used by grid search and the
// post-training cross-validation re-run.
const crossValidationFolds = 5

// GridSearchResult is the cross-validated score for one configuration
type GridSearchResult struct {
	Params         Hyperparameters `json:"params"`
	MeanWeightedF1 float64         `json:"mean_weighted_f1"`
	StdWeightedF1  float64         `json:"std_weighted_f1"`
	MeanAccuracy   float64         `json:"mean_accuracy"`
	CompletedFolds int             `json:"completed_folds"`
}

// GridSearchReport summarizes a grid search run
type GridSearchReport struct {
	BestParams Hyperparameters    `json:"best_params"`
	BestScore  float64            `json:"best_score"`
	Results    []GridSearchResult `json:"results"`
}

// defaultGrid enumerates the hyperparameter combinations searched
func defaultGrid() []Hyperparameters {
	estimators := []int{100, 200}
	depths := []int{8, 10}
	leaves := []int{30, 50}
	splits := []int{30, 50}
	features := []string{"sqrt", "log2"}
	pruning := []float64{0.01, 0.02}

	grid := make([]Hyperparameters, 0, len(estimators)*len(depths)*len(leaves)*len(splits)*len(features)*len(pruning))
	for _, n := range estimators {
		for _, d := range depths {
			for _, l := range leaves {
				for _, s := range splits {
					for _, f := range features {
						for _, p := range pruning {
							grid = append(grid, Hyperparameters{
								NEstimators:         n,
								MaxDepth:            d,
								MinSamplesLeaf:      l,
								MinSamplesSplit:     s,
								MaxFeatures:         f,
								MinImpurityDecrease: p,
							})
						}
					}
				}
			}
		}
	}
	return grid
}

type foldTask struct {
	combo int
	fold  int
}

type foldScore struct {
	combo      int
	weightedF1 float64
	accuracy   float64
}

// runGridSearch cross-validates every configuration in the grid, fanning the
// independent (configuration x fold) fits across a bounded worker pool. Fold
// results join through a channel; no state is shared between workers.
// A cancelled context stops dispatch; only completed folds are scored.
func runGridSearch(ctx context.Context, ds Dataset, classWeights map[string]float64,
	grid []Hyperparameters, workers int, seed int64, logger *logrus.Logger) (*GridSearchReport, error) {

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	folds, err := stratifiedKFold(ds.Labels, crossValidationFolds, seed)
	if err != nil {
		return nil, err
	}

	tasks := make(chan foldTask)
	scores := make(chan foldScore)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				trainIdx, valIdx := foldSplit(folds, task.fold)
				trainSet := subset(ds, trainIdx)

				forest := fitForest(trainSet, classWeights, grid[task.combo], seed+int64(task.fold))
				GridSearchFitsTotal.Inc()

				predicted := make([]string, len(valIdx))
				actual := make([]string, len(valIdx))
				for i, idx := range valIdx {
					predicted[i] = forest.Predict(ds.Rows[idx])
					actual[i] = ds.Labels[idx]
				}

				scores <- foldScore{
					combo:      task.combo,
					weightedF1: weightedF1(actual, predicted),
					accuracy:   accuracyScore(actual, predicted),
				}
			}
		}()
	}

	go func() {
	dispatch:
		for combo := range grid {
			for fold := 0; fold < len(folds); fold++ {
				select {
				case tasks <- foldTask{combo: combo, fold: fold}:
				case <-ctx.Done():
					break dispatch
				}
			}
		}
		close(tasks)
		wg.Wait()
		close(scores)
	}()

	f1PerCombo := make([][]float64, len(grid))
	accPerCombo := make([][]float64, len(grid))
	for score := range scores {
		f1PerCombo[score.combo] = append(f1PerCombo[score.combo], score.weightedF1)
		accPerCombo[score.combo] = append(accPerCombo[score.combo], score.accuracy)
	}

	report := &GridSearchReport{Results: make([]GridSearchResult, 0, len(grid))}
	bestScore := -1.0
	for combo, f1s := range f1PerCombo {
		if len(f1s) == 0 {
			continue
		}
		meanF1, stdF1 := meanStd(f1s)
		meanAcc, _ := meanStd(accPerCombo[combo])
		result := GridSearchResult{
			Params:         grid[combo],
			MeanWeightedF1: meanF1,
			StdWeightedF1:  stdF1,
			MeanAccuracy:   meanAcc,
			CompletedFolds: len(f1s),
		}
		report.Results = append(report.Results, result)
		if meanF1 > bestScore {
			bestScore = meanF1
			report.BestParams = grid[combo]
			report.BestScore = meanF1
		}
	}

	if bestScore < 0 {
		return nil, fmt.Errorf("no grid-search configuration completed any fold")
	}

	logger.WithFields(logrus.Fields{
		"configurations": len(grid),
		"best_f1":        report.BestScore,
		"best_params":    fmt.Sprintf("%+v", report.BestParams),
	}).Info("Grid search complete")

	return report, nil
}

// stratifiedKFold deals each class's shuffled indexes round-robin across the
// folds so class proportions survive the split.
func stratifiedKFold(labels []string, k int, seed int64) ([][]int, error) {
	byClass := make(map[string][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	rng := rand.New(rand.NewSource(seed))
	folds := make([][]int, k)
	for _, class := range classes {
		idxs := byClass[class]
		rng.Shuffle(len(idxs), func(i, j int) { idxs[i], idxs[j] = idxs[j], idxs[i] })
		for i, idx := range idxs {
			folds[i%k] = append(folds[i%k], idx)
		}
	}

	for f := range folds {
		if len(folds[f]) == 0 {
			return nil, fmt.Errorf("fold %d is empty: dataset too small for %d-fold validation", f, k)
		}
	}
	return folds, nil
}

func foldSplit(folds [][]int, holdout int) (train, val []int) {
	for f, idxs := range folds {
		if f == holdout {
			val = append(val, idxs...)
		} else {
			train = append(train, idxs...)
		}
	}
	return train, val
}

// stratifiedSplit carves a per-class test fraction off the dataset
func stratifiedSplit(ds Dataset, testFraction float64, seed int64) (train, test Dataset) {
	byClass := make(map[string][]int)
	for i, label := range ds.Labels {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	rng := rand.New(rand.NewSource(seed))
	var trainIdx, testIdx []int
	for _, class := range classes {
		idxs := byClass[class]
		rng.Shuffle(len(idxs), func(i, j int) { idxs[i], idxs[j] = idxs[j], idxs[i] })
		cut := int(float64(len(idxs)) * testFraction)
		if cut == 0 && len(idxs) > 1 {
			cut = 1
		}
		testIdx = append(testIdx, idxs[:cut]...)
		trainIdx = append(trainIdx, idxs[cut:]...)
	}

	sort.Ints(trainIdx)
	sort.Ints(testIdx)
	return subset(ds, trainIdx), subset(ds, testIdx)
}

func subset(ds Dataset, indexes []int) Dataset {
	rows := make([][]float64, len(indexes))
	labels := make([]string, len(indexes))
	for i, idx := range indexes {
		rows[i] = ds.Rows[idx]
		labels[i] = ds.Labels[idx]
	}
	return Dataset{Columns: ds.Columns, Rows: rows, Labels: labels}
}
