package classifier

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// ClassMetrics is the per-class slice of the classification report
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// FeatureImportance pairs a feature name with its impurity-decrease share
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ConfidenceAnalysis summarizes the distribution of top-class probabilities
type ConfidenceAnalysis struct {
	Mean            float64            `json:"mean"`
	Median          float64            `json:"median"`
	Std             float64            `json:"std"`
	AboveThresholds map[string]float64 `json:"above_thresholds"`
}

// ClassScore holds mean and spread of a cross-validated metric
type ClassScore struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// CrossValidationReport is the 5-fold re-run over the full dataset
type CrossValidationReport struct {
	MeanAccuracy   float64               `json:"mean_accuracy"`
	StdAccuracy    float64               `json:"std_accuracy"`
	MeanWeightedF1 float64               `json:"mean_weighted_f1"`
	StdWeightedF1  float64               `json:"std_weighted_f1"`
	ClassF1        map[string]ClassScore `json:"class_f1"`
}

// TrainingReport is the full set of post-training diagnostics. All values
// are reproducible for a fixed seed.
type TrainingReport struct {
	Params             Hyperparameters         `json:"params"`
	GridSearch         *GridSearchReport       `json:"grid_search,omitempty"`
	Accuracy           float64                 `json:"accuracy"`
	Report             map[string]ClassMetrics `json:"classification_report"`
	ConfusionLabels    []string                `json:"confusion_labels"`
	ConfusionMatrix    [][]int                 `json:"confusion_matrix"`
	FeatureImportances []FeatureImportance     `json:"feature_importances"`
	Confidence         ConfidenceAnalysis      `json:"confidence"`
	CrossValidation    CrossValidationReport   `json:"cross_validation"`
	TrainedAt          time.Time               `json:"trained_at"`
}

// evaluate runs the held-out evaluation, importance and confidence analysis,
// and the cross-validation re-run on the full dataset.
func (c *Classifier) evaluate(trainSet, testSet, full Dataset, classWeights map[string]float64, seed int64) *TrainingReport {
	predicted := make([]string, len(testSet.Rows))
	confidences := make([]float64, len(testSet.Rows))
	for i, row := range testSet.Rows {
		probs := c.forest.PredictProba(row)
		best := 0
		for j := range probs {
			if probs[j] > probs[best] {
				best = j
			}
		}
		predicted[i] = c.forest.Classes[best]
		confidences[i] = probs[best]
	}

	report := &TrainingReport{
		Accuracy:           accuracyScore(testSet.Labels, predicted),
		Report:             classificationReport(testSet.Labels, predicted),
		FeatureImportances: c.topImportances(10),
		Confidence:         analyzeConfidence(confidences),
	}
	report.ConfusionLabels, report.ConfusionMatrix = confusionMatrix(testSet.Labels, predicted, c.forest.Classes)
	report.CrossValidation = c.crossValidate(full, classWeights, seed)
	return report
}

// crossValidate re-runs a stratified 5-fold fit/score cycle with the fitted
// hyperparameters.
func (c *Classifier) crossValidate(ds Dataset, classWeights map[string]float64, seed int64) CrossValidationReport {
	out := CrossValidationReport{ClassF1: make(map[string]ClassScore)}

	folds, err := stratifiedKFold(ds.Labels, crossValidationFolds, seed)
	if err != nil {
		c.logger.WithError(err).Warn("Skipping cross-validation re-run")
		return out
	}

	classes := classNames(ds.Labels)
	accuracies := make([]float64, 0, len(folds))
	f1s := make([]float64, 0, len(folds))
	classF1s := make(map[string][]float64, len(classes))

	for fold := range folds {
		trainIdx, valIdx := foldSplit(folds, fold)
		forest := fitForest(subset(ds, trainIdx), classWeights, c.forest.Params, seed+int64(fold))

		predicted := make([]string, len(valIdx))
		actual := make([]string, len(valIdx))
		for i, idx := range valIdx {
			predicted[i] = forest.Predict(ds.Rows[idx])
			actual[i] = ds.Labels[idx]
		}

		accuracies = append(accuracies, accuracyScore(actual, predicted))
		f1s = append(f1s, weightedF1(actual, predicted))
		for _, class := range classes {
			m := classMetrics(actual, predicted, class)
			classF1s[class] = append(classF1s[class], m.F1)
		}
	}

	out.MeanAccuracy, out.StdAccuracy = meanStd(accuracies)
	out.MeanWeightedF1, out.StdWeightedF1 = meanStd(f1s)
	for class, scores := range classF1s {
		mean, std := meanStd(scores)
		out.ClassF1[class] = ClassScore{Mean: mean, Std: std}
	}
	return out
}

func (c *Classifier) topImportances(n int) []FeatureImportance {
	importances := make([]FeatureImportance, len(c.featureNames))
	for i, name := range c.featureNames {
		importance := 0.0
		if i < len(c.forest.Importances) {
			importance = c.forest.Importances[i]
		}
		importances[i] = FeatureImportance{Feature: name, Importance: importance}
	}
	sort.Slice(importances, func(i, j int) bool {
		if importances[i].Importance != importances[j].Importance {
			return importances[i].Importance > importances[j].Importance
		}
		return importances[i].Feature < importances[j].Feature
	})
	if len(importances) > n {
		importances = importances[:n]
	}
	return importances
}

func analyzeConfidence(confidences []float64) ConfidenceAnalysis {
	mean, std := meanStd(confidences)
	analysis := ConfidenceAnalysis{
		Mean:            mean,
		Median:          median(confidences),
		Std:             std,
		AboveThresholds: make(map[string]float64, 3),
	}
	for _, threshold := range []float64{0.5, 0.7, 0.9} {
		count := 0
		for _, conf := range confidences {
			if conf >= threshold {
				count++
			}
		}
		pct := 0.0
		if len(confidences) > 0 {
			pct = float64(count) / float64(len(confidences)) * 100
		}
		analysis.AboveThresholds[formatThreshold(threshold)] = pct
	}
	return analysis
}

func classificationReport(actual, predicted []string) map[string]ClassMetrics {
	report := make(map[string]ClassMetrics)
	for _, class := range classNames(actual) {
		report[class] = classMetrics(actual, predicted, class)
	}
	return report
}

func classMetrics(actual, predicted []string, class string) ClassMetrics {
	tp, fp, fn, support := 0, 0, 0, 0
	for i := range actual {
		if actual[i] == class {
			support++
			if predicted[i] == class {
				tp++
			} else {
				fn++
			}
		} else if predicted[i] == class {
			fp++
		}
	}

	m := ClassMetrics{Support: support}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

func confusionMatrix(actual, predicted []string, classes []string) ([]string, [][]int) {
	index := make(map[string]int, len(classes))
	for i, class := range classes {
		index[class] = i
	}
	matrix := make([][]int, len(classes))
	for i := range matrix {
		matrix[i] = make([]int, len(classes))
	}
	for i := range actual {
		a, aok := index[actual[i]]
		p, pok := index[predicted[i]]
		if aok && pok {
			matrix[a][p]++
		}
	}
	return append([]string(nil), classes...), matrix
}

func accuracyScore(actual, predicted []string) float64 {
	if len(actual) == 0 {
		return 0
	}
	correct := 0
	for i := range actual {
		if actual[i] == predicted[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(actual))
}

// weightedF1 averages per-class F1 weighted by class support
func weightedF1(actual, predicted []string) float64 {
	if len(actual) == 0 {
		return 0
	}
	total := 0.0
	for _, class := range classNames(actual) {
		m := classMetrics(actual, predicted, class)
		total += m.F1 * float64(m.Support)
	}
	return total / float64(len(actual))
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
