package classifier

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/models"
	"github.com/yourusername/diamond-tactics/internal/tactics"
)

// probability floor for reported tactics, as a fraction
const reportThreshold = 0.05

// TrainOptions controls one training run
type TrainOptions struct {
	// Optimize enables grid search over the hyperparameter grid with
	// stratified cross-validation.
	Optimize bool
	// Seed fixes all randomness in the fit. Zero selects a time-based seed.
	Seed int64
	// Workers bounds the grid-search worker pool. Zero means GOMAXPROCS.
	Workers int
}

// Classifier trains and serves the tactical prediction model. The fitted
// forest and its feature-name list are stored as one unit so inference always
// sees columns aligned to the training schema.
type Classifier struct {
	registry     *tactics.Registry
	logger       *logrus.Logger
	forest       *Forest
	featureNames []string
}

// New creates an unfitted classifier
func New(registry *tactics.Registry, logger *logrus.Logger) *Classifier {
	if registry == nil {
		registry = tactics.Default()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Classifier{registry: registry, logger: logger}
}

// FeatureNames returns the ordered feature schema stored at fit time
func (c *Classifier) FeatureNames() []string {
	return append([]string(nil), c.featureNames...)
}

// Train fits the ensemble to the labeled situations. Rows labeled with the
// pseudo-class are removed first; per-class weights counteract label
// imbalance. Returns the post-training diagnostics.
func (c *Classifier) Train(ctx context.Context, situations []models.Situation, opts TrainOptions) (*TrainingReport, error) {
	start := time.Now()
	ds := BuildDataset(situations)

	if err := validateDataset(ds); err != nil {
		TrainingRunsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	weights := computeClassWeights(ds.Labels)
	dist := classDistribution(ds.Labels)
	c.logger.WithFields(logrus.Fields{
		"rows":     len(ds.Rows),
		"columns":  len(ds.Columns),
		"classes":  len(dist),
		"optimize": opts.Optimize,
	}).Info("Starting model training")

	trainSet, testSet := stratifiedSplit(ds, 0.2, seed)

	var params Hyperparameters
	var gridReport *GridSearchReport
	if opts.Optimize {
		var err error
		gridReport, err = runGridSearch(ctx, trainSet, weights, defaultGrid(), opts.Workers, seed, c.logger)
		if err != nil {
			TrainingRunsTotal.WithLabelValues("failure").Inc()
			return nil, fmt.Errorf("grid search: %w", err)
		}
		params = gridReport.BestParams
	} else {
		params = DefaultHyperparameters()
	}

	c.forest = fitForest(trainSet, weights, params, seed)
	c.featureNames = append([]string(nil), ds.Columns...)

	report := c.evaluate(trainSet, testSet, ds, weights, seed)
	report.GridSearch = gridReport
	report.Params = params
	report.TrainedAt = time.Now()

	TrainingRunsTotal.WithLabelValues("success").Inc()
	TrainingDuration.Observe(time.Since(start).Seconds())
	c.logger.WithFields(logrus.Fields{
		"accuracy":    report.Accuracy,
		"weighted_f1": report.CrossValidation.MeanWeightedF1,
		"duration":    time.Since(start).String(),
	}).Info("Model training complete")

	return report, nil
}

// PredictProba returns the per-category probability percentages for one
// situation. Columns missing from the stored schema are zero-filled and
// extra columns dropped; schema drift is reconciled, never fatal.
func (c *Classifier) PredictProba(situation *models.Situation) (models.CategoryProbabilities, error) {
	start := time.Now()
	defer func() {
		PredictionLatency.Observe(time.Since(start).Seconds())
	}()

	if c.forest == nil {
		return nil, models.ErrModelNotLoaded
	}

	row := c.vectorize(situation)
	probs := c.forest.PredictProba(row)

	byCategory := make(models.CategoryProbabilities)
	for _, category := range c.registry.Categories() {
		byCategory[string(category)] = make(map[string]float64)
	}
	for i, class := range c.forest.Classes {
		if probs[i] < reportThreshold {
			continue
		}
		category := string(c.registry.CategoryOf(class))
		if category == "" {
			category = "OTHER"
		}
		if _, ok := byCategory[category]; !ok {
			byCategory[category] = make(map[string]float64)
		}
		byCategory[category][class] = round2(probs[i] * 100)
	}

	PredictionsTotal.Inc()
	return byCategory, nil
}

// AnalyzeSituation combines the probability prediction with a context summary,
// the top three tactics overall and rule-based recommendations.
func (c *Classifier) AnalyzeSituation(situation *models.Situation) (*models.PredictionResult, error) {
	byCategory, err := c.PredictProba(situation)
	if err != nil {
		return nil, err
	}

	context := models.ContextAnalysis{
		GameSituation: models.GameSituation{
			Inning:        situation.Inning,
			Outs:          situation.Outs,
			ScoreDiff:     situation.ScoreDiff,
			PressureIndex: round2(situation.PressureIndex),
		},
		RunnerSituation: models.RunnerSituation{
			Runners:         situation.NumRunners,
			ScoringPosition: situation.ScoringPosition,
		},
	}

	ranked := rankTactics(byCategory)
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	topTactics := make(map[string]float64, len(ranked))
	recommendations := make([]models.Recommendation, 0, len(ranked))
	for _, entry := range ranked {
		topTactics[entry.name] = entry.prob
		recommendations = append(recommendations, models.Recommendation{
			Tactic:          entry.name,
			Probability:     entry.prob,
			Reasoning:       c.recommendationReasoning(entry.name, context),
			SpecificActions: c.registry.Actions(entry.name),
		})
	}

	return &models.PredictionResult{
		TacticalProbabilities: byCategory,
		TopTactics:            topTactics,
		ContextAnalysis:       context,
		Recommendations:       recommendations,
		PredictedAt:           time.Now(),
	}, nil
}

// vectorize re-applies the stored feature schema to a situation
func (c *Classifier) vectorize(situation *models.Situation) []float64 {
	fm := situation.FeatureMap()
	row := make([]float64, len(c.featureNames))
	for i, name := range c.featureNames {
		row[i] = fm[name]
	}
	return row
}

type rankedTactic struct {
	name string
	prob float64
}

// rankTactics flattens category probabilities into a descending list with a
// deterministic name tie-break.
func rankTactics(byCategory models.CategoryProbabilities) []rankedTactic {
	ranked := make([]rankedTactic, 0)
	for _, entries := range byCategory {
		for name, prob := range entries {
			ranked = append(ranked, rankedTactic{name: name, prob: prob})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].prob != ranked[j].prob {
			return ranked[i].prob > ranked[j].prob
		}
		return ranked[i].name < ranked[j].name
	})
	return ranked
}

// recommendationReasoning builds the reasoning string from rule-based context
// checks plus the tactic's category.
func (c *Classifier) recommendationReasoning(tactic string, context models.ContextAnalysis) string {
	game := context.GameSituation
	runners := context.RunnerSituation

	reasons := make([]string, 0, 5)
	if game.Inning >= tactics.LateInningThreshold {
		reasons = append(reasons, "Late game situation")
	}
	if game.PressureIndex > tactics.HighPressureThreshold {
		reasons = append(reasons, "High pressure situation")
	}
	if runners.ScoringPosition {
		reasons = append(reasons, "Runners in scoring position")
	}

	diff := game.ScoreDiff
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= tactics.CloseScoreThreshold:
		reasons = append(reasons, "Close game")
	case game.ScoreDiff > 0:
		reasons = append(reasons, "Leading by multiple runs")
	default:
		reasons = append(reasons, "Trailing by multiple runs")
	}

	switch c.registry.CategoryOf(tactic) {
	case tactics.CategoryOffensive:
		if runners.ScoringPosition {
			reasons = append(reasons, "Good opportunity for run scoring")
		}
	case tactics.CategoryDefensive:
		if game.PressureIndex > tactics.HighPressureThreshold {
			reasons = append(reasons, "Critical defensive situation")
		}
	}

	if len(reasons) == 0 {
		return "Based on general game situation"
	}
	return strings.Join(reasons, " | ")
}

func validateDataset(ds Dataset) error {
	if len(ds.Rows) == 0 {
		return fmt.Errorf("%w: empty dataset", models.ErrInsufficientClasses)
	}
	dist := classDistribution(ds.Labels)
	if len(dist) < 2 {
		return fmt.Errorf("%w: got %d", models.ErrInsufficientClasses, len(dist))
	}
	present := make(map[string]struct{}, len(ds.Columns))
	for _, col := range ds.Columns {
		present[col] = struct{}{}
	}
	for _, col := range requiredColumns {
		if _, ok := present[col]; !ok {
			return fmt.Errorf("%w: %s", models.ErrMissingColumns, col)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
