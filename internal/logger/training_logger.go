// Package logger provides training-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// TrainingLogger provides dedicated logging for model training runs.
type TrainingLogger struct {
	*logrus.Entry
}

// NewTrainingLogger creates a new training logger.
func NewTrainingLogger(baseLogger *logrus.Logger) *TrainingLogger {
	return &TrainingLogger{
		Entry: baseLogger.WithField("component", "training"),
	}
}

// LogCorpusBuilt logs the size of the labeled corpus used for a run.
func (t *TrainingLogger) LogCorpusBuilt(season, games, situations int) {
	t.WithFields(logrus.Fields{
		"season":     season,
		"games":      games,
		"situations": situations,
	}).Info("Training corpus built")
}

// LogTrainingCompleted logs the headline metrics of a finished run.
func (t *TrainingLogger) LogTrainingCompleted(accuracy, weightedF1, durationSeconds float64, optimized bool) {
	t.WithFields(logrus.Fields{
		"accuracy":         accuracy,
		"weighted_f1":      weightedF1,
		"duration_seconds": durationSeconds,
		"optimized":        optimized,
	}).Info("Model training completed")
}

// LogTrainingFailed logs a failed run with its reason.
func (t *TrainingLogger) LogTrainingFailed(reason string) {
	t.WithField("reason", reason).Error("Model training failed")
}
