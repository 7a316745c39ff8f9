package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/classifier"
	"github.com/yourusername/diamond-tactics/internal/datasource"
	"github.com/yourusername/diamond-tactics/internal/features"
	"github.com/yourusername/diamond-tactics/internal/models"
)

// TrainingService builds a labeled corpus from season games and fits the
// tactical classifier on it.
type TrainingService struct {
	feed       *datasource.FeedClient
	extractor  *features.Extractor
	classifier *classifier.Classifier
	logger     *logrus.Logger
}

// NewTrainingService creates a training service
func NewTrainingService(feed *datasource.FeedClient, extractor *features.Extractor, clf *classifier.Classifier, logger *logrus.Logger) *TrainingService {
	if logger == nil {
		logger = logrus.New()
	}
	return &TrainingService{
		feed:       feed,
		extractor:  extractor,
		classifier: clf,
		logger:     logger,
	}
}

// BuildCorpus fetches up to limit games from a season and extracts labeled
// situations from every play. Games whose feed cannot be fetched are skipped
// with a warning.
func (t *TrainingService) BuildCorpus(ctx context.Context, season, limit int) ([]models.Situation, error) {
	games, err := t.feed.FetchSeasonGames(ctx, season, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list season %d games: %w", season, err)
	}

	var corpus []models.Situation
	for _, game := range games {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		feed, err := t.feed.FetchLiveGame(ctx, game.GamePk)
		if err != nil {
			t.logger.WithError(err).WithField("game_pk", game.GamePk).Warn("Skipping game, feed fetch failed")
			continue
		}

		situations, err := t.extractor.ExtractAll(ctx, feed.Plays)
		if err != nil {
			t.logger.WithError(err).WithField("game_pk", game.GamePk).Warn("Skipping game, extraction failed")
			continue
		}
		corpus = append(corpus, situations...)
	}

	t.logger.WithFields(logrus.Fields{
		"season":     season,
		"games":      len(games),
		"situations": len(corpus),
	}).Info("Built training corpus")

	return corpus, nil
}

// TrainAndSave fits the classifier on the corpus and persists the model
// artifact to modelPath.
func (t *TrainingService) TrainAndSave(ctx context.Context, corpus []models.Situation, opts classifier.TrainOptions, modelPath string) (*classifier.TrainingReport, error) {
	report, err := t.classifier.Train(ctx, corpus, opts)
	if err != nil {
		return nil, err
	}
	if err := t.classifier.SaveModel(modelPath); err != nil {
		return nil, err
	}
	return report, nil
}
