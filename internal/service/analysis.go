// Package service wires the feed, feature extraction, classification and
// inference enhancement into end-to-end analysis workflows.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/classifier"
	"github.com/yourusername/diamond-tactics/internal/datasource"
	"github.com/yourusername/diamond-tactics/internal/features"
	"github.com/yourusername/diamond-tactics/internal/inference"
	"github.com/yourusername/diamond-tactics/internal/metrics"
	"github.com/yourusername/diamond-tactics/internal/models"
	"github.com/yourusername/diamond-tactics/internal/repository"
	"github.com/yourusername/diamond-tactics/internal/statsapi"
	"github.com/yourusername/diamond-tactics/internal/tactics"
)

// momentumWindow is how many trailing situations feed the momentum analysis
const momentumWindow = 5

// AnalysisService runs the live-game analysis pipeline
type AnalysisService struct {
	feed          *datasource.FeedClient
	stats         *statsapi.Fetcher
	extractor     *features.Extractor
	classifier    *classifier.Classifier
	enhancer      *inference.Enhancer
	situationRepo repository.SituationRepository
	registry      *tactics.Registry
	logger        *logrus.Logger
}

// NewAnalysisService creates the analysis pipeline. The stats fetcher and
// situation repository are optional; without them analysis runs with
// zero-valued player stats and no historical enrichment.
func NewAnalysisService(
	feed *datasource.FeedClient,
	stats *statsapi.Fetcher,
	extractor *features.Extractor,
	clf *classifier.Classifier,
	enhancer *inference.Enhancer,
	situationRepo repository.SituationRepository,
	logger *logrus.Logger,
) *AnalysisService {
	if logger == nil {
		logger = logrus.New()
	}
	return &AnalysisService{
		feed:          feed,
		stats:         stats,
		extractor:     extractor,
		classifier:    clf,
		enhancer:      enhancer,
		situationRepo: situationRepo,
		registry:      tactics.Default(),
		logger:        logger,
	}
}

// AnalyzeLiveGame fetches a game's feed, extracts situations, predicts
// tactical probabilities for the latest situation and enhances them with
// momentum and historical signals.
func (s *AnalysisService) AnalyzeLiveGame(ctx context.Context, gameID int) (*models.PredictionResult, error) {
	start := time.Now()

	feed, err := s.feed.FetchLiveGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game %d: %w", gameID, err)
	}
	if s.stats != nil && feed.Context.Season != 0 {
		s.stats.SetSeason(feed.Context.Season)
	}

	situations, err := s.extractor.ExtractAll(ctx, feed.Plays)
	if err != nil {
		return nil, fmt.Errorf("failed to extract situations for game %d: %w", gameID, err)
	}
	if len(situations) == 0 {
		return nil, fmt.Errorf("game %d has no analyzable plays", gameID)
	}

	current := &situations[len(situations)-1]
	result, err := s.classifier.AnalyzeSituation(current)
	if err != nil {
		return nil, err
	}
	result.ID = uuid.New()
	result.GameContext = &feed.Context

	recent := recentPlays(situations, momentumWindow)
	corpus := s.similarSituations(ctx, result.ContextAnalysis.GameSituation)
	result = s.enhancer.Enhance(result, recent, corpus)

	s.persistSituations(ctx, situations)

	metrics.RecordGameAnalyzed(time.Since(start).Seconds())
	s.logger.WithFields(logrus.Fields{
		"game_id":    gameID,
		"situations": len(situations),
		"inning":     current.Inning,
	}).Info("Analyzed live game")

	return result, nil
}

// similarSituations queries the corpus; repository errors degrade to no
// historical enrichment.
func (s *AnalysisService) similarSituations(ctx context.Context, game models.GameSituation) []models.HistoricalSituation {
	if s.situationRepo == nil {
		return nil
	}
	found, err := s.situationRepo.FindSimilar(ctx, game.Inning, game.Outs, game.PressureIndex, 0.2)
	if err != nil {
		s.logger.WithError(err).Warn("Historical corpus lookup failed, continuing without enrichment")
		return nil
	}
	corpus := make([]models.HistoricalSituation, len(found))
	for i, situation := range found {
		corpus[i] = *situation
	}
	return corpus
}

// persistSituations records labeled situations for future pattern matching.
// Persistence failures are logged, never fatal to the analysis call.
func (s *AnalysisService) persistSituations(ctx context.Context, situations []models.Situation) {
	if s.situationRepo == nil {
		return
	}

	gameID := uuid.New()
	records := make([]*models.HistoricalSituation, 0, len(situations))
	for i := range situations {
		situation := &situations[i]
		if situation.PrimaryTactic == "" {
			continue
		}
		records = append(records, &models.HistoricalSituation{
			GameID:        gameID,
			Inning:        situation.Inning,
			Outs:          situation.Outs,
			PressureIndex: situation.PressureIndex,
			Tactic:        situation.PrimaryTactic,
			Success:       s.tacticSucceeded(situation),
			CreatedAt:     time.Now(),
		})
	}

	if err := s.situationRepo.CreateBatch(ctx, records); err != nil {
		s.logger.WithError(err).Warn("Failed to persist labeled situations")
		return
	}
	metrics.SituationsPersistedTotal.Add(float64(len(records)))
}

// tacticSucceeded judges the labeled tactic against the play outcome: the
// batting side's indicators for offensive and baserunning tactics, the
// pitching side's for defensive ones.
func (s *AnalysisService) tacticSucceeded(situation *models.Situation) bool {
	play := toRecentPlay(situation)
	if s.registry.CategoryOf(situation.PrimaryTactic) == tactics.CategoryDefensive {
		return play.PitchingSuccess()
	}
	return play.BattingSuccess()
}

// recentPlays converts the trailing situations into the outcome-indicator
// records the momentum analysis consumes.
func recentPlays(situations []models.Situation, window int) []models.RecentPlay {
	if len(situations) > window {
		situations = situations[len(situations)-window:]
	}
	plays := make([]models.RecentPlay, len(situations))
	for i := range situations {
		plays[i] = toRecentPlay(&situations[i])
	}
	return plays
}

var (
	hitResults = map[string]bool{
		"Single": true, "Double": true, "Triple": true, "Home Run": true,
	}
	walkResults = map[string]bool{
		"Walk": true, "Hit By Pitch": true, "Intent Walk": true,
	}
	strikeoutResults = map[string]bool{
		"Strikeout": true, "Strikeout Double Play": true,
	}
	outResults = map[string]bool{
		"Groundout": true, "Flyout": true, "Lineout": true, "Pop Out": true, "Forceout": true,
	}
	doublePlayResults = map[string]bool{
		"Double Play": true, "Grounded Into DP": true, "Triple Play": true,
	}
)

func toRecentPlay(situation *models.Situation) models.RecentPlay {
	return models.RecentPlay{
		Hit:           hitResults[situation.Result],
		Walk:          walkResults[situation.Result],
		RunScored:     situation.RunsScored > 0,
		Strikeout:     strikeoutResults[situation.Result],
		Out:           outResults[situation.Result],
		DoublePlay:    doublePlayResults[situation.Result],
		PressureIndex: situation.PressureIndex,
	}
}
