// Package features turns raw play events into situational feature records.
package features

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/metrics"
	"github.com/yourusername/diamond-tactics/internal/models"
	"github.com/yourusername/diamond-tactics/internal/tactics"
)

// StatsProvider looks up player and matchup statistics. Implementations may
// return (nil, nil) when no stats are available; extraction then proceeds
// without the optional stat columns.
type StatsProvider interface {
	BatterStats(ctx context.Context, playerID int) (*models.BatterStats, error)
	PitcherStats(ctx context.Context, playerID int) (*models.PitcherStats, error)
	MatchupHistory(ctx context.Context, batterID, pitcherID int) (*models.MatchupStats, error)
}

// Extractor builds Situation records from raw plays. Plays whose outcome
// action is outside the taxonomy vocabulary are filtered out of the result,
// not treated as errors.
type Extractor struct {
	registry *tactics.Registry
	labeler  *tactics.Labeler
	stats    StatsProvider
	logger   *logrus.Logger
}

// NewExtractor creates an extractor. The stats provider is optional.
func NewExtractor(registry *tactics.Registry, stats StatsProvider, logger *logrus.Logger) *Extractor {
	if registry == nil {
		registry = tactics.Default()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Extractor{
		registry: registry,
		labeler:  tactics.NewLabeler(registry),
		stats:    stats,
		logger:   logger,
	}
}

// ExtractAll converts a play list into the ordered feature table. Malformed
// plays abort extraction with an error; unknown outcome actions are skipped.
func (e *Extractor) ExtractAll(ctx context.Context, plays []models.Play) ([]models.Situation, error) {
	situations := make([]models.Situation, 0, len(plays))
	skipped := 0

	for i, play := range plays {
		if err := validatePlay(play); err != nil {
			return nil, fmt.Errorf("play %d: %w", i, err)
		}
		if !e.registry.KnownAction(play.Result) {
			skipped++
			metrics.PlaysFilteredTotal.Inc()
			continue
		}

		situation, err := e.Extract(ctx, play)
		if err != nil {
			return nil, fmt.Errorf("play %d: %w", i, err)
		}
		situations = append(situations, situation)
	}

	metrics.SituationsExtractedTotal.Add(float64(len(situations)))
	if skipped > 0 {
		e.logger.WithFields(logrus.Fields{
			"total":   len(plays),
			"skipped": skipped,
		}).Debug("Filtered plays with unknown outcome actions")
	}

	return situations, nil
}

// Extract builds one Situation from a validated play, merging player stats
// when a provider is configured and labeling the outcome heuristically.
func (e *Extractor) Extract(ctx context.Context, play models.Play) (models.Situation, error) {
	s := models.Situation{
		Inning:     play.Inning,
		HalfInning: play.HalfInning,
		Result:     play.Result,
		Outs:       play.Outs,
		Balls:      play.Balls,
		Strikes:    play.Strikes,
		ScoreHome:  play.ScoreHome,
		ScoreAway:  play.ScoreAway,
		BatterID:   play.Matchup.BatterID,
		PitcherID:  play.Matchup.PitcherID,
	}

	s.ScoreDiff = play.ScoreAway - play.ScoreHome
	s.CloseGame = abs(s.ScoreDiff) <= tactics.CloseScoreThreshold

	applyRunners(&s, play.Runners)
	applyDerivedMetrics(&s)
	e.mergePlayerStats(ctx, &s)

	label := e.labeler.Label(&s)
	s.PrimaryTactic = label.PrimaryTactic
	s.TacticProbs = label.Probabilities

	return s, nil
}

func (e *Extractor) mergePlayerStats(ctx context.Context, s *models.Situation) {
	if e.stats == nil || s.BatterID == 0 || s.PitcherID == 0 {
		return
	}

	// Stat lookups degrade gracefully: a failed or empty lookup leaves the
	// optional columns absent rather than failing the extraction.
	if batter, err := e.stats.BatterStats(ctx, s.BatterID); err != nil {
		e.logger.WithError(err).WithField("batter_id", s.BatterID).Warn("Batter stats lookup failed")
	} else {
		s.Batter = batter
	}

	if pitcher, err := e.stats.PitcherStats(ctx, s.PitcherID); err != nil {
		e.logger.WithError(err).WithField("pitcher_id", s.PitcherID).Warn("Pitcher stats lookup failed")
	} else {
		s.Pitcher = pitcher
	}

	if matchup, err := e.stats.MatchupHistory(ctx, s.BatterID, s.PitcherID); err != nil {
		e.logger.WithError(err).Warn("Matchup history lookup failed")
	} else {
		s.MatchupStats = matchup
	}
}

func applyRunners(s *models.Situation, runners []models.RunnerMovement) {
	s.NumRunners = len(runners)
	for _, r := range runners {
		switch r.Start {
		case models.BaseFirst:
			s.RunnerOnFirst = true
		case models.BaseSecond:
			s.RunnerOnSecond = true
			s.ScoringPosition = true
		case models.BaseThird:
			s.RunnerOnThird = true
			s.ScoringPosition = true
		}
		if r.End == models.BaseScore {
			s.RunsScored++
		}
	}
}

// applyDerivedMetrics computes the deterministic situational metrics. The
// formulas mirror the labeling heuristics: pressure caps at 2.0 and leverage
// at 3.0.
func applyDerivedMetrics(s *models.Situation) {
	pressure := 1.0
	if s.Inning >= tactics.LateInningThreshold {
		pressure *= 1.5
	}
	pressure *= 1 + float64(s.Outs)*0.2
	if s.ScoringPosition {
		pressure *= 1.3
	}
	s.PressureIndex = math.Min(pressure, 2.0)

	// Extra innings count as the ninth for staging purposes.
	effectiveInning := s.Inning
	if effectiveInning > 9 {
		effectiveInning = 9
	}
	s.GameStage = (float64(effectiveInning) - 1 + float64(s.Outs)/3) / 9

	runnerValue := 0.3
	if s.ScoringPosition {
		runnerValue = 0.5
	}
	outsRemaining := float64(3-s.Outs) / 3
	s.RunExpectancy = float64(s.NumRunners) * runnerValue * outsRemaining

	leverage := s.PressureIndex
	if s.CloseGame {
		leverage *= 2.0
	}
	if s.GameStage > 0.7 {
		leverage *= 1.5
	}
	s.LeverageIndex = math.Min(leverage, 3.0)

	if s.Inning >= 10 {
		s.WinProbabilityAdded = 0.5 + float64(s.ScoreDiff)/2*0.1
	} else {
		remaining := float64(10 - s.Inning)
		if remaining < 1 {
			remaining = 1
		}
		s.WinProbabilityAdded = 0.5 + float64(s.ScoreDiff)/remaining*0.1
	}

	opportunityValue := 1.0
	if s.ScoringPosition {
		opportunityValue = 1.5
	}
	s.OffensiveOpportunity = float64(s.NumRunners) * opportunityValue * outsRemaining

	s.DefensivePressure = float64(s.NumRunners) * s.PressureIndex * float64(s.Outs+1) / 3

	s.CountLeverage = float64(s.Balls) / 4 * (1 - float64(s.Strikes)/3)

	threat := s.OffensiveOpportunity * s.PressureIndex
	if s.CloseGame {
		threat *= 2.0
	}
	s.ScoringThreat = threat
}

func validatePlay(play models.Play) error {
	switch {
	case play.Inning < 1:
		return fmt.Errorf("%w: inning %d out of range", models.ErrMalformedPlay, play.Inning)
	case play.HalfInning != models.HalfTop && play.HalfInning != models.HalfBottom:
		return fmt.Errorf("%w: half inning %q", models.ErrMalformedPlay, play.HalfInning)
	case play.Outs < 0 || play.Outs > 3:
		return fmt.Errorf("%w: outs %d out of range", models.ErrMalformedPlay, play.Outs)
	case play.Balls < 0 || play.Balls > 4:
		return fmt.Errorf("%w: balls %d out of range", models.ErrMalformedPlay, play.Balls)
	case play.Strikes < 0 || play.Strikes > 3:
		return fmt.Errorf("%w: strikes %d out of range", models.ErrMalformedPlay, play.Strikes)
	case play.Result == "":
		return fmt.Errorf("%w: missing result", models.ErrMalformedPlay)
	case play.ScoreHome < 0 || play.ScoreAway < 0:
		return fmt.Errorf("%w: negative score", models.ErrMalformedPlay)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
