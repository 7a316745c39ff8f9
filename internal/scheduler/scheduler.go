// Package scheduler runs the periodic model retraining job.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/classifier"
	"github.com/yourusername/diamond-tactics/internal/metrics"
	"github.com/yourusername/diamond-tactics/internal/service"
)

// RetrainingJob configures one scheduled retraining run
type RetrainingJob struct {
	Season    int
	GameLimit int
	ModelPath string
	Optimize  bool
	Workers   int
}

// Scheduler manages the periodic retraining cron job
type Scheduler struct {
	cron            *cron.Cron
	training        *service.TrainingService
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(training *service.TrainingService, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		training:        training,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRetraining schedules a recurring retraining run
func (s *Scheduler) ScheduleRetraining(cronExpression string, job RetrainingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Hour)
		defer cancel()

		season := job.Season
		if season == 0 {
			season = time.Now().UTC().Year()
		}

		s.logger.WithFields(logrus.Fields{
			"season":     season,
			"game_limit": job.GameLimit,
			"optimize":   job.Optimize,
		}).Info("Starting scheduled retraining")

		corpus, err := s.training.BuildCorpus(ctx, season, job.GameLimit)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled retraining failed building corpus")
			return
		}
		metrics.CorpusSituations.Set(float64(len(corpus)))

		report, err := s.training.TrainAndSave(ctx, corpus, classifier.TrainOptions{
			Optimize: job.Optimize,
			Workers:  job.Workers,
		}, job.ModelPath)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled retraining failed")
			return
		}

		metrics.LastTrainingAccuracy.Set(report.Accuracy)
		s.logger.WithFields(logrus.Fields{
			"accuracy":    report.Accuracy,
			"weighted_f1": report.CrossValidation.MeanWeightedF1,
			"model_path":  job.ModelPath,
		}).Info("Scheduled retraining completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled retraining job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job up to the
// graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out with a job still running")
	}

	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	next := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
