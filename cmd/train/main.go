// Package main provides the entry point for the model training CLI.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/classifier"
	"github.com/yourusername/diamond-tactics/internal/config"
	"github.com/yourusername/diamond-tactics/internal/datasource"
	"github.com/yourusername/diamond-tactics/internal/features"
	"github.com/yourusername/diamond-tactics/internal/health"
	"github.com/yourusername/diamond-tactics/internal/logger"
	"github.com/yourusername/diamond-tactics/internal/scheduler"
	"github.com/yourusername/diamond-tactics/internal/service"
	"github.com/yourusername/diamond-tactics/internal/statsapi"
	"github.com/yourusername/diamond-tactics/internal/tactics"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		season     = flag.Int("season", 0, "Season to build the corpus from (0 = current year)")
		games      = flag.Int("games", 0, "Maximum games to fetch (0 = config default)")
		optimize   = flag.Bool("optimize", false, "Run grid search over hyperparameters")
		modelPath  = flag.String("model", "", "Override model output path")
		daemon     = flag.Bool("schedule", false, "Run as a daemon on the configured retraining schedule")
	)
	flag.Parse()

	cfg, log := loadConfig(*configPath)

	if *season == 0 {
		*season = cfg.StatsAPI.Season
	}
	if *season == 0 {
		*season = time.Now().UTC().Year()
	}
	if *games == 0 {
		*games = cfg.Scheduler.GamesPerRun
	}
	if *modelPath == "" {
		*modelPath = cfg.Training.ModelPath
	}

	training := buildTrainingService(cfg, log)

	if *daemon {
		runScheduled(cfg, training, *season, *games, *modelPath, log)
		return
	}

	runOnce(cfg, training, *season, *games, *modelPath, *optimize, log)
}

func loadConfig(path string) (*config.Config, *logrus.Logger) {
	bootstrap := logrus.New()

	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		bootstrap.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			bootstrap.Fatal("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			bootstrap.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		bootstrap.Fatalf("Invalid configuration: %v", err)
	}

	return cfg, logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
}

func buildTrainingService(cfg *config.Config, log *logrus.Logger) *service.TrainingService {
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           cfg.StatsAPITimeout(),
		MaxRetries:        cfg.StatsAPI.MaxRetries,
		RetryWaitMin:      500 * time.Millisecond,
		RetryWaitMax:      60 * time.Second,
		RateLimit:         cfg.StatsAPI.RateLimit,
		CircuitBreakerMax: cfg.StatsAPI.CircuitBreakerMax,
	}, log)

	feed := datasource.NewFeedClient(httpClient, cfg.StatsAPI.BaseURL, log)
	stats := statsapi.NewFetcher(httpClient, statsapi.Config{
		BaseURL:  cfg.StatsAPI.BaseURL,
		Season:   cfg.StatsAPI.Season,
		CacheTTL: cfg.StatsAPICacheTTL(),
	}, log)

	registry := tactics.Default()
	extractor := features.NewExtractor(registry, stats, log)
	clf := classifier.New(registry, log)

	return service.NewTrainingService(feed, extractor, clf, log)
}

func runOnce(cfg *config.Config, training *service.TrainingService, season, games int, modelPath string, optimize bool, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Hour)
	defer cancel()

	trainLog := logger.NewTrainingLogger(log)
	start := time.Now()

	corpus, err := training.BuildCorpus(ctx, season, games)
	if err != nil {
		trainLog.LogTrainingFailed(err.Error())
		os.Exit(1)
	}
	trainLog.LogCorpusBuilt(season, games, len(corpus))

	report, err := training.TrainAndSave(ctx, corpus, classifier.TrainOptions{
		Optimize: optimize || cfg.Training.Optimize,
		Seed:     cfg.Training.Seed,
		Workers:  cfg.Training.Workers,
	}, modelPath)
	if err != nil {
		trainLog.LogTrainingFailed(err.Error())
		os.Exit(1)
	}

	trainLog.LogTrainingCompleted(
		report.Accuracy,
		report.CrossValidation.MeanWeightedF1,
		time.Since(start).Seconds(),
		optimize || cfg.Training.Optimize,
	)
	log.WithField("model_path", modelPath).Info("Model saved")
}

func runScheduled(cfg *config.Config, training *service.TrainingService, season, games int, modelPath string, log *logrus.Logger) {
	cronExpr := cfg.Scheduler.RetrainCron
	if cronExpr == "" {
		log.Fatal("scheduler.retrain_cron must be set for scheduled mode")
	}

	sched := scheduler.NewScheduler(training, log)
	if err := sched.ScheduleRetraining(cronExpr, scheduler.RetrainingJob{
		Season:    season,
		GameLimit: games,
		ModelPath: modelPath,
		Optimize:  cfg.Training.Optimize,
		Workers:   cfg.Training.Workers,
	}); err != nil {
		log.Fatalf("Failed to schedule retraining: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var healthServer *health.Server
	if cfg.Metrics.Enabled {
		healthServer = health.NewServer(health.Config{
			ServiceName: cfg.App.Name + "-trainer",
			Port:        cfg.Metrics.Port,
			Logger:      log,
		})
		if err := healthServer.Start(ctx); err != nil {
			log.Fatalf("Failed to start health server: %v", err)
		}
		healthServer.SetReady(true)
	}

	log.WithField("next_run", sched.NextRun().Format(time.RFC3339)).Info("Retraining scheduler running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down")
	if err := sched.Stop(); err != nil {
		log.WithError(err).Error("Scheduler shutdown failed")
	}
}
