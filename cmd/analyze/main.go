// Package main provides the entry point for the live game analysis CLI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/classifier"
	"github.com/yourusername/diamond-tactics/internal/config"
	"github.com/yourusername/diamond-tactics/internal/database"
	"github.com/yourusername/diamond-tactics/internal/datasource"
	"github.com/yourusername/diamond-tactics/internal/features"
	"github.com/yourusername/diamond-tactics/internal/health"
	"github.com/yourusername/diamond-tactics/internal/inference"
	"github.com/yourusername/diamond-tactics/internal/logger"
	"github.com/yourusername/diamond-tactics/internal/metrics"
	"github.com/yourusername/diamond-tactics/internal/models"
	"github.com/yourusername/diamond-tactics/internal/repository"
	"github.com/yourusername/diamond-tactics/internal/service"
	"github.com/yourusername/diamond-tactics/internal/statsapi"
	"github.com/yourusername/diamond-tactics/internal/tactics"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		gameID     = flag.Int("game", 0, "MLB game ID to analyze")
		batterID   = flag.Int("batter", 0, "Batter ID for matchup analysis")
		pitcherID  = flag.Int("pitcher", 0, "Pitcher ID for matchup analysis")
		modelPath  = flag.String("model", "", "Override model artifact path")
		noDatabase = flag.Bool("no-db", false, "Skip the historical corpus database")
	)
	flag.Parse()

	cfg, log := loadConfig(*configPath)
	ctx := context.Background()

	if *modelPath == "" {
		*modelPath = cfg.Training.ModelPath
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           cfg.StatsAPITimeout(),
		MaxRetries:        cfg.StatsAPI.MaxRetries,
		RetryWaitMin:      500 * time.Millisecond,
		RetryWaitMax:      60 * time.Second,
		RateLimit:         cfg.StatsAPI.RateLimit,
		CircuitBreakerMax: cfg.StatsAPI.CircuitBreakerMax,
	}, log)

	stats := statsapi.NewFetcher(httpClient, statsapi.Config{
		BaseURL:  cfg.StatsAPI.BaseURL,
		Season:   cfg.StatsAPI.Season,
		CacheTTL: cfg.StatsAPICacheTTL(),
	}, log)

	if *batterID != 0 && *pitcherID != 0 {
		runMatchup(ctx, stats, *batterID, *pitcherID, log)
		return
	}
	if *gameID == 0 {
		log.Fatal("either -game or both -batter and -pitcher must be provided")
	}

	registry := tactics.Default()
	clf := classifier.New(registry, log)
	if err := clf.LoadModel(*modelPath); err != nil {
		log.Fatalf("Failed to load model from %s: %v", *modelPath, err)
	}
	metrics.ModelLoaded.Set(1)

	var db *database.DB
	var situationRepo repository.SituationRepository
	if !*noDatabase {
		var err error
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			log.WithError(err).Warn("Corpus database unavailable, continuing without historical patterns")
		} else {
			defer db.Close()
			situationRepo = repository.NewPostgresSituationRepository(db)
		}
	}

	if cfg.Metrics.Enabled {
		serverCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		healthServer := newHealthServer(cfg, db, log)
		if err := healthServer.Start(serverCtx); err != nil {
			log.Fatalf("Failed to start health server: %v", err)
		}
		healthServer.SetReady(true)
	}

	feed := datasource.NewFeedClient(httpClient, cfg.StatsAPI.BaseURL, log)
	extractor := features.NewExtractor(registry, stats, log)
	enhancer := inference.NewEnhancer(registry, log)
	analysis := service.NewAnalysisService(feed, stats, extractor, clf, enhancer, situationRepo, log)

	result, err := analysis.AnalyzeLiveGame(ctx, *gameID)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	printJSON(result, log)
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

func newHealthServer(cfg *config.Config, db *database.DB, log *logrus.Logger) *health.Server {
	hc := health.Config{
		ServiceName: cfg.App.Name,
		Port:        cfg.Metrics.Port,
		Logger:      log,
	}
	if db != nil {
		hc.DB = db
	}
	return health.NewServer(hc)
}

func runMatchup(ctx context.Context, stats *statsapi.Fetcher, batterID, pitcherID int, log *logrus.Logger) {
	matchupService := service.NewMatchupService(stats, log)
	analysis, err := matchupService.Analyze(ctx, models.Matchup{
		BatterID:  batterID,
		PitcherID: pitcherID,
	})
	if err != nil {
		log.Fatalf("Matchup analysis failed: %v", err)
	}
	printJSON(analysis, log)
}

func printJSON(v any, log *logrus.Logger) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}
