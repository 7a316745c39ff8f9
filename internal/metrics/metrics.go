// Package metrics provides the centralized Prometheus registry for the engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	GamesAnalyzedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diamond_tactics",
		Name:      "games_analyzed_total",
		Help:      "Total number of live games analyzed",
	})
	SituationsExtractedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diamond_tactics",
		Name:      "situations_extracted_total",
		Help:      "Total number of situations extracted from play feeds",
	})
	PlaysFilteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diamond_tactics",
		Name:      "plays_filtered_total",
		Help:      "Total number of plays dropped for unknown outcome actions",
	})
	StatsLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "diamond_tactics",
		Name:      "stats_lookups_total",
		Help:      "Total number of player stats lookups by outcome",
	}, []string{"outcome"}) // hit, miss, error
	SituationsPersistedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diamond_tactics",
		Name:      "situations_persisted_total",
		Help:      "Total number of labeled situations written to the corpus",
	})
)

// Gauge metrics
var (
	ModelLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "diamond_tactics",
		Name:      "model_loaded",
		Help:      "Whether a fitted model is currently loaded (1) or not (0)",
	})
	CorpusSituations = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "diamond_tactics",
		Name:      "corpus_situations",
		Help:      "Number of situations in the most recent training corpus",
	})
	LastTrainingAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "diamond_tactics",
		Name:      "last_training_accuracy",
		Help:      "Held-out accuracy of the most recent training run",
	})
)

// Histogram metrics
var (
	GameAnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "diamond_tactics",
		Name:      "game_analysis_duration_seconds",
		Help:      "Duration of end-to-end live game analysis in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	FeedFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "diamond_tactics",
		Name:      "feed_fetch_duration_seconds",
		Help:      "Duration of live feed fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(GamesAnalyzedTotal)
		registry.MustRegister(SituationsExtractedTotal)
		registry.MustRegister(PlaysFilteredTotal)
		registry.MustRegister(StatsLookupsTotal)
		registry.MustRegister(SituationsPersistedTotal)

		registry.MustRegister(ModelLoaded)
		registry.MustRegister(CorpusSituations)
		registry.MustRegister(LastTrainingAccuracy)

		registry.MustRegister(GameAnalysisDuration)
		registry.MustRegister(FeedFetchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler. It gathers both this
// registry and the default one, where package-level collectors register.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordGameAnalyzed records one completed game analysis.
func RecordGameAnalyzed(durationSeconds float64) {
	GamesAnalyzedTotal.Inc()
	GameAnalysisDuration.Observe(durationSeconds)
}

// RecordStatsLookup records the outcome of a player stats lookup.
func RecordStatsLookup(outcome string) {
	StatsLookupsTotal.WithLabelValues(outcome).Inc()
}
