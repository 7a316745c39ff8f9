// Package statsapi looks up per-player season statistics from the MLB Stats
// API, with caching and an ordered season-fallback chain. Lookups degrade to
// zero-valued defaults instead of failing, so feature extraction never
// depends on stats availability.
package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/datasource"
	"github.com/yourusername/diamond-tactics/internal/metrics"
	"github.com/yourusername/diamond-tactics/internal/models"
)

const defaultBaseURL = "https://statsapi.mlb.com/api"

// Stat groups accepted by the people endpoint
const (
	groupHitting  = "hitting"
	groupPitching = "pitching"
)

// lookupStrategy is one (season, gameType) combination to try. Strategies
// are attempted in order; the first non-empty stat line wins.
type lookupStrategy struct {
	Season   int
	GameType string
}

// strategiesFor is the fallback chain: current season regular games, then
// the previous season, then the previous season including all game types.
func strategiesFor(season int) []lookupStrategy {
	return []lookupStrategy{
		{Season: season, GameType: "R"},
		{Season: season - 1, GameType: "R"},
		{Season: season - 1, GameType: "ANY"},
	}
}

// Config holds fetcher configuration
type Config struct {
	BaseURL  string
	Season   int
	CacheTTL time.Duration
}

// Fetcher retrieves batter, pitcher and matchup statistics
type Fetcher struct {
	http    *datasource.RateLimitedHTTPClient
	cache   *gocache.Cache
	baseURL string
	season  int
	logger  *logrus.Logger
}

// NewFetcher creates a stats fetcher. A zero season defaults to the current
// calendar year.
func NewFetcher(httpClient *datasource.RateLimitedHTTPClient, cfg Config, logger *logrus.Logger) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Season == 0 {
		cfg.Season = time.Now().Year()
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 6 * time.Hour
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Fetcher{
		http:    httpClient,
		cache:   gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		baseURL: cfg.BaseURL,
		season:  cfg.Season,
		logger:  logger,
	}
}

// SetSeason changes the season used by lookups and drops cached stats when
// the season actually changes.
func (f *Fetcher) SetSeason(year int) {
	if year == 0 || year == f.season {
		return
	}
	f.logger.WithField("season", year).Info("Season changed, clearing stats cache")
	f.season = year
	f.cache.Flush()
}

// BatterStats returns season hitting stats for the batter. Missing data
// yields zero-valued stats, never an error.
func (f *Fetcher) BatterStats(ctx context.Context, playerID int) (*models.BatterStats, error) {
	key := fmt.Sprintf("batter_%d_%d", playerID, f.season)
	if cached, ok := f.cache.Get(key); ok {
		metrics.RecordStatsLookup("hit")
		return cached.(*models.BatterStats), nil
	}

	line := f.lookup(ctx, playerID, groupHitting)
	stats := mapBatterStats(line)
	f.cache.SetDefault(key, stats)
	return stats, nil
}

// PitcherStats returns season pitching stats for the pitcher. Missing data
// yields zero-valued stats, never an error.
func (f *Fetcher) PitcherStats(ctx context.Context, playerID int) (*models.PitcherStats, error) {
	key := fmt.Sprintf("pitcher_%d_%d", playerID, f.season)
	if cached, ok := f.cache.Get(key); ok {
		metrics.RecordStatsLookup("hit")
		return cached.(*models.PitcherStats), nil
	}

	line := f.lookup(ctx, playerID, groupPitching)
	stats := mapPitcherStats(line)
	f.cache.SetDefault(key, stats)
	return stats, nil
}

// MatchupHistory returns head-to-head stats between batter and pitcher.
// TODO: wire the people endpoint's vsPlayer split once the corpus schema
// stores per-matchup outcomes; until then this is a zero-valued placeholder.
func (f *Fetcher) MatchupHistory(ctx context.Context, batterID, pitcherID int) (*models.MatchupStats, error) {
	return &models.MatchupStats{}, nil
}

// lookup walks the fallback chain and returns the first non-empty stat line,
// or nil when every strategy misses.
func (f *Fetcher) lookup(ctx context.Context, playerID int, group string) map[string]json.RawMessage {
	for _, strategy := range strategiesFor(f.season) {
		line, err := f.fetchStatLine(ctx, playerID, group, strategy)
		if err != nil {
			f.logger.WithError(err).WithFields(logrus.Fields{
				"player_id": playerID,
				"season":    strategy.Season,
				"game_type": strategy.GameType,
			}).Debug("Stats lookup failed, trying next strategy")
			continue
		}
		if len(line) > 0 {
			metrics.RecordStatsLookup("fetched")
			return line
		}
	}

	metrics.RecordStatsLookup("miss")
	f.logger.WithFields(logrus.Fields{
		"player_id": playerID,
		"group":     group,
	}).Warn("No stats found for player, using zero defaults")
	return nil
}

func (f *Fetcher) fetchStatLine(ctx context.Context, playerID int, group string, strategy lookupStrategy) (map[string]json.RawMessage, error) {
	url := fmt.Sprintf("%s/v1/people/%d?hydrate=stats(group=%s,type=season,season=%d,gameType=%s)",
		f.baseURL, playerID, group, strategy.Season, strategy.GameType)

	resp, err := f.http.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var doc peopleDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}

	if len(doc.People) == 0 || len(doc.People[0].Stats) == 0 || len(doc.People[0].Stats[0].Splits) == 0 {
		return nil, nil
	}
	return doc.People[0].Stats[0].Splits[0].Stat, nil
}

type peopleDocument struct {
	People []struct {
		Stats []struct {
			Splits []struct {
				Stat map[string]json.RawMessage `json:"stat"`
			} `json:"splits"`
		} `json:"stats"`
	} `json:"people"`
}
