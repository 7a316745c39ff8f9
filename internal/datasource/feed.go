// Package datasource fetches game feeds from the MLB Stats API and
// normalizes them into the play records the feature extractor consumes.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/diamond-tactics/internal/metrics"
	"github.com/yourusername/diamond-tactics/internal/models"
)

const defaultBaseURL = "https://statsapi.mlb.com/api"

// GameFeed is one game's normalized play-by-play state
type GameFeed struct {
	Plays       []models.Play
	CurrentPlay *models.Play
	Context     models.GameContext
}

// GameRef identifies one scheduled game
type GameRef struct {
	GamePk int    `json:"game_pk"`
	Date   string `json:"date"`
	Home   string `json:"home"`
	Away   string `json:"away"`
	Status string `json:"status"`
}

// FeedClient fetches live-feed and schedule documents
type FeedClient struct {
	http    *RateLimitedHTTPClient
	baseURL string
	logger  *logrus.Logger
}

// NewFeedClient creates a feed client. An empty baseURL selects the public
// MLB Stats API endpoint.
func NewFeedClient(httpClient *RateLimitedHTTPClient, baseURL string, logger *logrus.Logger) *FeedClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &FeedClient{http: httpClient, baseURL: baseURL, logger: logger}
}

// FetchLiveGame retrieves one game's live feed and normalizes every play
func (c *FeedClient) FetchLiveGame(ctx context.Context, gameID int) (*GameFeed, error) {
	start := time.Now()
	url := fmt.Sprintf("%s/v1.1/game/%d/feed/live", c.baseURL, gameID)

	var doc liveFeedDocument
	if err := c.getJSON(ctx, url, &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch live feed for game %d: %w", gameID, err)
	}
	metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())

	feed := &GameFeed{
		Plays:   make([]models.Play, 0, len(doc.LiveData.Plays.AllPlays)),
		Context: doc.gameContext(),
	}
	for _, raw := range doc.LiveData.Plays.AllPlays {
		feed.Plays = append(feed.Plays, raw.toPlay())
	}
	if doc.LiveData.Plays.CurrentPlay != nil {
		play := doc.LiveData.Plays.CurrentPlay.toPlay()
		feed.CurrentPlay = &play
	}

	c.logger.WithFields(logrus.Fields{
		"game_id": gameID,
		"plays":   len(feed.Plays),
		"season":  feed.Context.Season,
	}).Debug("Fetched live game feed")

	return feed, nil
}

// FetchSeasonGames lists regular-season games for a season, up to limit
// games when limit is positive.
func (c *FeedClient) FetchSeasonGames(ctx context.Context, season int, limit int) ([]GameRef, error) {
	url := fmt.Sprintf("%s/v1/schedule?sportId=1&season=%d&gameType=R", c.baseURL, season)

	var doc scheduleDocument
	if err := c.getJSON(ctx, url, &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for season %d: %w", season, err)
	}

	var games []GameRef
	for _, date := range doc.Dates {
		for _, game := range date.Games {
			games = append(games, GameRef{
				GamePk: game.GamePk,
				Date:   date.Date,
				Home:   game.Teams.Home.Team.Name,
				Away:   game.Teams.Away.Team.Name,
				Status: game.Status.DetailedState,
			})
			if limit > 0 && len(games) >= limit {
				return games, nil
			}
		}
	}
	return games, nil
}

func (c *FeedClient) getJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Wire shapes for the live-feed and schedule documents. Only the fields the
// engine consumes are declared.

type liveFeedDocument struct {
	GameData struct {
		Datetime struct {
			OriginalDate string `json:"originalDate"`
		} `json:"datetime"`
		Game struct {
			Type string `json:"type"`
		} `json:"game"`
	} `json:"gameData"`
	LiveData struct {
		Plays struct {
			AllPlays    []feedPlay `json:"allPlays"`
			CurrentPlay *feedPlay  `json:"currentPlay"`
		} `json:"plays"`
	} `json:"liveData"`
}

func (d *liveFeedDocument) gameContext() models.GameContext {
	ctx := models.GameContext{
		GameType:         d.GameData.Game.Type,
		IsSpringTraining: d.GameData.Game.Type == "S",
	}
	if date := d.GameData.Datetime.OriginalDate; date != "" {
		if year, err := strconv.Atoi(strings.SplitN(date, "-", 2)[0]); err == nil {
			ctx.Season = year
		}
	}
	return ctx
}

type scheduleDocument struct {
	Dates []struct {
		Date  string `json:"date"`
		Games []struct {
			GamePk int `json:"gamePk"`
			Status struct {
				DetailedState string `json:"detailedState"`
			} `json:"status"`
			Teams struct {
				Home struct {
					Team struct {
						Name string `json:"name"`
					} `json:"team"`
				} `json:"home"`
				Away struct {
					Team struct {
						Name string `json:"name"`
					} `json:"team"`
				} `json:"away"`
			} `json:"teams"`
		} `json:"games"`
	} `json:"dates"`
}

type feedPlay struct {
	About struct {
		Inning     int    `json:"inning"`
		HalfInning string `json:"halfInning"`
		Home       int    `json:"home"`
		Away       int    `json:"away"`
	} `json:"about"`
	Result struct {
		Event string `json:"event"`
	} `json:"result"`
	Count struct {
		Balls   int `json:"balls"`
		Strikes int `json:"strikes"`
		Outs    int `json:"outs"`
	} `json:"count"`
	Matchup struct {
		Batter struct {
			ID int `json:"id"`
		} `json:"batter"`
		Pitcher struct {
			ID int `json:"id"`
		} `json:"pitcher"`
	} `json:"matchup"`
	Runners []struct {
		Movement struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"movement"`
	} `json:"runners"`
}

func (p feedPlay) toPlay() models.Play {
	play := models.Play{
		Inning:     p.About.Inning,
		HalfInning: p.About.HalfInning,
		Result:     p.Result.Event,
		Outs:       p.Count.Outs,
		Balls:      p.Count.Balls,
		Strikes:    p.Count.Strikes,
		ScoreHome:  p.About.Home,
		ScoreAway:  p.About.Away,
		Matchup: models.Matchup{
			BatterID:  p.Matchup.Batter.ID,
			PitcherID: p.Matchup.Pitcher.ID,
		},
	}
	for _, runner := range p.Runners {
		play.Runners = append(play.Runners, models.RunnerMovement{
			Start: runner.Movement.Start,
			End:   runner.Movement.End,
		})
	}
	return play
}
