package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/diamond-tactics/internal/models"
)

const liveFeedFixture = `{
	"gameData": {
		"datetime": {"originalDate": "2024-07-14"},
		"game": {"type": "R"}
	},
	"liveData": {
		"plays": {
			"allPlays": [
				{
					"about": {"inning": 7, "halfInning": "top", "home": 2, "away": 3},
					"result": {"event": "Single"},
					"count": {"balls": 1, "strikes": 2, "outs": 1},
					"matchup": {"batter": {"id": 660271}, "pitcher": {"id": 477132}},
					"runners": [
						{"movement": {"start": "2B", "end": "score"}},
						{"movement": {"start": "1B", "end": "2B"}}
					]
				},
				{
					"about": {"inning": 7, "halfInning": "bottom", "home": 2, "away": 4},
					"result": {"event": "Strikeout"},
					"count": {"balls": 0, "strikes": 3, "outs": 2},
					"matchup": {"batter": {"id": 545361}, "pitcher": {"id": 592789}}
				}
			],
			"currentPlay": {
				"about": {"inning": 7, "halfInning": "bottom", "home": 2, "away": 4},
				"result": {"event": "Strikeout"},
				"count": {"balls": 0, "strikes": 3, "outs": 2}
			}
		}
	}
}`

const scheduleFixture = `{
	"dates": [
		{
			"date": "2024-04-01",
			"games": [
				{
					"gamePk": 745001,
					"status": {"detailedState": "Final"},
					"teams": {
						"home": {"team": {"name": "New York Yankees"}},
						"away": {"team": {"name": "Boston Red Sox"}}
					}
				},
				{
					"gamePk": 745002,
					"status": {"detailedState": "Final"},
					"teams": {
						"home": {"team": {"name": "Los Angeles Dodgers"}},
						"away": {"team": {"name": "San Francisco Giants"}}
					}
				}
			]
		},
		{
			"date": "2024-04-02",
			"games": [
				{
					"gamePk": 745003,
					"status": {"detailedState": "Scheduled"},
					"teams": {
						"home": {"team": {"name": "Chicago Cubs"}},
						"away": {"team": {"name": "St. Louis Cardinals"}}
					}
				}
			]
		}
	]
}`

func testClient(t *testing.T, baseURL string) (*FeedClient, func()) {
	t.Helper()
	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	httpClient := NewRateLimitedHTTPClient(cfg, nil)
	return NewFeedClient(httpClient, baseURL, nil), func() { httpClient.Close() }
}

func TestFetchLiveGame(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.1/game/745001/feed/live", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(liveFeedFixture))
	}))
	defer server.Close()

	client, closeClient := testClient(t, server.URL)
	defer closeClient()

	feed, err := client.FetchLiveGame(context.Background(), 745001)
	require.NoError(t, err)

	assert.Equal(t, 2024, feed.Context.Season)
	assert.Equal(t, "R", feed.Context.GameType)
	assert.False(t, feed.Context.IsSpringTraining)

	require.Len(t, feed.Plays, 2)
	first := feed.Plays[0]
	assert.Equal(t, 7, first.Inning)
	assert.Equal(t, models.HalfTop, first.HalfInning)
	assert.Equal(t, "Single", first.Result)
	assert.Equal(t, 1, first.Outs)
	assert.Equal(t, 2, first.ScoreHome)
	assert.Equal(t, 3, first.ScoreAway)
	assert.Equal(t, 660271, first.Matchup.BatterID)
	assert.Equal(t, 477132, first.Matchup.PitcherID)
	require.Len(t, first.Runners, 2)
	assert.Equal(t, models.BaseSecond, first.Runners[0].Start)
	assert.Equal(t, models.BaseScore, first.Runners[0].End)

	require.NotNil(t, feed.CurrentPlay)
	assert.Equal(t, "Strikeout", feed.CurrentPlay.Result)
}

func TestFetchLiveGameSpringTraining(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gameData": {"datetime": {"originalDate": "2024-03-05"}, "game": {"type": "S"}}, "liveData": {"plays": {"allPlays": []}}}`))
	}))
	defer server.Close()

	client, closeClient := testClient(t, server.URL)
	defer closeClient()

	feed, err := client.FetchLiveGame(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, feed.Context.IsSpringTraining)
	assert.Empty(t, feed.Plays)
	assert.Nil(t, feed.CurrentPlay)
}

func TestFetchLiveGameServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client, closeClient := testClient(t, server.URL)
	defer closeClient()

	_, err := client.FetchLiveGame(context.Background(), 999)
	require.Error(t, err)
}

func TestFetchSeasonGames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/schedule", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("season"))
		assert.Equal(t, "R", r.URL.Query().Get("gameType"))
		w.Write([]byte(scheduleFixture))
	}))
	defer server.Close()

	client, closeClient := testClient(t, server.URL)
	defer closeClient()

	games, err := client.FetchSeasonGames(context.Background(), 2024, 0)
	require.NoError(t, err)
	require.Len(t, games, 3)

	assert.Equal(t, 745001, games[0].GamePk)
	assert.Equal(t, "2024-04-01", games[0].Date)
	assert.Equal(t, "New York Yankees", games[0].Home)
	assert.Equal(t, "Boston Red Sox", games[0].Away)
	assert.Equal(t, "Final", games[0].Status)
	assert.Equal(t, "2024-04-02", games[2].Date)
}

func TestFetchSeasonGamesHonorsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scheduleFixture))
	}))
	defer server.Close()

	client, closeClient := testClient(t, server.URL)
	defer closeClient()

	games, err := client.FetchSeasonGames(context.Background(), 2024, 2)
	require.NoError(t, err)
	assert.Len(t, games, 2)
}
