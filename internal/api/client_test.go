package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/grid-picks/internal/logger"
	"github.com/yourusername/grid-picks/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.MaxRetries = 0
	httpCfg.RateLimit = 1000
	httpCfg.Timeout = 2 * time.Second

	return NewClient(Config{BaseURL: server.URL + "/", Token: "secret", HTTP: httpCfg}, logger.Discard())
}

func TestGetScheduleSendsAuthAndRequestID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/calendar/12", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"id":12,"eventDate":"2024-06-02","qualifyingTime":"14:10:00","sprintTime":"15:00:00","eventTime":"14:00:00"}`))
	})

	s, err := client.GetSchedule(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, int64(12), s.CalendarRaceID)
	assert.Equal(t, "2024-06-02", s.EventDate)
	assert.True(t, s.HasSprint())
}

func TestGetLimitsDecodesWireNames(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/championships/3/limits", r.URL.Path)
		_, _ = w.Write([]byte(`{"maxPointsPerBet":100,"maxBetsPerRace":3,"maxBetsPerPilot":2,"maxSprintBetsPerPilot":9999}`))
	})

	l, err := client.GetLimits(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), l.ChampionshipID)
	assert.Equal(t, 100, l.MaxPointsPerRaceBet)
	assert.Equal(t, 3, l.MaxBetsPerRace)
	assert.Equal(t, 2, l.MaxBetsPerRiderSeason)
	assert.Equal(t, models.UnlimitedSentinel, l.MaxSprintBetsPerRiderSeason)
}

func TestListBetsScopesQueryAndTagsKind(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bets/sprint-bets", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("championshipId"))
		assert.Equal(t, "12", r.URL.Query().Get("calendarRaceId"))
		_, _ = w.Write([]byte(`[{"id":1,"riderId":7,"position":2,"points":30,"calendarRaceId":12}]`))
	})

	bets, err := client.ListBets(context.Background(), "sprint-bets", models.BetKindSprint, 3, 12)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, models.BetKindSprint, bets[0].Kind)
	assert.Equal(t, 30, bets[0].Points)
}

func TestListBetsSeasonOmitsRace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("calendarRaceId"))
		_, _ = w.Write([]byte(`[]`))
	})

	bets, err := client.ListBets(context.Background(), "race-bets", models.BetKindRace, 3, 0)
	require.NoError(t, err)
	assert.Empty(t, bets)
}

func TestCreateBetPostsCandidate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 7, body["riderId"])
		assert.EqualValues(t, 40, body["points"])
		assert.NotContains(t, body, "betKind")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":99,"riderId":7,"position":1,"points":40,"calendarRaceId":12}`))
	})

	bet, err := client.CreateBet(context.Background(), "race-bets", models.BetCandidate{
		RiderID: 7, Position: 1, Points: 40, CalendarRaceID: 12, Kind: models.BetKindRace,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), bet.ID)
	assert.Equal(t, models.BetKindRace, bet.Kind)
}

func TestDeleteBetNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/bets/race-bets/5", r.URL.Path)
		http.Error(w, "no such bet", http.StatusNotFound)
	})

	err := client.DeleteBet(context.Background(), "race-bets", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.True(t, IsStatus(err, http.StatusNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "no such bet", apiErr.Message)
}

func TestGetLineupMissingIsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12", r.URL.Query().Get("calendarRaceId"))
		_, _ = w.Write([]byte(`[]`))
	})

	l, err := client.GetLineup(context.Background(), 12)
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestGetLineupFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":4,"calendarRaceId":12,"raceRiderId":7,"qualifyingRiderId":8}]`))
	})

	l, err := client.GetLineup(context.Background(), 12)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, int64(7), l.RaceRiderID)
}

func TestSaveLineupUsesPut(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/lineups", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":4,"calendarRaceId":12,"raceRiderId":7,"qualifyingRiderId":8}`))
	})

	saved, err := client.SaveLineup(context.Background(), models.Lineup{CalendarRaceID: 12, RaceRiderID: 7, QualifyingRiderID: 8})
	require.NoError(t, err)
	assert.Equal(t, int64(4), saved.ID)
}

func TestCircuitBreakerOpensAfterTransportErrors(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 2
	cfg.Timeout = 500 * time.Millisecond
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", HTTP: cfg}, logger.Discard())

	for i := 0; i < 2; i++ {
		require.Error(t, client.Ping(context.Background()))
	}
	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")

	client.http.Reset()
	err = client.Ping(context.Background())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "circuit breaker open")
}
