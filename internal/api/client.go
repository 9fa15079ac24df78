// Package api is the HTTP client for the contest backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/grid-picks/internal/metrics"
	"github.com/yourusername/grid-picks/internal/models"
)

const maxErrorBody = 4 << 10

// Config configures the backend client
type Config struct {
	BaseURL string
	Token   string
	HTTP    HTTPClientConfig
}

// Client talks to the contest backend on behalf of the authenticated user.
type Client struct {
	http    *RateLimitedHTTPClient
	baseURL string
	token   string
	logger  *logrus.Logger
}

// NewClient creates a backend client.
func NewClient(cfg Config, logger *logrus.Logger) *Client {
	return &Client{
		http:    NewRateLimitedHTTPClient(cfg.HTTP, logger),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		logger:  logger,
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// Ping checks backend reachability.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

type scheduleResponse struct {
	ID             int64  `json:"id"`
	EventDate      string `json:"eventDate"`
	QualifyingTime string `json:"qualifyingTime"`
	SprintTime     string `json:"sprintTime"`
	EventTime      string `json:"eventTime"`
}

// GetSchedule fetches the schedule of a calendar race.
func (c *Client) GetSchedule(ctx context.Context, raceID int64) (*models.RaceSchedule, error) {
	var resp scheduleResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/calendar/%d", raceID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &models.RaceSchedule{
		CalendarRaceID: raceID,
		EventDate:      resp.EventDate,
		QualifyingTime: resp.QualifyingTime,
		SprintTime:     resp.SprintTime,
		EventTime:      resp.EventTime,
	}, nil
}

// GetLimits fetches the championship limits.
func (c *Client) GetLimits(ctx context.Context, championshipID int64) (*models.ChampionshipLimits, error) {
	var l models.ChampionshipLimits
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/championships/%d/limits", championshipID), nil, nil, &l); err != nil {
		return nil, err
	}
	l.ChampionshipID = championshipID
	return &l, nil
}

// ListRiders fetches the championship roster.
func (c *Client) ListRiders(ctx context.Context, championshipID int64) ([]models.Rider, error) {
	riders := []models.Rider{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/championships/%d/riders", championshipID), nil, nil, &riders); err != nil {
		return nil, err
	}
	return riders, nil
}

// ListBets fetches the user's bets on endpoint. A zero raceID lists the whole season.
func (c *Client) ListBets(ctx context.Context, endpoint string, kind models.BetKind, championshipID, raceID int64) ([]models.Bet, error) {
	q := url.Values{}
	q.Set("championshipId", strconv.FormatInt(championshipID, 10))
	if raceID != 0 {
		q.Set("calendarRaceId", strconv.FormatInt(raceID, 10))
	}

	bets := []models.Bet{}
	if err := c.do(ctx, http.MethodGet, "/bets/"+endpoint, q, nil, &bets); err != nil {
		return nil, err
	}
	for i := range bets {
		bets[i].Kind = kind
	}
	return bets, nil
}

// CreateBet submits a bet.
func (c *Client) CreateBet(ctx context.Context, endpoint string, candidate models.BetCandidate) (*models.Bet, error) {
	var bet models.Bet
	if err := c.do(ctx, http.MethodPost, "/bets/"+endpoint, nil, candidate, &bet); err != nil {
		return nil, err
	}
	bet.Kind = candidate.Kind
	return &bet, nil
}

// DeleteBet removes a bet.
func (c *Client) DeleteBet(ctx context.Context, endpoint string, betID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/bets/%s/%d", endpoint, betID), nil, nil, nil)
}

// GetLineup fetches the user's lineup for a race; nil when none has been saved.
func (c *Client) GetLineup(ctx context.Context, raceID int64) (*models.Lineup, error) {
	q := url.Values{}
	q.Set("calendarRaceId", strconv.FormatInt(raceID, 10))

	lineups := []models.Lineup{}
	err := c.do(ctx, http.MethodGet, "/lineups", q, nil, &lineups)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range lineups {
		if lineups[i].CalendarRaceID == raceID || lineups[i].CalendarRaceID == 0 {
			l := lineups[i]
			l.CalendarRaceID = raceID
			return &l, nil
		}
	}
	return nil, nil
}

// ListLineups fetches the user's lineups across the championship.
func (c *Client) ListLineups(ctx context.Context, championshipID int64) ([]models.Lineup, error) {
	q := url.Values{}
	q.Set("championshipId", strconv.FormatInt(championshipID, 10))

	lineups := []models.Lineup{}
	if err := c.do(ctx, http.MethodGet, "/lineups", q, nil, &lineups); err != nil {
		return nil, err
	}
	return lineups, nil
}

// SaveLineup creates or overwrites the user's lineup for a race.
func (c *Client) SaveLineup(ctx context.Context, lineup models.Lineup) (*models.Lineup, error) {
	var saved models.Lineup
	if err := c.do(ctx, http.MethodPut, "/lineups", nil, lineup, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.RecordAPIRequest(method, status, time.Since(start).Seconds())
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("API request completed")

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
