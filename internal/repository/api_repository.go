package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/grid-picks/internal/limits"
	"github.com/yourusername/grid-picks/internal/models"
)

// APIScheduleRepository reads schedules from the backend.
type APIScheduleRepository struct {
	backend Backend
	cache   *Cache
}

// NewAPIScheduleRepository creates a schedule repository
func NewAPIScheduleRepository(backend Backend, c *Cache) *APIScheduleRepository {
	return &APIScheduleRepository{backend: backend, cache: c}
}

// GetSchedule returns the schedule of a calendar race
func (r *APIScheduleRepository) GetSchedule(ctx context.Context, raceID int64) (*models.RaceSchedule, error) {
	key := scheduleKey(raceID)
	if v, ok := r.cache.get("schedule", key); ok {
		s := *v.(*models.RaceSchedule)
		return &s, nil
	}

	s, err := r.backend.GetSchedule(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule for race %d: %w", raceID, err)
	}
	r.cache.set(key, s)

	out := *s
	return &out, nil
}

// APIChampionshipRepository reads the limits of one championship.
type APIChampionshipRepository struct {
	backend        Backend
	cache          *Cache
	championshipID int64
}

// NewAPIChampionshipRepository creates a championship repository
func NewAPIChampionshipRepository(backend Backend, c *Cache, championshipID int64) *APIChampionshipRepository {
	return &APIChampionshipRepository{backend: backend, cache: c, championshipID: championshipID}
}

// GetLimits returns the championship limits
func (r *APIChampionshipRepository) GetLimits(ctx context.Context) (*models.ChampionshipLimits, error) {
	key := limitsKey(r.championshipID)
	if v, ok := r.cache.get("limits", key); ok {
		l := *v.(*models.ChampionshipLimits)
		return &l, nil
	}

	l, err := r.backend.GetLimits(ctx, r.championshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get limits for championship %d: %w", r.championshipID, err)
	}
	r.cache.set(key, l)

	out := *l
	return &out, nil
}

// APIRiderRepository reads the championship roster.
type APIRiderRepository struct {
	backend        Backend
	cache          *Cache
	championshipID int64
}

// NewAPIRiderRepository creates a rider repository
func NewAPIRiderRepository(backend Backend, c *Cache, championshipID int64) *APIRiderRepository {
	return &APIRiderRepository{backend: backend, cache: c, championshipID: championshipID}
}

// ListRiders returns the roster in backend order
func (r *APIRiderRepository) ListRiders(ctx context.Context) ([]models.Rider, error) {
	key := rosterKey(r.championshipID)
	if v, ok := r.cache.get("roster", key); ok {
		return append([]models.Rider(nil), v.([]models.Rider)...), nil
	}

	roster, err := r.backend.ListRiders(ctx, r.championshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list riders for championship %d: %w", r.championshipID, err)
	}
	r.cache.set(key, roster)
	return append([]models.Rider(nil), roster...), nil
}

// APIBetRepository reads and writes the user's bets. Results are never cached.
type APIBetRepository struct {
	backend        Backend
	championshipID int64
}

// NewAPIBetRepository creates a bet repository
func NewAPIBetRepository(backend Backend, championshipID int64) *APIBetRepository {
	return &APIBetRepository{backend: backend, championshipID: championshipID}
}

// ListForRace returns the user's bets of kind on one race
func (r *APIBetRepository) ListForRace(ctx context.Context, kind models.BetKind, raceID int64) ([]models.Bet, error) {
	bets, err := r.backend.ListBets(ctx, limits.ConfigFor(kind, nil).Endpoint, kind, r.championshipID, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s bets for race %d: %w", kind, raceID, err)
	}
	return bets, nil
}

// ListSeason returns the user's bets of kind across the championship
func (r *APIBetRepository) ListSeason(ctx context.Context, kind models.BetKind) ([]models.Bet, error) {
	bets, err := r.backend.ListBets(ctx, limits.ConfigFor(kind, nil).Endpoint, kind, r.championshipID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list season %s bets: %w", kind, err)
	}
	return bets, nil
}

// Create submits a bet
func (r *APIBetRepository) Create(ctx context.Context, candidate models.BetCandidate) (*models.Bet, error) {
	bet, err := r.backend.CreateBet(ctx, limits.ConfigFor(candidate.Kind, nil).Endpoint, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s bet: %w", candidate.Kind, err)
	}
	return bet, nil
}

// Delete removes a bet
func (r *APIBetRepository) Delete(ctx context.Context, kind models.BetKind, betID int64) error {
	if err := r.backend.DeleteBet(ctx, limits.ConfigFor(kind, nil).Endpoint, betID); err != nil {
		return fmt.Errorf("failed to delete %s bet %d: %w", kind, betID, err)
	}
	return nil
}

// APILineupRepository reads and writes the user's lineups.
type APILineupRepository struct {
	backend        Backend
	championshipID int64
}

// NewAPILineupRepository creates a lineup repository
func NewAPILineupRepository(backend Backend, championshipID int64) *APILineupRepository {
	return &APILineupRepository{backend: backend, championshipID: championshipID}
}

// GetForRace returns the lineup for a race, or nil when none exists
func (r *APILineupRepository) GetForRace(ctx context.Context, raceID int64) (*models.Lineup, error) {
	l, err := r.backend.GetLineup(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lineup for race %d: %w", raceID, err)
	}
	return l, nil
}

// ListSeason returns every lineup of the championship
func (r *APILineupRepository) ListSeason(ctx context.Context) ([]models.Lineup, error) {
	lineups, err := r.backend.ListLineups(ctx, r.championshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lineups: %w", err)
	}
	return lineups, nil
}

// Save creates or overwrites the lineup of a race
func (r *APILineupRepository) Save(ctx context.Context, lineup models.Lineup) (*models.Lineup, error) {
	saved, err := r.backend.SaveLineup(ctx, lineup)
	if err != nil {
		return nil, fmt.Errorf("failed to save lineup for race %d: %w", lineup.CalendarRaceID, err)
	}
	return saved, nil
}
