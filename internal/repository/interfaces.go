package repository

import (
	"context"

	"github.com/yourusername/grid-picks/internal/models"
)

// ScheduleRepository defines access to calendar race schedules
type ScheduleRepository interface {
	GetSchedule(ctx context.Context, raceID int64) (*models.RaceSchedule, error)
}

// ChampionshipRepository defines access to championship limits
type ChampionshipRepository interface {
	GetLimits(ctx context.Context) (*models.ChampionshipLimits, error)
}

// RiderRepository defines access to the championship roster
type RiderRepository interface {
	ListRiders(ctx context.Context) ([]models.Rider, error)
}

// BetRepository defines access to the user's bets of one kind
type BetRepository interface {
	ListForRace(ctx context.Context, kind models.BetKind, raceID int64) ([]models.Bet, error)
	ListSeason(ctx context.Context, kind models.BetKind) ([]models.Bet, error)
	Create(ctx context.Context, candidate models.BetCandidate) (*models.Bet, error)
	Delete(ctx context.Context, kind models.BetKind, betID int64) error
}

// LineupRepository defines access to the user's lineups
type LineupRepository interface {
	GetForRace(ctx context.Context, raceID int64) (*models.Lineup, error)
	ListSeason(ctx context.Context) ([]models.Lineup, error)
	Save(ctx context.Context, lineup models.Lineup) (*models.Lineup, error)
}

// Backend is the subset of the contest API the repositories read and write through.
type Backend interface {
	GetSchedule(ctx context.Context, raceID int64) (*models.RaceSchedule, error)
	GetLimits(ctx context.Context, championshipID int64) (*models.ChampionshipLimits, error)
	ListRiders(ctx context.Context, championshipID int64) ([]models.Rider, error)
	ListBets(ctx context.Context, endpoint string, kind models.BetKind, championshipID, raceID int64) ([]models.Bet, error)
	CreateBet(ctx context.Context, endpoint string, candidate models.BetCandidate) (*models.Bet, error)
	DeleteBet(ctx context.Context, endpoint string, betID int64) error
	GetLineup(ctx context.Context, raceID int64) (*models.Lineup, error)
	ListLineups(ctx context.Context, championshipID int64) ([]models.Lineup, error)
	SaveLineup(ctx context.Context, lineup models.Lineup) (*models.Lineup, error)
}
