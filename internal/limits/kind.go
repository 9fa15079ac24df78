// Package limits enforces championship betting quotas before a bet reaches the backend.
package limits

import (
	"github.com/yourusername/grid-picks/internal/models"
)

// MinPointsPerBet is the smallest stake a bet may carry.
const MinPointsPerBet = 1

// KindConfig is the per-kind view of the championship limits. Zero means unlimited.
type KindConfig struct {
	Kind                   models.BetKind
	Endpoint               string
	MaxPoints              int
	MaxBetsPerRace         int
	MaxBetsPerRider        int
	ExcludeLineupRaceRider bool
}

// ConfigFor selects the quotas that apply to kind. A nil limits value yields
// an unlimited config; callers that need fail-closed behaviour check for nil first.
func ConfigFor(kind models.BetKind, l *models.ChampionshipLimits) KindConfig {
	if l == nil {
		l = &models.ChampionshipLimits{}
	}
	switch kind {
	case models.BetKindSprint:
		return KindConfig{
			Kind:            models.BetKindSprint,
			Endpoint:        "sprint-bets",
			MaxPoints:       models.SprintQuota(l.MaxPointsPerSprintBet),
			MaxBetsPerRace:  models.SprintQuota(l.MaxBetsPerSprintRace),
			MaxBetsPerRider: models.SprintQuota(l.MaxSprintBetsPerRiderSeason),
		}
	default:
		return KindConfig{
			Kind:                   models.BetKindRace,
			Endpoint:               "race-bets",
			MaxPoints:              l.MaxPointsPerRaceBet,
			MaxBetsPerRace:         l.MaxBetsPerRace,
			MaxBetsPerRider:        l.MaxBetsPerRiderSeason,
			ExcludeLineupRaceRider: true,
		}
	}
}
