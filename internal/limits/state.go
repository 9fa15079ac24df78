package limits

import (
	"github.com/yourusername/grid-picks/internal/models"
)

// State is the derived limit state for one race and bet kind.
type State struct {
	Kind         models.BetKind `json:"kind"`
	Known        bool           `json:"known"`
	BetCount     int            `json:"betCount"`
	PointsUsed   int            `json:"pointsUsed"`
	Points       PointRange     `json:"points"`
	CountReached bool           `json:"countReached"`
	// Disabled means the whole form is locked until a bet is deleted or data arrives.
	Disabled bool `json:"disabled"`
}

// Recompute derives the limit state from the latest inputs. It holds no state
// between calls and must run after every limits load, bets load and bet
// create/delete. Missing limits or bets yield a closed state.
func Recompute(kind models.BetKind, l *models.ChampionshipLimits, currentRaceBets []models.Bet, betsLoaded bool) State {
	if l == nil || !betsLoaded {
		return State{
			Kind:         kind,
			Points:       PointRange{Min: MinPointsPerBet, Max: 0},
			CountReached: true,
			Disabled:     true,
		}
	}

	cfg := ConfigFor(kind, l)
	current := models.FilterByKind(currentRaceBets, kind)
	used := models.SumPoints(current)
	reached := IsRaceBetCountExceeded(cfg, len(current))

	return State{
		Kind:         kind,
		Known:        true,
		BetCount:     len(current),
		PointsUsed:   used,
		Points:       MaxAllowedPoints(cfg, used),
		CountReached: reached,
		Disabled:     reached,
	}
}
