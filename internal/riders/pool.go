// Package riders derives the riders a user may still pick for a bet or lineup.
package riders

import (
	"github.com/yourusername/grid-picks/internal/models"
)

// PoolRequest describes one eligible-rider computation.
type PoolRequest struct {
	Roster     []models.Rider
	SeasonBets []models.Bet
	Kind       models.BetKind
	// MaxBetsPerRider is the season cap for Kind; zero means unlimited.
	MaxBetsPerRider int
	Lineup          *models.Lineup
	// ExcludeLineupRaceRider drops the lineup's race rider from the pool.
	ExcludeLineupRaceRider bool
}

// EligibleRiders returns the roster riders still selectable, in roster order.
//
// A rider is dropped once its season bet count of the requested kind is
// strictly greater than the cap, so the cap itself still admits one more bet.
func EligibleRiders(req PoolRequest) []models.Rider {
	counts := CountBetsPerRider(req.SeasonBets, req.Kind)
	limit, limited := models.Limit(req.MaxBetsPerRider)

	var excluded int64
	if req.ExcludeLineupRaceRider && req.Lineup.HasRaceRider() {
		excluded = req.Lineup.RaceRiderID
	}

	out := make([]models.Rider, 0, len(req.Roster))
	for _, r := range req.Roster {
		if limited && counts[r.ID] > limit {
			continue
		}
		if excluded != 0 && r.ID == excluded {
			continue
		}
		out = append(out, r)
	}
	return out
}

// EligibleLineupRiders applies the season cap to lineup picks. Each lineup
// counts once for its race rider and once for its qualifying rider.
func EligibleLineupRiders(roster []models.Rider, seasonLineups []models.Lineup, maxLineupsPerRider int) []models.Rider {
	counts := CountLineupsPerRider(seasonLineups)
	limit, limited := models.Limit(maxLineupsPerRider)

	out := make([]models.Rider, 0, len(roster))
	for _, r := range roster {
		if limited && counts[r.ID] > limit {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CountBetsPerRider counts bets of kind by rider.
func CountBetsPerRider(bets []models.Bet, kind models.BetKind) map[int64]int {
	counts := make(map[int64]int, len(bets))
	for _, b := range bets {
		if b.Kind != kind {
			continue
		}
		counts[b.RiderID]++
	}
	return counts
}

// CountLineupsPerRider counts rider appearances across lineups.
func CountLineupsPerRider(lineups []models.Lineup) map[int64]int {
	counts := make(map[int64]int, len(lineups)*2)
	for _, l := range lineups {
		if l.RaceRiderID != 0 {
			counts[l.RaceRiderID]++
		}
		if l.QualifyingRiderID != 0 {
			counts[l.QualifyingRiderID]++
		}
	}
	return counts
}

// Contains reports whether riderID is in the pool.
func Contains(pool []models.Rider, riderID int64) bool {
	for _, r := range pool {
		if r.ID == riderID {
			return true
		}
	}
	return false
}
