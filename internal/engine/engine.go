// Package engine combines the window, rider pool and limit checks into the
// state of one bet form, evaluated from a caller-owned Snapshot.
package engine

import (
	"time"

	"github.com/yourusername/grid-picks/internal/limits"
	"github.com/yourusername/grid-picks/internal/models"
	"github.com/yourusername/grid-picks/internal/riders"
	"github.com/yourusername/grid-picks/internal/window"
)

// FormState is everything a bet form needs to render and to gate submission.
type FormState struct {
	RaceID         int64          `json:"raceId"`
	Kind           models.BetKind `json:"kind"`
	Complete       bool           `json:"complete"`
	Missing        string         `json:"missing,omitempty"`
	WindowOpen     bool           `json:"windowOpen"`
	Limits         limits.State   `json:"limits"`
	EligibleRiders []models.Rider `json:"eligibleRiders"`
	RiderCount     int            `json:"riderCount"`
	Disabled       bool           `json:"disabled"`
}

// CanSubmit reports whether a new bet could currently pass local checks.
func (f FormState) CanSubmit() bool {
	return !f.Disabled && !f.Limits.Points.Exhausted() && len(f.EligibleRiders) > 0
}

// LineupState is the lineup form counterpart of FormState.
type LineupState struct {
	RaceID         int64          `json:"raceId"`
	Complete       bool           `json:"complete"`
	Missing        string         `json:"missing,omitempty"`
	WindowOpen     bool           `json:"windowOpen"`
	Current        *models.Lineup `json:"current,omitempty"`
	EligibleRiders []models.Rider `json:"eligibleRiders"`
	Disabled       bool           `json:"disabled"`
}

// Engine evaluates snapshots against a window calculator.
type Engine struct {
	calc *window.Calculator
}

// New creates an engine.
func New(calc *window.Calculator) *Engine {
	return &Engine{calc: calc}
}

// Calculator returns the window calculator in use.
func (e *Engine) Calculator() *window.Calculator {
	return e.calc
}

// RequiredParts lists the snapshot parts a form of kind depends on.
func RequiredParts(kind models.BetKind) Part {
	p := PartSchedule | PartLimits | PartRoster | PartRaceBets | PartSeasonBets
	if limits.ConfigFor(kind, nil).ExcludeLineupRaceRider {
		p |= PartLineup
	}
	return p
}

// Evaluate derives the form state for kind. It is a pure function of the
// snapshot and now; partial snapshots produce a disabled form.
func (e *Engine) Evaluate(s *Snapshot, kind models.BetKind, now time.Time) FormState {
	required := RequiredParts(kind)
	missing := s.Missing(required)

	state := FormState{
		RaceID:   s.RaceID,
		Kind:     kind,
		Complete: missing == 0,
		Missing:  missing.String(),
	}

	if s.Loaded(PartSchedule) {
		state.WindowOpen = e.calc.Gates(s.Schedule, now).Open(kind)
	}

	var lim *models.ChampionshipLimits
	if s.Loaded(PartLimits) {
		lim = s.Limits
	}
	state.Limits = limits.Recompute(kind, lim, s.CurrentRaceBets, s.Loaded(PartRaceBets))

	if s.Loaded(PartRoster) {
		state.RiderCount = len(s.Roster)
	}

	if state.Complete {
		cfg := limits.ConfigFor(kind, s.Limits)
		state.EligibleRiders = riders.EligibleRiders(riders.PoolRequest{
			Roster:                 s.Roster,
			SeasonBets:             s.SeasonBets,
			Kind:                   kind,
			MaxBetsPerRider:        cfg.MaxBetsPerRider,
			Lineup:                 s.Lineup,
			ExcludeLineupRaceRider: cfg.ExcludeLineupRaceRider,
		})
	} else {
		state.EligibleRiders = []models.Rider{}
	}

	state.Disabled = !state.Complete || !state.WindowOpen || state.Limits.Disabled
	return state
}

// EvaluateLineup derives the lineup form state.
func (e *Engine) EvaluateLineup(s *Snapshot, now time.Time) LineupState {
	required := PartSchedule | PartLimits | PartRoster | PartLineup | PartSeasonLineups
	missing := s.Missing(required)

	state := LineupState{
		RaceID:         s.RaceID,
		Complete:       missing == 0,
		Missing:        missing.String(),
		EligibleRiders: []models.Rider{},
	}
	if s.Loaded(PartSchedule) {
		state.WindowOpen = e.calc.CanShowLineups(s.Schedule, now)
	}
	if state.Complete {
		state.Current = s.Lineup
		state.EligibleRiders = riders.EligibleLineupRiders(s.Roster, otherRaces(s.SeasonLineups, s.RaceID), s.Limits.MaxLineupsPerRider)
	}
	state.Disabled = !state.Complete || !state.WindowOpen
	return state
}

// CheckSubmission runs every local check for a candidate in the order the
// form applies them: completeness, window, count ceiling, rider pool, fields and points.
func (e *Engine) CheckSubmission(s *Snapshot, c models.BetCandidate, now time.Time) error {
	state := e.Evaluate(s, c.Kind, now)
	if !state.Complete {
		return limits.NewRejection(c.Kind, limits.ReasonIncomplete, models.ErrSnapshotPartial,
			"missing %s", state.Missing)
	}
	if !state.WindowOpen {
		return limits.NewRejection(c.Kind, limits.ReasonWindowClosed, models.ErrWindowClosed,
			"race %d", s.RaceID)
	}
	cfg := limits.ConfigFor(c.Kind, s.Limits)
	if state.Limits.CountReached {
		return limits.NewRejection(c.Kind, limits.ReasonCountReached, models.ErrBetCountReached,
			"%d of %d bets already placed", state.Limits.BetCount, cfg.MaxBetsPerRace)
	}
	if !riders.Contains(state.EligibleRiders, c.RiderID) {
		return limits.NewRejection(c.Kind, limits.ReasonRiderExcluded, models.ErrRiderNotEligible,
			"rider %d", c.RiderID)
	}
	return limits.ValidateSubmission(c, cfg, s.CurrentRaceBets, state.RiderCount)
}

// otherRaces drops the lineup of the race being edited so overwriting it does
// not count against the rider caps.
func otherRaces(lineups []models.Lineup, raceID int64) []models.Lineup {
	out := make([]models.Lineup, 0, len(lineups))
	for _, l := range lineups {
		if l.CalendarRaceID != raceID {
			out = append(out, l)
		}
	}
	return out
}
