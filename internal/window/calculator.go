// Package window decides which betting actions are open for a race at a given instant.
//
// Every function here is pure: the caller passes "now" and the race schedule,
// nothing reads a clock. Missing or malformed schedule fields close the window.
package window

import (
	"time"

	"github.com/yourusername/grid-picks/internal/models"
)

// Gates is the open/closed state of the three betting actions.
type Gates struct {
	Lineup    bool `json:"lineup"`
	SprintBet bool `json:"sprintBet"`
	RaceBet   bool `json:"raceBet"`
}

// Open reports whether the gate for kind is open.
func (g Gates) Open(kind models.BetKind) bool {
	switch kind {
	case models.BetKindSprint:
		return g.SprintBet
	case models.BetKindRace:
		return g.RaceBet
	default:
		return false
	}
}

// Calculator evaluates betting windows in a championship's local calendar.
type Calculator struct {
	loc    *time.Location
	policy Policy
}

// NewCalculator creates a calculator for the given timezone. A nil location means UTC.
func NewCalculator(loc *time.Location, policy Policy) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc, policy: policy}
}

// Location returns the timezone the calendar arithmetic runs in.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// EventTime returns the race start instant, falling back to midnight of the event date.
func (c *Calculator) EventTime(s *models.RaceSchedule) (time.Time, bool) {
	date, ok := s.Date(c.loc)
	if !ok {
		return time.Time{}, false
	}
	return atTimeOfDay(date, orMidnight(s.EventTime))
}

// QualifyingInstant returns qualifying start on the day before the event.
// There is no fallback: without a qualifying time there is no instant.
func (c *Calculator) QualifyingInstant(s *models.RaceSchedule) (time.Time, bool) {
	date, ok := s.Date(c.loc)
	if !ok || s.QualifyingTime == "" {
		return time.Time{}, false
	}
	return atTimeOfDay(addDays(date, -1), s.QualifyingTime)
}

// SprintInstant returns sprint start on the day before the event, falling back to midnight.
func (c *Calculator) SprintInstant(s *models.RaceSchedule) (time.Time, bool) {
	date, ok := s.Date(c.loc)
	if !ok {
		return time.Time{}, false
	}
	return atTimeOfDay(addDays(date, -1), orMidnight(s.SprintTime))
}

// CanShowLineups reports whether lineup selection is open:
// from the start of eventDate-3d through qualifying on eventDate-1d, both inclusive.
func (c *Calculator) CanShowLineups(s *models.RaceSchedule, now time.Time) bool {
	date, ok := s.Date(c.loc)
	if !ok {
		return false
	}
	end, ok := c.QualifyingInstant(s)
	if !ok {
		return false
	}
	start := startOfDay(addDays(date, -c.policy.LineupLeadDays))
	return !now.Before(start) && !now.After(end)
}

// CanShowSprintBet reports whether sprint betting is open: from the start of
// eventDate-1d until the sprint margin before sprint start, exclusive. Never on race day.
func (c *Calculator) CanShowSprintBet(s *models.RaceSchedule, now time.Time) bool {
	date, ok := s.Date(c.loc)
	if !ok {
		return false
	}
	if sameDay(now.In(c.loc), date) {
		return false
	}
	sprint, ok := c.SprintInstant(s)
	if !ok {
		return false
	}
	start := startOfDay(addDays(date, -1))
	end := sprint.Add(-c.policy.SprintMargin)
	return !now.Before(start) && now.Before(end)
}

// CanShowRaceBet reports whether race betting is open: from the sprint margin
// after sprint start until the race-day cutoff, both inclusive.
func (c *Calculator) CanShowRaceBet(s *models.RaceSchedule, now time.Time) bool {
	start, end, ok := c.RaceBetWindow(s)
	if !ok {
		return false
	}
	return !now.Before(start) && !now.After(end)
}

// RaceBetWindow returns the inclusive bounds of the race betting window.
func (c *Calculator) RaceBetWindow(s *models.RaceSchedule) (start, end time.Time, ok bool) {
	sprint, ok := c.SprintInstant(s)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	event, ok := c.EventTime(s)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start = sprint.Add(c.policy.SprintMargin)
	day := startOfDay(event)
	if event.Hour() <= c.policy.RaceCutoffHour {
		end = day
	} else {
		end = day.Add(time.Duration(c.policy.RaceCutoffHour)*time.Hour - time.Millisecond)
	}
	return start, end, true
}

// Gates evaluates all three windows for the same instant.
func (c *Calculator) Gates(s *models.RaceSchedule, now time.Time) Gates {
	return Gates{
		Lineup:    c.CanShowLineups(s, now),
		SprintBet: c.CanShowSprintBet(s, now),
		RaceBet:   c.CanShowRaceBet(s, now),
	}
}
