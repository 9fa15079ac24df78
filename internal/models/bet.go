package models

import (
	"fmt"
	"strings"
)

// BetKind selects which session a bet predicts.
type BetKind string

const (
	BetKindSprint BetKind = "sprint"
	BetKindRace   BetKind = "race"
)

// ParseBetKind parses a bet kind name, case-insensitively.
func ParseBetKind(s string) (BetKind, error) {
	switch BetKind(strings.ToLower(strings.TrimSpace(s))) {
	case BetKindSprint:
		return BetKindSprint, nil
	case BetKindRace:
		return BetKindRace, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBetKind, s)
	}
}

func (k BetKind) String() string {
	return string(k)
}

// Bet is one user's single-rider prediction for one race session.
// Bets are never edited: a change is a delete followed by a new bet.
type Bet struct {
	ID             int64   `json:"id"`
	RiderID        int64   `json:"riderId" validate:"required"`
	Position       int     `json:"position" validate:"required,gte=1"`
	Points         int     `json:"points" validate:"required,gte=1"`
	CalendarRaceID int64   `json:"calendarRaceId" validate:"required"`
	Kind           BetKind `json:"betKind" validate:"required,oneof=sprint race"`
}

// BetCandidate is a bet the user is about to submit.
type BetCandidate struct {
	RiderID        int64   `json:"riderId" validate:"required"`
	Position       int     `json:"position" validate:"required,gte=1"`
	Points         int     `json:"points" validate:"required,gte=1"`
	CalendarRaceID int64   `json:"calendarRaceId" validate:"required"`
	Kind           BetKind `json:"-" validate:"required,oneof=sprint race"`
}

// ToBet converts the candidate into an unsaved Bet.
func (c BetCandidate) ToBet() Bet {
	return Bet{
		RiderID:        c.RiderID,
		Position:       c.Position,
		Points:         c.Points,
		CalendarRaceID: c.CalendarRaceID,
		Kind:           c.Kind,
	}
}

// SumPoints returns the total points wagered across bets.
func SumPoints(bets []Bet) int {
	total := 0
	for _, b := range bets {
		total += b.Points
	}
	return total
}

// FilterByKind returns the bets of the given kind, preserving order.
func FilterByKind(bets []Bet, kind BetKind) []Bet {
	out := make([]Bet, 0, len(bets))
	for _, b := range bets {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}
