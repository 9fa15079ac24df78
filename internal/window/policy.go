package window

import "time"

// Policy holds the offsets every betting window is derived from.
type Policy struct {
	// LineupLeadDays is how many days before the event the lineup window opens.
	LineupLeadDays int
	// SprintMargin separates the sprint start from the close of sprint betting
	// and from the opening of race betting.
	SprintMargin time.Duration
	// RaceCutoffHour: events starting after this hour stop race betting at
	// this hour on race day; earlier events stop at the start of race day.
	RaceCutoffHour int
}

// DefaultPolicy returns the standard contest windows.
func DefaultPolicy() Policy {
	return Policy{
		LineupLeadDays: 3,
		SprintMargin:   30 * time.Minute,
		RaceCutoffHour: 14,
	}
}
