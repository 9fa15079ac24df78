package models

// Lineup is a user's race-rider and qualifying-rider selection for one race.
// There is at most one lineup per user and race.
type Lineup struct {
	ID                int64 `json:"id,omitempty"`
	CalendarRaceID    int64 `json:"calendarRaceId" validate:"required"`
	RaceRiderID       int64 `json:"raceRiderId,omitempty"`
	QualifyingRiderID int64 `json:"qualifyingRiderId,omitempty"`
}

// HasRaceRider reports whether a race rider has been picked.
func (l *Lineup) HasRaceRider() bool {
	return l != nil && l.RaceRiderID != 0
}
