package models

import (
	"time"
)

// Date and time-of-day layouts used by the contest backend.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// RaceSchedule identifies one calendar event and its session start times.
// Time fields are local time-of-day strings; an empty string means the
// backend did not supply that session.
type RaceSchedule struct {
	CalendarRaceID int64  `json:"calendarRaceId"`
	EventDate      string `json:"eventDate" validate:"required,datetime=2006-01-02"`
	QualifyingTime string `json:"qualifyingTime,omitempty"`
	SprintTime     string `json:"sprintTime,omitempty"`
	EventTime      string `json:"eventTime,omitempty"`
}

// HasSprint reports whether a sprint session is scheduled for the event.
func (s *RaceSchedule) HasSprint() bool {
	return s.SprintTime != ""
}

// Date parses EventDate in the given location.
func (s *RaceSchedule) Date(loc *time.Location) (time.Time, bool) {
	if s == nil || s.EventDate == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, s.EventDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// CalendarRace is an entry of a championship calendar.
type CalendarRace struct {
	ID             int64        `json:"id"`
	ChampionshipID int64        `json:"championshipId"`
	Name           string       `json:"name"`
	Track          string       `json:"track"`
	Schedule       RaceSchedule `json:"schedule"`
}
