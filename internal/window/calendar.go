package window

import (
	"strings"
	"time"
)

const midnight = "00:00:00"

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func addDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// atTimeOfDay places the clock value onto the calendar day of d.
// Accepts HH:MM:SS and HH:MM.
func atTimeOfDay(d time.Time, clock string) (time.Time, bool) {
	clock = strings.TrimSpace(clock)
	layout := "15:04:05"
	if strings.Count(clock, ":") == 1 {
		layout = "15:04"
	}
	tod, err := time.Parse(layout, clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, d.Location()), true
}

func orMidnight(clock string) string {
	if strings.TrimSpace(clock) == "" {
		return midnight
	}
	return clock
}
