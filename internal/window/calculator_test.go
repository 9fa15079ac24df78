package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/grid-picks/internal/models"
)

func testSchedule() *models.RaceSchedule {
	return &models.RaceSchedule{
		CalendarRaceID: 7,
		EventDate:      "2024-06-02",
		QualifyingTime: "10:00:00",
		SprintTime:     "15:00:00",
		EventTime:      "14:00:00",
	}
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.UTC)
	require.NoError(t, err)
	return ts
}

func newTestCalculator() *Calculator {
	return NewCalculator(time.UTC, DefaultPolicy())
}

func TestCanShowLineups(t *testing.T) {
	calc := newTestCalculator()
	s := testSchedule()

	tests := []struct {
		name string
		now  string
		want bool
	}{
		{"opens at start of day three days before", "2024-05-30T00:00:00", true},
		{"open one second before qualifying", "2024-06-01T09:59:59", true},
		{"open exactly at qualifying", "2024-06-01T10:00:00", true},
		{"closed after qualifying", "2024-06-01T10:00:01", false},
		{"closed before opening", "2024-05-29T23:59:59", false},
		{"closed on race day", "2024-06-02T08:00:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.CanShowLineups(s, at(t, tt.now)))
		})
	}
}

func TestCanShowLineupsRequiresQualifyingTime(t *testing.T) {
	calc := newTestCalculator()
	s := testSchedule()
	s.QualifyingTime = ""

	assert.False(t, calc.CanShowLineups(s, at(t, "2024-05-31T12:00:00")))
}

func TestCanShowSprintBet(t *testing.T) {
	calc := newTestCalculator()
	s := testSchedule()

	tests := []struct {
		name string
		now  string
		want bool
	}{
		{"opens at start of day before event", "2024-06-01T00:00:00", true},
		{"open just before margin", "2024-06-01T14:29:59", true},
		{"closed at margin", "2024-06-01T14:30:00", false},
		{"closed two days before", "2024-05-31T23:59:59", false},
		{"closed race day morning", "2024-06-02T00:00:00", false},
		{"closed race day evening", "2024-06-02T23:00:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.CanShowSprintBet(s, at(t, tt.now)))
		})
	}
}

func TestCanShowSprintBetWithoutSprintTime(t *testing.T) {
	calc := newTestCalculator()
	s := testSchedule()
	s.SprintTime = ""

	// midnight fallback leaves an empty window
	assert.False(t, calc.CanShowSprintBet(s, at(t, "2024-06-01T00:00:00")))
	assert.False(t, calc.CanShowSprintBet(s, at(t, "2024-06-01T12:00:00")))
}

func TestCanShowRaceBet(t *testing.T) {
	calc := newTestCalculator()
	s := testSchedule()

	tests := []struct {
		name string
		now  string
		want bool
	}{
		{"closed before sprint margin", "2024-06-01T15:29:59", false},
		{"opens after sprint margin", "2024-06-01T15:30:00", true},
		{"open late evening", "2024-06-01T23:59:59", true},
		{"closed into race day", "2024-06-02T00:00:01", false},
		{"closed race afternoon", "2024-06-02T13:00:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.CanShowRaceBet(s, at(t, tt.now)))
		})
	}
}

func TestCanShowRaceBetLateEvent(t *testing.T) {
	calc := newTestCalculator()
	s := testSchedule()
	s.EventTime = "18:00:00"

	assert.True(t, calc.CanShowRaceBet(s, at(t, "2024-06-02T09:00:00")))
	assert.True(t, calc.CanShowRaceBet(s, at(t, "2024-06-02T13:59:59")))
	assert.False(t, calc.CanShowRaceBet(s, at(t, "2024-06-02T14:00:00")))

	_, end, ok := calc.RaceBetWindow(s)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 2, 13, 59, 59, int(999*time.Millisecond), time.UTC), end)
}

func TestMissingEventDateFailsClosed(t *testing.T) {
	calc := newTestCalculator()
	now := at(t, "2024-06-01T12:00:00")

	for _, s := range []*models.RaceSchedule{
		nil,
		{QualifyingTime: "10:00:00", SprintTime: "15:00:00"},
		{EventDate: "02/06/2024", QualifyingTime: "10:00:00", SprintTime: "15:00:00"},
	} {
		assert.Equal(t, Gates{}, calc.Gates(s, now))
	}
}

func TestMalformedTimeFailsClosed(t *testing.T) {
	calc := newTestCalculator()
	s := testSchedule()
	s.SprintTime = "three o'clock"

	assert.False(t, calc.CanShowSprintBet(s, at(t, "2024-06-01T08:00:00")))
	assert.False(t, calc.CanShowRaceBet(s, at(t, "2024-06-01T20:00:00")))
}

func TestAccessors(t *testing.T) {
	calc := newTestCalculator()
	s := testSchedule()

	event, ok := calc.EventTime(s)
	require.True(t, ok)
	assert.Equal(t, at(t, "2024-06-02T14:00:00"), event)

	quali, ok := calc.QualifyingInstant(s)
	require.True(t, ok)
	assert.Equal(t, at(t, "2024-06-01T10:00:00"), quali)

	sprint, ok := calc.SprintInstant(s)
	require.True(t, ok)
	assert.Equal(t, at(t, "2024-06-01T15:00:00"), sprint)
}

func TestShortClockFormat(t *testing.T) {
	calc := newTestCalculator()
	s := testSchedule()
	s.SprintTime = "15:00"

	sprint, ok := calc.SprintInstant(s)
	require.True(t, ok)
	assert.Equal(t, at(t, "2024-06-01T15:00:00"), sprint)
}

func TestGatesIdempotent(t *testing.T) {
	calc := newTestCalculator()
	s := testSchedule()
	now := at(t, "2024-06-01T09:00:00")

	first := calc.Gates(s, now)
	second := calc.Gates(s, now)

	assert.Equal(t, first, second)
	assert.Equal(t, Gates{Lineup: true, SprintBet: true, RaceBet: false}, first)
}

func TestCalendarUsesLocation(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	calc := NewCalculator(loc, DefaultPolicy())
	s := testSchedule()

	// 22:30 UTC on 1 June is already race day in CEST.
	now := time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC)
	assert.False(t, calc.CanShowSprintBet(s, now))
	assert.False(t, calc.CanShowRaceBet(s, now))

	// 21:30 UTC is 23:30 local, still inside the race window.
	now = time.Date(2024, 6, 1, 21, 30, 0, 0, time.UTC)
	assert.True(t, calc.CanShowRaceBet(s, now))
}

func TestGatesOpen(t *testing.T) {
	g := Gates{SprintBet: true}
	assert.True(t, g.Open(models.BetKindSprint))
	assert.False(t, g.Open(models.BetKindRace))
	assert.False(t, g.Open(models.BetKind("other")))
}
