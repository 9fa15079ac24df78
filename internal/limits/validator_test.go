package limits

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/grid-picks/internal/models"
)

func raceLimits() *models.ChampionshipLimits {
	return &models.ChampionshipLimits{
		ChampionshipID:        1,
		MaxPointsPerRaceBet:   10,
		MaxPointsPerSprintBet: 5,
		MaxBetsPerRace:        2,
		MaxBetsPerSprintRace:  models.UnlimitedSentinel,
		MaxBetsPerRiderSeason: 3,
	}
}

func raceBet(points int) models.Bet {
	return models.Bet{ID: 1, RiderID: 11, Position: 1, Points: points, CalendarRaceID: 7, Kind: models.BetKindRace}
}

func candidate(points, position int) models.BetCandidate {
	return models.BetCandidate{RiderID: 42, Position: position, Points: points, CalendarRaceID: 7, Kind: models.BetKindRace}
}

func assertRejected(t *testing.T, err error, reason string, sentinel error) {
	t.Helper()
	require.Error(t, err)
	var rej *RejectionError
	require.True(t, errors.As(err, &rej), "expected RejectionError, got %T", err)
	assert.Equal(t, reason, rej.Reason)
	if sentinel != nil {
		assert.ErrorIs(t, err, sentinel)
	}
}

func TestConfigFor(t *testing.T) {
	l := raceLimits()

	race := ConfigFor(models.BetKindRace, l)
	assert.Equal(t, "race-bets", race.Endpoint)
	assert.Equal(t, 10, race.MaxPoints)
	assert.Equal(t, 2, race.MaxBetsPerRace)
	assert.Equal(t, 3, race.MaxBetsPerRider)
	assert.True(t, race.ExcludeLineupRaceRider)

	sprint := ConfigFor(models.BetKindSprint, l)
	assert.Equal(t, "sprint-bets", sprint.Endpoint)
	assert.Equal(t, 5, sprint.MaxPoints)
	assert.False(t, sprint.ExcludeLineupRaceRider)
}

func TestMaxAllowedPoints(t *testing.T) {
	cfg := ConfigFor(models.BetKindRace, raceLimits())

	tests := []struct {
		name      string
		used      int
		wantMax   int
		exhausted bool
	}{
		{"nothing used", 0, 10, false},
		{"partly used", 7, 3, false},
		{"fully used", 10, 0, true},
		{"overspent", 12, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := MaxAllowedPoints(cfg, tt.used)
			assert.Equal(t, tt.wantMax, r.Max)
			assert.Equal(t, MinPointsPerBet, r.Min)
			assert.Equal(t, tt.exhausted, r.Exhausted())
		})
	}
}

func TestMaxAllowedPointsUnlimited(t *testing.T) {
	cfg := ConfigFor(models.BetKindRace, &models.ChampionshipLimits{})
	r := MaxAllowedPoints(cfg, 500)
	assert.True(t, r.Unlimited)
	assert.False(t, r.Exhausted())
	assert.True(t, r.Contains(1000))
}

func TestSprintSentinelIsUnlimited(t *testing.T) {
	l := &models.ChampionshipLimits{
		MaxPointsPerSprintBet:       models.UnlimitedSentinel,
		MaxBetsPerSprintRace:        models.UnlimitedSentinel + 1,
		MaxSprintBetsPerRiderSeason: models.UnlimitedSentinel,
	}
	sprint := ConfigFor(models.BetKindSprint, l)
	assert.Zero(t, sprint.MaxPoints)
	assert.Zero(t, sprint.MaxBetsPerRace)
	assert.Zero(t, sprint.MaxBetsPerRider)
	assert.True(t, MaxAllowedPoints(sprint, 50000).Unlimited)
}

func TestLargeRaceQuotasStayFinite(t *testing.T) {
	l := &models.ChampionshipLimits{MaxPointsPerRaceBet: 10000, MaxBetsPerRace: models.UnlimitedSentinel}
	race := ConfigFor(models.BetKindRace, l)

	r := MaxAllowedPoints(race, 9500)
	assert.False(t, r.Unlimited)
	assert.Equal(t, 500, r.Max)
	assert.True(t, IsRaceBetCountExceeded(race, models.UnlimitedSentinel))
	assertRejected(t, ValidateSubmission(candidate(501, 1), race, []models.Bet{raceBet(9500)}, 0),
		ReasonPoints, models.ErrPointsOutOfRange)
}

func TestIsRaceBetCountExceeded(t *testing.T) {
	race := ConfigFor(models.BetKindRace, raceLimits())
	assert.False(t, IsRaceBetCountExceeded(race, 1))
	assert.True(t, IsRaceBetCountExceeded(race, 2))
	assert.True(t, IsRaceBetCountExceeded(race, 3))

	// sentinel sprint ceiling behaves as unlimited
	sprint := ConfigFor(models.BetKindSprint, raceLimits())
	assert.False(t, IsRaceBetCountExceeded(sprint, 500))
}

func TestValidateSubmissionPointsBudget(t *testing.T) {
	cfg := ConfigFor(models.BetKindRace, raceLimits())
	current := []models.Bet{raceBet(7)}

	assert.NoError(t, ValidateSubmission(candidate(3, 1), cfg, current, 20))
	assertRejected(t, ValidateSubmission(candidate(4, 1), cfg, current, 20), ReasonPoints, models.ErrPointsOutOfRange)
}

func TestValidateSubmissionCountCheckedFirst(t *testing.T) {
	cfg := ConfigFor(models.BetKindRace, raceLimits())
	current := []models.Bet{raceBet(1), raceBet(1)}

	// invalid points and position, but the ceiling wins
	err := ValidateSubmission(candidate(0, 0), cfg, current, 20)
	assertRejected(t, err, ReasonCountReached, models.ErrBetCountReached)
}

func TestValidateSubmissionFieldBounds(t *testing.T) {
	cfg := ConfigFor(models.BetKindRace, raceLimits())

	assertRejected(t, ValidateSubmission(candidate(0, 1), cfg, nil, 20), ReasonPoints, models.ErrPointsOutOfRange)
	assertRejected(t, ValidateSubmission(candidate(1, 0), cfg, nil, 20), ReasonPosition, models.ErrPositionInvalid)
	assertRejected(t, ValidateSubmission(candidate(1, 21), cfg, nil, 20), ReasonPosition, models.ErrPositionInvalid)

	noRider := candidate(1, 1)
	noRider.RiderID = 0
	assertRejected(t, ValidateSubmission(noRider, cfg, nil, 20), ReasonInvalidField, nil)
}

func TestValidateSubmissionKindMismatch(t *testing.T) {
	cfg := ConfigFor(models.BetKindSprint, raceLimits())
	assertRejected(t, ValidateSubmission(candidate(1, 1), cfg, nil, 20), ReasonKindMismatch, nil)
}

func TestValidateSubmissionIgnoresOtherKind(t *testing.T) {
	cfg := ConfigFor(models.BetKindRace, raceLimits())
	sprintBets := []models.Bet{
		{ID: 5, RiderID: 1, Position: 1, Points: 5, CalendarRaceID: 7, Kind: models.BetKindSprint},
		{ID: 6, RiderID: 2, Position: 2, Points: 5, CalendarRaceID: 7, Kind: models.BetKindSprint},
	}
	assert.NoError(t, ValidateSubmission(candidate(10, 1), cfg, sprintBets, 20))
}

func TestRecompute(t *testing.T) {
	state := Recompute(models.BetKindRace, raceLimits(), []models.Bet{raceBet(7)}, true)
	assert.True(t, state.Known)
	assert.Equal(t, 1, state.BetCount)
	assert.Equal(t, 7, state.PointsUsed)
	assert.Equal(t, 3, state.Points.Max)
	assert.False(t, state.CountReached)
	assert.False(t, state.Disabled)

	state = Recompute(models.BetKindRace, raceLimits(), []models.Bet{raceBet(1), raceBet(1)}, true)
	assert.True(t, state.CountReached)
	assert.True(t, state.Disabled)
}

func TestRecomputeFailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		limits *models.ChampionshipLimits
		loaded bool
	}{
		{"limits missing", nil, true},
		{"bets missing", raceLimits(), false},
		{"nothing loaded", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Recompute(models.BetKindRace, tt.limits, nil, tt.loaded)
			assert.False(t, state.Known)
			assert.True(t, state.CountReached)
			assert.True(t, state.Disabled)
			assert.True(t, state.Points.Exhausted())
		})
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	current := []models.Bet{raceBet(4)}
	first := Recompute(models.BetKindRace, raceLimits(), current, true)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Recompute(models.BetKindRace, raceLimits(), current, true))
	}
}
