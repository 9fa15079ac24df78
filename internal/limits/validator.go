package limits

import (
	"errors"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/grid-picks/internal/models"
)

var validate = validator.New()

// PointRange is the admissible points interval for a new bet.
type PointRange struct {
	Min       int  `json:"min"`
	Max       int  `json:"max"`
	Unlimited bool `json:"unlimited"`
}

// Exhausted reports whether no further points can be assigned.
func (r PointRange) Exhausted() bool {
	return !r.Unlimited && r.Max < r.Min
}

// Contains reports whether points lies within the range.
func (r PointRange) Contains(points int) bool {
	return points >= r.Min && points <= r.Max
}

// MaxAllowedPoints returns the remaining point budget for the race.
// An exhausted budget yields Max 0; it is not an error.
func MaxAllowedPoints(cfg KindConfig, pointsUsed int) PointRange {
	limit, ok := models.Limit(cfg.MaxPoints)
	if !ok {
		return PointRange{Min: MinPointsPerBet, Max: math.MaxInt, Unlimited: true}
	}
	remaining := limit - pointsUsed
	if remaining < 0 {
		remaining = 0
	}
	return PointRange{Min: MinPointsPerBet, Max: remaining}
}

// IsRaceBetCountExceeded reports whether the per-race bet ceiling has been reached.
func IsRaceBetCountExceeded(cfg KindConfig, betCount int) bool {
	limit, ok := models.Limit(cfg.MaxBetsPerRace)
	if !ok {
		return false
	}
	return betCount >= limit
}

// ValidateSubmission checks a candidate against the race quotas. The count
// ceiling is checked first and rejects regardless of the candidate's fields.
// riderCount bounds the predicted position; zero skips that bound.
func ValidateSubmission(c models.BetCandidate, cfg KindConfig, currentRaceBets []models.Bet, riderCount int) error {
	if c.Kind != cfg.Kind {
		return NewRejection(cfg.Kind, ReasonKindMismatch, models.ErrUnknownBetKind,
			"candidate is a %s bet", c.Kind)
	}

	current := models.FilterByKind(currentRaceBets, cfg.Kind)
	if IsRaceBetCountExceeded(cfg, len(current)) {
		return NewRejection(cfg.Kind, ReasonCountReached, models.ErrBetCountReached,
			"%d of %d bets already placed", len(current), cfg.MaxBetsPerRace)
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			switch fe.StructField() {
			case "Points":
				return NewRejection(cfg.Kind, ReasonPoints, models.ErrPointsOutOfRange,
					"points must be at least %d", MinPointsPerBet)
			case "Position":
				return NewRejection(cfg.Kind, ReasonPosition, models.ErrPositionInvalid,
					"position must be at least 1")
			}
			return NewRejection(cfg.Kind, ReasonInvalidField, err,
				"field %s failed %s", fe.StructField(), fe.Tag())
		}
		return NewRejection(cfg.Kind, ReasonInvalidField, err, "%v", err)
	}

	if riderCount > 0 && c.Position > riderCount {
		return NewRejection(cfg.Kind, ReasonPosition, models.ErrPositionInvalid,
			"position %d exceeds %d riders", c.Position, riderCount)
	}

	budget := MaxAllowedPoints(cfg, models.SumPoints(current))
	if !budget.Contains(c.Points) {
		return NewRejection(cfg.Kind, ReasonPoints, models.ErrPointsOutOfRange,
			"points %d outside [%d, %d]", c.Points, budget.Min, budget.Max)
	}

	return nil
}
