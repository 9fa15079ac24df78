package limits

import (
	"fmt"

	"github.com/yourusername/grid-picks/internal/models"
)

// Rejection reasons
const (
	ReasonCountReached  = "count_reached"
	ReasonPoints        = "points_out_of_range"
	ReasonPosition      = "position_out_of_range"
	ReasonInvalidField  = "invalid_field"
	ReasonKindMismatch  = "kind_mismatch"
	ReasonWindowClosed  = "window_closed"
	ReasonRiderExcluded = "rider_not_eligible"
	ReasonIncomplete    = "snapshot_incomplete"
	ReasonBetNotFound   = "bet_not_found"
)

// RejectionError is returned when a bet is refused locally, before any network call.
type RejectionError struct {
	Reason string
	Kind   models.BetKind
	Detail string
	Err    error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s bet rejected (%s): %s", e.Kind, e.Reason, e.Detail)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// NewRejection creates a rejection wrapping the sentinel err.
func NewRejection(kind models.BetKind, reason string, err error, format string, args ...interface{}) *RejectionError {
	return &RejectionError{
		Reason: reason,
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
