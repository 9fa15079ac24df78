package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrUnknownBetKind   = errors.New("unknown bet kind")
	ErrWindowClosed     = errors.New("betting window is closed")
	ErrBetCountReached  = errors.New("bet count limit reached for race")
	ErrPointsOutOfRange = errors.New("points outside admissible range")
	ErrPositionInvalid  = errors.New("position outside admissible range")
	ErrRiderNotEligible = errors.New("rider not eligible")
	ErrSnapshotPartial  = errors.New("snapshot incomplete")
)
