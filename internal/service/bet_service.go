// Package service orchestrates loading, evaluating and submitting bets against the backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/grid-picks/internal/engine"
	"github.com/yourusername/grid-picks/internal/limits"
	"github.com/yourusername/grid-picks/internal/logger"
	"github.com/yourusername/grid-picks/internal/metrics"
	"github.com/yourusername/grid-picks/internal/models"
	"github.com/yourusername/grid-picks/internal/repository"
	"github.com/yourusername/grid-picks/internal/riders"
)

// BetService drives the bet and lineup forms of one championship.
type BetService struct {
	repos     *repository.Repositories
	engine    *engine.Engine
	audit     *logger.AuditLogger
	windowLog *logger.WindowLogger
	logger    *logrus.Logger
}

// NewBetService creates a new bet service
func NewBetService(repos *repository.Repositories, eng *engine.Engine, log *logrus.Logger) *BetService {
	if log == nil {
		log = logger.Discard()
	}
	return &BetService{
		repos:     repos,
		engine:    eng,
		audit:     logger.NewAuditLogger(log),
		windowLog: logger.NewWindowLogger(log),
		logger:    log,
	}
}

// Engine returns the evaluation engine in use.
func (s *BetService) Engine() *engine.Engine {
	return s.engine
}

// LoadSnapshot fetches everything a bet form of kind needs, concurrently.
// Parts that fail to load stay unmarked so evaluation fails closed; the
// returned error joins every load failure.
func (s *BetService) LoadSnapshot(ctx context.Context, raceID int64, kind models.BetKind) (*engine.Snapshot, error) {
	return s.load(ctx, raceID, kind, engine.RequiredParts(kind))
}

// LoadLineupSnapshot fetches everything the lineup form needs.
func (s *BetService) LoadLineupSnapshot(ctx context.Context, raceID int64) (*engine.Snapshot, error) {
	return s.load(ctx, raceID, "", engine.PartSchedule|engine.PartLimits|engine.PartRoster|engine.PartLineup|engine.PartSeasonLineups)
}

func (s *BetService) load(ctx context.Context, raceID int64, kind models.BetKind, parts engine.Part) (*engine.Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSnapshotLoad(time.Since(start).Seconds())
	}()

	snap := engine.NewSnapshot(raceID)
	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)

	fetch := func(part engine.Part, fn func() (func(), error)) {
		if parts&part == 0 {
			return
		}
		g.Go(func() error {
			apply, err := fn()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				err = fmt.Errorf("%s: %w", part, err)
				errs = append(errs, err)
				return err
			}
			apply()
			return nil
		})
	}

	fetch(engine.PartSchedule, func() (func(), error) {
		v, err := s.repos.Schedule.GetSchedule(ctx, raceID)
		return func() { snap.SetSchedule(v) }, err
	})
	fetch(engine.PartLimits, func() (func(), error) {
		v, err := s.repos.Championship.GetLimits(ctx)
		return func() { snap.SetLimits(v) }, err
	})
	fetch(engine.PartRoster, func() (func(), error) {
		v, err := s.repos.Rider.ListRiders(ctx)
		return func() { snap.SetRoster(v) }, err
	})
	fetch(engine.PartRaceBets, func() (func(), error) {
		v, err := s.repos.Bet.ListForRace(ctx, kind, raceID)
		return func() { snap.SetCurrentRaceBets(v) }, err
	})
	fetch(engine.PartSeasonBets, func() (func(), error) {
		v, err := s.repos.Bet.ListSeason(ctx, kind)
		return func() { snap.SetSeasonBets(v) }, err
	})
	fetch(engine.PartLineup, func() (func(), error) {
		v, err := s.repos.Lineup.GetForRace(ctx, raceID)
		return func() { snap.SetLineup(v) }, err
	})
	fetch(engine.PartSeasonLineups, func() (func(), error) {
		v, err := s.repos.Lineup.ListSeason(ctx)
		return func() { snap.SetSeasonLineups(v) }, err
	})

	// Wait reports only the first failure; every part still runs to completion
	// so the snapshot keeps whatever did load.
	if err := g.Wait(); err != nil {
		joined := errors.Join(errs...)
		s.logger.WithError(joined).WithFields(logrus.Fields{
			"race_id": raceID,
			"missing": snap.Missing(parts).String(),
		}).Warn("Snapshot loaded partially")
		return snap, joined
	}
	return snap, nil
}

// Form loads and evaluates the bet form of kind. The state is always
// usable; a non-nil error explains why it is disabled.
func (s *BetService) Form(ctx context.Context, raceID int64, kind models.BetKind, now time.Time) (engine.FormState, error) {
	snap, loadErr := s.LoadSnapshot(ctx, raceID, kind)
	state := s.engine.Evaluate(snap, kind, now)

	metrics.RecordFormEvaluation(kind.String(), state.Complete)
	s.windowLog.LogFormEvaluation(raceID, kind.String(), state.WindowOpen, state.Disabled,
		state.Limits.BetCount, pointsLeft(state.Limits.Points), len(state.EligibleRiders), state.Missing)

	return state, loadErr
}

// LineupForm loads and evaluates the lineup form.
func (s *BetService) LineupForm(ctx context.Context, raceID int64, now time.Time) (engine.LineupState, error) {
	snap, loadErr := s.LoadLineupSnapshot(ctx, raceID)
	return s.engine.EvaluateLineup(snap, now), loadErr
}

// SubmitResult is a created bet together with the form re-evaluated after it.
type SubmitResult struct {
	Bet  *models.Bet      `json:"bet"`
	Form engine.FormState `json:"form"`
}

// Submit runs every local check against a freshly loaded snapshot and only
// then sends the bet to the backend. The returned form reflects the new bet.
func (s *BetService) Submit(ctx context.Context, candidate models.BetCandidate, now time.Time) (*SubmitResult, error) {
	if _, err := models.ParseBetKind(candidate.Kind.String()); err != nil {
		return nil, err
	}

	snap, loadErr := s.LoadSnapshot(ctx, candidate.CalendarRaceID, candidate.Kind)
	if err := s.engine.CheckSubmission(snap, candidate, now); err != nil {
		s.reject(candidate, err)
		if loadErr != nil {
			return nil, fmt.Errorf("%w (load: %v)", err, loadErr)
		}
		return nil, err
	}

	bet, err := s.repos.Bet.Create(ctx, candidate)
	if err != nil {
		return nil, err
	}
	snap.AddBet(*bet)

	s.audit.LogBetSubmission(bet.ID, candidate.CalendarRaceID, candidate.RiderID, candidate.Kind.String(),
		candidate.Position, candidate.Points, now)
	metrics.RecordBetSubmitted(candidate.Kind.String())

	return &SubmitResult{Bet: bet, Form: s.engine.Evaluate(snap, candidate.Kind, now)}, nil
}

// Delete removes one of the user's bets on raceID while the window of its
// kind is open. Bets that do not belong to raceID are refused.
func (s *BetService) Delete(ctx context.Context, raceID int64, kind models.BetKind, betID int64, now time.Time) error {
	schedule, err := s.repos.Schedule.GetSchedule(ctx, raceID)
	if err != nil {
		return err
	}
	if !s.engine.Calculator().Gates(schedule, now).Open(kind) {
		return s.rejectDelete(limits.NewRejection(kind, limits.ReasonWindowClosed, models.ErrWindowClosed,
			"cannot delete bet %d on race %d", betID, raceID))
	}

	bets, err := s.repos.Bet.ListForRace(ctx, kind, raceID)
	if err != nil {
		return err
	}
	if !hasBet(bets, betID) {
		return s.rejectDelete(limits.NewRejection(kind, limits.ReasonBetNotFound, models.ErrNotFound,
			"bet %d is not a %s bet on race %d", betID, kind, raceID))
	}

	if err := s.repos.Bet.Delete(ctx, kind, betID); err != nil {
		return err
	}

	s.audit.LogBetDeleted(betID, raceID, kind.String())
	metrics.RecordBetDeleted(kind.String())
	return nil
}

func (s *BetService) rejectDelete(r *limits.RejectionError) error {
	metrics.RecordBetRejected(r.Kind.String(), r.Reason)
	return r
}

func hasBet(bets []models.Bet, id int64) bool {
	for _, b := range bets {
		if b.ID == id {
			return true
		}
	}
	return false
}

// SaveLineup creates or overwrites the lineup of a race while the lineup
// window is open. Both picks must come from the lineup-eligible pool.
func (s *BetService) SaveLineup(ctx context.Context, lineup models.Lineup, now time.Time) (*models.Lineup, error) {
	snap, loadErr := s.LoadLineupSnapshot(ctx, lineup.CalendarRaceID)
	state := s.engine.EvaluateLineup(snap, now)

	if !state.Complete {
		return nil, fmt.Errorf("%w: missing %s (load: %v)", models.ErrSnapshotPartial, state.Missing, loadErr)
	}
	if !state.WindowOpen {
		return nil, fmt.Errorf("%w: lineups for race %d", models.ErrWindowClosed, lineup.CalendarRaceID)
	}
	for _, id := range []int64{lineup.RaceRiderID, lineup.QualifyingRiderID} {
		if id != 0 && !riders.Contains(state.EligibleRiders, id) {
			return nil, fmt.Errorf("%w: rider %d", models.ErrRiderNotEligible, id)
		}
	}

	saved, err := s.repos.Lineup.Save(ctx, lineup)
	if err != nil {
		return nil, err
	}
	s.audit.LogLineupSaved(lineup.CalendarRaceID, lineup.RaceRiderID, lineup.QualifyingRiderID)
	return saved, nil
}

func (s *BetService) reject(c models.BetCandidate, err error) {
	reason, detail := "unknown", err.Error()
	var rejection *limits.RejectionError
	if errors.As(err, &rejection) {
		reason, detail = rejection.Reason, rejection.Detail
	}
	s.audit.LogBetRejected(c.CalendarRaceID, c.RiderID, c.Kind.String(), reason, detail)
	metrics.RecordBetRejected(c.Kind.String(), reason)
}

// pointsLeft renders the remaining budget for logs; -1 means unlimited.
func pointsLeft(r limits.PointRange) int {
	if r.Unlimited || r.Max == math.MaxInt {
		return -1
	}
	return r.Max
}
