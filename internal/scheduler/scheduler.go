// Package scheduler runs the betting window monitor on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/grid-picks/internal/logger"
	"github.com/yourusername/grid-picks/internal/metrics"
	"github.com/yourusername/grid-picks/internal/repository"
	"github.com/yourusername/grid-picks/internal/window"
)

const (
	gateLineup    = "lineup"
	gateSprintBet = "sprint_bet"
	gateRaceBet   = "race_bet"
)

// Scheduler periodically re-evaluates the betting windows of configured races
type Scheduler struct {
	cron       *cron.Cron
	schedules  repository.ScheduleRepository
	calc       *window.Calculator
	windowLog  *logger.WindowLogger
	logger     *logrus.Logger
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
	last       map[int64]window.Gates
	now        func() time.Time
	jobTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(schedules repository.ScheduleRepository, calc *window.Calculator, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(calc.Location())),
		schedules:  schedules,
		calc:       calc,
		windowLog:  logger.NewWindowLogger(log),
		logger:     log,
		jobIDs:     make([]cron.EntryID, 0),
		last:       make(map[int64]window.Gates),
		now:        time.Now,
		jobTimeout: 30 * time.Second,
	}
}

// ScheduleWindowMonitor schedules gate evaluation for raceIDs
func (s *Scheduler) ScheduleWindowMonitor(cronExpression string, raceIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if len(raceIDs) == 0 {
		return fmt.Errorf("no races to monitor")
	}

	races := append([]int64(nil), raceIDs...)
	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.CheckRaces(ctx, races)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"schedule": cronExpression,
		"races":    races,
	}).Info("Scheduled window monitor")

	return nil
}

// CheckRaces evaluates the gates of every race once, logging transitions and
// publishing gauges. Races whose schedule cannot be loaded are skipped.
func (s *Scheduler) CheckRaces(ctx context.Context, raceIDs []int64) map[int64]window.Gates {
	now := s.now()
	out := make(map[int64]window.Gates, len(raceIDs))

	for _, raceID := range raceIDs {
		schedule, err := s.schedules.GetSchedule(ctx, raceID)
		if err != nil {
			s.logger.WithError(err).WithField("race_id", raceID).Warn("Failed to load race schedule")
			continue
		}

		gates := s.calc.Gates(schedule, now)
		out[raceID] = gates
		s.record(raceID, gates)
	}

	return out
}

func (s *Scheduler) record(raceID int64, gates window.Gates) {
	s.mu.Lock()
	prev, seen := s.last[raceID]
	s.last[raceID] = gates
	s.mu.Unlock()

	for _, g := range []struct {
		name      string
		open, was bool
	}{
		{gateLineup, gates.Lineup, prev.Lineup},
		{gateSprintBet, gates.SprintBet, prev.SprintBet},
		{gateRaceBet, gates.RaceBet, prev.RaceBet},
	} {
		metrics.SetWindowOpen(strconv.FormatInt(raceID, 10), g.name, g.open)
		if g.open != g.was || (!seen && g.open) {
			s.windowLog.LogGateTransition(raceID, g.name, g.open)
		}
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// LastGates returns the gates seen on the latest check of raceID.
func (s *Scheduler) LastGates(raceID int64) (window.Gates, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.last[raceID]
	return g, ok
}
