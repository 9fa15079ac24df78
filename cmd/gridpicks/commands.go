package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/grid-picks/internal/health"
	"github.com/yourusername/grid-picks/internal/models"
	"github.com/yourusername/grid-picks/internal/scheduler"
)

var (
	kindFlag       string
	riderFlag      int64
	positionFlag   int
	pointsFlag     int
	raceRiderFlag  int64
	qualiRiderFlag int64
	saveLineupFlag bool
)

func init() {
	for _, c := range []*cobra.Command{formCmd, submitCmd, deleteCmd} {
		c.Flags().StringVarP(&kindFlag, "kind", "k", string(models.BetKindRace), "Bet kind: race or sprint")
	}

	submitCmd.Flags().Int64Var(&riderFlag, "rider", 0, "Rider ID")
	submitCmd.Flags().IntVar(&positionFlag, "position", 0, "Predicted finishing position")
	submitCmd.Flags().IntVar(&pointsFlag, "points", 0, "Points to stake")
	_ = submitCmd.MarkFlagRequired("rider")
	_ = submitCmd.MarkFlagRequired("position")
	_ = submitCmd.MarkFlagRequired("points")

	lineupCmd.Flags().BoolVar(&saveLineupFlag, "save", false, "Save the lineup instead of showing it")
	lineupCmd.Flags().Int64Var(&raceRiderFlag, "race-rider", 0, "Race rider ID")
	lineupCmd.Flags().Int64Var(&qualiRiderFlag, "qualifying-rider", 0, "Qualifying rider ID")
}

type windowsView struct {
	RaceID         int64      `json:"raceId"`
	Lineup         bool       `json:"lineup"`
	SprintBet      bool       `json:"sprintBet"`
	RaceBet        bool       `json:"raceBet"`
	RaceBetOpensAt *time.Time `json:"raceBetOpensAt,omitempty"`
	RaceBetEndsAt  *time.Time `json:"raceBetEndsAt,omitempty"`
}

var windowsCmd = &cobra.Command{
	Use:   "windows <raceID>...",
	Short: "Show which betting windows are open",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := now()
		if err != nil {
			return err
		}
		views := make([]windowsView, 0, len(args))
		for _, arg := range args {
			raceID, err := parseID(arg)
			if err != nil {
				return err
			}
			schedule, err := repos.Schedule.GetSchedule(cmd.Context(), raceID)
			if err != nil {
				return err
			}
			gates := calc.Gates(schedule, at)
			view := windowsView{RaceID: raceID, Lineup: gates.Lineup, SprintBet: gates.SprintBet, RaceBet: gates.RaceBet}
			if start, end, ok := calc.RaceBetWindow(schedule); ok {
				view.RaceBetOpensAt, view.RaceBetEndsAt = &start, &end
			}
			views = append(views, view)
		}
		return printJSON(views)
	},
}

var formCmd = &cobra.Command{
	Use:   "form <raceID>",
	Short: "Evaluate the bet form of a race",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raceID, kind, at, err := raceArgs(args)
		if err != nil {
			return err
		}
		state, loadErr := betService.Form(cmd.Context(), raceID, kind, at)
		if loadErr != nil {
			appLog.WithError(loadErr).Warn("Form evaluated on a partial snapshot")
		}
		return printJSON(state)
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <raceID>",
	Short: "Submit a bet after local window and limit checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raceID, kind, at, err := raceArgs(args)
		if err != nil {
			return err
		}
		res, err := betService.Submit(cmd.Context(), models.BetCandidate{
			RiderID:        riderFlag,
			Position:       positionFlag,
			Points:         pointsFlag,
			CalendarRaceID: raceID,
			Kind:           kind,
		}, at)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <raceID> <betID>",
	Short: "Delete a bet while its window is open",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raceID, kind, at, err := raceArgs(args[:1])
		if err != nil {
			return err
		}
		betID, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := betService.Delete(cmd.Context(), raceID, kind, betID, at); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s bet %d\n", kind, betID)
		return nil
	},
}

var lineupCmd = &cobra.Command{
	Use:   "lineup <raceID>",
	Short: "Show or save the lineup of a race",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raceID, err := parseID(args[0])
		if err != nil {
			return err
		}
		at, err := now()
		if err != nil {
			return err
		}

		if !saveLineupFlag {
			state, loadErr := betService.LineupForm(cmd.Context(), raceID, at)
			if loadErr != nil {
				appLog.WithError(loadErr).Warn("Lineup evaluated on a partial snapshot")
			}
			return printJSON(state)
		}

		saved, err := betService.SaveLineup(cmd.Context(), models.Lineup{
			CalendarRaceID:    raceID,
			RaceRiderID:       raceRiderFlag,
			QualifyingRiderID: qualiRiderFlag,
		}, at)
		if err != nil {
			return err
		}
		return printJSON(saved)
	},
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch the betting windows of configured races and serve health and metrics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sched := scheduler.NewScheduler(repos.Schedule, calc, appLog)
		if err := sched.ScheduleWindowMonitor(cfg.Monitor.Schedule, cfg.Monitor.Races); err != nil {
			return err
		}

		sched.CheckRaces(ctx, cfg.Monitor.Races)
		if err := sched.Start(); err != nil {
			return err
		}

		serverErr := make(chan error, 1)
		if cfg.Metrics.Enabled {
			status, err := health.NewServer(health.Config{
				ServiceName:    cfg.App.Name,
				Version:        Version,
				Addr:           ":" + strconv.Itoa(cfg.Metrics.Port),
				MetricsPath:    cfg.Metrics.Path,
				ChampionshipID: cfg.Championship.ID,
				Races:          cfg.Monitor.Races,
				Repos:          repos,
				Windows:        sched,
				Backend:        client,
				Logger:         appLog,
			})
			if err != nil {
				_ = sched.Stop()
				return err
			}
			go func() { serverErr <- status.Run(ctx) }()
		}

		appLog.WithFields(logrus.Fields{
			"championship_id": cfg.Championship.ID,
			"races":           cfg.Monitor.Races,
			"next_run":        sched.GetNextRun(),
		}).Info("Window monitor running")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		var runErr error
		select {
		case sig := <-sigChan:
			appLog.WithField("signal", sig).Info("Shutdown signal received")
		case runErr = <-serverErr:
			appLog.WithError(runErr).Error("Status server stopped")
		}

		cancel()
		if err := sched.Stop(); err != nil {
			return err
		}
		return runErr
	},
}

func raceArgs(args []string) (int64, models.BetKind, time.Time, error) {
	raceID, err := parseID(args[0])
	if err != nil {
		return 0, "", time.Time{}, err
	}
	kind, err := models.ParseBetKind(kindFlag)
	if err != nil {
		return 0, "", time.Time{}, err
	}
	at, err := now()
	if err != nil {
		return 0, "", time.Time{}, err
	}
	return raceID, kind, at, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
