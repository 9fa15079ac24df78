// Package logger provides betting window logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// WindowLogger logs betting window state for the monitor.
type WindowLogger struct {
	*logrus.Entry
}

// NewWindowLogger creates a new window logger.
func NewWindowLogger(baseLogger *logrus.Logger) *WindowLogger {
	return &WindowLogger{
		Entry: baseLogger.WithField("component", "window"),
	}
}

// LogGateTransition logs a gate opening or closing.
func (wl *WindowLogger) LogGateTransition(raceID int64, gate string, open bool) {
	event := "closed"
	if open {
		event = "opened"
	}
	wl.WithFields(logrus.Fields{
		"race_id": raceID,
		"gate":    gate,
		"event":   event,
	}).Info("Betting window " + event)
}

// LogFormEvaluation logs the derived state of a bet form.
func (wl *WindowLogger) LogFormEvaluation(raceID int64, kind string, windowOpen, disabled bool, betCount, pointsLeft, eligible int, missing string) {
	wl.WithFields(logrus.Fields{
		"race_id":         raceID,
		"bet_kind":        kind,
		"window_open":     windowOpen,
		"disabled":        disabled,
		"bet_count":       betCount,
		"points_left":     pointsLeft,
		"eligible_riders": eligible,
		"missing":         missing,
	}).Debug("Bet form evaluated")
}
