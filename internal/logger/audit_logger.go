// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetSubmission logs a bet accepted by the backend.
func (al *AuditLogger) LogBetSubmission(betID, raceID, riderID int64, kind string, position, points int, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"bet_id":    betID,
		"race_id":   raceID,
		"rider_id":  riderID,
		"bet_kind":  kind,
		"position":  position,
		"points":    points,
		"timestamp": timestamp.Unix(),
	}).Info("Bet submission recorded")
}

// LogBetRejected logs a bet refused by local checks before reaching the network.
func (al *AuditLogger) LogBetRejected(raceID, riderID int64, kind, reason, detail string) {
	al.WithFields(logrus.Fields{
		"race_id":  raceID,
		"rider_id": riderID,
		"bet_kind": kind,
		"reason":   reason,
		"detail":   detail,
	}).Warn("Bet rejected locally")
}

// LogBetDeleted logs a bet deletion.
func (al *AuditLogger) LogBetDeleted(betID, raceID int64, kind string) {
	al.WithFields(logrus.Fields{
		"bet_id":   betID,
		"race_id":  raceID,
		"bet_kind": kind,
	}).Info("Bet deletion recorded")
}

// LogLineupSaved logs a lineup create or overwrite.
func (al *AuditLogger) LogLineupSaved(raceID, raceRiderID, qualifyingRiderID int64) {
	al.WithFields(logrus.Fields{
		"race_id":             raceID,
		"race_rider_id":       raceRiderID,
		"qualifying_rider_id": qualifyingRiderID,
	}).Info("Lineup saved")
}
