package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}

	log := newLogger(buf, "debug", "development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = newLogger(buf, "nonsense", "production")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestAuditLoggerBetSubmission(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	audit.LogBetSubmission(99, 7, 42, "race", 1, 5, time.Unix(1717264800, 0))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, float64(99), logEntry["bet_id"])
	assert.Equal(t, "race", logEntry["bet_kind"])
	assert.Equal(t, float64(1717264800), logEntry["timestamp"])
}

func TestAuditLoggerBetRejected(t *testing.T) {
	log, buf := setupTestLogger()
	NewAuditLogger(log).LogBetRejected(7, 42, "sprint", "count_reached", "2 of 2 bets already placed")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "count_reached", logEntry["reason"])
}

func TestAuditLoggerLineupSaved(t *testing.T) {
	log, buf := setupTestLogger()
	NewAuditLogger(log).LogLineupSaved(7, 42, 11)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(42), logEntry["race_rider_id"])
}

func TestWindowLoggerTransition(t *testing.T) {
	log, buf := setupTestLogger()
	NewWindowLogger(log).LogGateTransition(7, "race_bet", true)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "window", logEntry["component"])
	assert.Equal(t, "opened", logEntry["event"])
	assert.Equal(t, "Betting window opened", logEntry["msg"])
}

func TestWindowLoggerFormEvaluationIsDebug(t *testing.T) {
	log, buf := setupTestLogger()
	log.SetLevel(logrus.InfoLevel)
	NewWindowLogger(log).LogFormEvaluation(7, "race", true, false, 1, 3, 10, "")

	assert.Empty(t, buf.String())
}
