// Package metrics provides the central Prometheus registry for the betting client.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grid_picks"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BetsSubmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_submitted_total",
		Help:      "Total number of bets accepted by the backend",
	}, []string{"kind"})
	BetsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_rejected_total",
		Help:      "Total number of bets rejected by local checks",
	}, []string{"kind", "reason"})
	BetsDeletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_deleted_total",
		Help:      "Total number of bets deleted",
	}, []string{"kind"})
	FormEvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "form_evaluations_total",
		Help:      "Total number of bet form evaluations",
	}, []string{"kind", "complete"})
	APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of backend API requests",
	}, []string{"method", "status"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Reference data cache lookups",
	}, []string{"kind", "result"})
)

// Gauge metrics
var (
	WindowOpen = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "window_open",
		Help:      "1 when the betting window is open for the race",
	}, []string{"race_id", "gate"})
)

// Histogram metrics
var (
	APIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Latency of backend API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
	SnapshotLoadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "snapshot_load_duration_seconds",
		Help:      "Time to load a full race snapshot in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(BetsSubmittedTotal)
		registry.MustRegister(BetsRejectedTotal)
		registry.MustRegister(BetsDeletedTotal)
		registry.MustRegister(FormEvaluationsTotal)
		registry.MustRegister(APIRequestsTotal)
		registry.MustRegister(CacheLookupsTotal)

		registry.MustRegister(WindowOpen)

		registry.MustRegister(APIRequestDuration)
		registry.MustRegister(SnapshotLoadDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBetSubmitted records a bet accepted by the backend.
func RecordBetSubmitted(kind string) {
	BetsSubmittedTotal.WithLabelValues(kind).Inc()
}

// RecordBetRejected records a locally rejected bet.
func RecordBetRejected(kind, reason string) {
	BetsRejectedTotal.WithLabelValues(kind, reason).Inc()
}

// RecordBetDeleted records a bet deletion.
func RecordBetDeleted(kind string) {
	BetsDeletedTotal.WithLabelValues(kind).Inc()
}

// RecordFormEvaluation records a bet form evaluation.
func RecordFormEvaluation(kind string, complete bool) {
	label := "false"
	if complete {
		label = "true"
	}
	FormEvaluationsTotal.WithLabelValues(kind, label).Inc()
}

// RecordAPIRequest records one backend request.
func RecordAPIRequest(method, status string, durationSeconds float64) {
	APIRequestsTotal.WithLabelValues(method, status).Inc()
	APIRequestDuration.WithLabelValues(method).Observe(durationSeconds)
}

// RecordCacheLookup records a reference data cache hit or miss.
func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(kind, result).Inc()
}

// SetWindowOpen updates the gate gauge for a race.
func SetWindowOpen(raceID, gate string, open bool) {
	v := 0.0
	if open {
		v = 1
	}
	WindowOpen.WithLabelValues(raceID, gate).Set(v)
}

// RecordSnapshotLoad records how long a snapshot load took.
func RecordSnapshotLoad(durationSeconds float64) {
	SnapshotLoadDuration.Observe(durationSeconds)
}
