// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sharify"

// Metrics groups the service collectors. A nil *Metrics is valid and records
// nothing, so components can be built without a registry in tests.
type Metrics struct {
	pollAttempts      prometheus.Counter
	ingestionOutcomes *prometheus.CounterVec
	rpcDuration       *prometheus.HistogramVec
	activeSessions    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pollAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "poll_attempts_total",
			Help:      "Status requests issued to the OCR service.",
		}),
		ingestionOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "outcomes_total",
			Help:      "Terminal ingestion outcomes by state.",
		}, []string{"state"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "duration_seconds",
			Help:      "RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Split sessions currently held in memory.",
		}),
	}
	reg.MustRegister(m.pollAttempts, m.ingestionOutcomes, m.rpcDuration, m.activeSessions)
	return m
}

// PollAttempt counts one status request.
func (m *Metrics) PollAttempt() {
	if m == nil {
		return
	}
	m.pollAttempts.Inc()
}

// IngestionOutcome counts one terminal ingestion outcome.
func (m *Metrics) IngestionOutcome(state string) {
	if m == nil {
		return
	}
	m.ingestionOutcomes.WithLabelValues(state).Inc()
}

// ObserveRPC records the duration of one RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(seconds)
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
