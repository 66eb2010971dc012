package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.PollAttempt()
	m.PollAttempt()
	m.IngestionOutcome("completed")
	m.SessionOpened()

	if got := testutil.ToFloat64(m.pollAttempts); got != 2 {
		t.Errorf("poll attempts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ingestionOutcomes.WithLabelValues("completed")); got != 1 {
		t.Errorf("completed outcomes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active sessions = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.PollAttempt()
	m.IngestionOutcome("failed")
	m.ObserveRPC("/x", "ok", 0.1)
	m.SessionOpened()
	m.SessionClosed()
}
