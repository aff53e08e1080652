package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSubmission(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordSubmission("manha", OutcomeCommitted, 120*time.Millisecond)
	m.RecordSubmission("manha", OutcomeCommitted, 80*time.Millisecond)
	m.RecordSubmission("noite", OutcomeFailed, time.Second)

	if val := testutil.ToFloat64(m.SubmissionsTotal.WithLabelValues("manha", OutcomeCommitted)); val != 2 {
		t.Errorf("SubmissionsTotal[manha,committed] = %f, want 2", val)
	}
	if val := testutil.ToFloat64(m.SubmissionsTotal.WithLabelValues("noite", OutcomeFailed)); val != 1 {
		t.Errorf("SubmissionsTotal[noite,failed] = %f, want 1", val)
	}
	if n := testutil.CollectAndCount(m.SubmitDurationSeconds); n != 1 {
		t.Errorf("expected one histogram series, got %d", n)
	}
}

func TestRecordAttemptsAndFailures(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordAttempt()
	m.RecordAttempt()
	m.RecordFailure("server_error")

	if val := testutil.ToFloat64(m.AttemptsTotal); val != 2 {
		t.Errorf("AttemptsTotal = %f, want 2", val)
	}
	if val := testutil.ToFloat64(m.FailuresTotal.WithLabelValues("server_error")); val != 1 {
		t.Errorf("FailuresTotal[server_error] = %f, want 1", val)
	}
}

func TestInFlightGauge(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetInFlight(true)
	if val := testutil.ToFloat64(m.InFlight); val != 1 {
		t.Errorf("InFlight = %f, want 1", val)
	}
	m.SetInFlight(false)
	if val := testutil.ToFloat64(m.InFlight); val != 0 {
		t.Errorf("InFlight = %f, want 0", val)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *CheckinMetrics
	m.RecordAttempt()
	m.RecordFailure("unknown")
	m.RecordSubmission("tarde", OutcomeDeferred, time.Second)
	m.SetInFlight(true)
}
