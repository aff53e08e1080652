// Package metrics exposes Prometheus instruments for the check-in pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "moodcheck"
	checkinSubsystem = "checkin"
)

// Outcome labels for SubmissionsTotal.
const (
	OutcomeCommitted = "committed"
	OutcomeDeferred  = "deferred"
	OutcomeFailed    = "failed"
)

type CheckinMetrics struct {
	// SubmissionsTotal counts finished submissions.
	// Labels: period, outcome (committed, deferred, failed)
	SubmissionsTotal *prometheus.CounterVec

	// FailuresTotal counts classified failures.
	// Labels: kind
	FailuresTotal *prometheus.CounterVec

	// AttemptsTotal counts remote calls including retries.
	AttemptsTotal prometheus.Counter

	// SubmitDurationSeconds measures a whole submission, retries included.
	SubmitDurationSeconds prometheus.Histogram

	// InFlight is 1 while a submission is outstanding.
	InFlight prometheus.Gauge
}

// New registers the check-in instruments with reg. A nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *CheckinMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &CheckinMetrics{
		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: checkinSubsystem,
				Name:      "submissions_total",
				Help:      "Total mood submissions by period and outcome",
			},
			[]string{"period", "outcome"},
		),

		FailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: checkinSubsystem,
				Name:      "failures_total",
				Help:      "Total failed submissions by classification",
			},
			[]string{"kind"},
		),

		AttemptsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: checkinSubsystem,
				Name:      "attempts_total",
				Help:      "Total remote submission attempts, retries included",
			},
		),

		SubmitDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: checkinSubsystem,
				Name:      "submit_duration_seconds",
				Help:      "Duration of a mood submission in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),

		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: checkinSubsystem,
				Name:      "in_flight",
				Help:      "Whether a mood submission is outstanding",
			},
		),
	}
}

// The Record helpers accept a nil receiver so callers can run without metrics.

func (m *CheckinMetrics) RecordAttempt() {
	if m == nil {
		return
	}
	m.AttemptsTotal.Inc()
}

func (m *CheckinMetrics) RecordSubmission(period, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(period, outcome).Inc()
	m.SubmitDurationSeconds.Observe(d.Seconds())
}

func (m *CheckinMetrics) RecordFailure(kind string) {
	if m == nil {
		return
	}
	m.FailuresTotal.WithLabelValues(kind).Inc()
}

func (m *CheckinMetrics) SetInFlight(inFlight bool) {
	if m == nil {
		return
	}
	if inFlight {
		m.InFlight.Set(1)
		return
	}
	m.InFlight.Set(0)
}
