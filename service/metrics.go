package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for assessments. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Assessments   *prometheus.CounterVec
	Errors        *prometheus.CounterVec
	Duration      prometheus.Histogram
	CacheLookups  *prometheus.CounterVec
	Notifications *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Assessments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loanrisk_assessments_total",
				Help: "Assessments by outcome (default, no-default, error)",
			},
			[]string{"outcome"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loanrisk_assessment_errors_total",
				Help: "Failed assessments by stage and error kind",
			},
			[]string{"stage", "kind"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loanrisk_assessment_duration_seconds",
				Help:    "Time to produce one report",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loanrisk_score_cache_lookups_total",
				Help: "Score cache lookups by result (hit, miss)",
			},
			[]string{"result"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loanrisk_report_notifications_total",
				Help: "Report emails by result (sent, failed)",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.Assessments, m.Errors, m.Duration, m.CacheLookups, m.Notifications)
	return m
}

func (m *Metrics) observeAssessment(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Assessments.WithLabelValues(outcome).Inc()
	m.Duration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeError(stage, kind string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(stage, kind).Inc()
}

// ObserveCache records a score cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

// ObserveNotification records the outcome of a report email.
func (m *Metrics) ObserveNotification(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Notifications.WithLabelValues("failed").Inc()
		return
	}
	m.Notifications.WithLabelValues("sent").Inc()
}
