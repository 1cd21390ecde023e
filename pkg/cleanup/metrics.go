package cleanup

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks Prometheus metrics for retention sweeps.
//
// Metrics:
//   - pepper_custodian_sweeps_total: Sweep count by trigger and outcome
//   - pepper_custodian_cases_deleted_total: Case folders deleted
//   - pepper_custodian_case_errors_total: Per-case deletion failures
//   - pepper_custodian_sweep_duration_seconds: Sweep duration histogram
//   - pepper_custodian_last_sweep_timestamp_seconds: Finish time of the last sweep
//   - pepper_custodian_eligible_cases: Eligible set size at last run start
type Metrics struct {
	sweepsTotal   *prometheus.CounterVec
	casesDeleted  prometheus.Counter
	caseErrors    prometheus.Counter
	sweepDuration prometheus.Histogram
	lastSweep     prometheus.Gauge
	eligibleCases prometheus.Gauge
}

// NewMetrics creates and registers sweep metrics with the provided registry.
// If registry is nil, a new private registry is created.
func NewMetrics(namespace, subsystem string, registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "pepper"
	}
	if subsystem == "" {
		subsystem = "custodian"
	}

	m := &Metrics{
		sweepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweeps_total",
				Help:      "Total number of cleanup sweeps by trigger and outcome",
			},
			[]string{"trigger", "outcome"},
		),

		casesDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cases_deleted_total",
				Help:      "Total number of case folders deleted by retention sweeps",
			},
		),

		caseErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "case_errors_total",
				Help:      "Total number of per-case deletion failures",
			},
		),

		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweep_duration_seconds",
				Help:      "Duration of cleanup sweeps in seconds",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 600},
			},
		),

		lastSweep: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_sweep_timestamp_seconds",
				Help:      "Unix time the last sweep finished",
			},
		),

		eligibleCases: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "eligible_cases",
				Help:      "Number of eligible cases at the last sweep's snapshot",
			},
		),
	}

	registry.MustRegister(
		m.sweepsTotal,
		m.casesDeleted,
		m.caseErrors,
		m.sweepDuration,
		m.lastSweep,
		m.eligibleCases,
	)

	return m
}

// RecordSweep records a completed sweep. A sweep that finished counts as
// completed even when individual cases failed.
func (m *Metrics) RecordSweep(trigger string, result *RunResult) {
	m.sweepsTotal.WithLabelValues(trigger, "completed").Inc()
	m.casesDeleted.Add(float64(result.Deleted))
	m.caseErrors.Add(float64(result.Errors))
	m.sweepDuration.Observe(result.Duration().Seconds())
	m.lastSweep.Set(float64(result.FinishedAt.Unix()))
}

// RecordSweepFailed records a sweep that aborted before deleting anything
// (case store query failure).
func (m *Metrics) RecordSweepFailed(trigger string) {
	m.sweepsTotal.WithLabelValues(trigger, "failed").Inc()
}

// SetEligibleCases records the eligible set size at run start.
func (m *Metrics) SetEligibleCases(n int) {
	m.eligibleCases.Set(float64(n))
}
