// Package metrics instruments the task store with Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for ganttline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Mutations counts store operations by operation and result
	// (applied, rejected, not_found, invalid).
	Mutations *prometheus.CounterVec

	// MoveOutcomes counts move protocol results (applied, rejected, needs_cascade).
	MoveOutcomes *prometheus.CounterVec

	// CascadeDependents observes how many dependents a planned cascade
	// classified as clean or conflicting.
	CascadeDependents *prometheus.HistogramVec

	// Overrides counts dependents shifted against their own constraint
	// after explicit confirmation.
	Overrides prometheus.Counter

	// PersistFailures counts storage writes that failed and were dropped.
	PersistFailures prometheus.Counter

	// Tasks tracks the size of the collection after each mutation.
	Tasks prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ganttline_mutations_total",
				Help: "Total number of task store mutations",
			},
			[]string{"op", "result"},
		),
		MoveOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ganttline_move_outcomes_total",
				Help: "Total number of task moves by protocol outcome",
			},
			[]string{"outcome"},
		),
		CascadeDependents: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ganttline_cascade_dependents",
				Help:    "Dependents per planned cascade",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
			},
			[]string{"class"},
		),
		Overrides: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ganttline_dependency_overrides_total",
				Help: "Dependents shifted in violation of their constraint after confirmation",
			},
		),
		PersistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ganttline_persist_failures_total",
				Help: "Total number of failed task collection writes",
			},
		),
		Tasks: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ganttline_tasks",
				Help: "Number of tasks in the store",
			},
		),
	}
}

// RecordMutation records the result of a store operation.
func (m *Metrics) RecordMutation(op, result string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op, result).Inc()
}

// RecordMoveOutcome records a move protocol outcome.
func (m *Metrics) RecordMoveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.MoveOutcomes.WithLabelValues(outcome).Inc()
}

// RecordCascade records the classification of a cascade plan.
func (m *Metrics) RecordCascade(clean, conflicting int) {
	if m == nil {
		return
	}
	m.CascadeDependents.WithLabelValues("clean").Observe(float64(clean))
	m.CascadeDependents.WithLabelValues("conflicting").Observe(float64(conflicting))
}

// RecordOverrides adds n confirmed overrides.
func (m *Metrics) RecordOverrides(n int) {
	if m == nil || n == 0 {
		return
	}
	m.Overrides.Add(float64(n))
}

// RecordPersistFailure counts a dropped write.
func (m *Metrics) RecordPersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

// SetTaskCount updates the collection size gauge.
func (m *Metrics) SetTaskCount(n int) {
	if m == nil {
		return
	}
	m.Tasks.Set(float64(n))
}
