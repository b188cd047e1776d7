// Package metrics holds the Prometheus collectors shared by the calculator
// service and its background worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "calculus"

// DefaultBuckets are latency buckets in seconds.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	// Computations counts finished computations by quantity and status code.
	Computations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "computations_total",
		Help:      "Number of computations by quantity and result kind.",
	}, []string{"quantity", "result"})

	// ComputeDuration observes engine latency per quantity.
	ComputeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "compute_duration_seconds",
		Help:      "Time spent computing a quantity.",
		Buckets:   DefaultBuckets,
	}, []string{"quantity"})

	// ChosenSource counts which path produced the reported value.
	ChosenSource = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chosen_source_total",
		Help:      "Number of reconciled integrals by the source of the reported value.",
	}, []string{"source"})

	// SymbolicOutcome counts symbolic attempts by outcome.
	SymbolicOutcome = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "symbolic_outcome_total",
		Help:      "Number of symbolic integration attempts by outcome.",
	}, []string{"outcome"})

	// Subdivisions observes how many bisections adaptive quadrature needed.
	Subdivisions = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "quadrature_subdivisions",
		Help:      "Number of interval bisections per quadrature.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
	})

	// Jobs counts background calculation jobs by terminal state.
	Jobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_total",
		Help:      "Number of processed calculation jobs by state.",
	}, []string{"state"})
)
