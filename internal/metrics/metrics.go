// Package metrics exposes the prometheus counters and histograms the
// surrounding service scrapes (SPEC_FULL §6.1). The core never reads
// its own metrics back; this is a write-only observability sink kept
// out of the scheduling decision path entirely.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SchedulingRuns counts completed Handle calls by mode and outcome.
	SchedulingRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fogsched",
		Name:      "scheduling_runs_total",
		Help:      "Completed scheduling calls by mode and outcome.",
	}, []string{"mode", "outcome"})

	// SchedulingDuration observes wall-clock call latency by mode.
	SchedulingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fogsched",
		Name:      "scheduling_duration_seconds",
		Help:      "Wall-clock duration of a scheduling call.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})

	// SolverIterations counts PSO/ACO iterations. Each solver adds its
	// configured iteration count once its loop completes.
	SolverIterations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fogsched",
		Name:      "solver_iterations_total",
		Help:      "Iterations executed by a metaheuristic solver.",
	}, []string{"solver"})

	// BestFitness records the winning fitness value of the last
	// completed run per mode, as a gauge snapshot.
	BestFitness = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fogsched",
		Name:      "best_fitness",
		Help:      "Fitness of the most recently produced allocation.",
	}, []string{"mode"})
)

func init() {
	prometheus.MustRegister(SchedulingRuns, SchedulingDuration, SolverIterations, BestFitness)
}

// ObserveSchedulingDuration records d against the mode's histogram.
func ObserveSchedulingDuration(mode string, d time.Duration) {
	SchedulingDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// RecordRun increments the outcome counter for mode ("ok" or "error")
// and, when fitness is finite, snapshots BestFitness.
func RecordRun(mode, outcome string, fitness float64) {
	SchedulingRuns.WithLabelValues(mode, outcome).Inc()
	if fitness == fitness && !isInf(fitness) { // exclude NaN and +Inf
		BestFitness.WithLabelValues(mode).Set(fitness)
	}
}

// RecordIterations adds n completed iterations for the named solver
// ("pso" or "aco").
func RecordIterations(solver string, n int) {
	SolverIterations.WithLabelValues(solver).Add(float64(n))
}

func isInf(f float64) bool {
	return f > 1e308 || f < -1e308
}
