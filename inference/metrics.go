package inference

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes.
const (
	outcomeConverged = "converged"
	outcomeCapped    = "capped"
	outcomeCancelled = "cancelled"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "semcomply_inference_runs_total",
		Help: "Forward-chaining runs by outcome",
	}, []string{"outcome"})

	runIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "semcomply_inference_iterations",
		Help:    "Iterations used per forward-chaining run",
		Buckets: []float64{1, 2, 3, 4, 5, 8, 13, 21},
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "semcomply_inference_run_duration_seconds",
		Help:    "Time to run forward chaining to fixpoint or cap",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	})

	ruleFirings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "semcomply_inference_rule_firings_total",
		Help: "Rule firings that asserted at least one new fact, by rule group",
	}, []string{"group"})

	ruleEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "semcomply_inference_rule_evaluations_total",
		Help: "Rule evaluations against a subject, by mode",
	}, []string{"mode"})

	factsAsserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "semcomply_inference_facts_asserted_total",
		Help: "Facts newly asserted by rule consequences",
	})
)
