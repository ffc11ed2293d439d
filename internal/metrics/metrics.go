// Package metrics instruments the engine with prometheus counters,
// additive diagnostic surface per SPEC_FULL.md §2.6 — not a feature the
// spec's Non-goals exclude.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksDispatched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "whenever_ticks_dispatched_total",
		Help: "Number of condition ticks dispatched by the scheduler.",
	})
	ConditionsSatisfied = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "whenever_conditions_satisfied_total",
		Help: "Number of condition checks that were satisfied.",
	})
	TasksRun = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "whenever_tasks_run_total",
		Help: "Number of task executions, labeled by outcome.",
	}, []string{"outcome"})
	EventsFired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "whenever_events_fired_total",
		Help: "Number of event firings observed by the listener reactor.",
	})
)

func init() {
	prometheus.MustRegister(TicksDispatched, ConditionsSatisfied, TasksRun, EventsFired)
}

// Serve exposes the default registry on addr under /metrics, returning
// once the listener fails or is shut down.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
