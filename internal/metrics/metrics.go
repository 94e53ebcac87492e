// Package metrics provides Prometheus instrumentation for consolidation
// runs. Instrumentation never alters engine semantics; recording functions
// are safe to call from any goroutine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "flowcast"
	subsystem = "consolidation"
)

// Custom registry to avoid default Go metrics.
var registry = prometheus.NewRegistry()

var (
	runsStarted = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "runs_started_total",
		Help:      "Total number of consolidation runs started",
	})

	runsFailed = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "runs_failed_total",
		Help:      "Total number of consolidation runs aborted by a fatal error",
	})

	snapshotsUpserted = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "snapshots_upserted_total",
		Help:      "Total number of per-period snapshots written",
	})

	persistenceConflicts = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persistence_conflicts_total",
		Help:      "Total number of snapshot upsert collisions",
	})

	degenerateForecasts = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "degenerate_forecasts_total",
		Help:      "Total number of Monte Carlo calls with no usable throughput history",
	})

	notificationFailures = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "notification_failures_total",
		Help:      "Total number of completion notifications that failed to send",
	})

	runDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall clock duration of a single project consolidation run",
		Buckets:   prometheus.DefBuckets,
	})

	simulationDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "simulation_duration_seconds",
		Help:      "Wall clock duration of a single Monte Carlo call",
		Buckets:   prometheus.DefBuckets,
	})
)

func RecordRunStarted()          { runsStarted.Inc() }
func RecordRunFailed()           { runsFailed.Inc() }
func RecordSnapshotUpserted()    { snapshotsUpserted.Inc() }
func RecordPersistenceConflict() { persistenceConflicts.Inc() }
func RecordDegenerateForecast()  { degenerateForecasts.Inc() }
func RecordNotificationFailure() { notificationFailures.Inc() }

func ObserveRunDuration(s float64)        { runDuration.Observe(s) }
func ObserveSimulationDuration(s float64) { simulationDuration.Observe(s) }

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
