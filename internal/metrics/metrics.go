// Package metrics registers the Prometheus counters and histograms the
// Turn Coordinator and the Postgres store report against.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TurnsPlayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "losiento_turns_played_total",
			Help: "Total turns applied, by card and whether the seat was bot-controlled.",
		},
		[]string{"card", "bot"},
	)

	BotSteps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "losiento_bot_steps_total",
			Help: "Total botStep invocations that committed a turn.",
		},
	)

	StoreConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "losiento_store_conflicts_total",
			Help: "Total transactional updates that exhausted their retry budget.",
		},
	)

	SelectorRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "losiento_selector_rejections_total",
			Help: "Total Move Selector rejections, by kind.",
		},
		[]string{"kind"},
	)

	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "losiento_operation_duration_seconds",
			Help:    "Latency of Turn Coordinator operations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(TurnsPlayed, BotSteps, StoreConflicts, SelectorRejections, OperationDuration)
}
