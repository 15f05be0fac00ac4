package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	PricesRefreshed        prometheus.Counter
	PriceRefreshFailures   prometheus.Counter
	SurgeMultiplier        prometheus.Histogram
	ChangeEvents           *prometheus.CounterVec
	SyncDuration           *prometheus.HistogramVec
	SecondaryWriteFailures *prometheus.CounterVec
	InsightsGenerated      prometheus.Counter
	ReconcileItems         *prometheus.CounterVec
}

// NewMetrics creates the service metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in the server and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PricesRefreshed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prices_refreshed_total",
			Help:      "The total number of flight prices recomputed and written back",
		}),
		PriceRefreshFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_refresh_failures_total",
			Help:      "The total number of failed price refreshes",
		}),
		SurgeMultiplier: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "surge_multiplier",
			Help:      "Distribution of computed surge multipliers",
			Buckets:   []float64{0.5, 0.75, 0.9, 1.0, 1.1, 1.25, 1.5, 2.0, 2.5, 3.0, 5.0},
		}),
		ChangeEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_events_total",
			Help:      "Change notifications received, by entity and result",
		}, []string{"entity", "result"}),
		SyncDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Time taken to apply one change event to the document store",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity"}),
		SecondaryWriteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "secondary_write_failures_total",
			Help:      "Best-effort document store writes that failed",
		}, []string{"operation"}),
		InsightsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_generated_total",
			Help:      "The total number of pricing insights generated",
		}),
		ReconcileItems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_items_total",
			Help:      "Rows processed by bulk reconciliation, by kind and result",
		}, []string{"kind", "result"}),
	}
}
