package integrations

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sourceFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nightjol_source_fetch_total",
		Help: "Provider fetches by source and outcome.",
	}, []string{"source", "status"})

	sourceEventCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nightjol_source_events",
		Help: "Events returned by each source on the last aggregation.",
	}, []string{"source"})

	aggregateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "nightjol_aggregate_duration_seconds",
		Help:    "Wall time of a full aggregation pass.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(sourceFetchTotal, sourceEventCount, aggregateDuration)
}
