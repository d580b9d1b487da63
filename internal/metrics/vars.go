package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Plans = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_plans_total",
		Help: "Encoded plans by outcome (ok or error class)",
	}, []string{"outcome"})

	RoutesPerPlan = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_routes_per_plan",
		Help:    "Routes in an encoded plan, by protocol",
		Buckets: []float64{1, 2, 3, 4, 6, 8},
	}, []string{"protocol"})

	CalldataBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_calldata_bytes",
		Help:    "Size of produced multicall calldata",
		Buckets: prometheus.ExponentialBuckets(256, 2, 8),
	})

	EncodeLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_encode_latency_seconds",
		Help:    "Time to encode one plan",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	FeedErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_feed_errors_total",
		Help: "Failed publishes to the plan feed",
	})
)

func init() {
	prometheus.MustRegister(
		Plans,
		RoutesPerPlan,
		CalldataBytes,
		EncodeLatency,
		FeedErrors,
	)
}
