package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine Prometheus metrics.
var (
	GraphBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "georgievi",
			Name:      "graph_builds_total",
			Help:      "Total number of projection builds",
		},
		[]string{"kind", "status"},
	)

	GraphBuildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "georgievi",
			Name:      "graph_build_duration_seconds",
			Help:      "Projection build duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind"},
	)

	GraphCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "georgievi",
			Name:      "graph_cache_total",
			Help:      "Projection cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ExtractorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "georgievi",
			Name:      "extractor_requests_total",
			Help:      "Total number of topic extraction requests",
		},
		[]string{"provider", "model", "status"},
	)

	ExtractorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "georgievi",
			Name:      "extractor_request_duration_seconds",
			Help:      "Topic extraction request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(GraphBuildsTotal)
	prometheus.MustRegister(GraphBuildDuration)
	prometheus.MustRegister(GraphCacheTotal)
	prometheus.MustRegister(ExtractorRequestsTotal)
	prometheus.MustRegister(ExtractorRequestDuration)
	engineMetricsRegistered = true
}
