package metrics

import "github.com/prometheus/client_golang/prometheus"

// Similarity index Prometheus metrics.
var (
	IndexBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topsearch",
			Name:      "index_builds_total",
			Help:      "Total number of similarity index builds",
		},
		[]string{"collection", "status"}, // status: "ok" / "empty" / "error"
	)

	IndexBuildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "topsearch",
			Name:      "index_build_duration_seconds",
			Help:      "Similarity index build duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"collection"},
	)

	IndexCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topsearch",
			Name:      "index_cache_total",
			Help:      "Index cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topsearch",
			Name:      "searches_total",
			Help:      "Total number of similarity searches",
		},
		[]string{"collection", "status"}, // status: "ok" / "error"
	)
)

var indexMetricsRegistered bool

// RegisterIndexMetrics registers Prometheus index metrics. Must be called once from main.
func RegisterIndexMetrics() {
	if indexMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexBuildsTotal)
	prometheus.MustRegister(IndexBuildDuration)
	prometheus.MustRegister(IndexCacheTotal)
	prometheus.MustRegister(SearchesTotal)
	indexMetricsRegistered = true
}
