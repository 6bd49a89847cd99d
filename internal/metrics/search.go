package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and ingest Prometheus metrics.
var (
	SearchFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "govrecords",
			Name:      "search_fetch_total",
			Help:      "Total number of index fetches",
		},
		[]string{"backend", "status"}, // "ok" / "empty" / "error"
	)

	SearchFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "govrecords",
			Name:      "search_fetch_duration_seconds",
			Help:      "Index fetch duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"backend"},
	)

	SearchSuppressedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "govrecords",
			Name:      "search_suppressed_total",
			Help:      "Searches skipped because no query or filter was active",
		},
	)

	SearchStaleDiscardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "govrecords",
			Name:      "search_stale_discarded_total",
			Help:      "Fetch results dropped because a newer request was issued",
		},
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "govrecords",
			Name:      "result_cache_total",
			Help:      "Result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "govrecords",
			Name:      "ingest_documents_total",
			Help:      "Documents uploaded during ingest",
		},
		[]string{"status"}, // "ok" / "error"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and ingest metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchFetchTotal)
	prometheus.MustRegister(SearchFetchDuration)
	prometheus.MustRegister(SearchSuppressedTotal)
	prometheus.MustRegister(SearchStaleDiscardedTotal)
	prometheus.MustRegister(ResultCacheTotal)
	prometheus.MustRegister(IngestDocumentsTotal)
	searchMetricsRegistered = true
}
