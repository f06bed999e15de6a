package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "knowledgemesh",
			Subsystem: "vector_cache",
			Name:      "searches_total",
			Help:      "Total number of vector searches served",
		},
		[]string{"tenant_id"},
	)

	searchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "knowledgemesh",
			Subsystem: "vector_cache",
			Name:      "search_duration_seconds",
			Help:      "Vector search latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~0.4s
		},
		[]string{"tenant_id"},
	)

	cachedVectors = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "knowledgemesh",
			Subsystem: "vector_cache",
			Name:      "vectors",
			Help:      "Number of vectors currently cached",
		},
		[]string{"tenant_id"},
	)

	memoryUsageKB = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "knowledgemesh",
			Subsystem: "vector_cache",
			Name:      "memory_usage_kb",
			Help:      "Estimated cache memory usage in KB",
		},
		[]string{"tenant_id"},
	)

	evictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "knowledgemesh",
			Subsystem: "vector_cache",
			Name:      "evictions_total",
			Help:      "Total number of vector records evicted",
		},
		[]string{"tenant_id"},
	)
)

// RecordPrometheusStats publishes a stats snapshot to the package-level
// prometheus collectors. Hosts that scrape prometheus call this after
// operations of interest; hosts using a custom MetricsClient can ignore it.
func RecordPrometheusStats(tenantID string, stats Stats) {
	cachedVectors.WithLabelValues(tenantID).Set(float64(stats.TotalVectors))
	memoryUsageKB.WithLabelValues(tenantID).Set(float64(stats.MemoryUsageKB))
}

// recordPrometheusSearch publishes one search observation.
func recordPrometheusSearch(tenantID string, seconds float64) {
	searchesTotal.WithLabelValues(tenantID).Inc()
	searchLatency.WithLabelValues(tenantID).Observe(seconds)
}

// recordPrometheusEvictions publishes eviction counts.
func recordPrometheusEvictions(tenantID string, count int) {
	if count > 0 {
		evictionsTotal.WithLabelValues(tenantID).Add(float64(count))
	}
}
