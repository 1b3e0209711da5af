package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Bounded TTL cache
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Total number of cache lookups",
		},
		[]string{"resource"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"resource"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"resource"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions",
		},
		[]string{"reason"}, // capacity, pressure, expired
	)

	CacheUsedBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_used_bytes",
			Help: "Approximate memory used by cache entries",
		},
	)

	CacheCapacityBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "Configured cache memory budget",
		},
	)

	CacheItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_items",
			Help: "Number of entries currently cached",
		},
	)

	// Request orchestrator
	FetchDedupJoins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fetch_dedup_joins_total",
			Help: "Total number of callers that joined an existing in-flight request",
		},
	)

	FetchThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fetch_throttled_total",
			Help: "Total number of requests rejected by the throttle window",
		},
	)

	FetchProducerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fetch_producer_errors_total",
			Help: "Total number of producer invocations that returned an error",
		},
	)

	FetchInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fetch_in_flight",
			Help: "Number of requests currently in flight",
		},
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fetch_producer_duration_seconds",
			Help:    "Duration of producer invocations",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Connectivity monitor
	ProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connectivity_probe_duration_seconds",
			Help:    "Duration of connectivity probes",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 3},
		},
		[]string{"strategy"}, // single, burst
	)

	ProbeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connectivity_probe_failures_total",
			Help: "Total number of failed connectivity probes",
		},
		[]string{"strategy"},
	)

	ConnectivityState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "connectivity_connected",
			Help: "Current connectivity state (1 connected, 0 disconnected)",
		},
	)

	ConnectivityFlips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "connectivity_flips_total",
			Help: "Total number of connectivity state transitions",
		},
	)

	// Image byte store
	ImageHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_cache_hits_total",
			Help: "Total number of image byte store hits",
		},
		[]string{"level"}, // l1, l2
	)

	ImageMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_cache_misses_total",
			Help: "Total number of image byte store misses",
		},
	)

	ImageFetches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_fetches_total",
			Help: "Total number of image downloads from the origin",
		},
	)
)

// RecordCacheLookup records a cache lookup and its outcome.
func RecordCacheLookup(resource string, hit bool) {
	CacheRequests.WithLabelValues(resource).Inc()
	if hit {
		CacheHits.WithLabelValues(resource).Inc()
	} else {
		CacheMisses.WithLabelValues(resource).Inc()
	}
}

// RecordEviction records an eviction with its reason.
func RecordEviction(reason string, count int) {
	CacheEvictions.WithLabelValues(reason).Add(float64(count))
}

// UpdateCacheUsage updates the cache capacity gauges.
func UpdateCacheUsage(items int, used, capacity int64) {
	CacheItems.Set(float64(items))
	CacheUsedBytes.Set(float64(used))
	CacheCapacityBytes.Set(float64(capacity))
}

// UpdateConnectivityState sets the connectivity gauge.
func UpdateConnectivityState(connected bool) {
	if connected {
		ConnectivityState.Set(1)
	} else {
		ConnectivityState.Set(0)
	}
}

// TimeProbe returns a timer function for measuring probe duration.
func TimeProbe(strategy string) func() {
	timer := prometheus.NewTimer(ProbeDuration.WithLabelValues(strategy))
	return func() {
		timer.ObserveDuration()
	}
}
