package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parrotkit_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Analysis Metrics
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_analyses_total",
			Help: "Total number of completed reference analyses",
		},
		[]string{"platform", "script_mode"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parrotkit_analysis_duration_seconds",
			Help:    "End-to-end analysis latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 13), // 10ms to ~40s
		},
		[]string{"platform"},
	)

	ScenesPerRecipe = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parrotkit_scenes_per_recipe",
			Help:    "Number of scenes in each assembled recipe",
			Buckets: []float64{1, 2, 4, 6, 8, 10, 15, 20, 30},
		},
	)

	// Fallback Metrics
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_fallbacks_total",
			Help: "Total number of soft failures replaced by a default",
		},
		[]string{"component", "reason"},
	)

	// Upstream Metrics
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_llm_requests_total",
			Help: "Total number of LLM completion requests",
		},
		[]string{"provider", "status"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parrotkit_llm_request_duration_seconds",
			Help:    "LLM completion latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider"},
	)

	MetadataFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_metadata_fetches_total",
			Help: "Total number of reference page fetches",
		},
		[]string{"platform", "result"},
	)

	MetadataFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parrotkit_metadata_fetch_duration_seconds",
			Help:    "Reference page fetch latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 11),
		},
	)

	// Storage Metrics
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_storage_operations_total",
			Help: "Total number of storage operations",
		},
		[]string{"operation", "status"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parrotkit_storage_operation_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"operation"},
	)

	StorageBytesTransferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_storage_bytes_transferred_total",
			Help: "Total bytes transferred to/from storage",
		},
		[]string{"operation"},
	)

	// Database Metrics
	DatabaseOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "status"},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parrotkit_database_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Cache Metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Event Metrics
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_events_published_total",
			Help: "Total number of events published to the bus",
		},
		[]string{"type", "status"},
	)

	EventsConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_events_consumed_total",
			Help: "Total number of events consumed by workers",
		},
		[]string{"type", "status"},
	)

	RateLimitersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parrotkit_rate_limiters_active",
			Help: "Number of per-client rate limiters currently tracked",
		},
	)

	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parrotkit_queue_depth",
			Help: "Messages waiting in an event queue",
		},
		[]string{"queue"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parrotkit_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordAnalysis records a completed analysis
func RecordAnalysis(platform, scriptMode string, scenes int, duration float64) {
	AnalysesTotal.WithLabelValues(platform, scriptMode).Inc()
	AnalysisDuration.WithLabelValues(platform).Observe(duration)
	ScenesPerRecipe.Observe(float64(scenes))
}

// RecordFallback records a soft failure that was replaced by a default
func RecordFallback(component, reason string) {
	FallbacksTotal.WithLabelValues(component, reason).Inc()
}

// RecordLLMRequest records an LLM completion call
func RecordLLMRequest(provider, status string, duration float64) {
	LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	LLMRequestDuration.WithLabelValues(provider).Observe(duration)
}

// RecordMetadataFetch records a reference page fetch
func RecordMetadataFetch(platform, result string, duration float64) {
	MetadataFetchesTotal.WithLabelValues(platform, result).Inc()
	MetadataFetchDuration.Observe(duration)
}

// RecordStorageOperation records a storage operation
func RecordStorageOperation(operation, status string, duration float64, bytesTransferred int64) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageOperationDuration.WithLabelValues(operation).Observe(duration)
	StorageBytesTransferred.WithLabelValues(operation).Add(float64(bytesTransferred))
}

// RecordDatabaseOperation records a database operation
func RecordDatabaseOperation(operation, status string, duration float64) {
	DatabaseOperationsTotal.WithLabelValues(operation, status).Inc()
	DatabaseOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordCacheAccess records cache hit or miss
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(cacheType).Inc()
	} else {
		CacheMissesTotal.WithLabelValues(cacheType).Inc()
	}
}

// RecordEventPublished records an outbound event
func RecordEventPublished(eventType, status string) {
	EventsPublishedTotal.WithLabelValues(eventType, status).Inc()
}

// RecordEventConsumed records an event handled by a worker
func RecordEventConsumed(eventType, status string) {
	EventsConsumedTotal.WithLabelValues(eventType, status).Inc()
}

// UpdateRateLimiters sets the number of tracked client limiters
func UpdateRateLimiters(active int) {
	RateLimitersActive.Set(float64(active))
}

// UpdateQueueDepth records the backlog of an event queue
func UpdateQueueDepth(queue string, depth int) {
	QueueDepth.WithLabelValues(queue).Set(float64(depth))
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// StatusLabel maps an error to the "success"/"error" label used across counters
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
