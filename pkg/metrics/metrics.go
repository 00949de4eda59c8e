package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PipelineMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_messages_total",
			Help: "Total number of raw messages handled by the pipeline (count)",
		},
		[]string{"status"},
	)

	PipelineProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_processing_duration_ms",
			Help:    "End-to-end processing duration per raw message in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
		[]string{"status"},
	)

	ExtractionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_total",
			Help: "Total number of field extraction runs (count)",
		},
		[]string{"status"},
	)

	ClassificationCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classification_calls_total",
			Help: "Total number of classification backend calls (count)",
		},
		[]string{"status"},
	)

	ClassificationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classification_duration_ms",
			Help:    "Duration of classification backend calls in milliseconds",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		},
		[]string{"status"},
	)

	ParseFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parse_failures_total",
			Help: "Total number of classification answers that could not be parsed (count)",
		},
	)

	OpportunitiesFoundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opportunities_found_total",
			Help: "Total number of accepted opportunity records (count)",
		},
		[]string{"program", "type"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of opportunity notifications dispatched (count)",
		},
		[]string{"channel", "status"},
	)

	DeduplicateMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedup_messages_total",
			Help: "Total number of messages checked by the dedup guard (count)",
		},
		[]string{"status"},
	)

	DedupProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dedup_processing_duration_ms",
			Help:    "Processing duration for the dedup guard in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"status"},
	)

	DedupCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dedup_cache_size",
			Help: "Approximate size of deduplication cache (count)",
		},
	)

	MarketSnapshotRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_snapshot_refresh_total",
			Help: "Total number of market snapshot refresh attempts (count)",
		},
		[]string{"status"},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"service", "topic"},
	)

	DLQMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dlq_messages_total",
			Help: "Total number of messages sent to DLQ (count)",
		},
		[]string{"service", "topic", "reason"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)

	FallbackUsageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallback_usage_total",
			Help: "Total number of times fallback strategies were used (count)",
		},
		[]string{"service", "strategy", "reason"},
	)

	KafkaMessagesReadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_read_total",
			Help: "Total number of messages read from Kafka (count)",
		},
		[]string{"service", "topic"},
	)

	KafkaMessagesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_written_total",
			Help: "Total number of messages written to Kafka (count)",
		},
		[]string{"service", "topic"},
	)

	DatabaseQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries (count)",
		},
		[]string{"service", "database", "operation", "status"},
	)

	DatabaseQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_ms",
			Help:    "Duration of database queries in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"service", "database", "operation"},
	)
)

func RegisterPipelineMetrics() {
	prometheus.MustRegister(PipelineMessagesTotal)
	prometheus.MustRegister(PipelineProcessingDuration)
	prometheus.MustRegister(ExtractionTotal)
	prometheus.MustRegister(ClassificationCallsTotal)
	prometheus.MustRegister(ClassificationDuration)
	prometheus.MustRegister(ParseFailuresTotal)
	prometheus.MustRegister(OpportunitiesFoundTotal)
	prometheus.MustRegister(NotificationsTotal)
	prometheus.MustRegister(MarketSnapshotRefreshTotal)
	registerFallbackUsageTotalOnce()
}

func RegisterDedupMetrics() {
	prometheus.MustRegister(DeduplicateMessagesTotal)
	prometheus.MustRegister(DedupProcessingDuration)
	prometheus.MustRegister(DedupCacheSize)
}

func registerFallbackUsageTotalOnce() {
	prometheus.MustRegister(FallbackUsageTotal)
}

func RegisterBrokerMetrics() {
	prometheus.MustRegister(RetryAttemptsTotal)
	prometheus.MustRegister(DLQMessagesTotal)
	prometheus.MustRegister(KafkaMessagesReadTotal)
	prometheus.MustRegister(KafkaMessagesWrittenTotal)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func RegisterAPIMetrics() {
	prometheus.MustRegister(RateLimitRequestsTotal)
	prometheus.MustRegister(DatabaseQueriesTotal)
	prometheus.MustRegister(DatabaseQueryDuration)
}

func ObservePipelineDuration(duration time.Duration, status string) {
	PipelineProcessingDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func ObserveClassificationDuration(duration time.Duration, status string) {
	ClassificationDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func ObserveDedupDuration(duration time.Duration, status string) {
	DedupProcessingDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func SetDedupCacheSize(size int) {
	DedupCacheSize.Set(float64(size))
}

func IncKafkaMessagesRead(service, topic string) {
	KafkaMessagesReadTotal.WithLabelValues(service, topic).Inc()
}

func IncKafkaMessagesWritten(service, topic string) {
	KafkaMessagesWrittenTotal.WithLabelValues(service, topic).Inc()
}

func IncDatabaseQuery(service, database, operation, status string) {
	DatabaseQueriesTotal.WithLabelValues(service, database, operation, status).Inc()
}

func ObserveDatabaseQueryDuration(service, database, operation string, duration time.Duration) {
	DatabaseQueryDuration.WithLabelValues(service, database, operation).Observe(float64(duration.Milliseconds()))
}
