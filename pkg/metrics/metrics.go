package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProfileEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_events_total",
			Help: "Total number of customer events processed by profile service (count)",
		},
		[]string{"status"},
	)

	ProfileProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "profile_processing_duration_ms",
			Help:    "Processing duration for profile service in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"status"},
	)

	RuleEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_rule_evaluations_total",
			Help: "Total number of profile rule evaluations (count)",
		},
		[]string{"rule_id", "rule_name", "result"},
	)

	EffectsAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_effects_applied_total",
			Help: "Total number of rule effects applied to profiles (count)",
		},
		[]string{"effect_type"},
	)

	ActiveRules = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "profile_active_rules",
			Help: "Number of active profile rules (count)",
		},
	)

	RecommendationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests (count)",
		},
		[]string{"status"},
	)

	RecommendationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_ms",
			Help:    "Duration of recommendation requests in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"status"},
	)

	RecommendationDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_decisions_total",
			Help: "Total number of per-product recommendation decisions (count)",
		},
		[]string{"product_id", "decision"},
	)

	ActiveProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommendation_active_products",
			Help: "Number of active catalog products (count)",
		},
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

	KafkaMessageSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_message_size_bytes",
			Help:    "Size of Kafka messages in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		},
		[]string{"service", "topic", "direction"},
	)

	KafkaConsumerLag = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kafka_consumer_lag",
			Help: "Kafka consumer lag (difference between latest offset and committed offset) (count)",
		},
		[]string{"service", "topic", "partition"},
	)

	KafkaReadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_read_duration_ms",
			Help:    "Duration of reading messages from Kafka in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"service", "topic"},
	)

	KafkaWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_write_duration_ms",
			Help:    "Duration of writing messages to Kafka in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
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

	DatabaseConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections (count)",
		},
		[]string{"service", "database"},
	)
)

func RegisterProfileMetrics() {
	prometheus.MustRegister(ProfileEventsTotal)
	prometheus.MustRegister(ProfileProcessingDuration)
	prometheus.MustRegister(RuleEvaluationsTotal)
	prometheus.MustRegister(EffectsAppliedTotal)
	prometheus.MustRegister(ActiveRules)
	registerFallbackUsageTotalOnce()
}

func RegisterRecommendationMetrics() {
	prometheus.MustRegister(RecommendationRequestsTotal)
	prometheus.MustRegister(RecommendationDuration)
	prometheus.MustRegister(RecommendationDecisionsTotal)
	prometheus.MustRegister(ActiveProducts)
	registerFallbackUsageTotalOnce()
}

func registerFallbackUsageTotalOnce() {
	prometheus.MustRegister(FallbackUsageTotal)
}

func RegisterBrokerMetrics() {
	prometheus.MustRegister(RetryAttemptsTotal)
	prometheus.MustRegister(DLQMessagesTotal)
	prometheus.MustRegister(KafkaMessagesReadTotal)
	prometheus.MustRegister(KafkaMessagesWrittenTotal)
	prometheus.MustRegister(KafkaMessageSizeBytes)
	prometheus.MustRegister(KafkaConsumerLag)
	prometheus.MustRegister(KafkaReadDuration)
	prometheus.MustRegister(KafkaWriteDuration)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func RegisterManagementMetrics() {
	prometheus.MustRegister(RateLimitRequestsTotal)
	prometheus.MustRegister(DatabaseQueriesTotal)
	prometheus.MustRegister(DatabaseQueryDuration)
	prometheus.MustRegister(DatabaseConnectionsActive)
}

func ObserveProfileProcessingDuration(duration time.Duration, status string) {
	ProfileProcessingDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func ObserveRecommendationDuration(duration time.Duration, status string) {
	RecommendationDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func SetActiveRules(count int) {
	ActiveRules.Set(float64(count))
}

func SetActiveProducts(count int) {
	ActiveProducts.Set(float64(count))
}

func IncRuleEvaluation(ruleID, ruleName, result string) {
	RuleEvaluationsTotal.WithLabelValues(ruleID, ruleName, result).Inc()
}

func IncEffectApplied(effectType string) {
	EffectsAppliedTotal.WithLabelValues(effectType).Inc()
}

func IncRecommendationDecision(productID, decision string) {
	RecommendationDecisionsTotal.WithLabelValues(productID, decision).Inc()
}

func IncKafkaMessagesRead(service, topic string) {
	KafkaMessagesReadTotal.WithLabelValues(service, topic).Inc()
}

func IncKafkaMessagesWritten(service, topic string) {
	KafkaMessagesWrittenTotal.WithLabelValues(service, topic).Inc()
}

func ObserveKafkaMessageSize(service, topic, direction string, sizeBytes int) {
	KafkaMessageSizeBytes.WithLabelValues(service, topic, direction).Observe(float64(sizeBytes))
}

func SetKafkaConsumerLag(service, topic string, partition int, lag int64) {
	KafkaConsumerLag.WithLabelValues(service, topic, fmt.Sprintf("%d", partition)).Set(float64(lag))
}

func ObserveKafkaReadDuration(service, topic string, duration time.Duration) {
	KafkaReadDuration.WithLabelValues(service, topic).Observe(float64(duration.Milliseconds()))
}

func ObserveKafkaWriteDuration(service, topic string, duration time.Duration) {
	KafkaWriteDuration.WithLabelValues(service, topic).Observe(float64(duration.Milliseconds()))
}

func IncDatabaseQuery(service, database, operation, status string) {
	DatabaseQueriesTotal.WithLabelValues(service, database, operation, status).Inc()
}

func ObserveDatabaseQueryDuration(service, database, operation string, duration time.Duration) {
	DatabaseQueryDuration.WithLabelValues(service, database, operation).Observe(float64(duration.Milliseconds()))
}

func SetDatabaseConnectionsActive(service, database string, count int) {
	DatabaseConnectionsActive.WithLabelValues(service, database).Set(float64(count))
}
