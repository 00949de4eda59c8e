package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultHTTPTimeout = 10 * time.Second
)

const (
	CacheKeyPrefixDedup = "seen:"
)

const (
	DefaultInputTopic  = "raw_messages"
	DefaultAlertsTopic = "opportunity_alerts"
)

const (
	DefaultMongoDBName = "milhas"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

const (
	DefaultMinConfidence = 0.7
	DefaultMarketDays    = 30
	DefaultCleanupDays   = 90
)

const (
	DefaultDedupTTLSeconds = 86400
)

const (
	FallbackAllow = "allow"
	FallbackDeny  = "deny"
	FallbackError = "error"
)

const (
	ChannelManualAnalysis = "manual_analysis"
)
