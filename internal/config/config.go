package config

import (
	"time"
)

type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Broker         BrokerConfig
	Logging        LoggingConfig
	OpenAI         OpenAIConfig
	Market         MarketConfig
	Deduplication  DeduplicationConfig
	Notifications  NotificationsConfig
	API            APIConfig
	CircuitBreaker CircuitBreakerConfig
	Tracing        TracingConfig
}

type ServerConfig struct {
	Port                int           `mapstructure:"port"`
	ReadTimeoutSeconds  time.Duration `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds time.Duration `mapstructure:"write_timeout_seconds"`
}

type DatabaseConfig struct {
	Redis   RedisConfig
	MongoDB MongoDBConfig
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MongoDBConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type BrokerConfig struct {
	Type  string      `mapstructure:"type"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers    []string    `mapstructure:"brokers"`
	GroupID    string      `mapstructure:"group_id"`
	InputTopic string      `mapstructure:"input_topic"`
	DLQTopic   string      `mapstructure:"dlq_topic"`
	Retry      RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OpenAIConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"`
	BaseURL           string  `mapstructure:"base_url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	MaxConcurrent     int64   `mapstructure:"max_concurrent"`
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
}

type MarketConfig struct {
	Defaults               map[string]MarketDefault `mapstructure:"defaults"`
	RefreshIntervalSeconds int                      `mapstructure:"refresh_interval_seconds"`
	WindowDays             int                      `mapstructure:"window_days"`
}

type MarketDefault struct {
	AvgPrice  float64 `mapstructure:"avg_price"`
	RangeLow  float64 `mapstructure:"range_low"`
	RangeHigh float64 `mapstructure:"range_high"`
}

type DeduplicationConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	HashAlgorithm string   `mapstructure:"hash_algorithm"`
	TTLSeconds    int      `mapstructure:"ttl_seconds"`
	OnRedisError  string   `mapstructure:"on_redis_error"`
	FieldsToHash  []string `mapstructure:"fields_to_hash"`
}

type NotificationsConfig struct {
	Enabled     bool        `mapstructure:"enabled"`
	AlertsTopic string      `mapstructure:"alerts_topic"`
	WebhookURL  string      `mapstructure:"webhook_url"`
	Rules       []AlertRule `mapstructure:"rules"`
}

type AlertRule struct {
	Name       string   `mapstructure:"name"`
	Expression string   `mapstructure:"expression"`
	Channels   []string `mapstructure:"channels"`
}

type APIConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	CleanupInterval int     `mapstructure:"cleanup_interval"`
	MaxAge          int     `mapstructure:"max_age"`
}

type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

type TracingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ServiceName string        `mapstructure:"service_name"`
	OTLP        OTLPConfig    `mapstructure:"otlp"`
	Sampler     SamplerConfig `mapstructure:"sampler"`
}

type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type SamplerConfig struct {
	Type  string  `mapstructure:"type"`
	Param float64 `mapstructure:"param"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
