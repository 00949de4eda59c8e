package dedup

import (
	"context"
	"fmt"
	"time"

	"milhas/internal/config"
	"milhas/internal/constants"
	"milhas/internal/logger"
	"milhas/pkg/metrics"
	"milhas/pkg/models"
	"milhas/pkg/tracing"
)

// Service is the dedup guard in front of the classification pipeline: a
// message seen within the TTL window is dropped before any backend call.
type Service struct {
	repo         Repository
	hasher       *Hasher
	cfg          config.DeduplicationConfig
	fieldsToHash []string
	logger       logger.Logger
}

func NewService(repo Repository, cfg config.DeduplicationConfig, log logger.Logger) *Service {
	fieldsToHash := cfg.FieldsToHash
	if len(fieldsToHash) == 0 {
		fieldsToHash = []string{"channel", "message_id"}
		log.Infow("No fields_to_hash configured, using defaults", "fields", fieldsToHash)
	}

	return &Service{
		repo:         repo,
		hasher:       NewHasher(cfg.HashAlgorithm),
		cfg:          cfg,
		fieldsToHash: fieldsToHash,
		logger:       log,
	}
}

// Process reports whether the message is the first occurrence within the
// TTL window.
func (s *Service) Process(ctx context.Context, msg models.RawMessage) (bool, error) {
	ctx, span := tracing.GetTracer("radar-service").Start(ctx, "dedup.process")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	hash, err := s.hasher.ComputeHash(s.messageFields(msg), s.fieldsToHash)
	if err != nil {
		return false, fmt.Errorf("failed to compute hash for message %s: %w", msg.MessageID, err)
	}

	ttl := time.Duration(s.cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = constants.DefaultDedupTTLSeconds * time.Second
	}

	key := constants.CacheKeyPrefixDedup + hash
	start := time.Now()
	unique, err := s.repo.SetNX(ctx, key, time.Now().Unix(), ttl)
	duration := time.Since(start)

	if err != nil {
		return s.handleRedisError(ctx, err, duration, msg.MessageID)
	}

	s.recordMetrics(duration, unique)
	return unique, nil
}

func (s *Service) messageFields(msg models.RawMessage) map[string]string {
	return map[string]string{
		"message_id": msg.MessageID,
		"channel":    msg.Channel,
		"author":     msg.Author,
		"text":       msg.Text,
	}
}

func (s *Service) handleRedisError(ctx context.Context, err error, duration time.Duration, msgID string) (bool, error) {
	s.recordMetricsWithStatus(duration, "error")

	if s.cfg.OnRedisError == constants.FallbackAllow {
		metrics.FallbackUsageTotal.WithLabelValues("dedup", "allow_on_error", err.Error()).Inc()
		s.logger.WarnwCtx(ctx, "Redis error during dedup check, allowing message (fallback: allow)",
			"error", err,
		)
		return true, nil
	}

	metrics.FallbackUsageTotal.WithLabelValues("dedup", "deny_on_error", err.Error()).Inc()
	return false, fmt.Errorf("redis error during dedup check for message %s: %w", msgID, err)
}

func (s *Service) recordMetrics(duration time.Duration, isUnique bool) {
	status := "duplicate"
	if isUnique {
		status = "unique"
	}
	s.recordMetricsWithStatus(duration, status)
}

func (s *Service) recordMetricsWithStatus(duration time.Duration, status string) {
	metrics.DeduplicateMessagesTotal.WithLabelValues(status).Inc()
	metrics.ObserveDedupDuration(duration, status)
}

// RunCacheMetrics periodically publishes the approximate dedup cache size
// until the context ends.
func (s *Service) RunCacheMetrics(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			size, err := s.repo.GetCacheSize(ctx, constants.CacheKeyPrefixDedup)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Debugw("Failed to get cache size for metrics",
					"error", err,
				)
				continue
			}
			metrics.SetDedupCacheSize(size)
		case <-ctx.Done():
			return
		}
	}
}
