package opportunity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"milhas/internal/classifier"
	"milhas/internal/config"
	"milhas/internal/constants"
	"milhas/internal/dedup"
	"milhas/internal/extractor"
	"milhas/internal/logger"
	"milhas/internal/market"
	"milhas/pkg/circuitbreaker"
	"milhas/pkg/errors"
	"milhas/pkg/metrics"
	"milhas/pkg/models"
	"milhas/pkg/tracing"
)

// Notifier delivers alerts for saved opportunity records.
type Notifier interface {
	Notify(ctx context.Context, rec *Record) error
}

// MarketData is the per-program view served by the market endpoint.
type MarketData struct {
	Program string             `json:"program"`
	Stats   market.ProgramStats `json:"stats"`
	History []market.PricePoint `json:"history"`
}

// Service runs the extraction and classification pipeline and backs the
// HTTP API.
type Service interface {
	HandleMessage(ctx context.Context, msg models.RawMessage) (*Record, error)
	Analyze(ctx context.Context, text string) (*classifier.Result, *Record, error)

	List(ctx context.Context, filter ListFilter) ([]Record, error)
	UpdateStatus(ctx context.Context, id, status string) error

	MarketData(ctx context.Context, program string, days int) (*MarketData, error)
	MarketTrends(ctx context.Context, days int) (*classifier.TrendReport, error)

	Profile(ctx context.Context, userID string) (*UserProfile, error)
	SaveProfile(ctx context.Context, profile *UserProfile) error
	Recommendations(ctx context.Context, userID string) (*classifier.RecommendationSet, error)

	Statistics(ctx context.Context) (*Statistics, error)
	Cleanup(ctx context.Context, olderThanDays int) (int64, error)
}

type service struct {
	repo        Repository
	dedup       *dedup.Service
	extractor   *extractor.Extractor
	completions classifier.CompletionClient
	markets     *market.Provider
	policy      *Policy
	notifier    Notifier
	breaker     *circuitbreaker.Wrapper

	limiter *rate.Limiter
	sem     *semaphore.Weighted
	timeout time.Duration

	logger logger.Logger
}

// NewService wires the pipeline. The dedup service, notifier and breaker
// may be nil; the corresponding stage is then skipped.
func NewService(
	repo Repository,
	dedupSvc *dedup.Service,
	ext *extractor.Extractor,
	completions classifier.CompletionClient,
	markets *market.Provider,
	notifier Notifier,
	breaker *circuitbreaker.Wrapper,
	cfg config.OpenAIConfig,
	log logger.Logger,
) Service {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &service{
		repo:        repo,
		dedup:       dedupSvc,
		extractor:   ext,
		completions: completions,
		markets:     markets,
		policy:      NewPolicy(),
		notifier:    notifier,
		breaker:     breaker,
		limiter:     rate.NewLimiter(rate.Limit(rpm/60.0), int(maxConcurrent)),
		sem:         semaphore.NewWeighted(maxConcurrent),
		timeout:     timeout,
		logger:      log,
	}
}

// HandleMessage runs one broker message through the full pipeline. A nil
// record with a nil error means the message was dropped before
// classification or judged not to be an opportunity.
func (s *service) HandleMessage(ctx context.Context, msg models.RawMessage) (*Record, error) {
	start := time.Now()

	if s.dedup != nil {
		unique, err := s.dedup.Process(ctx, msg)
		if err != nil {
			s.finish(start, "error")
			return nil, err
		}
		if !unique {
			s.logger.DebugwCtx(ctx, "Dropping duplicate message",
				"message_id", msg.MessageID,
				"channel", msg.Channel,
			)
			s.finish(start, "duplicate")
			return nil, nil
		}
	}

	processedAt := time.Now().UTC()
	msg.Metadata.ProcessedAt = &processedAt
	if err := s.repo.SaveRawMessage(ctx, msg); err != nil {
		// Archival only, the pipeline result does not depend on it.
		s.logger.WarnwCtx(ctx, "Failed to archive raw message",
			"message_id", msg.MessageID,
			"error", err,
		)
	}

	rec, err := s.classify(ctx, msg)
	if err != nil {
		s.finish(start, "error")
		return nil, err
	}
	if rec == nil {
		s.finish(start, "no_opportunity")
		return nil, nil
	}

	if err := s.repo.SaveOpportunity(ctx, rec); err != nil {
		s.finish(start, "error")
		return nil, err
	}

	s.recordMarketPoint(ctx, rec)
	metrics.OpportunitiesFoundTotal.WithLabelValues(rec.Analysis.Program, rec.Analysis.OpportunityType).Inc()

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, rec); err != nil {
			// The record is already saved, a delivery problem must not fail
			// the message.
			s.logger.WarnwCtx(ctx, "Alert delivery failed",
				"opportunity_id", rec.ID,
				"error", err,
			)
		}
	}

	s.finish(start, "success")
	s.logger.InfowCtx(ctx, "Opportunity saved",
		"opportunity_id", rec.ID,
		"program", rec.Analysis.Program,
		"confidence", rec.Confidence,
	)
	return rec, nil
}

// Analyze classifies ad-hoc text submitted through the API. The message
// bypasses deduplication and is attributed to the manual analysis
// channel. The verdict is returned even when no record results.
func (s *service) Analyze(ctx context.Context, text string) (*classifier.Result, *Record, error) {
	msg := *models.NewRawMessageBuilder().
		WithMessageID(uuid.New().String()).
		WithChannel(constants.ChannelManualAnalysis).
		WithText(text).
		Build()

	fields := s.extractor.Extract(msg.Text)
	if len(fields) == 0 {
		metrics.ExtractionTotal.WithLabelValues("skip").Inc()
		return nil, nil, nil
	}
	metrics.ExtractionTotal.WithLabelValues("extracted").Inc()

	result, err := s.classifyFields(ctx, msg, fields)
	if err != nil {
		return nil, nil, err
	}

	rec := s.policy.Evaluate(msg, result)
	if rec != nil {
		if err := s.repo.SaveOpportunity(ctx, rec); err != nil {
			return result, nil, err
		}
		s.recordMarketPoint(ctx, rec)
	}
	return result, rec, nil
}

func (s *service) classify(ctx context.Context, msg models.RawMessage) (*Record, error) {
	fields := s.extractor.Extract(msg.Text)
	if len(fields) == 0 {
		metrics.ExtractionTotal.WithLabelValues("skip").Inc()
		s.logger.DebugwCtx(ctx, "No fields extracted, skipping classification",
			"message_id", msg.MessageID,
		)
		return nil, nil
	}
	metrics.ExtractionTotal.WithLabelValues("extracted").Inc()

	result, err := s.classifyFields(ctx, msg, fields)
	if err != nil {
		return nil, err
	}
	return s.policy.Evaluate(msg, result), nil
}

func (s *service) classifyFields(ctx context.Context, msg models.RawMessage, fields extractor.Fields) (*classifier.Result, error) {
	prompt := classifier.BuildOpportunityPrompt(msg, fields, s.markets.Current())

	raw, err := s.complete(ctx, prompt, classifier.OpportunityTemperature, classifier.OpportunityMaxTokens)
	if err != nil {
		return nil, err
	}

	result, err := classifier.Normalize(raw)
	if err != nil {
		metrics.ParseFailuresTotal.Inc()
		s.logger.ErrorwCtx(ctx, "Failed to parse classification answer",
			"message_id", msg.MessageID,
			"error", err,
		)
		return nil, err
	}
	return result, nil
}

// MarketTrends runs a trend analysis over the stored price history of all
// tracked programs.
func (s *service) MarketTrends(ctx context.Context, days int) (*classifier.TrendReport, error) {
	if days <= 0 {
		days = constants.DefaultMarketDays
	}

	snap := s.markets.Current()
	var history []market.PricePoint
	for _, program := range snap.Programs() {
		points, err := s.repo.PriceHistory(ctx, program, days)
		if err != nil {
			return nil, err
		}
		history = append(history, points...)
	}

	prompt := classifier.BuildTrendPrompt(history, snap)
	raw, err := s.complete(ctx, prompt, classifier.TrendTemperature, classifier.TrendMaxTokens)
	if err != nil {
		return nil, err
	}

	report, err := classifier.NormalizeTrend(raw)
	if err != nil {
		metrics.ParseFailuresTotal.Inc()
		return nil, err
	}

	if err := s.repo.SaveAnalysis(ctx, "market_trends", report); err != nil {
		s.logger.WarnwCtx(ctx, "Failed to archive trend analysis", "error", err)
	}
	return report, nil
}

// Recommendations produces personalized guidance for a stored profile.
func (s *service) Recommendations(ctx context.Context, userID string) (*classifier.RecommendationSet, error) {
	profile, err := s.repo.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.ErrNotFound.WithDetail("user_id", userID)
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile for user %s: %w", userID, err)
	}

	prompt := classifier.BuildRecommendationPrompt(profileJSON, s.markets.Current())
	raw, err := s.complete(ctx, prompt, classifier.RecommendationTemperature, classifier.RecommendationMaxTokens)
	if err != nil {
		return nil, err
	}

	set, err := classifier.NormalizeRecommendations(raw)
	if err != nil {
		metrics.ParseFailuresTotal.Inc()
		return nil, err
	}

	if err := s.repo.SaveAnalysis(ctx, "recommendations", set); err != nil {
		s.logger.WarnwCtx(ctx, "Failed to archive recommendation analysis",
			"user_id", userID,
			"error", err,
		)
	}
	return set, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	return s.repo.ListOpportunities(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id, status string) error {
	switch status {
	case StatusActive, StatusExpired, StatusCompleted:
	default:
		return errors.ErrValidation.WithDetail("status", status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *service) MarketData(ctx context.Context, program string, days int) (*MarketData, error) {
	snap := s.markets.Current()
	stats, ok := snap[program]
	if !ok {
		return nil, errors.ErrNotFound.WithDetail("program", program)
	}

	history, err := s.repo.PriceHistory(ctx, program, days)
	if err != nil {
		return nil, err
	}

	return &MarketData{
		Program: program,
		Stats:   stats,
		History: history,
	}, nil
}

func (s *service) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	profile, err := s.repo.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.ErrNotFound.WithDetail("user_id", userID)
	}
	return profile, nil
}

func (s *service) SaveProfile(ctx context.Context, profile *UserProfile) error {
	return s.repo.UpsertUserProfile(ctx, profile)
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	return s.repo.Statistics(ctx)
}

func (s *service) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	affected, err := s.repo.Cleanup(ctx, olderThanDays)
	if err != nil {
		return 0, err
	}
	s.logger.Infow("Cleanup finished",
		"older_than_days", olderThanDays,
		"affected", affected,
	)
	return affected, nil
}

// complete issues one classification call under the concurrency cap, the
// rate limit and the circuit breaker.
func (s *service) complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.sem.Release(1)

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	callCtx, span := tracing.GetTracer("radar-service").Start(callCtx, "classifier.complete")
	defer span.End()

	call := func() (interface{}, error) {
		return s.completions.Complete(callCtx, classifier.SystemPrompt, prompt, temperature, maxTokens)
	}

	start := time.Now()
	var answer interface{}
	var err error
	if s.breaker != nil {
		answer, err = s.breaker.ExecuteWithContext(callCtx, call)
	} else {
		answer, err = call()
	}
	duration := time.Since(start)

	if err != nil {
		metrics.ClassificationCallsTotal.WithLabelValues("error").Inc()
		metrics.ObserveClassificationDuration(duration, "error")
		if _, ok := err.(*errors.Error); ok {
			return "", err
		}
		return "", errors.ErrClassification.WithCause(err)
	}

	metrics.ClassificationCallsTotal.WithLabelValues("success").Inc()
	metrics.ObserveClassificationDuration(duration, "success")
	return answer.(string), nil
}

func (s *service) recordMarketPoint(ctx context.Context, rec *Record) {
	if rec.Analysis.Program == "" || rec.Analysis.PricePerMile <= 0 {
		return
	}
	point := market.PricePoint{
		Program: rec.Analysis.Program,
		Price:   rec.Analysis.PricePerMile,
		Date:    rec.Timestamp,
	}
	if err := s.repo.SaveMarketPoint(ctx, point); err != nil {
		s.logger.WarnwCtx(ctx, "Failed to record market point",
			"program", point.Program,
			"error", err,
		)
	}
}

func (s *service) finish(start time.Time, status string) {
	metrics.PipelineMessagesTotal.WithLabelValues(status).Inc()
	metrics.ObservePipelineDuration(time.Since(start), status)
}
