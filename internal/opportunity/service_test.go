package opportunity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhas/internal/classifier"
	"milhas/internal/config"
	"milhas/internal/dedup"
	"milhas/internal/extractor"
	"milhas/internal/logger"
	"milhas/internal/market"
	"milhas/pkg/errors"
	"milhas/pkg/models"
)

type memoryRepository struct {
	mu            sync.Mutex
	opportunities map[string]*Record
	rawMessages   []models.RawMessage
	marketPoints  []market.PricePoint
	profiles      map[string]*UserProfile
	analyses      []string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		opportunities: make(map[string]*Record),
		profiles:      make(map[string]*UserProfile),
	}
}

func (m *memoryRepository) SaveOpportunity(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opportunities[rec.ID] = rec
	return nil
}

func (m *memoryRepository) ListOpportunities(_ context.Context, filter ListFilter) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.opportunities {
		if filter.Program != "" && rec.Analysis.Program != filter.Program {
			continue
		}
		if rec.Confidence < filter.MinConfidence {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (m *memoryRepository) GetOpportunity(_ context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opportunities[id], nil
}

func (m *memoryRepository) UpdateStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.opportunities[id]
	if !ok {
		return errors.ErrNotFound
	}
	rec.Status = status
	return nil
}

func (m *memoryRepository) SaveRawMessage(_ context.Context, msg models.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawMessages = append(m.rawMessages, msg)
	return nil
}

func (m *memoryRepository) SaveAnalysis(_ context.Context, kind string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses = append(m.analyses, kind)
	return nil
}

func (m *memoryRepository) SaveMarketPoint(_ context.Context, point market.PricePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marketPoints = append(m.marketPoints, point)
	return nil
}

func (m *memoryRepository) PriceHistory(_ context.Context, program string, _ int) ([]market.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []market.PricePoint
	for _, p := range m.marketPoints {
		if p.Program == program {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryRepository) GetUserProfile(_ context.Context, userID string) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[userID], nil
}

func (m *memoryRepository) UpsertUserProfile(_ context.Context, profile *UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *memoryRepository) Statistics(_ context.Context) (*Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &Statistics{TotalOpportunities: int64(len(m.opportunities))}, nil
}

func (m *memoryRepository) Cleanup(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

type mockCompletions struct {
	mu      sync.Mutex
	answers []string
	err     error
	calls   int
	prompts []string
}

func (m *mockCompletions) Complete(_ context.Context, _, prompt string, _ float64, _ int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	answer := m.answers[0]
	if len(m.answers) > 1 {
		m.answers = m.answers[1:]
	}
	return answer, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	records []*Record
}

func (n *recordingNotifier) Notify(_ context.Context, rec *Record) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.records = append(n.records, rec)
	return nil
}

const opportunityAnswer = "```json\n" + `{
  "is_opportunity": true,
  "confidence": 0.88,
  "opportunity_type": "buy_offer",
  "program": "smiles",
  "quantity": 50000,
  "price_per_mile": 14.0,
  "risk_assessment": "low",
  "recommendation": "sell to this buyer",
  "summary": "buy offer above typical spread"
}` + "\n```"

const notOpportunityAnswer = `{"is_opportunity": false, "confidence": 0.9, "summary": "casual chat"}`

func newTestService(repo Repository, completions classifier.CompletionClient, notifier Notifier) Service {
	markets := market.NewProvider(market.DefaultSnapshot(), logger.NopLogger())
	return NewService(
		repo,
		nil,
		extractor.New(),
		completions,
		markets,
		notifier,
		nil,
		config.OpenAIConfig{MaxConcurrent: 2, RequestsPerMinute: 600, TimeoutSeconds: 5},
		logger.NopLogger(),
	)
}

func brokerMessage(text string) models.RawMessage {
	return models.RawMessage{
		MessageID: "m1",
		Channel:   "milhas-brokers",
		Author:    "corretor1",
		Text:      text,
		Date:      time.Now().UTC(),
	}
}

func TestHandleMessageSavesOpportunity(t *testing.T) {
	repo := newMemoryRepository()
	completions := &mockCompletions{answers: []string{opportunityAnswer}}
	notifier := &recordingNotifier{}
	svc := newTestService(repo, completions, notifier)

	rec, err := svc.HandleMessage(context.Background(), brokerMessage("compro smiles 50k 2 cpf r$14"))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, 1, completions.calls)
	assert.Equal(t, "smiles", rec.Analysis.Program)
	assert.Equal(t, 0.88, rec.Confidence)
	assert.Equal(t, StatusActive, rec.Status)

	// Persisted, archived and alerted.
	assert.Len(t, repo.opportunities, 1)
	assert.Len(t, repo.rawMessages, 1)
	require.Len(t, notifier.records, 1)
	assert.Equal(t, rec.ID, notifier.records[0].ID)

	// A priced verdict feeds the market history.
	require.Len(t, repo.marketPoints, 1)
	assert.Equal(t, "smiles", repo.marketPoints[0].Program)
	assert.Equal(t, 14.0, repo.marketPoints[0].Price)
}

func TestHandleMessageEmptyExtractionSkipsBackend(t *testing.T) {
	repo := newMemoryRepository()
	completions := &mockCompletions{answers: []string{opportunityAnswer}}
	svc := newTestService(repo, completions, nil)

	rec, err := svc.HandleMessage(context.Background(), brokerMessage("bom dia pessoal"))
	require.NoError(t, err)
	assert.Nil(t, rec)

	// No signal extracted means no classification call at all.
	assert.Zero(t, completions.calls)
	assert.Empty(t, repo.opportunities)
}

func TestHandleMessageNonOpportunityIsDropped(t *testing.T) {
	repo := newMemoryRepository()
	completions := &mockCompletions{answers: []string{notOpportunityAnswer}}
	svc := newTestService(repo, completions, nil)

	rec, err := svc.HandleMessage(context.Background(), brokerMessage("vendo smiles 80k"))
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, 1, completions.calls)
	assert.Empty(t, repo.opportunities)
}

func TestHandleMessageParseFailureIsFatal(t *testing.T) {
	repo := newMemoryRepository()
	completions := &mockCompletions{answers: []string{"sorry, I cannot help with that"}}
	svc := newTestService(repo, completions, nil)

	rec, err := svc.HandleMessage(context.Background(), brokerMessage("vendo smiles 80k"))
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.True(t, errors.IsParseFailure(err))

	var appErr *errors.Error
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.IsFatal())
}

func TestHandleMessageBackendErrorIsRetryable(t *testing.T) {
	repo := newMemoryRepository()
	completions := &mockCompletions{err: errors.ErrClassification.WithDetail("status_code", 503)}
	svc := newTestService(repo, completions, nil)

	_, err := svc.HandleMessage(context.Background(), brokerMessage("vendo smiles 80k"))
	require.Error(t, err)
	assert.True(t, errors.IsClassificationFailure(err))

	var appErr *errors.Error
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.IsRetryable())
}

type denyAllDedupRepo struct{}

func (denyAllDedupRepo) SetNX(context.Context, string, interface{}, time.Duration) (bool, error) {
	return false, nil
}

func (denyAllDedupRepo) GetCacheSize(context.Context, string) (int, error) { return 0, nil }

func TestHandleMessageDuplicateSkipsBackend(t *testing.T) {
	repo := newMemoryRepository()
	completions := &mockCompletions{answers: []string{opportunityAnswer}}
	dedupSvc := dedup.NewService(denyAllDedupRepo{}, config.DeduplicationConfig{TTLSeconds: 60}, logger.NopLogger())

	markets := market.NewProvider(market.DefaultSnapshot(), logger.NopLogger())
	svc := NewService(repo, dedupSvc, extractor.New(), completions, markets, nil, nil,
		config.OpenAIConfig{MaxConcurrent: 2, RequestsPerMinute: 600, TimeoutSeconds: 5}, logger.NopLogger())

	rec, err := svc.HandleMessage(context.Background(), brokerMessage("compro smiles 50k"))
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Zero(t, completions.calls)
	assert.Empty(t, repo.rawMessages)
}

func TestAnalyzeReturnsVerdictWithoutRecord(t *testing.T) {
	repo := newMemoryRepository()
	completions := &mockCompletions{answers: []string{notOpportunityAnswer}}
	svc := newTestService(repo, completions, nil)

	result, rec, err := svc.Analyze(context.Background(), "vendo smiles 80k")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsOpportunity)
	assert.Nil(t, rec)
}

func TestAnalyzeSavesRecord(t *testing.T) {
	repo := newMemoryRepository()
	completions := &mockCompletions{answers: []string{opportunityAnswer}}
	svc := newTestService(repo, completions, nil)

	result, rec, err := svc.Analyze(context.Background(), "compro smiles 50k 2 cpf r$14")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, rec)
	assert.Equal(t, "manual_analysis", rec.Source.Channel)
	assert.Len(t, repo.opportunities, 1)
}

func TestMarketTrendsArchivesReport(t *testing.T) {
	repo := newMemoryRepository()
	repo.marketPoints = []market.PricePoint{
		{Program: "smiles", Price: 15, Date: time.Now().UTC()},
	}
	answer := `{"market_trend": "bullish", "recommended_actions": ["hold smiles"]}`
	completions := &mockCompletions{answers: []string{answer}}
	svc := newTestService(repo, completions, nil)

	report, err := svc.MarketTrends(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, "bullish", report.MarketTrend)
	assert.Contains(t, repo.analyses, "market_trends")
}

func TestRecommendationsRequiresProfile(t *testing.T) {
	svc := newTestService(newMemoryRepository(), &mockCompletions{}, nil)

	_, err := svc.Recommendations(context.Background(), "missing-user")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRecommendationsUsesStoredProfile(t *testing.T) {
	repo := newMemoryRepository()
	repo.profiles["u1"] = &UserProfile{UserID: "u1", RiskTolerance: "moderate"}

	answer := `{"personalized_recommendations": [{"action": "buy", "program": "smiles", "confidence": 0.8}], "risk_profile": "moderate"}`
	completions := &mockCompletions{answers: []string{answer}}
	svc := newTestService(repo, completions, nil)

	set, err := svc.Recommendations(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, set.Personalized, 1)
	assert.Equal(t, "smiles", set.Personalized[0].Program)

	// The stored profile travels into the prompt.
	require.Len(t, completions.prompts, 1)
	assert.Contains(t, completions.prompts[0], `"risk_tolerance":"moderate"`)
}

func TestUpdateStatusValidatesValue(t *testing.T) {
	svc := newTestService(newMemoryRepository(), &mockCompletions{}, nil)

	err := svc.UpdateStatus(context.Background(), "opp_x", "archived")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestMarketDataUnknownProgram(t *testing.T) {
	svc := newTestService(newMemoryRepository(), &mockCompletions{}, nil)

	_, err := svc.MarketData(context.Background(), "unknown", 30)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
