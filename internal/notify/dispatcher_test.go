package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhas/internal/config"
	"milhas/internal/logger"
	"milhas/internal/opportunity"
)

type fakeProducer struct {
	mu     sync.Mutex
	topics []string
	keys   []string
	values []interface{}
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.keys = append(f.keys, key)
	f.values = append(f.values, value)
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func (f *fakeProducer) published() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.topics)
}

func sampleRecord(confidence float64) *opportunity.Record {
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	rec := &opportunity.Record{
		ID:            opportunity.RecordID(now, "m1"),
		Timestamp:     now,
		IsOpportunity: true,
		Confidence:    confidence,
		Summary:       "buy offer below market",
		RiskLevel:     "low",
		Status:        opportunity.StatusActive,
	}
	rec.Source.Channel = "milhas-brokers"
	rec.Source.MessageID = "m1"
	rec.Analysis.Program = "smiles"
	rec.Analysis.PricePerMile = 14
	return rec
}

func TestNotifyRuleMatchPublishesToKafka(t *testing.T) {
	producer := &fakeProducer{}
	d, err := NewDispatcher(config.NotificationsConfig{
		Enabled:     true,
		AlertsTopic: "opportunity_alerts",
		Rules: []config.AlertRule{
			{Name: "high_confidence", Expression: "confidence >= 0.8", Channels: []string{"kafka"}},
		},
	}, producer, logger.NopLogger())
	require.NoError(t, err)

	require.NoError(t, d.Notify(context.Background(), sampleRecord(0.9)))

	require.Equal(t, 1, producer.published())
	assert.Equal(t, "opportunity_alerts", producer.topics[0])
	assert.Equal(t, "opp_20260115_103000_m1", producer.keys[0])

	event, ok := producer.values[0].(*AlertEvent)
	require.True(t, ok)
	assert.Equal(t, "high_confidence", event.RuleName)
	assert.NotEmpty(t, event.EventID)
}

func TestNotifyRuleMismatchIsSilent(t *testing.T) {
	producer := &fakeProducer{}
	d, err := NewDispatcher(config.NotificationsConfig{
		Enabled:     true,
		AlertsTopic: "opportunity_alerts",
		Rules: []config.AlertRule{
			{Name: "high_confidence", Expression: "confidence >= 0.8", Channels: []string{"kafka"}},
		},
	}, producer, logger.NopLogger())
	require.NoError(t, err)

	require.NoError(t, d.Notify(context.Background(), sampleRecord(0.5)))
	assert.Zero(t, producer.published())
}

func TestNotifyWithoutRulesUsesAllChannels(t *testing.T) {
	var webhookCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhookCalls++
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	producer := &fakeProducer{}
	d, err := NewDispatcher(config.NotificationsConfig{
		Enabled:     true,
		AlertsTopic: "opportunity_alerts",
		WebhookURL:  srv.URL,
	}, producer, logger.NopLogger())
	require.NoError(t, err)

	require.NoError(t, d.Notify(context.Background(), sampleRecord(0.9)))

	assert.Equal(t, 1, producer.published())
	assert.Equal(t, 1, webhookCalls)
}

func TestNotifyChannelNotifiedOncePerRecord(t *testing.T) {
	producer := &fakeProducer{}
	d, err := NewDispatcher(config.NotificationsConfig{
		Enabled:     true,
		AlertsTopic: "opportunity_alerts",
		Rules: []config.AlertRule{
			{Name: "any", Expression: "confidence >= 0.1", Channels: []string{"kafka"}},
			{Name: "smiles", Expression: `program == "smiles"`, Channels: []string{"kafka"}},
		},
	}, producer, logger.NopLogger())
	require.NoError(t, err)

	require.NoError(t, d.Notify(context.Background(), sampleRecord(0.9)))
	assert.Equal(t, 1, producer.published())
}

func TestNotifyWebhookErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d, err := NewDispatcher(config.NotificationsConfig{
		Enabled:    true,
		WebhookURL: srv.URL,
	}, nil, logger.NopLogger())
	require.NoError(t, err)

	assert.Error(t, d.Notify(context.Background(), sampleRecord(0.9)))
}

func TestNewDispatcherRejectsBadExpression(t *testing.T) {
	_, err := NewDispatcher(config.NotificationsConfig{
		Enabled: true,
		Rules: []config.AlertRule{
			{Name: "broken", Expression: "confidenc >= 0.8"},
		},
	}, &fakeProducer{}, logger.NopLogger())
	assert.Error(t, err)
}

func TestNotifyDisabledIsNoop(t *testing.T) {
	producer := &fakeProducer{}
	d, err := NewDispatcher(config.NotificationsConfig{Enabled: false, AlertsTopic: "t"}, producer, logger.NopLogger())
	require.NoError(t, err)

	require.NoError(t, d.Notify(context.Background(), sampleRecord(0.9)))
	assert.Zero(t, producer.published())
}
