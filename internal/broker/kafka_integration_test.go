//go:build integration

package broker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"

	"milhas/internal/config"
	"milhas/internal/logger"
	"milhas/pkg/models"
)

func setupKafka(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	container, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0",
		kafkamodule.WithClusterID("test-cluster"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		container.Terminate(ctx)
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	return brokers
}

func TestKafkaPublishConsumeRoundTrip(t *testing.T) {
	brokers := setupKafka(t)

	cfg := config.KafkaConfig{
		Brokers: brokers,
		GroupID: "radar-test",
	}

	producer := NewKafkaProducer(cfg, logger.NopLogger())
	defer producer.Close()

	sent := models.RawMessage{
		MessageID: "m1",
		Channel:   "milhas-brokers",
		Author:    "corretor1",
		Text:      "compro smiles 50k 2 cpf r$14",
		Date:      time.Now().UTC().Truncate(time.Millisecond),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	require.NoError(t, producer.Publish(ctx, "raw_messages", sent.MessageID, sent))

	consumer := NewKafkaConsumer(cfg, logger.NopLogger())
	consumer.SetServiceName("radar-test")
	defer consumer.Close()

	received := make(chan models.RawMessage, 1)
	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()

	go func() {
		_ = consumer.Consume(consumeCtx, "raw_messages", func(_ context.Context, msg models.RawMessage) error {
			received <- msg
			return nil
		})
	}()

	select {
	case got := <-received:
		assert.Equal(t, sent.MessageID, got.MessageID)
		assert.Equal(t, sent.Text, got.Text)
		assert.Equal(t, sent.Channel, got.Channel)
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestKafkaMalformedMessageGoesNowhere(t *testing.T) {
	brokers := setupKafka(t)

	cfg := config.KafkaConfig{
		Brokers: brokers,
		GroupID: "radar-test-malformed",
	}

	producer := NewKafkaProducer(cfg, logger.NopLogger())
	defer producer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	// Valid JSON but missing required envelope fields.
	require.NoError(t, producer.Publish(ctx, "raw_messages", "bad", map[string]string{"foo": "bar"}))

	consumer := NewKafkaConsumer(cfg, logger.NopLogger())
	consumer.SetServiceName("radar-test-malformed")
	defer consumer.Close()

	handled := make(chan struct{}, 1)
	consumeCtx, stop := context.WithTimeout(ctx, 20*time.Second)
	defer stop()

	go func() {
		_ = consumer.Consume(consumeCtx, "raw_messages", func(context.Context, models.RawMessage) error {
			handled <- struct{}{}
			return nil
		})
	}()

	select {
	case <-handled:
		t.Fatal("malformed message should have been discarded before the handler")
	case <-consumeCtx.Done():
	}
}
