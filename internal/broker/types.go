package broker

import (
	"context"

	"milhas/pkg/models"
)

type Producer interface {
	// Publish marshals value as JSON and writes it to the topic keyed by key.
	Publish(ctx context.Context, topic string, key string, value interface{}) error
	Close() error
}

type Consumer interface {
	Consume(ctx context.Context, topic string, handler HandlerFunc) error
	Close() error
	SetServiceName(name string)
}

type HandlerFunc func(ctx context.Context, msg models.RawMessage) error
