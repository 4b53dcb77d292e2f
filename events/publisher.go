package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const OrderCreated = "order.created"

// Backend names a Publisher implementation.
type Backend string

const (
	BackendSNS   Backend = "sns"
	BackendKafka Backend = "kafka"
	BackendNone  Backend = "none"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendSNS, BackendKafka, BackendNone:
		return b, nil
	case "":
		return BackendNone, nil
	default:
		return "", fmt.Errorf("unknown events backend %q", s)
	}
}

// Publisher delivers domain events. key groups related events (a user id for
// order events) where the transport supports ordering.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload []byte) error
	Close() error
}

// LogPublisher only logs events. Used when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, eventType, key string, payload []byte) error {
	p.logger.Info("Event emitted",
		zap.String("event_type", eventType),
		zap.String("key", key),
		zap.Int("payload_len", len(payload)),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
