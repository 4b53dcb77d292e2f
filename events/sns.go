package events

import (
	"context"

	aws_pkg "github.com/zzafergok/mobiversite-ecommerce/pkg/aws"
)

// SNSPublisher publishes every event to one SNS topic.
type SNSPublisher struct {
	client   aws_pkg.SNSPublisher
	topicArn string
}

func NewSNSPublisher(client aws_pkg.SNSPublisher, topicArn string) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn}
}

func (p *SNSPublisher) Publish(ctx context.Context, eventType, _ string, payload []byte) error {
	return p.client.Publish(ctx, p.topicArn, eventType, payload)
}

func (p *SNSPublisher) Close() error { return nil }
