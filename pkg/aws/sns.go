package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

// SNSPublisher is a minimal interface for publishing messages to SNS.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn, eventType string, message []byte) error
}

type SNSClient struct {
	client *sns.Client
	logger *zap.Logger
}

func NewSNSClient(cfg sdkaws.Config, logger *zap.Logger) *SNSClient {
	return &SNSClient{client: sns.NewFromConfig(cfg), logger: logger}
}

// Publish sends message to topicArn tagged with an event_type attribute so
// subscribers can filter on it.
func (s *SNSClient) Publish(ctx context.Context, topicArn, eventType string, message []byte) error {
	if topicArn == "" {
		return fmt.Errorf("empty topicArn")
	}
	input := &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(string(message)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    sdkaws.String("String"),
				StringValue: sdkaws.String(eventType),
			},
		},
	}
	out, err := s.client.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", topicArn, err)
	}
	s.logger.Debug("Published SNS message",
		zap.String("topic_arn", topicArn),
		zap.String("event_type", eventType),
		zap.Stringp("message_id", out.MessageId),
		zap.Int("message_len", len(message)),
	)
	return nil
}
