package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"
)

// LoadAWSConfig loads the default SDK config. AWS_SNS_ENDPOINT or AWS_ENDPOINT
// point every client at a custom endpoint such as LocalStack.
func LoadAWSConfig(ctx context.Context, logger *zap.Logger) (sdkaws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region := os.Getenv("AWS_REGION"); region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}

	endpoint := os.Getenv("AWS_SNS_ENDPOINT")
	if endpoint == "" {
		endpoint = os.Getenv("AWS_ENDPOINT")
	}
	if endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(endpoint)
		logger.Info("Using custom AWS endpoint", zap.String("endpoint", endpoint), zap.String("region", cfg.Region))
	}
	return cfg, nil
}
