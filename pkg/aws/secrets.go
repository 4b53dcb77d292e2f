package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretValueAPI is the part of the Secrets Manager client used here.
type SecretValueAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsClient reads secrets stored as flat JSON objects of key/value pairs,
// such as {"POSTGRES_USER": "...", "JWT_SECRET": "..."}. Decoded secrets are
// kept for the life of the process.
type SecretsClient struct {
	api SecretValueAPI

	mu     sync.Mutex
	values map[string]map[string]string
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return NewSecretsClientWithAPI(secretsmanager.NewFromConfig(cfg))
}

func NewSecretsClientWithAPI(api SecretValueAPI) *SecretsClient {
	return &SecretsClient{api: api, values: make(map[string]map[string]string)}
}

// Values returns the key/value pairs held by the named secret.
func (s *SecretsClient) Values(ctx context.Context, name string) (map[string]string, error) {
	s.mu.Lock()
	cached, ok := s.values[name]
	s.mu.Unlock()
	if ok {
		return copyValues(cached), nil
	}

	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(name)})
	if err != nil {
		return nil, fmt.Errorf("read secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", name)
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &values); err != nil {
		return nil, fmt.Errorf("secret %s is not a JSON object: %w", name, err)
	}

	s.mu.Lock()
	s.values[name] = values
	s.mu.Unlock()
	return copyValues(values), nil
}

func copyValues(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
