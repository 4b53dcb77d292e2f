package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/events"
	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	aws_pkg "github.com/zzafergok/mobiversite-ecommerce/pkg/aws"
)

const (
	KVBackendMemory = "memory"
	KVBackendRedis  = "redis"
)

// secretName holds the database credentials and JWT secret when
// AWS_USE_SECRETS=true.
const secretName = "storefront/CREDENTIALS"

type Config struct {
	Port string
	Env  string

	GatewayBackend    gateway.Backend
	JSONServerURL     string
	JSONServerTimeout time.Duration

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	KVBackend       string
	RedisURL        string
	ClientTTL       time.Duration
	CatalogCacheTTL time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	EventsBackend    events.Backend
	OrderSNSTopicARN string
	KafkaBrokers     []string
	KafkaTopic       string

	AllowedOrigins []string
	CookieSecure   bool
}

// Load reads the configuration from the environment, after loading a .env
// file when one exists.
func Load(ctx context.Context, logger *zap.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	gw, err := gateway.ParseBackend(getEnv("GATEWAY_BACKEND", string(gateway.BackendJSONServer)))
	if err != nil {
		return nil, err
	}
	ev, err := events.ParseBackend(os.Getenv("EVENTS_BACKEND"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("APP_ENV", "development"),
		GatewayBackend:    gw,
		JSONServerURL:     getEnv("JSON_SERVER_URL", "http://localhost:3001"),
		JSONServerTimeout: getDuration("JSON_SERVER_TIMEOUT", 10*time.Second),
		PostgresUser:      os.Getenv("POSTGRES_USER"),
		PostgresPassword:  os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:        os.Getenv("POSTGRES_DB"),
		PostgresHost:      getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:      getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:   getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:  getEnv("POSTGRES_TIMEZONE", "UTC"),
		KVBackend:         getEnv("KV_BACKEND", KVBackendMemory),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
		ClientTTL:         getDuration("CLIENT_TTL", 30*time.Minute),
		CatalogCacheTTL:   getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          getDuration("TOKEN_TTL", 7*24*time.Hour),
		EventsBackend:     ev,
		OrderSNSTopicARN:  os.Getenv("ORDER_SNS_TOPIC_ARN"),
		KafkaBrokers:      events.SplitBrokers(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "order.created"),
		AllowedOrigins:    splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		CookieSecure:      getBool("COOKIE_SECURE", false),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		cfg.applySecrets(ctx, logger)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySecrets overrides the database credentials and JWT secret from
// Secrets Manager. Failures keep the environment values.
func (c *Config) applySecrets(ctx context.Context, logger *zap.Logger) {
	awsCfg, err := aws_pkg.LoadAWSConfig(ctx, logger)
	if err != nil {
		logger.Warn("Secrets override skipped", zap.Error(err))
		return
	}
	m, err := aws_pkg.NewSecretsClient(awsCfg).Values(ctx, secretName)
	if err != nil {
		logger.Warn("Secrets override skipped", zap.Error(err), zap.String("secret", secretName))
		return
	}
	c.overrideFrom(m)
}

func (c *Config) overrideFrom(m map[string]string) {
	set := func(dst *string, key string) {
		if v, ok := m[key]; ok && v != "" {
			*dst = v
		}
	}
	set(&c.PostgresUser, "POSTGRES_USER")
	set(&c.PostgresPassword, "POSTGRES_PASSWORD")
	set(&c.PostgresDB, "POSTGRES_DB")
	set(&c.PostgresHost, "POSTGRES_HOST")
	set(&c.PostgresPort, "POSTGRES_PORT")
	set(&c.JWTSecret, "JWT_SECRET")
}

func (c *Config) validate() error {
	switch c.KVBackend {
	case KVBackendMemory, KVBackendRedis:
	default:
		return fmt.Errorf("unknown KV_BACKEND %q", c.KVBackend)
	}

	if c.GatewayBackend == gateway.BackendNeonDB &&
		(c.PostgresUser == "" || c.PostgresPassword == "" || c.PostgresDB == "") {
		return fmt.Errorf("database config incomplete")
	}

	if c.EventsBackend == events.BackendSNS && c.OrderSNSTopicARN == "" {
		return fmt.Errorf("ORDER_SNS_TOPIC_ARN is required when EVENTS_BACKEND=sns")
	}

	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.JWTSecret = "storefront-dev-secret"
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PostgresDSN is the connection string for the neon-db backend.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB,
		c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone,
	)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultVal
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSuffix(strings.TrimSpace(o), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
