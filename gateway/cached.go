package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/models"
)

const (
	catalogCachePrefix = "catalog:v"
	CatalogVersionKey  = "catalog:version"
)

// CachedGateway caches catalog reads in Redis. Every other call goes straight
// to the wrapped gateway.
type CachedGateway struct {
	Gateway
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedGateway(inner Gateway, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedGateway {
	return &CachedGateway{Gateway: inner, redis: client, ttl: ttl, logger: logger}
}

func (c *CachedGateway) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := c.cached(ctx, "products", &products, func() (interface{}, error) {
		return c.Gateway.GetAllProducts(ctx)
	})
	return products, err
}

func (c *CachedGateway) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product *models.Product
	err := c.cached(ctx, "product:"+id, &product, func() (interface{}, error) {
		return c.Gateway.GetProduct(ctx, id)
	})
	return product, err
}

func (c *CachedGateway) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	err := c.cached(ctx, "category:"+category, &products, func() (interface{}, error) {
		return c.Gateway.GetProductsByCategory(ctx, category)
	})
	return products, err
}

func (c *CachedGateway) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := c.cached(ctx, "categories", &categories, func() (interface{}, error) {
		return c.Gateway.GetCategories(ctx)
	})
	return categories, err
}

// Invalidate drops every cached catalog entry by bumping the version.
func (c *CachedGateway) Invalidate(ctx context.Context) error {
	v, err := c.redis.Incr(ctx, CatalogVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	c.logger.Info("Catalog cache invalidated", zap.Int64("new_version", v))
	return nil
}

// cached decodes a hit into dst. On a miss it calls load, writes the result
// back into dst and stores it asynchronously. Nil results are not cached.
func (c *CachedGateway) cached(ctx context.Context, name string, dst interface{}, load func() (interface{}, error)) error {
	version, verr := c.version(ctx)
	if verr == nil {
		data, err := c.redis.Get(ctx, cacheKey(version, name)).Bytes()
		if err == nil {
			if err := json.Unmarshal(data, dst); err == nil {
				return nil
			}
			c.logger.Warn("Failed to unmarshal cached catalog entry", zap.String("key", name))
		} else if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Catalog cache read failed", zap.Error(err))
		}
	}

	value, err := load()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return err
	}
	if verr == nil && string(data) != "null" {
		c.setAsync(cacheKey(version, name), data)
	}
	return nil
}

func (c *CachedGateway) setAsync(key string, data []byte) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.redis.Set(bgCtx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to cache catalog entry", zap.Error(err), zap.String("key", key))
		}
	}()
}

func (c *CachedGateway) version(ctx context.Context) (int64, error) {
	v, err := c.redis.Get(ctx, CatalogVersionKey).Int64()
	if err == nil && v > 0 {
		return v, nil
	}
	if errors.Is(err, redis.Nil) {
		if err := c.redis.SetNX(ctx, CatalogVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.redis.Get(ctx, CatalogVersionKey).Int64()
	}
	if err == nil {
		err = fmt.Errorf("invalid catalog version %d", v)
	}
	return 0, err
}

func cacheKey(version int64, name string) string {
	return fmt.Sprintf("%s%d:%s", catalogCachePrefix, version, name)
}
