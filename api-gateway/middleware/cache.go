package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/thukha/backoffice/pkg/logger"
)

// CacheConfig controls the Redis response cache.
type CacheConfig struct {
	DefaultTTL       time.Duration
	CacheableMethods []string
	CacheableStatus  []int
}

// DefaultCacheConfig caches successful reads for a short window. Listing
// endpoints (tenants, units, stock, catalog) dominate gateway traffic.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL:       30 * time.Second,
		CacheableMethods: []string{"GET", "HEAD"},
		CacheableStatus:  []int{200, 203, 301, 404, 410},
	}
}

// CacheMiddleware serves repeated reads from Redis.
func CacheMiddleware(redisClient *redis.Client, config CacheConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisClient == nil {
			return c.Next()
		}
		if !contains(config.CacheableMethods, c.Method()) {
			return c.Next()
		}

		cacheKey := cacheKeyFor(c)
		ctx := context.Background()

		if cached, err := redisClient.Get(ctx, cacheKey).Bytes(); err == nil && len(cached) > 0 {
			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(cached)
		}

		err := c.Next()

		statusCode := c.Response().StatusCode()
		if containsInt(config.CacheableStatus, statusCode) {
			body := c.Response().Body()
			if cacheErr := redisClient.Set(ctx, cacheKey, body, config.DefaultTTL).Err(); cacheErr != nil {
				logger.Logger.Warn().
					Err(cacheErr).
					Str("path", c.Path()).
					Msg("Failed to cache response")
			}
			c.Set("X-Cache", "MISS")
		}

		return err
	}
}

// cacheKeyFor hashes method, path, query, and the caller's token so one
// user's responses are never served to another.
func cacheKeyFor(c *fiber.Ctx) string {
	components := fmt.Sprintf("%s:%s:%s:%s",
		c.Method(),
		c.Path(),
		string(c.Request().URI().QueryString()),
		c.Get("Authorization"),
	)
	hash := sha256.Sum256([]byte(components))
	return "cache:" + hex.EncodeToString(hash[:])
}

// InvalidateCache deletes cached responses matching a key pattern.
func InvalidateCache(redisClient *redis.Client, pattern string) error {
	ctx := context.Background()
	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			return err
		}
		logger.Logger.Info().
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func containsInt(values []int, value int) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
