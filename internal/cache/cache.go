// Package cache stores analysis results keyed by input fingerprint.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Cache is consulted before running the pipeline. Errors are advisory:
// callers treat them as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (*types.AnalysisResult, bool, error)
	Set(ctx context.Context, key string, result *types.AnalysisResult) error
	Ping(ctx context.Context) error
	Close() error
}

// Key derives a cache key from everything that determines the result.
func Key(text string, role *types.RoleDescriptor, policyFingerprint string) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	if role != nil {
		h.Write([]byte(strings.ToLower(role.Name)))
		h.Write([]byte{0})
		h.Write([]byte(strings.Join(role.RequiredSkills, "\x1f")))
	}
	h.Write([]byte{0})
	h.Write([]byte(policyFingerprint))
	return hex.EncodeToString(h.Sum(nil))
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*types.AnalysisResult, bool, error) {
	return nil, false, nil
}
func (NopCache) Set(context.Context, string, *types.AnalysisResult) error { return nil }
func (NopCache) Ping(context.Context) error                               { return nil }
func (NopCache) Close() error                                             { return nil }

// RedisCache stores JSON encoded results with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *errors.Logger
}

func NewRedisCache(cfg config.CacheConfig, logger *errors.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	return &RedisCache{client: client, ttl: cfg.TTL, prefix: cfg.Prefix, logger: logger}
}

// New returns a RedisCache when caching is enabled and reachable, NopCache otherwise.
func New(ctx context.Context, cfg config.CacheConfig, logger *errors.Logger) Cache {
	if !cfg.Enabled {
		return NopCache{}
	}
	rc := NewRedisCache(cfg, logger)
	if err := rc.Ping(ctx); err != nil {
		logger.LogError(err, "Redis unreachable, result cache disabled", "addr", cfg.RedisAddr)
		_ = rc.Close()
		return NopCache{}
	}
	logger.Info("Result cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
	return rc
}

func (c *RedisCache) Get(ctx context.Context, key string) (*types.AnalysisResult, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewNetworkError(errors.ErrCodeNetworkTimeout, "cache read failed", err)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		// A stale encoding is a miss; the entry gets overwritten.
		c.logger.Warn("Discarding undecodable cache entry", "key", key, "error", err.Error())
		return nil, false, nil
	}
	return &result, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, result *types.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidFormat, "failed to encode analysis", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return errors.NewNetworkError(errors.ErrCodeNetworkTimeout, "cache write failed", err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
