// Package cache provides the Redis backed query result cache
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/infrastructure/config"
	"github.com/alchemorsel/flavorgraph/internal/infrastructure/resilience"
	"github.com/alchemorsel/flavorgraph/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// RedisClient implements outbound.CacheRepository on top of Redis. Every
// command runs through a circuit breaker so an unreachable server fails fast.
type RedisClient struct {
	client  redis.UniversalClient
	prefix  string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

var _ outbound.CacheRepository = (*RedisClient)(nil)

// NewRedisClient creates a new Redis client and verifies the connection
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig, logger *zap.Logger) (*RedisClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	opts := &redis.UniversalOptions{
		Addrs:        []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  10 * time.Second,
	}

	if cfg.EnableCluster && len(cfg.ClusterNodes) > 0 {
		opts.Addrs = cfg.ClusterNodes
		logger.Info("Redis cluster mode enabled", zap.Strings("nodes", cfg.ClusterNodes))
	}

	r := NewRedisClientFrom(redis.NewUniversalClient(opts), cfg.KeyPrefix, logger)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := r.Ping(pingCtx); err != nil {
		_ = r.client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis client initialized",
		zap.Strings("addrs", opts.Addrs),
		zap.Int("database", cfg.Database),
		zap.String("key_prefix", cfg.KeyPrefix))

	return r, nil
}

// NewRedisClientFrom wraps an existing client
func NewRedisClientFrom(client redis.UniversalClient, prefix string, logger *zap.Logger) *RedisClient {
	breakerCfg := resilience.DefaultBreakerConfig("redis")
	breakerCfg.Ignore = []error{redis.Nil}

	return &RedisClient{
		client:  client,
		prefix:  prefix,
		breaker: resilience.NewBreaker(breakerCfg, logger),
		logger:  logger.Named("redis"),
	}
}

func (r *RedisClient) key(k string) string {
	return r.prefix + k
}

func (r *RedisClient) keys(ks []string) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = r.key(k)
	}
	return out
}

// execute runs fn through the breaker
func (r *RedisClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := r.breaker.Execute(fn)
	if resilience.IsOpen(err) {
		return nil, fmt.Errorf("redis unavailable: %w", err)
	}
	return result, err
}

// Get retrieves a value, returning outbound.ErrCacheMiss for absent keys
func (r *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.client.Get(ctx, r.key(key)).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, outbound.ErrCacheMiss
	}
	if err != nil {
		r.logger.Error("Redis GET failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return result.([]byte), nil
}

// Set stores a value with TTL
func (r *RedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.client.Set(ctx, r.key(key), value, ttl).Err()
	})
	if err != nil {
		r.logger.Error("Redis SET failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Delete removes keys
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.client.Del(ctx, r.keys(keys)...).Err()
	})
	return err
}

// Exists checks if a key exists
func (r *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.client.Exists(ctx, r.key(key)).Result()
	})
	if err != nil {
		return false, err
	}
	return result.(int64) > 0, nil
}

// SAdd adds members to a set
func (r *RedisClient) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.client.SAdd(ctx, r.key(key), args...).Err()
	})
	return err
}

// SMembers returns the members of a set
func (r *RedisClient) SMembers(ctx context.Context, key string) ([]string, error) {
	result, err := r.execute(func() (interface{}, error) {
		return r.client.SMembers(ctx, r.key(key)).Result()
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// Ping tests the Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	_, err := r.execute(func() (interface{}, error) {
		return nil, r.client.Ping(ctx).Err()
	})
	return err
}

// Close closes the underlying connection pool
func (r *RedisClient) Close() error {
	return r.client.Close()
}
