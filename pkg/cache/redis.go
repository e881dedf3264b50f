package cache

import (
	"context"
	goerrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/drivetrain/pkg/errors"
)

// RedisCache stores entries in Redis. Expiry is delegated to Redis TTLs.
// Network failures are retried according to the configured Backoff.
type RedisCache struct {
	client redis.UniversalClient
	retry  Backoff
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithRetry replaces DefaultBackoff.
func WithRetry(b Backoff) RedisOption { return func(c *RedisCache) { c.retry = b } }

// NewRedisCache connects using a redis:// URL and pings the server.
func NewRedisCache(ctx context.Context, url string, opts ...RedisOption) (*RedisCache, error) {
	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse redis url")
	}
	c := NewRedisCacheFromClient(redis.NewClient(ro), opts...)
	if err := c.retry.Do(ctx, func() error { return transient("ping", c.client.Ping(ctx).Err()) }); err != nil {
		c.client.Close()
		return nil, errors.Annotate(err, "connect %s", ro.Addr)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client redis.UniversalClient, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client, retry: DefaultBackoff}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.retry.Do(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if err != nil {
			return transient("get", err)
		}
		data = b
		return nil
	})
	if goerrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.retry.Do(ctx, func() error {
		return transient("set", c.client.Set(ctx, key, data, ttl).Err())
	})
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.retry.Do(ctx, func() error {
		return transient("del", c.client.Del(ctx, key).Err())
	})
}

func (c *RedisCache) Close() error { return c.client.Close() }

var _ Cache = (*RedisCache)(nil)
