// Package cache provides the response cache for generated fortunes and the
// canonical cache-key derivation.
//
// The cache never fails a request: a missing store, a connection error, or a
// decode problem all resolve to a miss on read and a logged no-op on write.
// Callers therefore never special-case "cache not configured"; they always
// get a ResponseCache, possibly the no-op one.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ResponseCache stores serialized response payloads under derived keys with
// a TTL. Implementations must be safe for concurrent use and must absorb
// store failures rather than returning them.
type ResponseCache interface {
	// Get returns the stored payload for key, or ok=false on a miss.
	// Store unavailability is a miss, never an error.
	Get(ctx context.Context, key string) (value string, ok bool)
	// Set stores value under key for ttl. Failures are logged and swallowed.
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// New returns a Redis-backed cache for the given URL, or the no-op cache
// when url is empty. An unparseable URL is a configuration mistake and is
// returned as an error rather than silently degraded.
func New(url, prefix string) (ResponseCache, error) {
	if url == "" {
		return Noop{}, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Redis{client: redis.NewClient(opts), prefix: prefix}, nil
}

// Noop is the always-miss, always-accepting cache used when no store is
// configured.
type Noop struct{}

// Get always reports a miss.
func (Noop) Get(context.Context, string) (string, bool) { return "", false }

// Set accepts and discards the write.
func (Noop) Set(context.Context, string, string, time.Duration) {}

// Redis implements ResponseCache on a Redis (or Upstash) instance.
type Redis struct {
	client *redis.Client
	prefix string
}

func (c *Redis) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get fetches the payload stored under key. redis.Nil and transport errors
// both resolve to a miss; transport errors are logged at warn level.
func (c *Redis) Get(ctx context.Context, key string) (string, bool) {
	s, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed, treating as miss")
		return "", false
	}
	return s, true
}

// Set stores value under key with the given TTL. Errors are logged and
// swallowed so a degraded store never affects the response path.
func (c *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Ping reports whether the underlying store is reachable; used by cmd/server
// to log cache availability at startup.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
