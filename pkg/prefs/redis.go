package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps preferences as plain string keys under a prefix, so
// several terminals signed in as the same user share the remembered area.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewRedisStore wraps an open client. Keys are written as prefix+name.
func NewRedisStore(client *redis.Client, prefix string, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{client: client, prefix: prefix, timeout: 2 * time.Second, logger: logger}
}

// Get implements Store. Lookup failures are logged and read as absent.
func (r *RedisStore) Get(name string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	v, err := r.client.Get(ctx, r.prefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		r.logger.Warn("prefs lookup failed", "name", name, "error", err)
		return "", false
	}
	if v == "" {
		return "", false
	}
	return v, true
}

// Set implements Store.
func (r *RedisStore) Set(name, value string, ttlDays int) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+name, value, ttl(ttlDays)).Err(); err != nil {
		return fmt.Errorf("prefs: set %q: %w", name, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
