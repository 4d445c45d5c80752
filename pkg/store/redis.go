package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

const (
	redisDialTimeout  = 5 * time.Second
	redisReadTimeout  = 3 * time.Second
	redisWriteTimeout = 3 * time.Second
)

// Reply prefixes Redis uses for ACL and auth refusals.
var redisDeniedPrefixes = []string{"NOPERM", "NOAUTH", "WRONGPASS"}

// NewRedisClient returns a go-redis client and validates the connection
// with PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis: addr is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisReadTimeout,
		WriteTimeout: redisWriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return client, nil
}

// RedisStore keeps each area as a hash of station id to JSON document.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Name implements Backend.
func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) key(area string) string {
	return fmt.Sprintf("stations:%s", area)
}

// FetchCollection implements Fetcher.
func (r *RedisStore) FetchCollection(ctx context.Context, area string) ([]station.Station, error) {
	docs, err := r.client.HGetAll(ctx, r.key(area)).Result()
	if err != nil {
		return nil, classifyRedis(area, err)
	}

	out := make([]station.Station, 0, len(docs))
	for id, raw := range docs {
		var st station.Station
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			return nil, failed(area, fmt.Errorf("decode station %s: %w", id, err))
		}
		// The hash field is the document id.
		st.ID = id
		out = append(out, st)
	}
	station.Sort(out)
	return out, nil
}

// PutStation implements Writer.
func (r *RedisStore) PutStation(ctx context.Context, area string, st station.Station) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.key(area), st.ID, data).Err(); err != nil {
		return fmt.Errorf("put station %s/%s: %w", area, st.ID, err)
	}
	return nil
}

// Close implements io.Closer.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func classifyRedis(area string, err error) error {
	msg := err.Error()
	for _, prefix := range redisDeniedPrefixes {
		if strings.HasPrefix(msg, prefix) {
			return denied(area, err)
		}
	}
	return failed(area, err)
}
