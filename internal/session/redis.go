package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/albitskyd51/qa-interview-bot/internal/config"
)

// sessionKeyPrefix namespaces bot sessions in a shared Redis.
const sessionKeyPrefix = "qabot:session:"

// RedisCache keeps sessions in Redis with a TTL, so they survive process
// restarts without a database read. For deployments with a Redis add-on.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis per the session config. RedisURL wins
// when set; otherwise the addr, password, and db fields are used. The
// connection is verified with a ping.
func NewRedisCache(ctx context.Context, cfg config.SessionConfig) (*RedisCache, error) {
	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

// Get returns the cached session, or nil, nil when the key is absent.
func (c *RedisCache) Get(ctx context.Context, userID int64) (*State, error) {
	data, err := c.client.Get(ctx, sessionKey(userID)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read session from redis: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode cached session: %w", err)
	}
	return &state, nil
}

// Set stores the session as JSON under the configured TTL.
func (c *RedisCache) Set(ctx context.Context, userID int64, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := c.client.Set(ctx, sessionKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session to redis: %w", err)
	}
	return nil
}

// Delete removes the session key, if present.
func (c *RedisCache) Delete(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func sessionKey(userID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(userID, 10)
}
