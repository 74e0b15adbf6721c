package marker

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKey = "nbaliveslack:last_notified_game"

// RedisStore keeps the marker under a single Redis key with no TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies reachability.
func NewRedisStore(ctx context.Context, addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Read(ctx context.Context) (string, bool, error) {
	val, err := s.client.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get marker key: %w", err)
	}
	return val, true, nil
}

func (s *RedisStore) Write(ctx context.Context, value string) error {
	if err := s.client.Set(ctx, redisKey, value, 0).Err(); err != nil {
		return fmt.Errorf("set marker key: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() {
	_ = s.client.Close()
}
