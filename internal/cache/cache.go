// Package cache keeps short-lived JSON snapshots, backed by redis when configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DashboardKey is where the dashboard snapshot is cached.
const DashboardKey = "sacra:dashboard:snapshot"

// Store is a JSON object cache.
type Store interface {
	// GetObject decodes the value at key into dest. It reports false on a miss.
	GetObject(ctx context.Context, key string, dest interface{}) (bool, error)
	SetObject(ctx context.Context, key string, obj interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type redisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) GetObject(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *redisStore) SetObject(ctx context.Context, key string, obj interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

type noopStore struct{}

// NewNoopStore returns a Store that never hits. Used when redis is not configured.
func NewNoopStore() Store {
	return noopStore{}
}

func (noopStore) GetObject(context.Context, string, interface{}) (bool, error) { return false, nil }

func (noopStore) SetObject(context.Context, string, interface{}, time.Duration) error { return nil }

func (noopStore) Delete(context.Context, ...string) error { return nil }
