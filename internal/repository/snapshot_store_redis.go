package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisSnapshotPrefix = "cache_snapshot:"

type redisSnapshotStore struct {
	client *redis.Client
}

func NewRedisSnapshotStore(client *redis.Client) SnapshotStore {
	return &redisSnapshotStore{client: client}
}

func (s *redisSnapshotStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	val, err := s.client.Get(ctx, redisSnapshotPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Write stores the snapshot without expiry; freshness is tracked per entry inside the payload.
func (s *redisSnapshotStore) Write(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	return s.client.Set(ctx, redisSnapshotPrefix+name, data, 0).Err()
}
