package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sshamanello/reelflow/domain/repository"
)

// SessionStore is the Redis-backed key-value store for sessions and the
// project/video library.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) repository.ISessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *SessionStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}
