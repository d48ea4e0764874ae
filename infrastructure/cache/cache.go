package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewCache connects a Redis client and verifies the connection with a short
// ping. The caller decides how to degrade when Redis is unavailable.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
