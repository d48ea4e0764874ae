package repository

import (
	"context"
	"time"
)

// ISessionStore is the key-value store backing sessions and the project /
// video library. Values are opaque JSON blobs; every put refreshes the key's
// TTL. Reads and writes are individually atomic but read-modify-write
// sequences are not, which is an accepted trade-off for this service.
type ISessionStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores a value with the given TTL.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
