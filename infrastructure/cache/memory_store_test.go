package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "sid:missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, "sid:abc", []byte(`{"tiktok":null}`), time.Hour))
	val, found, err := store.Get(ctx, "sid:abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"tiktok":null}`), val)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Put(ctx, "sid:abc", []byte("v"), 30*time.Minute))

	_, found, err := store.Get(ctx, "sid:abc")
	require.NoError(t, err)
	assert.True(t, found)

	current = current.Add(31 * time.Minute)
	_, found, err = store.Get(ctx, "sid:abc")
	require.NoError(t, err)
	assert.False(t, found, "entry should expire after its TTL")
}

func TestMemoryStore_PutRefreshesTTL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Put(ctx, "k", []byte("v1"), time.Hour))
	current = current.Add(50 * time.Minute)
	require.NoError(t, store.Put(ctx, "k", []byte("v2"), time.Hour))
	current = current.Add(50 * time.Minute)

	val, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v2"), val)
}
