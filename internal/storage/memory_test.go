package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })

	require.NoError(t, store.SetWithExpiry(ctx, "k", []byte("v"), time.Minute))

	value, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), value)

	now = now.Add(59 * time.Second)
	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	applied, err := store.RefreshExpiry(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, applied)

	ttl, err := store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	now = now.Add(time.Minute)
	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	applied, err = store.RefreshExpiry(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, applied)

	ttl, err = store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-2), ttl)
}

func TestMemoryStoreWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SetWithExpiry(ctx, "route:r1", []byte(`{}`), 0))

	ttl, err := store.TTL(ctx, "route:r1")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, store.SetWithExpiry(ctx, "k", value, time.Minute))
	value[0] = 'x'

	got, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStoreHonoursContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.SetWithExpiry(ctx, "k", []byte("v"), time.Minute), context.Canceled)
	_, _, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Exists(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.RefreshExpiry(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Ping(ctx), context.Canceled)
}

func TestMemoryStoreSweepsLapsedEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })

	for i := 0; i < 1000; i++ {
		require.NoError(t, store.SetWithExpiry(ctx, fmt.Sprintf("navigation:session:%d", i), []byte("{}"), 30*time.Minute))
	}
	require.NoError(t, store.SetWithExpiry(ctx, "route:r1", []byte("{}"), 0))
	assert.Len(t, store.entries, 1001)

	now = now.Add(24 * time.Hour)
	require.NoError(t, store.SetWithExpiry(ctx, "navigation:session:new", []byte("{}"), 30*time.Minute))

	assert.Len(t, store.entries, 2)
	assert.Contains(t, store.entries, "route:r1")
	assert.Contains(t, store.entries, "navigation:session:new")
}

func TestMemoryStoreSweepKeepsLiveEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })

	require.NoError(t, store.SetWithExpiry(ctx, "short", []byte("v"), time.Minute))
	require.NoError(t, store.SetWithExpiry(ctx, "long", []byte("v"), time.Hour))

	now = now.Add(2 * time.Minute)
	require.NoError(t, store.SetWithExpiry(ctx, "other", []byte("v"), time.Hour))

	assert.NotContains(t, store.entries, "short")
	exists, err := store.Exists(ctx, "long")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryStoreRefreshExpiryRejectsNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetWithExpiry(ctx, "k", []byte("v"), time.Minute))

	for _, ttl := range []time.Duration{0, -time.Second} {
		applied, err := store.RefreshExpiry(ctx, "k", ttl)
		assert.ErrorIs(t, err, ErrInvalidTTL)
		assert.False(t, applied)
	}

	remaining, err := store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Greater(t, remaining, time.Duration(0))
}
