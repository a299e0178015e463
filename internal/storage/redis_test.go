package storage

import (
	"context"
	"testing"
	"time"

	"navsession/internal/config"
	"navsession/internal/navigation"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return mr, store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedis(t)

	_, found, err := store.Get(ctx, "route:missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetWithExpiry(ctx, "navigation:session:s1", []byte(`{"routeId":"r1"}`), 30*time.Minute))

	value, found, err := store.Get(ctx, "navigation:session:s1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"routeId":"r1"}`, string(value))
	assert.Equal(t, 30*time.Minute, mr.TTL("navigation:session:s1"))

	exists, err := store.Exists(ctx, "navigation:session:s1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisStoreRefreshExpiry(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedis(t)

	require.NoError(t, store.SetWithExpiry(ctx, "k", []byte("v"), 30*time.Minute))

	mr.FastForward(20 * time.Minute)
	ttl, err := store.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, ttl)

	applied, err := store.RefreshExpiry(ctx, "k", 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 30*time.Minute, mr.TTL("k"))

	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	mr.FastForward(31 * time.Minute)
	applied, err = store.RefreshExpiry(ctx, "k", 30*time.Minute)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestRedisStoreRefreshExpiryRejectsNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedis(t)
	require.NoError(t, store.SetWithExpiry(ctx, "k", []byte("v"), 30*time.Minute))

	for _, ttl := range []time.Duration{0, -time.Second} {
		applied, err := store.RefreshExpiry(ctx, "k", ttl)
		assert.ErrorIs(t, err, ErrInvalidTTL)
		assert.False(t, applied)
	}

	assert.True(t, mr.Exists("k"))
	assert.Equal(t, 30*time.Minute, mr.TTL("k"))
}

func TestRedisStoreGetWrongType(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedis(t)
	_, err := mr.Push("route:r1", "walking")
	require.NoError(t, err)

	value, found, err := store.Get(ctx, "route:r1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, value)

	_, err = navigation.NewManager(store).StartSession(ctx, "r1")
	assert.ErrorIs(t, err, navigation.ErrInvalidRouteFormat)
	assert.NotErrorIs(t, err, navigation.ErrStoreUnavailable)
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedis(t)
	mr.Close()

	_, _, err := store.Get(ctx, "route:r1")
	assert.Error(t, err)
	_, err = store.Exists(ctx, "navigation:session:s1")
	assert.Error(t, err)
	assert.Error(t, store.Ping(ctx))
}

func TestNewRedisStoreRejectsBadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "")
	assert.Error(t, err)

	_, err = NewRedisStore(context.Background(), "http://localhost:6379")
	assert.Error(t, err)
}

func TestManagerOnRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, mr.Set("route:r1", `{"segments":[{"type":"walking","instructions":[{"text":"go"}]}]}`))

	mgr := navigation.NewManager(store, navigation.WithIDGenerator(func() string { return "fixed" }))

	summary, err := mgr.StartSession(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "fixed", summary.SessionID)
	assert.Equal(t, navigation.SessionTTL, mr.TTL("navigation:session:fixed"))

	mr.FastForward(25 * time.Minute)
	require.NoError(t, mgr.Heartbeat(ctx, "fixed"))
	assert.Equal(t, navigation.SessionTTL, mr.TTL("navigation:session:fixed"))

	mr.FastForward(navigation.SessionTTL)
	assert.ErrorIs(t, mgr.Heartbeat(ctx, "fixed"), navigation.ErrSessionNotFound)

	_, err = mgr.StartSession(ctx, "missing-route")
	assert.ErrorIs(t, err, navigation.ErrRouteNotFound)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	backend, err := Open(ctx, config.StoreConfig{Backend: config.BackendMemory}, config.RedisConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, backend)

	mr := miniredis.RunT(t)
	backend, err = Open(ctx, config.StoreConfig{Backend: config.BackendRedis}, config.RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, backend)
	require.NoError(t, backend.Close())

	_, err = Open(ctx, config.StoreConfig{Backend: "etcd"}, config.RedisConfig{})
	assert.Error(t, err)
}
