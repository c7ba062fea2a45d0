package locationcache_test

import (
	"context"
	"testing"
	"time"

	"lastmile/internal/adapters/out/redis/locationcache"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*locationcache.RedisLocationCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache, err := locationcache.NewRedisLocationCache(client, ttl)
	require.NoError(t, err)
	return cache, mr
}

func testPosition(t *testing.T) ports.RiderPosition {
	t.Helper()

	point, err := kernel.NewGeoPoint(12.9720, 77.5950)
	require.NoError(t, err)
	return ports.RiderPosition{
		Point:     point,
		Heading:   272.5,
		SpeedKmh:  24.8,
		UpdatedAt: time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC),
	}
}

func TestRedisLocationCache_SetThenGet(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	riderID := kernel.NewUUID()
	pos := testPosition(t)

	require.NoError(t, cache.Set(ctx, riderID, pos))

	got, ok, err := cache.Get(ctx, riderID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, pos.Point.Lat(), got.Point.Lat(), 1e-9)
	assert.InDelta(t, pos.Point.Lng(), got.Point.Lng(), 1e-9)
	assert.InDelta(t, pos.Heading, got.Heading, 1e-9)
	assert.InDelta(t, pos.SpeedKmh, got.SpeedKmh, 1e-9)
	assert.True(t, pos.UpdatedAt.Equal(got.UpdatedAt))
}

func TestRedisLocationCache_Get_MissingEntry(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	_, ok, err := cache.Get(context.Background(), kernel.NewUUID())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLocationCache_Set_ReplacesPreviousEntry(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	riderID := kernel.NewUUID()
	pos := testPosition(t)

	require.NoError(t, cache.Set(ctx, riderID, pos))

	moved, err := kernel.NewGeoPoint(12.9740, 77.5960)
	require.NoError(t, err)
	pos.Point = moved
	pos.SpeedKmh = 31.0
	require.NoError(t, cache.Set(ctx, riderID, pos))

	got, ok, err := cache.Get(ctx, riderID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 12.9740, got.Point.Lat(), 1e-9)
	assert.InDelta(t, 31.0, got.SpeedKmh, 1e-9)
}

func TestRedisLocationCache_EntryExpires(t *testing.T) {
	cache, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()
	riderID := kernel.NewUUID()

	require.NoError(t, cache.Set(ctx, riderID, testPosition(t)))

	mr.FastForward(31 * time.Second)

	_, ok, err := cache.Get(ctx, riderID)
	require.NoError(t, err)
	assert.False(t, ok, "a silent rider must age out of the cache")
}

func TestRedisLocationCache_InvalidRiderID(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	err := cache.Set(context.Background(), kernel.UUID{}, testPosition(t))
	require.Error(t, err)

	_, _, err = cache.Get(context.Background(), kernel.UUID{})
	require.Error(t, err)
}

func TestNewRedisLocationCache_RequiresClient(t *testing.T) {
	_, err := locationcache.NewRedisLocationCache(nil, time.Minute)
	require.Error(t, err)
}
