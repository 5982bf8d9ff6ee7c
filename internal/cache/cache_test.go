package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	// Create a mini Redis server for testing
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create cache: %v", err)
	}

	return cache, mr
}

func TestNewCache(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	if cache == nil {
		t.Fatal("Cache should not be nil")
	}

	ctx := context.Background()
	if err := cache.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestNewCacheUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	host, port := mr.Host(), mr.Server().Addr().Port
	mr.Close()

	_, err = NewCache(host, port, "", 0)
	assert.Error(t, err)
}

func TestCache_CoverImage(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	page := "https://www.tiktok.com/@chef/video/7234567890123"

	_, found, err := cache.GetCoverImage(ctx, page)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.SetCoverImage(ctx, page, "https://cdn.example.com/cover.jpg", time.Hour))

	image, found, err := cache.GetCoverImage(ctx, page)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://cdn.example.com/cover.jpg", image)

	mr.FastForward(2 * time.Hour)

	_, found, err = cache.GetCoverImage(ctx, page)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Duration(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	_, found, err := cache.GetDuration(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.SetDuration(ctx, "dQw4w9WgXcQ", 213, time.Hour))

	seconds, found, err := cache.GetDuration(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 213, seconds)
}

func TestCache_Stats(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	value, err := cache.GetStat(ctx, "recipes_total")
	require.NoError(t, err)
	assert.Equal(t, int64(0), value)

	for i := 0; i < 3; i++ {
		require.NoError(t, cache.IncrementStat(ctx, "recipes_total"))
	}

	value, err = cache.GetStat(ctx, "recipes_total")
	require.NoError(t, err)
	assert.Equal(t, int64(3), value)
}

func TestCache_Breakdown(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	empty, err := cache.GetBreakdown(ctx, "by_platform")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, cache.IncrementBreakdown(ctx, "by_platform", "youtube"))
	require.NoError(t, cache.IncrementBreakdown(ctx, "by_platform", "youtube"))
	require.NoError(t, cache.IncrementBreakdown(ctx, "by_platform", "tiktok"))

	breakdown, err := cache.GetBreakdown(ctx, "by_platform")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"youtube": 2, "tiktok": 1}, breakdown)
}

func TestCache_MarkProcessed(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	first, err := cache.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := cache.MarkProcessed(ctx, "evt-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, again)
}
