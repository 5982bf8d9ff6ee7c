package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides caching functionality using Redis
type Cache struct {
	client *redis.Client
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Reference Metadata Operations

func coverKey(pageURL string) string {
	sum := sha1.Sum([]byte(pageURL))
	return "cover:" + hex.EncodeToString(sum[:])
}

// SetCoverImage caches the cover image resolved for a reference page
func (c *Cache) SetCoverImage(ctx context.Context, pageURL, imageURL string, ttl time.Duration) error {
	return c.client.Set(ctx, coverKey(pageURL), imageURL, ttl).Err()
}

// GetCoverImage returns the cached cover image for a reference page
func (c *Cache) GetCoverImage(ctx context.Context, pageURL string) (string, bool, error) {
	imageURL, err := c.client.Get(ctx, coverKey(pageURL)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil // Cache miss
		}
		return "", false, fmt.Errorf("failed to get cover image from cache: %w", err)
	}
	return imageURL, true, nil
}

// SetDuration caches a looked-up video duration in seconds
func (c *Cache) SetDuration(ctx context.Context, videoID string, seconds int, ttl time.Duration) error {
	key := fmt.Sprintf("duration:%s", videoID)
	return c.client.Set(ctx, key, seconds, ttl).Err()
}

// GetDuration returns a cached video duration
func (c *Cache) GetDuration(ctx context.Context, videoID string) (int, bool, error) {
	key := fmt.Sprintf("duration:%s", videoID)
	seconds, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil // Cache miss
		}
		return 0, false, fmt.Errorf("failed to get duration from cache: %w", err)
	}
	return seconds, true, nil
}

// Stats Cache Operations

// IncrementStat increments a statistic counter
func (c *Cache) IncrementStat(ctx context.Context, stat string) error {
	key := fmt.Sprintf("stats:%s", stat)
	return c.client.Incr(ctx, key).Err()
}

// GetStat retrieves a statistic value. A missing counter reads as zero.
func (c *Cache) GetStat(ctx context.Context, stat string) (int64, error) {
	key := fmt.Sprintf("stats:%s", stat)
	value, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return value, err
}

// IncrementBreakdown increments one field of a named counter hash
func (c *Cache) IncrementBreakdown(ctx context.Context, name, field string) error {
	key := fmt.Sprintf("stats:%s", name)
	return c.client.HIncrBy(ctx, key, field, 1).Err()
}

// GetBreakdown returns every field of a named counter hash
func (c *Cache) GetBreakdown(ctx context.Context, name string) (map[string]int64, error) {
	key := fmt.Sprintf("stats:%s", name)
	raw, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s breakdown: %w", name, err)
	}

	out := make(map[string]int64, len(raw))
	for field, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid counter %s.%s: %w", name, field, err)
		}
		out[field] = n
	}
	return out, nil
}

// Idempotency Operations

// MarkProcessed records that an event was handled. It returns false when the
// event had already been marked.
func (c *Cache) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("processed:%s", eventID)
	return c.client.SetNX(ctx, key, "1", ttl).Result()
}

// Health check
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
