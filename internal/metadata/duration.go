package metadata

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metrics"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// DurationSource looks up the true length of a video in whole seconds
type DurationSource interface {
	Duration(ctx context.Context, videoID string) (int, error)
}

// YouTubeDurations reads contentDetails.duration from the YouTube Data API
type YouTubeDurations struct {
	service *youtube.Service
}

// NewYouTubeDurations creates a Data API client authenticated by API key.
// Extra options are appended, which lets tests point it at a fake endpoint.
func NewYouTubeDurations(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeDurations, error) {
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &YouTubeDurations{service: service}, nil
}

// Duration implements DurationSource
func (y *YouTubeDurations) Duration(ctx context.Context, videoID string) (int, error) {
	resp, err := y.service.Videos.List([]string{"contentDetails"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("youtube video lookup for %s: %v: %w", videoID, err, apperr.ErrInvalidReference)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil {
		return 0, fmt.Errorf("youtube video %s not found: %w", videoID, apperr.ErrInvalidReference)
	}

	seconds, err := ParseISODuration(resp.Items[0].ContentDetails.Duration)
	if err != nil {
		return 0, fmt.Errorf("youtube video %s: %v: %w", videoID, err, apperr.ErrInvalidReference)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("youtube video %s has no duration: %w", videoID, apperr.ErrInvalidReference)
	}
	return seconds, nil
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)(?:\.\d+)?S)?)?$`)

// ParseISODuration converts an ISO 8601 duration such as PT1M5S into whole
// seconds. Fractional seconds are truncated.
func ParseISODuration(s string) (int, error) {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", s)
	}

	units := []int{7 * 24 * 3600, 24 * 3600, 3600, 60, 1}
	total := 0
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("invalid ISO 8601 duration %q: %w", s, err)
		}
		total += n * unit
	}
	return total, nil
}

// DurationCache is the storage used by CachedDurations
type DurationCache interface {
	GetDuration(ctx context.Context, videoID string) (int, bool, error)
	SetDuration(ctx context.Context, videoID string, seconds int, ttl time.Duration) error
}

type cachedDurations struct {
	next  DurationSource
	cache DurationCache
	ttl   time.Duration
}

// CachedDurations memoizes successful lookups. Cache errors fall through to
// the source.
func CachedDurations(next DurationSource, cache DurationCache, ttl time.Duration) DurationSource {
	return &cachedDurations{next: next, cache: cache, ttl: ttl}
}

func (c *cachedDurations) Duration(ctx context.Context, videoID string) (int, error) {
	if seconds, found, err := c.cache.GetDuration(ctx, videoID); err == nil && found {
		metrics.RecordCacheAccess("duration", true)
		return seconds, nil
	}
	metrics.RecordCacheAccess("duration", false)

	seconds, err := c.next.Duration(ctx, videoID)
	if err != nil {
		return 0, err
	}
	_ = c.cache.SetDuration(ctx, videoID, seconds, c.ttl)
	return seconds, nil
}
