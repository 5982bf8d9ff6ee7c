package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

type fakeFetcher struct {
	page  string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.page, f.err
}

type memoryCovers struct {
	values map[string]string
}

func (m *memoryCovers) GetCoverImage(ctx context.Context, pageURL string) (string, bool, error) {
	v, ok := m.values[pageURL]
	return v, ok, nil
}

func (m *memoryCovers) SetCoverImage(ctx context.Context, pageURL, imageURL string, ttl time.Duration) error {
	m.values[pageURL] = imageURL
	return nil
}

var (
	tiktokRef  = models.VideoReference{URL: "https://www.tiktok.com/@u/video/123", Platform: models.PlatformTikTok, VideoID: "123"}
	youtubeRef = models.VideoReference{URL: "https://youtu.be/dQw4w9WgXcQ", Platform: models.PlatformYouTubeShorts, VideoID: "dQw4w9WgXcQ"}
)

func defaultOptions() Options {
	return Options{FetchTimeout: time.Second, CacheTTL: time.Hour, UseFixedDuration: true, FixedDuration: 30}
}

func TestCoverFromPage(t *testing.T) {
	fetcher := &fakeFetcher{page: `<meta property="og:image" content="https://cdn.tiktok.com/cover.jpg">`}
	covers := &memoryCovers{values: map[string]string{}}
	r := NewResolver(fetcher, nil, nil, covers, defaultOptions(), nil)

	image, source := r.Cover(context.Background(), tiktokRef)
	assert.Equal(t, "https://cdn.tiktok.com/cover.jpg", image)
	assert.Equal(t, models.CoverSourcePage, source)

	image, _ = r.Cover(context.Background(), tiktokRef)
	assert.Equal(t, "https://cdn.tiktok.com/cover.jpg", image)
	assert.Equal(t, 1, fetcher.calls, "second lookup served from cache")
}

func TestCoverSoftFailures(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *fakeFetcher
		timeout time.Duration
	}{
		{"network error", &fakeFetcher{err: fmt.Errorf("dial: %w", apperr.ErrUpstreamUnavailable)}, time.Second},
		{"no meta tag", &fakeFetcher{page: "<html></html>"}, time.Second},
		{"timeout", &fakeFetcher{page: `<meta property="og:image" content="late.jpg">`, delay: time.Second}, 20 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			opts.FetchTimeout = tt.timeout
			covers := &memoryCovers{values: map[string]string{}}
			r := NewResolver(tt.fetcher, RegexResolver{}, nil, covers, opts, nil)

			image, source := r.Cover(context.Background(), tiktokRef)
			assert.Empty(t, image)
			assert.Equal(t, models.CoverSourcePlaceholder, source)
			assert.Empty(t, covers.values)
		})
	}
}

func TestCoverYouTubeSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{page: `<meta property="og:image" content="x.jpg">`}
	r := NewResolver(fetcher, nil, nil, nil, defaultOptions(), nil)

	image, source := r.Cover(context.Background(), youtubeRef)
	assert.Empty(t, image)
	assert.Equal(t, models.CoverSourceYouTube, source)
	assert.Equal(t, 0, fetcher.calls)
}

func TestCoverSuppliedIsNotRefetched(t *testing.T) {
	fetcher := &fakeFetcher{}
	r := NewResolver(fetcher, nil, nil, nil, defaultOptions(), nil)

	ref := tiktokRef
	ref.CoverImage = "https://given.example.com/c.jpg"

	image, source := r.Cover(context.Background(), ref)
	assert.Equal(t, "https://given.example.com/c.jpg", image)
	assert.Equal(t, models.CoverSourcePage, source)
	assert.Equal(t, 0, fetcher.calls)
}

func TestThumbnail(t *testing.T) {
	r := NewResolver(nil, nil, nil, nil, Options{ThumbnailVariants: []string{"maxresdefault", "hqdefault"}}, nil)

	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", r.Thumbnail(youtubeRef, Metadata{}, 0, 1, "Hook"))
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", r.Thumbnail(youtubeRef, Metadata{}, 1, 2, "Introduction"))
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", r.Thumbnail(youtubeRef, Metadata{}, 2, 3, "Build Up"))

	assert.Equal(t, "cover.jpg", r.Thumbnail(tiktokRef, Metadata{CoverImage: "cover.jpg"}, 3, 4, "Peak"))

	placeholder := r.Thumbnail(tiktokRef, Metadata{}, 3, 4, "Peak")
	assert.True(t, strings.HasPrefix(placeholder, "data:image/svg+xml;base64,"))
	assert.Equal(t, PlaceholderThumbnail(3, 4, "Peak"), placeholder)

	unknown := youtubeRef
	unknown.VideoID = models.UnknownVideoID
	assert.Equal(t, PlaceholderThumbnail(0, 1, "Hook"), r.Thumbnail(unknown, Metadata{}, 0, 1, "Hook"))
}

type slowSource struct{}

func (slowSource) Duration(ctx context.Context, videoID string) (int, error) {
	select {
	case <-time.After(time.Second):
		return 47, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func TestDurationLookupTimeout(t *testing.T) {
	opts := defaultOptions()
	opts.UseFixedDuration = false
	opts.LookupTimeout = 20 * time.Millisecond

	r := NewResolver(nil, nil, slowSource{}, nil, opts, nil)

	start := time.Now()
	_, err := r.Duration(context.Background(), youtubeRef)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidReference))
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestDurationCallerCancelIsNotInvalidReference(t *testing.T) {
	opts := defaultOptions()
	opts.UseFixedDuration = false
	opts.LookupTimeout = time.Second

	r := NewResolver(nil, nil, slowSource{}, nil, opts, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Duration(ctx, youtubeRef)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, apperr.ErrInvalidReference))
}

func TestDurationPolicy(t *testing.T) {
	lookup := &countingSource{seconds: 47}

	tests := []struct {
		name     string
		fixed    bool
		source   DurationSource
		ref      models.VideoReference
		want     int
		wantErr  error
		wantCall bool
	}{
		{"fixed mode", true, lookup, youtubeRef, 30, nil, false},
		{"lookup for youtube", false, lookup, youtubeRef, 47, nil, true},
		{"no lookup for tiktok", false, lookup, tiktokRef, 30, nil, false},
		{"no source configured", false, nil, youtubeRef, 30, nil, false},
		{"unknown id", false, lookup, models.VideoReference{URL: "https://youtube.com/channel/x", Platform: models.PlatformYouTube, VideoID: models.UnknownVideoID}, 0, apperr.ErrInvalidReference, false},
		{"lookup failure", false, &countingSource{err: fmt.Errorf("gone: %w", apperr.ErrInvalidReference)}, youtubeRef, 0, apperr.ErrInvalidReference, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup.calls = 0
			opts := defaultOptions()
			opts.UseFixedDuration = tt.fixed

			r := NewResolver(nil, nil, tt.source, nil, opts, nil)
			got, err := r.Duration(context.Background(), tt.ref)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCall, lookup.calls == 1)
		})
	}
}
