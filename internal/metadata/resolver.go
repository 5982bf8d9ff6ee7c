// Package metadata resolves what the analyzer needs to know about a
// reference video beyond its URL: a cover image, a per-scene thumbnail and
// the total duration.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/fallback"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/logging"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metrics"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

// CoverCache stores resolved page cover images
type CoverCache interface {
	GetCoverImage(ctx context.Context, pageURL string) (string, bool, error)
	SetCoverImage(ctx context.Context, pageURL, imageURL string, ttl time.Duration) error
}

// Options configures a Resolver
type Options struct {
	FetchTimeout      time.Duration
	LookupTimeout     time.Duration
	CacheTTL          time.Duration
	UseFixedDuration  bool
	FixedDuration     int
	ThumbnailVariants []string
}

// Metadata is what was learned about one reference
type Metadata struct {
	CoverImage  string
	CoverSource string
	Duration    int
}

// Resolver combines page scraping, the thumbnail CDN and duration lookup
type Resolver struct {
	fetcher   Fetcher
	images    MetaImageResolver
	durations DurationSource
	cache     CoverCache
	opts      Options
	logger    *logging.Logger
}

// NewResolver creates a resolver. durations and cache may be nil.
func NewResolver(fetcher Fetcher, images MetaImageResolver, durations DurationSource, cache CoverCache, opts Options, logger *logging.Logger) *Resolver {
	if images == nil {
		images = RegexResolver{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(opts.ThumbnailVariants) == 0 {
		opts.ThumbnailVariants = DefaultThumbnailVariants
	}
	return &Resolver{
		fetcher:   fetcher,
		images:    images,
		durations: durations,
		cache:     cache,
		opts:      opts,
		logger:    logger.WithComponent("metadata"),
	}
}

// Duration applies the configured duration policy
func (r *Resolver) Duration(ctx context.Context, ref models.VideoReference) (int, error) {
	if r.opts.UseFixedDuration || r.durations == nil || !ref.Platform.IsYouTube() {
		return r.opts.FixedDuration, nil
	}

	if !hasVideoID(ref) {
		return 0, fmt.Errorf("no YouTube video id in %q: %w", ref.URL, apperr.ErrInvalidReference)
	}

	lookupCtx := ctx
	if r.opts.LookupTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, r.opts.LookupTimeout)
		defer cancel()
	}

	start := time.Now()
	seconds, err := r.durations.Duration(lookupCtx, ref.VideoID)
	if err != nil && ctx.Err() == nil && errors.Is(lookupCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("youtube duration lookup timed out after %s: %w", r.opts.LookupTimeout, apperr.ErrInvalidReference)
	}
	r.logger.LogUpstreamCall("metadata", "youtube-data-api", time.Since(start), err)
	if err != nil {
		return 0, err
	}
	return seconds, nil
}

// Cover resolves the representative image and where it came from. YouTube
// references never fetch the page; the per-scene CDN thumbnail is used.
func (r *Resolver) Cover(ctx context.Context, ref models.VideoReference) (string, string) {
	if ref.Platform.IsYouTube() {
		if hasVideoID(ref) {
			return "", models.CoverSourceYouTube
		}
		return "", models.CoverSourcePlaceholder
	}
	if ref.CoverImage != "" {
		return ref.CoverImage, models.CoverSourcePage
	}
	if r.fetcher == nil {
		return "", models.CoverSourcePlaceholder
	}

	if r.cache != nil {
		if image, found, err := r.cache.GetCoverImage(ctx, ref.URL); err == nil && found {
			metrics.RecordCacheAccess("cover", true)
			return image, models.CoverSourcePage
		}
		metrics.RecordCacheAccess("cover", false)
	}

	image, _ := fallback.Attempt(ctx, fallback.Op{
		Component: "metadata",
		Timeout:   r.opts.FetchTimeout,
		Logger:    r.logger,
	}, func(ctx context.Context) (string, error) {
		return r.scrape(ctx, ref)
	}, "")

	if image == "" {
		return "", models.CoverSourcePlaceholder
	}

	if r.cache != nil {
		if err := r.cache.SetCoverImage(ctx, ref.URL, image, r.opts.CacheTTL); err != nil {
			r.logger.WithError(err).Warn("Failed to cache cover image")
		}
	}
	return image, models.CoverSourcePage
}

// scrape returns "" with a nil error when the page has no image tag
func (r *Resolver) scrape(ctx context.Context, ref models.VideoReference) (string, error) {
	start := time.Now()
	page, err := r.fetcher.Fetch(ctx, ref.URL)
	if err != nil {
		metrics.RecordMetadataFetch(string(ref.Platform), "error", time.Since(start).Seconds())
		return "", err
	}

	image, ok := r.images.FindImage(page)
	result := "found"
	if !ok {
		result = "not_found"
	}
	metrics.RecordMetadataFetch(string(ref.Platform), result, time.Since(start).Seconds())

	return image, nil
}

// Thumbnail returns the URI shown for the scene at index
func (r *Resolver) Thumbnail(ref models.VideoReference, md Metadata, index, sceneID int, title string) string {
	if ref.Platform.IsYouTube() && hasVideoID(ref) {
		return YouTubeThumbnailURL(ref.VideoID, VariantFor(r.opts.ThumbnailVariants, index))
	}
	if md.CoverImage != "" {
		return md.CoverImage
	}
	return PlaceholderThumbnail(index, sceneID, title)
}

func hasVideoID(ref models.VideoReference) bool {
	return ref.VideoID != "" && ref.VideoID != models.UnknownVideoID
}
