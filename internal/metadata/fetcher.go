package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
)

// DefaultUserAgent is a desktop browser string; several platforms serve an
// empty shell to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher reads a page body
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// PageFetcher is an HTTP GET client for reference pages. Redirects are
// followed by the default client policy.
type PageFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewPageFetcher creates a page fetcher
func NewPageFetcher(timeout time.Duration, userAgent string, maxBytes int64) *PageFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	return &PageFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Fetch returns up to maxBytes of the page body. Transport errors and
// non-2xx responses wrap ErrUpstreamUnavailable.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %v: %w", pageURL, err, apperr.ErrUpstreamUnavailable)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("fetching %s: %v: %w", pageURL, err, apperr.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching %s: status %d: %w", pageURL, resp.StatusCode, apperr.ErrUpstreamUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %v: %w", pageURL, err, apperr.ErrUpstreamUnavailable)
	}

	return string(body), nil
}
