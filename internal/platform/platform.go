// Package platform classifies reference URLs and pulls platform-native video
// ids out of them.
package platform

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

type rule struct {
	platform models.Platform
	needles  []string
}

// Most specific first: shorts and youtu.be links before generic youtube.com.
var detectionRules = []rule{
	{models.PlatformYouTubeShorts, []string{"youtube.com/shorts", "youtu.be"}},
	{models.PlatformYouTube, []string{"youtube.com"}},
	{models.PlatformInstagram, []string{"instagram.com"}},
	{models.PlatformTikTok, []string{"tiktok.com"}},
}

var (
	youtubePatterns = []*regexp.Regexp{
		regexp.MustCompile(`shorts/([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`watch\?v=([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`),
	}
	instagramPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/(?:reel|p)/([a-zA-Z0-9_-]+)`),
	}
	tiktokPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/video/(\d+)`),
	}

	youtubeSecondary = []*regexp.Regexp{
		regexp.MustCompile(`/(?:embed|live|v)/([a-zA-Z0-9_-]+)`),
	}
	instagramSecondary = []*regexp.Regexp{
		regexp.MustCompile(`/(?:reels|tv)/([a-zA-Z0-9_-]+)`),
	}
	tiktokSecondary = []*regexp.Regexp{
		regexp.MustCompile(`vm\.tiktok\.com/([a-zA-Z0-9]+)`),
		regexp.MustCompile(`/v/(\d+)\.html`),
	}
)

// Detect classifies rawURL into a platform family. It never fails; anything
// unrecognized is PlatformOther.
func Detect(rawURL string) models.Platform {
	lower := strings.ToLower(rawURL)
	for _, r := range detectionRules {
		for _, needle := range r.needles {
			if strings.Contains(lower, needle) {
				return r.platform
			}
		}
	}
	return models.PlatformOther
}

// ExtractVideoID detects the platform of rawURL and returns the first
// capture of its id patterns, or "" when none match.
func ExtractVideoID(rawURL string) string {
	return ExtractVideoIDFor(Detect(rawURL), rawURL)
}

// ExtractVideoIDFor applies the id patterns of p to rawURL
func ExtractVideoIDFor(p models.Platform, rawURL string) string {
	return firstCapture(primaryPatterns(p), rawURL)
}

// SecondaryVideoID recovers an id from URL shapes the primary patterns do
// not cover, or "" when it cannot.
func SecondaryVideoID(p models.Platform, rawURL string) string {
	switch {
	case p.IsYouTube():
		if u, err := url.Parse(rawURL); err == nil {
			if v := u.Query().Get("v"); v != "" {
				return v
			}
		}
		return firstCapture(youtubeSecondary, rawURL)
	case p == models.PlatformInstagram:
		return firstCapture(instagramSecondary, rawURL)
	case p == models.PlatformTikTok:
		return firstCapture(tiktokSecondary, rawURL)
	default:
		return ""
	}
}

// ResolveVideoID walks the full id chain: primary extractor, secondary
// extractor, then models.UnknownVideoID.
func ResolveVideoID(p models.Platform, rawURL string) string {
	if id := ExtractVideoIDFor(p, rawURL); id != "" {
		return id
	}
	if id := SecondaryVideoID(p, rawURL); id != "" {
		return id
	}
	return models.UnknownVideoID
}

func primaryPatterns(p models.Platform) []*regexp.Regexp {
	switch p {
	case models.PlatformYouTube, models.PlatformYouTubeShorts:
		return youtubePatterns
	case models.PlatformInstagram:
		return instagramPatterns
	case models.PlatformTikTok:
		return tiktokPatterns
	default:
		return nil
	}
}

func firstCapture(patterns []*regexp.Regexp, s string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}
