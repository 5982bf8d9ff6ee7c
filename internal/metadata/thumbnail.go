package metadata

import (
	"encoding/base64"
	"fmt"
	"html"
)

// DefaultThumbnailVariants are the YouTube CDN quality tokens, cycled per scene
var DefaultThumbnailVariants = []string{
	"maxresdefault", "sddefault", "hqdefault", "mqdefault", "1", "2", "3",
}

// YouTubeThumbnailURL addresses the per-video thumbnail CDN
func YouTubeThumbnailURL(videoID, variant string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, variant)
}

// VariantFor picks the variant for a 0-based scene index
func VariantFor(variants []string, index int) string {
	if len(variants) == 0 {
		variants = DefaultThumbnailVariants
	}
	if index < 0 {
		index = 0
	}
	return variants[index%len(variants)]
}

type gradient struct {
	from, to string
}

var placeholderPalette = [6]gradient{
	{"#667eea", "#764ba2"},
	{"#f093fb", "#f5576c"},
	{"#4facfe", "#00f2fe"},
	{"#43e97b", "#38f9d7"},
	{"#fa709a", "#fee140"},
	{"#30cfd0", "#330867"},
}

const placeholderTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="320" height="180" viewBox="0 0 320 180">` +
	`<defs><linearGradient id="g" x1="0%%" y1="0%%" x2="100%%" y2="100%%">` +
	`<stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/>` +
	`</linearGradient></defs>` +
	`<rect width="320" height="180" fill="url(#g)"/>` +
	`<text x="160" y="80" font-family="Arial, sans-serif" font-size="40" font-weight="bold" fill="#ffffff" text-anchor="middle">%d</text>` +
	`<text x="160" y="120" font-family="Arial, sans-serif" font-size="18" fill="#ffffff" text-anchor="middle">%s</text>` +
	`</svg>`

// PlaceholderSVG renders the 320x180 placeholder for a scene. The gradient is
// chosen by index mod palette size.
func PlaceholderSVG(index, sceneID int, title string) string {
	if index < 0 {
		index = 0
	}
	g := placeholderPalette[index%len(placeholderPalette)]
	return fmt.Sprintf(placeholderTemplate, g.from, g.to, sceneID, html.EscapeString(title))
}

// PlaceholderThumbnail returns PlaceholderSVG as a base64 data URI
func PlaceholderThumbnail(index, sceneID int, title string) string {
	svg := PlaceholderSVG(index, sceneID, title)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
