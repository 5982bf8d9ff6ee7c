package metadata

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYouTubeThumbnailURL(t *testing.T) {
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", YouTubeThumbnailURL("dQw4w9WgXcQ", "hqdefault"))
}

func TestVariantFor(t *testing.T) {
	variants := []string{"a", "b", "c"}

	assert.Equal(t, "a", VariantFor(variants, 0))
	assert.Equal(t, "c", VariantFor(variants, 2))
	assert.Equal(t, "a", VariantFor(variants, 3))
	assert.Equal(t, "b", VariantFor(variants, 7))
	assert.Equal(t, "maxresdefault", VariantFor(nil, 0))
	assert.Equal(t, "maxresdefault", VariantFor(nil, 7))
}

func TestPlaceholderSVG(t *testing.T) {
	svg := PlaceholderSVG(0, 1, "Hook")

	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, `width="320" height="180"`)
	assert.Contains(t, svg, placeholderPalette[0].from)
	assert.Contains(t, svg, placeholderPalette[0].to)
	assert.Contains(t, svg, ">1</text>")
	assert.Contains(t, svg, ">Hook</text>")
	assert.Contains(t, svg, `x1="0%"`)
}

func TestPlaceholderGradientCycles(t *testing.T) {
	assert.Contains(t, PlaceholderSVG(6, 7, "x"), placeholderPalette[0].from)
	assert.Contains(t, PlaceholderSVG(3, 4, "x"), placeholderPalette[3].from)
	assert.Equal(t, PlaceholderSVG(2, 3, "Peak"), PlaceholderSVG(2, 3, "Peak"))
}

func TestPlaceholderEscapesTitle(t *testing.T) {
	svg := PlaceholderSVG(0, 1, `Tom & "Jerry" <b>`)

	assert.Contains(t, svg, "Tom &amp; &#34;Jerry&#34; &lt;b&gt;")
	assert.NotContains(t, svg, "<b>")
}

func TestPlaceholderThumbnail(t *testing.T) {
	uri := PlaceholderThumbnail(1, 2, "Introduction")

	const prefix = "data:image/svg+xml;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	assert.Equal(t, PlaceholderSVG(1, 2, "Introduction"), string(decoded))
}
