package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		url  string
		want models.Platform
	}{
		{"https://youtu.be/abc123", models.PlatformYouTubeShorts},
		{"https://www.youtube.com/shorts/XyZ_123", models.PlatformYouTubeShorts},
		{"https://youtube.com/watch?v=abc", models.PlatformYouTube},
		{"https://WWW.YOUTUBE.COM/watch?v=abc", models.PlatformYouTube},
		{"https://www.instagram.com/reel/Cx1_ab/", models.PlatformInstagram},
		{"https://tiktok.com/@u/video/123", models.PlatformTikTok},
		{"https://vimeo.com/12345", models.PlatformOther},
		{"", models.PlatformOther},
		{"not a url", models.PlatformOther},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.url))
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/shorts/XyZ_123", "XyZ_123"},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.instagram.com/reel/Cx1_ab-9/", "Cx1_ab-9"},
		{"https://www.instagram.com/p/Bq2Zz/", "Bq2Zz"},
		{"https://www.tiktok.com/@user/video/7234567890123", "7234567890123"},
		{"https://www.tiktok.com/@user", ""},
		{"https://youtube.com/channel/UC123", ""},
		{"https://example.com/shorts/abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVideoID(tt.url))
		})
	}
}

func TestResolveVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"primary wins", "https://youtube.com/watch?v=abc", "abc"},
		{"youtube query param not first", "https://www.youtube.com/watch?feature=share&v=Q1w2", "Q1w2"},
		{"youtube embed", "https://www.youtube.com/embed/E9b_x", "E9b_x"},
		{"instagram reels plural", "https://www.instagram.com/reels/Rr77/", "Rr77"},
		{"tiktok short link", "https://vm.tiktok.com/ZMabc123/", "ZMabc123"},
		{"unknown platform", "https://example.com/watch/1", models.UnknownVideoID},
		{"no id at all", "https://www.tiktok.com/@someone", models.UnknownVideoID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveVideoID(Detect(tt.url), tt.url))
		})
	}
}

func TestPlatformLabel(t *testing.T) {
	assert.Equal(t, "YouTube Shorts", models.PlatformYouTubeShorts.Label())
	assert.Equal(t, "TikTok", models.PlatformTikTok.Label())
	assert.Equal(t, "Web", models.PlatformOther.Label())
	assert.Equal(t, "Web", models.Platform("bogus").Label())
}
