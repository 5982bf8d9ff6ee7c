package recipe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/scripts"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/segmenter"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

func buildParts(t *testing.T, ref models.VideoReference) Parts {
	t.Helper()
	segments, err := segmenter.Split(30, 5)
	require.NoError(t, err)

	result := scripts.NewSynthesizer(nil, nil, scripts.Options{}, nil).Template(segments)
	thumbs := make([]string, len(segments))
	for i := range thumbs {
		thumbs[i] = "thumb"
	}

	return Parts{
		Ref:         ref,
		Duration:    30,
		Segments:    segments,
		Scripts:     result,
		Thumbnails:  thumbs,
		CoverSource: models.CoverSourceYouTube,
	}
}

func TestAssemble(t *testing.T) {
	ref := models.VideoReference{URL: "https://youtu.be/abc", Platform: models.PlatformYouTubeShorts, VideoID: "abc"}
	r, err := Assemble(buildParts(t, ref))
	require.NoError(t, err)

	assert.Equal(t, "abc", r.VideoID)
	assert.Equal(t, "YouTube Shorts Video", r.Title)
	assert.Equal(t, 30, r.TotalDuration)
	assert.Equal(t, models.ScriptModeTemplate, r.ScriptMode)
	require.Len(t, r.Scenes, 6)

	for i, s := range r.Scenes {
		assert.Equal(t, i+1, s.ID)
		assert.Equal(t, 0, s.Progress)
		assert.Len(t, s.Script, 3)
		assert.Equal(t, "thumb", s.Thumbnail)
	}
	assert.Equal(t, "00:00", r.Scenes[0].StartTime)
	assert.Equal(t, "00:30", r.Scenes[5].EndTime)
}

func TestAssembleUnknownVideoID(t *testing.T) {
	ref := models.VideoReference{URL: "https://example.com/v", Platform: models.PlatformOther}
	r, err := Assemble(buildParts(t, ref))
	require.NoError(t, err)
	assert.Equal(t, models.UnknownVideoID, r.VideoID)
	assert.Equal(t, "Web Video", r.Title)
}

func TestAssembleLengthMismatch(t *testing.T) {
	p := buildParts(t, models.VideoReference{URL: "u", Platform: models.PlatformOther})
	p.Thumbnails = p.Thumbnails[:2]

	r, err := Assemble(p)
	assert.Nil(t, r)
	assert.True(t, errors.Is(err, apperr.ErrUnexpected))
}

func TestResponse(t *testing.T) {
	ref := models.VideoReference{URL: "https://www.tiktok.com/@u/video/1", Platform: models.PlatformTikTok, VideoID: "1"}
	r, err := Assemble(buildParts(t, ref))
	require.NoError(t, err)

	resp := Response(r)
	assert.True(t, resp.Success)
	assert.Equal(t, "1", resp.VideoID)
	assert.Equal(t, ref.URL, resp.URL)
	assert.Equal(t, "00:30", resp.Metadata.Duration)
	assert.Equal(t, "TikTok", resp.Metadata.Platform)
	assert.Equal(t, "TikTok Video", resp.Metadata.Title)
	assert.Len(t, resp.Scenes, 6)
}
