package recipe

import (
	"fmt"

	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/scripts"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/segmenter"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

// Parts is everything the assembler zips together
type Parts struct {
	Ref         models.VideoReference
	Duration    int
	Segments    []segmenter.Segment
	Scripts     scripts.Result
	Thumbnails  []string
	CoverSource string
}

// Assemble builds the recipe from its parts. It makes no decisions beyond
// the video id fallback; mismatched part lengths are a programming error.
func Assemble(p Parts) (*models.Recipe, error) {
	if len(p.Scripts.Scenes) != len(p.Segments) || len(p.Thumbnails) != len(p.Segments) {
		return nil, fmt.Errorf("assembling recipe: %d segments, %d scripts, %d thumbnails: %w",
			len(p.Segments), len(p.Scripts.Scenes), len(p.Thumbnails), apperr.ErrUnexpected)
	}

	videoID := p.Ref.VideoID
	if videoID == "" {
		videoID = models.UnknownVideoID
	}

	scenes := make([]models.Scene, len(p.Segments))
	for i, seg := range p.Segments {
		scenes[i] = models.Scene{
			ID:          seg.ID(),
			Title:       seg.Title,
			StartTime:   seg.StartTime(),
			EndTime:     seg.EndTime(),
			Thumbnail:   p.Thumbnails[i],
			Description: p.Scripts.Scenes[i].Description,
			Script:      p.Scripts.Scenes[i].Script,
			Progress:    0,
		}
	}

	return &models.Recipe{
		URL:           p.Ref.URL,
		VideoID:       videoID,
		Platform:      p.Ref.Platform,
		Title:         Title(p.Ref.Platform),
		TotalDuration: p.Duration,
		Scenes:        scenes,
		ScriptMode:    p.Scripts.Mode,
		CoverSource:   p.CoverSource,
	}, nil
}

// Title is the display title of a recipe
func Title(p models.Platform) string {
	return p.Label() + " Video"
}

// Response converts a recipe into the analyze response body
func Response(r *models.Recipe) models.AnalyzeResponse {
	return models.AnalyzeResponse{
		Success: true,
		VideoID: r.VideoID,
		URL:     r.URL,
		Scenes:  r.Scenes,
		Metadata: models.RecipeMetadata{
			Title:    r.Title,
			Duration: segmenter.FormatTime(r.TotalDuration),
			Platform: r.Platform.Label(),
		},
	}
}
