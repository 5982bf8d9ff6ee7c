// Package segmenter slices a reference duration into fixed-length scenes and
// names each one after its position in the narrative template.
package segmenter

import (
	"fmt"

	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
)

// Segment is one timed slot of the narrative template
type Segment struct {
	Index       int // 0-based
	Start       int // seconds
	End         int // seconds
	Title       string
	Description string
}

// ID returns the 1-based scene id
func (s Segment) ID() int {
	return s.Index + 1
}

// StartTime returns Start formatted as MM:SS
func (s Segment) StartTime() string {
	return FormatTime(s.Start)
}

// EndTime returns End formatted as MM:SS
func (s Segment) EndTime() string {
	return FormatTime(s.End)
}

// Vocabulary is the ordered list of stage names and one-line summaries
type Vocabulary struct {
	Titles       []string
	Descriptions []string
}

// SixStage is the short-form narrative skeleton
var SixStage = Vocabulary{
	Titles: []string{
		"Hook", "Introduction", "Build Up", "Peak", "Resolution", "Outro",
	},
	Descriptions: []string{
		"Opening hook",
		"Set the scene",
		"Build tension",
		"Peak moment",
		"Wrap up",
		"Final message",
	},
}

// TenStage is the long narrative skeleton
var TenStage = Vocabulary{
	Titles: []string{
		"Hook", "Introduction", "Context", "Build Up", "Peak",
		"Transition", "Development", "Climax", "Resolution", "Outro",
	},
	Descriptions: []string{
		"Opening hook",
		"Set the scene",
		"Provide context",
		"Build tension",
		"Peak moment",
		"Shift focus",
		"Continue story",
		"Main climax",
		"Wrap up",
		"Final message",
	},
}

// VocabularyFor picks the skeleton sized for sceneCount
func VocabularyFor(sceneCount int) Vocabulary {
	if sceneCount <= len(SixStage.Titles) {
		return SixStage
	}
	return TenStage
}

// SceneCount returns ceil(totalDuration / sceneDuration)
func SceneCount(totalDuration, sceneDuration int) int {
	if totalDuration <= 0 || sceneDuration <= 0 {
		return 0
	}
	return (totalDuration + sceneDuration - 1) / sceneDuration
}

// Split partitions totalDuration into scenes of sceneDuration seconds, the
// last one clipped to totalDuration. Titles and descriptions come from the
// vocabulary sized for the resulting count.
func Split(totalDuration, sceneDuration int) ([]Segment, error) {
	return SplitWith(totalDuration, sceneDuration, VocabularyFor(SceneCount(totalDuration, sceneDuration)))
}

// SplitWith is Split with an explicit vocabulary. Positions past the end of
// the vocabulary are named "Scene N".
func SplitWith(totalDuration, sceneDuration int, vocab Vocabulary) ([]Segment, error) {
	if totalDuration <= 0 {
		return nil, fmt.Errorf("total duration must be positive, got %d: %w", totalDuration, apperr.ErrInvalidInput)
	}
	if sceneDuration <= 0 {
		return nil, fmt.Errorf("scene duration must be positive, got %d: %w", sceneDuration, apperr.ErrInvalidInput)
	}

	count := SceneCount(totalDuration, sceneDuration)
	segments := make([]Segment, 0, count)

	for i := 0; i < count; i++ {
		end := (i + 1) * sceneDuration
		if end > totalDuration {
			end = totalDuration
		}

		segments = append(segments, Segment{
			Index:       i,
			Start:       i * sceneDuration,
			End:         end,
			Title:       at(vocab.Titles, i),
			Description: at(vocab.Descriptions, i),
		})
	}

	return segments, nil
}

func at(words []string, i int) string {
	if i < len(words) && words[i] != "" {
		return words[i]
	}
	return fmt.Sprintf("Scene %d", i+1)
}

// FormatTime renders whole seconds as zero-padded MM:SS. Negative input is
// treated as zero.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
