// Package recipe turns a reference URL into an assembled Recipe: platform
// and id detection, metadata, segmentation and scripts.
package recipe

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/logging"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metadata"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metrics"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/platform"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/scripts"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/segmenter"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/tracing"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

// ErrURLRequired is returned for an empty or blank URL
var ErrURLRequired = fmt.Errorf("URL is required: %w", apperr.ErrInvalidInput)

// EventPublisher receives recipe.analyzed events
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *models.Event) error
}

// Analyzer runs one analysis per call. It holds no per-request state.
type Analyzer struct {
	resolver      *metadata.Resolver
	synthesizer   *scripts.Synthesizer
	publisher     EventPublisher
	sceneDuration int
	logger        *logging.Logger
}

// NewAnalyzer creates an analyzer. publisher may be nil.
func NewAnalyzer(resolver *metadata.Resolver, synthesizer *scripts.Synthesizer, publisher EventPublisher, sceneDuration int, logger *logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Analyzer{
		resolver:      resolver,
		synthesizer:   synthesizer,
		publisher:     publisher,
		sceneDuration: sceneDuration,
		logger:        logger.WithComponent("analyzer"),
	}
}

// Analyze returns a complete recipe or an error, never a partial recipe.
// Metadata fetch and script generation run concurrently and degrade in place.
func (a *Analyzer) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.Recipe, error) {
	start := time.Now()

	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		return nil, ErrURLRequired
	}

	span, ctx := tracing.StartSpan(ctx, "recipe.analyze")
	defer tracing.FinishSpan(span)

	p := platform.Detect(rawURL)
	ref := models.VideoReference{
		URL:      rawURL,
		Platform: p,
		VideoID:  platform.ResolveVideoID(p, rawURL),
	}
	tracing.SetTag(span, "platform", string(p))
	tracing.SetTag(span, "video_id", ref.VideoID)

	duration, err := a.resolver.Duration(ctx, ref)
	if err != nil {
		tracing.LogError(span, err)
		return nil, err
	}

	segments, err := segmenter.Split(duration, a.sceneDuration)
	if err != nil {
		tracing.LogError(span, err)
		return nil, err
	}

	brief := scripts.Brief{Niche: req.Niche, Goal: req.Goal, Description: req.Description}

	var (
		wg          sync.WaitGroup
		coverImage  string
		coverSource string
		result      scripts.Result
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		s, ctx := tracing.StartSpan(ctx, "metadata.cover")
		defer tracing.FinishSpan(s)
		coverImage, coverSource = a.resolver.Cover(ctx, ref)
	}()
	go func() {
		defer wg.Done()
		s, ctx := tracing.StartSpan(ctx, "scripts.synthesize")
		defer tracing.FinishSpan(s)
		result = a.synthesizer.Synthesize(ctx, brief, segments)
	}()
	wg.Wait()

	// The caller may have gone away while the soft calls degraded.
	if err := ctx.Err(); err != nil {
		tracing.LogError(span, err)
		return nil, err
	}

	ref.CoverImage = coverImage
	md := metadata.Metadata{CoverImage: coverImage, CoverSource: coverSource, Duration: duration}

	thumbnails := make([]string, len(segments))
	for i, seg := range segments {
		thumbnails[i] = a.resolver.Thumbnail(ref, md, i, seg.ID(), seg.Title)
	}

	recipe, err := Assemble(Parts{
		Ref:         ref,
		Duration:    duration,
		Segments:    segments,
		Scripts:     result,
		Thumbnails:  thumbnails,
		CoverSource: coverSource,
	})
	if err != nil {
		tracing.LogError(span, err)
		return nil, err
	}
	recipe.ID = uuid.New().String()

	elapsed := time.Since(start)
	metrics.RecordAnalysis(string(p), recipe.ScriptMode, len(recipe.Scenes), elapsed.Seconds())
	a.logger.LogAnalysis(string(p), recipe.VideoID, len(recipe.Scenes), recipe.ScriptMode, recipe.CoverSource, elapsed)

	a.publish(ctx, recipe)

	return recipe, nil
}

func (a *Analyzer) publish(ctx context.Context, recipe *models.Recipe) {
	if a.publisher == nil {
		return
	}

	event := &models.Event{
		ID:         uuid.New().String(),
		Type:       models.EventRecipeAnalyzed,
		OccurredAt: time.Now().UTC(),
		Recipe: &models.RecipeEvent{
			RecipeID:    recipe.ID,
			Platform:    recipe.Platform,
			VideoID:     recipe.VideoID,
			SceneCount:  len(recipe.Scenes),
			ScriptMode:  recipe.ScriptMode,
			CoverSource: recipe.CoverSource,
		},
	}

	err := a.publisher.PublishEvent(context.WithoutCancel(ctx), event)
	metrics.RecordEventPublished(event.Type, metrics.StatusLabel(err))
	a.logger.LogEvent(event.ID, event.Type, "published", err)
}
