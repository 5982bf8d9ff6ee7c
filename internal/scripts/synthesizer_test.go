package scripts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/llm"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/segmenter"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

type fakeProvider struct {
	text    string
	err     error
	delay   time.Duration
	calls   int
	lastReq llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Text: f.text}, nil
}

var brief = Brief{Niche: "cooking", Goal: "grow followers"}

func sixSegments(t *testing.T) []segmenter.Segment {
	t.Helper()
	segments, err := segmenter.Split(30, 5)
	require.NoError(t, err)
	require.Len(t, segments, 6)
	return segments
}

func templateScripts(t *testing.T, segments []segmenter.Segment) Result {
	t.Helper()
	return NewSynthesizer(nil, nil, Options{}, nil).Template(segments)
}

func TestSynthesizeTemplateWithoutContext(t *testing.T) {
	provider := &fakeProvider{text: `{"descriptions":["x"]}`}
	s := NewSynthesizer(nil, provider, Options{}, nil)

	segments := sixSegments(t)
	result := s.Synthesize(context.Background(), Brief{Niche: "   "}, segments)

	assert.Equal(t, models.ScriptModeTemplate, result.Mode)
	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, templateScripts(t, segments), result)
}

func TestSynthesizeTemplateWithoutProvider(t *testing.T) {
	s := NewSynthesizer(nil, nil, Options{}, nil)

	result := s.Synthesize(context.Background(), brief, sixSegments(t))
	assert.Equal(t, models.ScriptModeTemplate, result.Mode)
}

func TestSynthesizeFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		timeout  time.Duration
	}{
		{"call error", &fakeProvider{err: errors.New("401 unauthorized")}, 0},
		{"no json", &fakeProvider{text: "Sorry, I can't do that."}, 0},
		{"bad json", &fakeProvider{text: `{"descriptions": [1, 2, 3]}`}, 0},
		{"timeout", &fakeProvider{text: `{"descriptions":["late"]}`, delay: time.Second}, 20 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := sixSegments(t)
			s := NewSynthesizer(nil, tt.provider, Options{Timeout: tt.timeout}, nil)

			result := s.Synthesize(context.Background(), brief, segments)

			assert.Equal(t, 1, tt.provider.calls)
			assert.Equal(t, models.ScriptModeTemplate, result.Mode)
			assert.Equal(t, templateScripts(t, segments).Scenes, result.Scenes)
		})
	}
}

func TestSynthesizeMissingSceneFallsBackPerIndex(t *testing.T) {
	provider := &fakeProvider{text: `Here is the plan:
{"descriptions":["D1","D2","D3","D4","D5","D6"],
 "scripts":{"1":["a1","b1","c1"],"2":["a2","b2","c2"],"3":["a3","b3","c3"],
            "5":["a5","b5","c5"],"6":["a6","b6","c6"]}}`}

	segments := sixSegments(t)
	s := NewSynthesizer(nil, provider, Options{}, nil)
	result := s.Synthesize(context.Background(), brief, segments)
	defaults := templateScripts(t, segments)

	require.Equal(t, models.ScriptModeGenerative, result.Mode)
	require.Len(t, result.Scenes, 6)

	assert.Equal(t, []string{"a1", "b1", "c1"}, result.Scenes[0].Script)
	assert.Equal(t, []string{"a3", "b3", "c3"}, result.Scenes[2].Script)
	assert.Equal(t, defaults.Scenes[3].Script, result.Scenes[3].Script)
	assert.Equal(t, []string{"a6", "b6", "c6"}, result.Scenes[5].Script)
	assert.Equal(t, "D4", result.Scenes[3].Description)
}

func TestMergeToleratesShapeDrift(t *testing.T) {
	segments, err := segmenter.Split(40, 5)
	require.NoError(t, err)
	require.Len(t, segments, 8)

	s := NewSynthesizer(nil, nil, Options{}, nil)
	defaults := s.Template(segments)

	gen := &Generated{
		Descriptions: []string{"only one", "  "},
		Scripts: map[int][]string{
			1: {"one line"},
			2: {"a", "", "c", "d", "e"},
			8: {"x", "y", "z"},
		},
	}

	result := s.Merge(gen, segments)

	for i, scene := range result.Scenes {
		assert.Len(t, scene.Script, LinesPerScript, "scene %d", i+1)
		assert.NotEmpty(t, scene.Description, "scene %d", i+1)
	}

	assert.Equal(t, "only one", result.Scenes[0].Description)
	assert.Equal(t, defaults.Scenes[1].Description, result.Scenes[1].Description)

	assert.Equal(t, []string{"one line", defaults.Scenes[0].Script[1], defaults.Scenes[0].Script[2]}, result.Scenes[0].Script)
	assert.Equal(t, []string{"a", defaults.Scenes[1].Script[1], "c"}, result.Scenes[1].Script)
	assert.Equal(t, []string{"x", "y", "z"}, result.Scenes[7].Script)
	assert.Equal(t, defaults.Scenes[6].Description, result.Scenes[6].Description)
}

func TestTemplateFollowsStageTitles(t *testing.T) {
	segments, err := segmenter.Split(40, 4)
	require.NoError(t, err)
	require.Len(t, segments, 10)

	bank := DefaultBank()
	result := NewSynthesizer(bank, nil, Options{}, nil).Template(segments)

	require.Len(t, result.Scenes, 10)
	for i, seg := range segments {
		assert.Equal(t, segmenter.TenStage.Titles[i], seg.Title)
		assert.Equal(t, bank.Script(seg.Title), result.Scenes[i].Script, "scene %d %s", i+1, seg.Title)
		assert.NotEqual(t, bank.Fallback.Script, result.Scenes[i].Script, "scene %d %s", i+1, seg.Title)
	}

	assert.Equal(t, "Explain why this matters to the viewer", result.Scenes[2].Description)
	assert.Equal(t, "Deliver the key moment", result.Scenes[4].Description)
	assert.Equal(t, "Shift to the next part of the story", result.Scenes[5].Description)
	assert.Equal(t, "Close with a call to action", result.Scenes[9].Description)
	assert.Equal(t, "Try it yourself and tell me how it goes.", result.Scenes[9].Script[0])
}

func TestTemplateSixStageKeepsOutroLast(t *testing.T) {
	result := templateScripts(t, sixSegments(t))

	assert.Equal(t, "Grab attention in the first two seconds", result.Scenes[0].Description)
	assert.Equal(t, "Build curiosity toward the main moment", result.Scenes[2].Description)
	assert.Equal(t, "Close with a call to action", result.Scenes[5].Description)
}

func TestSynthesizePromptCarriesBrief(t *testing.T) {
	provider := &fakeProvider{text: `{"descriptions":["d"]}`}
	s := NewSynthesizer(nil, provider, Options{MaxTokens: 500, Temperature: 0.4, Model: "m"}, nil)

	s.Synthesize(context.Background(), Brief{Niche: "fitness", Goal: "sell a program", Description: "30s workout"}, sixSegments(t))

	req := provider.lastReq
	assert.True(t, req.JSONMode)
	assert.Equal(t, 500, req.MaxTokens)
	assert.Equal(t, "m", req.Model)
	assert.Contains(t, req.Prompt, "Niche: fitness")
	assert.Contains(t, req.Prompt, "Goal: sell a program")
	assert.Contains(t, req.Prompt, "Video description: 30s workout")
	assert.Contains(t, req.Prompt, "1. Hook")
	assert.Contains(t, req.Prompt, "6. Outro")
	assert.Contains(t, req.Prompt, `"scripts":{"1"`)
}
