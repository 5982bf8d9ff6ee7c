// Package scripts produces the per-scene description and three-line acting
// script, from the static bank or from an LLM constrained to a JSON contract.
package scripts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/therealutkarshpriyadarshi/parrotkit/internal/fallback"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/llm"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/logging"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/segmenter"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

// Brief is the creator-supplied context that switches on generative mode
type Brief struct {
	Niche       string
	Goal        string
	Description string
}

// IsEmpty reports whether no context was supplied
func (b Brief) IsEmpty() bool {
	return strings.TrimSpace(b.Niche) == "" &&
		strings.TrimSpace(b.Goal) == "" &&
		strings.TrimSpace(b.Description) == ""
}

// SceneScript is the synthesized content for one scene
type SceneScript struct {
	Description string
	Script      []string
}

// Result holds one SceneScript per requested segment, in order
type Result struct {
	Mode   string
	Scenes []SceneScript
}

// Options configures a Synthesizer
type Options struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
	Model       string
}

// Synthesizer selects between template and generative mode
type Synthesizer struct {
	bank     *Bank
	provider llm.Provider
	opts     Options
	logger   *logging.Logger
}

// NewSynthesizer creates a synthesizer. A nil provider pins it to template
// mode.
func NewSynthesizer(bank *Bank, provider llm.Provider, opts Options, logger *logging.Logger) *Synthesizer {
	if bank == nil {
		bank = DefaultBank()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Synthesizer{
		bank:     bank,
		provider: provider,
		opts:     opts,
		logger:   logger.WithComponent("scripts"),
	}
}

// Synthesize never fails: a failed or malformed generative attempt degrades
// to the template bank.
func (s *Synthesizer) Synthesize(ctx context.Context, brief Brief, segments []segmenter.Segment) Result {
	if s.provider == nil || brief.IsEmpty() {
		return s.Template(segments)
	}

	gen, degraded := fallback.Attempt(ctx, fallback.Op{
		Component: "scripts",
		Timeout:   s.opts.Timeout,
		Logger:    s.logger,
	}, func(ctx context.Context) (*Generated, error) {
		return s.generate(ctx, brief)
	}, (*Generated)(nil))

	if degraded || gen == nil {
		return s.Template(segments)
	}

	return s.Merge(gen, segments)
}

// Template fills every segment from the bank entry for its stage title
func (s *Synthesizer) Template(segments []segmenter.Segment) Result {
	scenes := make([]SceneScript, len(segments))
	for i, seg := range segments {
		scenes[i] = SceneScript{
			Description: s.bank.Description(seg.Title, seg.Description),
			Script:      s.bank.Script(seg.Title),
		}
	}
	return Result{Mode: models.ScriptModeTemplate, Scenes: scenes}
}

// Merge overlays gen on the template defaults position by position. Missing
// or blank entries keep the default, and every script ends up with exactly
// LinesPerScript lines.
func (s *Synthesizer) Merge(gen *Generated, segments []segmenter.Segment) Result {
	result := s.Template(segments)
	result.Mode = models.ScriptModeGenerative

	for i := range result.Scenes {
		if i < len(gen.Descriptions) {
			if d := strings.TrimSpace(gen.Descriptions[i]); d != "" {
				result.Scenes[i].Description = d
			}
		}

		lines := gen.Scripts[i+1]
		for j := 0; j < LinesPerScript && j < len(lines); j++ {
			if line := strings.TrimSpace(lines[j]); line != "" {
				result.Scenes[i].Script[j] = line
			}
		}
	}

	return result
}

func (s *Synthesizer) generate(ctx context.Context, brief Brief) (*Generated, error) {
	resp, err := s.provider.CompleteText(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Prompt:       buildPrompt(brief, s.bank),
		MaxTokens:    s.opts.MaxTokens,
		Temperature:  s.opts.Temperature,
		Model:        s.opts.Model,
		JSONMode:     true,
	})
	if err != nil {
		return nil, err
	}

	return ParseContract(resp.Text)
}

const systemPrompt = "You write short-form video scripts. You answer with one JSON object and no other text."

func buildPrompt(brief Brief, bank *Bank) string {
	var b strings.Builder

	b.WriteString("Write a six-scene short-form video script for this creator.\n\n")
	fmt.Fprintf(&b, "Niche: %s\n", orNone(brief.Niche))
	fmt.Fprintf(&b, "Goal: %s\n", orNone(brief.Goal))
	fmt.Fprintf(&b, "Video description: %s\n\n", orNone(brief.Description))

	b.WriteString("Follow this narrative structure:\n")
	for i, title := range segmenter.SixStage.Titles {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, title, bank.Description(title, segmenter.SixStage.Descriptions[i]))
	}

	b.WriteString("\nFor each scene give a one-line description and exactly three script lines:\n")
	b.WriteString("1) the spoken line, 2) an acting direction in parentheses, 3) a facial expression or gesture note.\n\n")
	b.WriteString("Respond with JSON in exactly this shape:\n")
	b.WriteString(`{"descriptions":["...","...","...","...","...","..."],"scripts":{"1":["...","...","..."],"2":["...","...","..."],"3":["...","...","..."],"4":["...","...","..."],"5":["...","...","..."],"6":["...","...","..."]}}`)
	b.WriteString("\n")

	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not specified)"
	}
	return strings.TrimSpace(s)
}
