// Package chat is the script assistant: a conversational rewrite helper
// grounded in the scenes of the recipe being edited.
package chat

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/llm"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/logging"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

var (
	// ErrNoMessages is returned for an empty conversation
	ErrNoMessages = fmt.Errorf("Messages are required: %w", apperr.ErrInvalidInput)
	// ErrNotConfigured is returned when no provider is available
	ErrNotConfigured = errors.New("script assistant is not configured")
)

// Options tunes assistant completions
type Options struct {
	Timeout   time.Duration
	MaxTokens int
	Model     string
}

// Assistant answers chat turns through an llm.Provider
type Assistant struct {
	provider llm.Provider
	opts     Options
	logger   *logging.Logger
}

// NewAssistant creates an assistant. A nil provider makes every Reply fail
// with ErrNotConfigured.
func NewAssistant(provider llm.Provider, opts Options, logger *logging.Logger) *Assistant {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	return &Assistant{provider: provider, opts: opts, logger: logger.WithComponent("chat")}
}

// Reply sends the conversation with the scene context and returns the
// assistant's answer. Provider errors are returned as is.
func (a *Assistant) Reply(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	if len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}
	if a.provider == nil {
		return nil, ErrNotConfigured
	}

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	turns := make([]llm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := m.Role
		if role != "assistant" {
			role = "user"
		}
		turns = append(turns, llm.Message{Role: role, Content: m.Content})
	}

	a.logger.Debugf("Chat request: %d messages, %d scenes", len(req.Messages), len(req.Scenes))

	start := time.Now()
	resp, err := a.provider.CompleteText(ctx, llm.CompletionRequest{
		SystemPrompt: SystemPrompt(req.Scenes, req.CurrentScene),
		Messages:     turns,
		MaxTokens:    a.opts.MaxTokens,
		Model:        a.opts.Model,
	})
	a.logger.LogUpstreamCall("chat", a.provider.Name(), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	out := &models.ChatResponse{Message: resp.Text}
	if req.CurrentScene != nil {
		out.SuggestedScript = ParseNumberedScript(resp.Text)
	}
	return out, nil
}

// SceneContext renders one line per scene
func SceneContext(scenes []models.SceneSummary) string {
	if len(scenes) == 0 {
		return "No scenes available."
	}
	lines := make([]string, len(scenes))
	for i, s := range scenes {
		lines[i] = fmt.Sprintf("Scene #%d %q (%s~%s): %s", s.ID, s.Title, s.StartTime, s.EndTime, s.Description)
	}
	return strings.Join(lines, "\n")
}

// SystemPrompt builds the assistant instructions for the given recipe state
func SystemPrompt(scenes []models.SceneSummary, current *models.CurrentScene) string {
	var b strings.Builder

	b.WriteString("You are a Script Assistant for ParrotKit, a tool that helps short-form video creators replicate viral video recipes.\n\n")
	b.WriteString("You help users write and refine scripts for their video scenes. You have context about the current video recipe scenes:\n\n")
	b.WriteString(SceneContext(scenes))

	if current != nil {
		fmt.Fprintf(&b, "\n\nThe user is currently viewing/editing Scene #%d %q.\n", current.ID, current.Title)
		b.WriteString("Current script displayed on screen:\n")
		for i, line := range current.Script {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, line)
		}
		b.WriteString("\nWhen the user asks to modify \"the script\" or \"this script\", they are referring to THIS script above. Provide the full revised script when modifying.")
	}

	b.WriteString("\n\nYour capabilities:\n")
	b.WriteString("- Generate scripts for individual scenes or the entire video\n")
	b.WriteString("- Suggest hooks, transitions and calls to action\n")
	b.WriteString("- Rewrite scripts in a different tone\n")
	b.WriteString("- Suggest camera directions and narration text\n\n")
	b.WriteString("When the user asks to change the script, always output the FULL revised script as a numbered list (1. xxx, 2. xxx) so it can be applied directly.\n")
	b.WriteString("Keep responses concise and actionable. Answer in the language the user writes in.")

	return b.String()
}

var numberedLine = regexp.MustCompile(`^\s*(\d+)[.)]\s+(.+?)\s*$`)

// ParseNumberedScript extracts the lines of the first numbered list in text.
// The list must start at 1 and count up; a gap ends it.
func ParseNumberedScript(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			if len(out) > 0 && strings.TrimSpace(line) != "" {
				break
			}
			continue
		}
		if m[1] != fmt.Sprint(len(out)+1) {
			if len(out) > 0 {
				break
			}
			continue
		}
		out = append(out, strings.Trim(m[2], "*"))
	}
	return out
}
