// Package anthropic calls the Anthropic Messages API through the official SDK.
package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/llm"
)

const (
	providerName     = "anthropic"
	defaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 1024
)

func init() {
	llm.Register(providerName, New)
}

// Provider wraps an anthropic.Client
type Provider struct {
	client anthropic.Client
	model  string
}

// New builds a provider from cfg. BaseURL points the client at a proxy or a
// test server when set.
func New(cfg llm.Config) (llm.Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic api key not provided")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Provider{client: anthropic.NewClient(opts...), model: model}, nil
}

// Name returns the registry name
func (p *Provider) Name() string {
	return providerName
}

// CompleteText sends one Messages request. The Messages API has no JSON
// response mode, so JSONMode only adds an instruction to the system prompt.
func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  buildMessages(req),
	}

	system := req.SystemPrompt
	if req.JSONMode {
		system = strings.TrimSpace(system + "\nRespond with a single JSON object and nothing else.")
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("anthropic returned no text content")
	}

	return &llm.CompletionResponse{
		Text:         strings.TrimSpace(text),
		FinishReason: string(message.StopReason),
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
		ModelName:    string(message.Model),
		ProviderName: providerName,
	}, nil
}

// buildMessages drops system turns, which the Messages API only accepts in
// the top-level system field.
func buildMessages(req llm.CompletionRequest) []anthropic.MessageParam {
	turns := req.Turns()
	out := make([]anthropic.MessageParam, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case "system":
			continue
		case "assistant":
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		}
	}
	return out
}
