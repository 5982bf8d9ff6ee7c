// Package openai talks to any OpenAI-compatible chat completion endpoint
// through the official SDK.
package openai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/llm"
)

const (
	providerName = "openai"
	defaultModel = "gpt-4o-mini"
)

func init() {
	llm.Register(providerName, New)
}

// Provider wraps an openai.Client
type Provider struct {
	client openai.Client
	model  string
}

// New builds a provider from cfg. BaseURL points the client at a compatible
// gateway when set.
func New(cfg llm.Config) (llm.Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key not provided")
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

	return &Provider{client: openai.NewClient(opts...), model: model}, nil
}

// Name returns the registry name
func (p *Provider) Name() string {
	return providerName
}

// CompleteText sends the request as one chat completion
func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	params := openai.ChatCompletionNewParams{
		Messages: buildMessages(req),
		Model:    model,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, errors.New("openai returned empty content")
	}

	return &llm.CompletionResponse{
		Text:         text,
		FinishReason: string(resp.Choices[0].FinishReason),
		PromptTokens: int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		ModelName:    resp.Model,
		ProviderName: providerName,
	}, nil
}

func buildMessages(req llm.CompletionRequest) []openai.ChatCompletionMessageParamUnion {
	turns := req.Turns()
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)

	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	for _, turn := range turns {
		switch turn.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(turn.Content))
		case "system":
			messages = append(messages, openai.SystemMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}

	return messages
}
