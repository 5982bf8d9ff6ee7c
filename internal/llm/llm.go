// Package llm is the text-completion seam used by script generation and the
// script assistant. Providers register themselves by name from init.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrUnknownProvider is returned by New for an unregistered name
var ErrUnknownProvider = errors.New("unknown llm provider")

// Message is one turn of a conversation
type Message struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

// CompletionRequest is a single-turn or multi-turn completion request
type CompletionRequest struct {
	Prompt       string    `json:"prompt,omitempty"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Messages     []Message `json:"messages,omitempty"`
	MaxTokens    int       `json:"max_tokens,omitempty"`
	Temperature  float64   `json:"temperature,omitempty"`
	Model        string    `json:"model,omitempty"`
	// JSONMode asks providers that support it for a bare JSON object
	JSONMode bool `json:"json_mode,omitempty"`
}

// Turns returns the conversation, with Prompt appended as the final user turn
func (r CompletionRequest) Turns() []Message {
	turns := make([]Message, 0, len(r.Messages)+1)
	turns = append(turns, r.Messages...)
	if r.Prompt != "" {
		turns = append(turns, Message{Role: "user", Content: r.Prompt})
	}
	return turns
}

// CompletionResponse is the provider-neutral result
type CompletionResponse struct {
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"`
	PromptTokens int    `json:"prompt_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// Provider is implemented by every backend
type Provider interface {
	Name() string
	CompleteText(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Config is handed to a provider factory
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Factory builds a provider from config
type Factory func(cfg Config) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a provider available under name
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New builds the provider registered under name
func New(name string, cfg Config) (Provider, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	return factory(cfg)
}

// Providers returns the registered names in sorted order
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
