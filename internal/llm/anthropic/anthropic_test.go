package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/llm"
)

type capturedBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type capturedMessage struct {
	Role    string          `json:"role"`
	Content []capturedBlock `json:"content"`
}

type capturedRequest struct {
	Model       string            `json:"model"`
	MaxTokens   int               `json:"max_tokens"`
	System      []capturedBlock   `json:"system"`
	Temperature *float64          `json:"temperature"`
	Messages    []capturedMessage `json:"messages"`
}

func TestCompleteText(t *testing.T) {
	var captured capturedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.NotEmpty(t, r.Header.Get("Anthropic-Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"stop_reason": "end_turn",
			"content": [{"type": "text", "text": "Here you go: {\"a\":1}"}],
			"usage": {"input_tokens": 9, "output_tokens": 4}
		}`))
	}))
	defer server.Close()

	p, err := New(llm.Config{APIKey: "secret", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	resp, err := p.CompleteText(context.Background(), llm.CompletionRequest{
		SystemPrompt: "be brief",
		Messages:     []llm.Message{{Role: "system", Content: "ignored"}, {Role: "assistant", Content: "hi"}},
		Prompt:       "write",
		JSONMode:     true,
		Temperature:  0.3,
	})
	require.NoError(t, err)

	assert.Equal(t, `Here you go: {"a":1}`, resp.Text)
	assert.Equal(t, "end_turn", resp.FinishReason)
	assert.Equal(t, 9, resp.PromptTokens)
	assert.Equal(t, 4, resp.OutputTokens)
	assert.Equal(t, "claude-test", resp.ModelName)
	assert.Equal(t, "anthropic", resp.ProviderName)

	assert.Equal(t, defaultModel, captured.Model)
	assert.Equal(t, defaultMaxTokens, captured.MaxTokens)
	require.Len(t, captured.System, 1)
	assert.Contains(t, captured.System[0].Text, "be brief")
	assert.Contains(t, captured.System[0].Text, "JSON object")
	require.NotNil(t, captured.Temperature)
	assert.InDelta(t, 0.3, *captured.Temperature, 1e-9)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "assistant", captured.Messages[0].Role)
	assert.Equal(t, []capturedBlock{{Type: "text", Text: "hi"}}, captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, []capturedBlock{{Type: "text", Text: "write"}}, captured.Messages[1].Content)
}

func TestCompleteTextErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non-200", http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`},
		{"no text block", http.StatusOK, `{"type":"message","role":"assistant","content":[{"type":"tool_use","id":"t","name":"x","input":{}}]}`},
		{"malformed body", http.StatusOK, `{"content":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p, err := New(llm.Config{APIKey: "secret", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = p.CompleteText(context.Background(), llm.CompletionRequest{Prompt: "x"})
			assert.Error(t, err)
			assert.Equal(t, int32(1), calls.Load(), "no retries")
		})
	}
}

func TestCompleteTextHonorsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	p, err := New(llm.Config{APIKey: "secret", BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = p.CompleteText(context.Background(), llm.CompletionRequest{Prompt: "x"})
	assert.Error(t, err)
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(llm.Config{})
	assert.Error(t, err)
	assert.Contains(t, llm.Providers(), "anthropic")
}
