package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return newChatCompletionsProvider(ProviderOpenAI, config, "gpt-4o-mini")
}

type completion struct {
	content      string
	refusal      string
	finishReason string
}

func chatCompletionHandler(c completion) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg := map[string]any{"role": "assistant", "content": c.content}
		if c.refusal != "" {
			msg["refusal"] = c.refusal
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{"index": 0, "message": msg, "finish_reason": c.finishReason},
			},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func errorHandler(status int, errType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": errType, "message": errType},
		})
	}
}

func TestOpenAIProviderGeneratesLesson(t *testing.T) {
	var got openai.ChatCompletionRequest
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		chatCompletionHandler(completion{content: "Gravity is the pull between masses.", finishReason: "stop"})(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a patient tutor.",
		Messages:  []Message{{Role: RoleUser, Content: "Explain gravity."}},
		MaxTokens: 256,
	})
	require.NoError(t, err)

	assert.Equal(t, "Gravity is the pull between masses.", resp.Text())
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}, resp.Usage)
	assert.Equal(t, StopEnd, resp.StopReason)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "Explain gravity.", got.Messages[1].Content)
	assert.Equal(t, 256, got.MaxCompletionTokens)
	assert.Nil(t, got.ResponseFormat)
}

func TestOpenAIProviderResponses(t *testing.T) {
	tests := []struct {
		name     string
		reply    completion
		schema   *Schema
		wantKind ErrorKind
		wantStop StopReason
	}{
		{
			name:     "structured output",
			reply:    completion{content: `{"name":"Ada","age":9}`, finishReason: "stop"},
			schema:   testSchema(),
			wantStop: StopEnd,
		},
		{
			name:     "schema mismatch",
			reply:    completion{content: `{"name":"Ada"}`, finishReason: "stop"},
			schema:   testSchema(),
			wantKind: KindInvalid,
		},
		{
			name:     "truncated structured output",
			reply:    completion{content: `{"name":"Ad`, finishReason: "length"},
			schema:   testSchema(),
			wantKind: KindTruncated,
		},
		{
			name:     "truncated text is kept",
			reply:    completion{content: "Gravity is the pull", finishReason: "length"},
			wantStop: StopMaxTokens,
		},
		{
			name:     "blank text",
			reply:    completion{content: "   ", finishReason: "stop"},
			wantKind: KindInvalid,
		},
		{
			name:     "refusal",
			reply:    completion{refusal: "I can't help with that.", finishReason: "stop"},
			wantKind: KindRefused,
		},
		{
			name:     "content filter",
			reply:    completion{content: "", finishReason: "content_filter"},
			wantKind: KindRefused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, chatCompletionHandler(tt.reply))
			resp, err := p.Generate(context.Background(), Request{
				Messages: []Message{{Role: RoleUser, Content: "x"}},
				Schema:   tt.schema,
			})
			assert.Equal(t, tt.wantKind, KindOf(err), "err = %v", err)
			if tt.wantKind == KindNone {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStop, resp.StopReason)
			}
		})
	}
}

func TestOpenAIProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   ErrorKind
	}{
		{"rate limit", http.StatusTooManyRequests, KindRateLimit},
		{"server error", http.StatusInternalServerError, KindUnavailable},
		{"bad gateway", http.StatusBadGateway, KindUnavailable},
		{"unauthorized", http.StatusUnauthorized, KindUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, errorHandler(tt.status, "boom"))
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 100,
			})
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
			assert.Contains(t, err.Error(), "openai: ")
		})
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-mini"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())

	p, err = NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: "https://llm.example/v1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.ModelID())

	_, err = NewOpenAIProvider(OpenAIConfig{})
	assert.Error(t, err)
}
