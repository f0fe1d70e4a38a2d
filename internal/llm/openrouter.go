package llm

import (
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	openRouterAppTitle       = "Viva"
)

// OpenRouterProvider talks to OpenRouter through its OpenAI-compatible API.
// Model IDs ("vendor/model") are passed through unchanged.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider for cfg.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = defaultOpenRouterBaseURL
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	// OpenRouter attributes traffic to the app named in X-Title.
	config.HTTPClient = &http.Client{
		Transport: appTitleTransport{base: http.DefaultTransport, title: openRouterAppTitle},
	}

	return &OpenRouterProvider{
		OpenAIProvider: newChatCompletionsProvider(ProviderOpenRouter, config, cfg.Model),
	}, nil
}

type appTitleTransport struct {
	base  http.RoundTripper
	title string
}

func (t appTitleTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("X-Title", t.title)
	return t.base.RoundTrip(r)
}
