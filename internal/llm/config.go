package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// Timeout bounds a single LLM request. Zero disables it. Default: 30s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional. Override for proxies.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-001"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns Gemini, the provider the tutor was first built on,
// with a default model for every provider.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Timeout:    30 * time.Second,
	}
}

// envVars binds VIVA_* variables to string fields of Config.
var envVars = []struct {
	name  string
	field func(*Config) *string
}{
	{"VIVA_LLM_PROVIDER", func(c *Config) *string { return &c.Provider }},
	{"VIVA_GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"VIVA_GEMINI_MODEL", func(c *Config) *string { return &c.Gemini.Model }},
	{"VIVA_GEMINI_BASE_URL", func(c *Config) *string { return &c.Gemini.BaseURL }},
	{"VIVA_OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"VIVA_OPENAI_MODEL", func(c *Config) *string { return &c.OpenAI.Model }},
	{"VIVA_OPENAI_BASE_URL", func(c *Config) *string { return &c.OpenAI.BaseURL }},
	{"VIVA_ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"VIVA_ANTHROPIC_MODEL", func(c *Config) *string { return &c.Anthropic.Model }},
	{"VIVA_OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
	{"VIVA_OPENROUTER_MODEL", func(c *Config) *string { return &c.OpenRouter.Model }},
	{"VIVA_OPENROUTER_BASE_URL", func(c *Config) *string { return &c.OpenRouter.BaseURL }},
}

// ConfigFromEnv builds a Config from VIVA_* environment variables, falling
// back to defaults for unset values. An unparseable VIVA_LLM_TIMEOUT keeps
// the default.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, v := range envVars {
		if s := strings.TrimSpace(os.Getenv(v.name)); s != "" {
			*v.field(&cfg) = s
		}
	}
	if t := os.Getenv("VIVA_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// wellKnownKeys lists the vendors' own key variables in discovery order.
var wellKnownKeys = []struct {
	name     string
	provider string
}{
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// DiscoverConfig returns a default Config for the first provider whose
// well-known key variable is set (Gemini, OpenAI, Anthropic, OpenRouter).
func DiscoverConfig() (Config, bool) {
	for _, k := range wellKnownKeys {
		key := strings.TrimSpace(os.Getenv(k.name))
		if key == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = k.provider
		*cfg.apiKey() = key
		return cfg, true
	}
	return Config{}, false
}

// apiKey points at the key field of the selected provider, or nil for the
// mock and unknown providers.
func (c *Config) apiKey() *string {
	switch c.Provider {
	case ProviderAnthropic:
		return &c.Anthropic.APIKey
	case ProviderOpenAI:
		return &c.OpenAI.APIKey
	case ProviderGemini:
		return &c.Gemini.APIKey
	case ProviderOpenRouter:
		return &c.OpenRouter.APIKey
	}
	return nil
}

// HasKey reports whether the selected provider has an API key configured.
// The mock provider never needs one.
func (c Config) HasKey() bool {
	if c.Provider == ProviderMock {
		return true
	}
	key := c.apiKey()
	return key != nil && *key != ""
}

// Model returns the configured model name of the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case ProviderAnthropic:
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case ProviderOpenAI:
		return resolveModel(c.OpenAI.Model, openaiModels)
	case ProviderGemini:
		return resolveModel(c.Gemini.Model, geminiModels)
	case ProviderOpenRouter:
		return c.OpenRouter.Model
	case ProviderMock:
		return "mock"
	}
	return ""
}

// Validate checks that the provider is known and has its API key set.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	if c.apiKey() == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if !c.HasKey() {
		return fmt.Errorf("VIVA_%s_API_KEY is required for the %s provider",
			strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
