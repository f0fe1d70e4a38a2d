package tutor

import (
	"context"

	"github.com/abhisek/viva/internal/llm"
	"github.com/abhisek/viva/internal/prompt"
)

// Generator produces the reply text for one generation request.
type Generator interface {
	Generate(ctx context.Context, req prompt.Request) (string, error)
}

// GeneratorConfig holds configuration for the LLM generator.
type GeneratorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGeneratorConfig returns sensible defaults.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxTokens:   1024,
		Temperature: 0.7,
	}
}

// LLMGenerator renders requests with the prompt package and sends them to
// an llm.Provider as free text.
type LLMGenerator struct {
	provider llm.Provider
	cfg      GeneratorConfig
}

// NewLLMGenerator creates an LLM-backed Generator.
func NewLLMGenerator(provider llm.Provider, cfg GeneratorConfig) *LLMGenerator {
	return &LLMGenerator{provider: provider, cfg: cfg}
}

// Generate implements Generator.
func (g *LLMGenerator) Generate(ctx context.Context, req prompt.Request) (string, error) {
	rendered, err := prompt.Render(req)
	if err != nil {
		return "", err
	}

	ctx = llm.WithPurpose(ctx, req.Purpose())
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: rendered.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: rendered.User},
		},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
