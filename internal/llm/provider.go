package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is one LLM backend. Implementations make exactly one attempt per
// Generate call; retrying is left to the caller.
type Provider interface {
	// Generate returns the model's reply to req. With req.Schema set the
	// reply is JSON that has been checked against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved model name requests are sent to.
	ModelID() string
}

// Request is a single prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for structured output through the provider's native
	// mechanism. Nil means free text.
	Schema *Schema

	// MaxTokens caps the reply. Zero leaves the provider default.
	MaxTokens int

	// Temperature in [0, 1].
	Temperature float64
}

// Message is one entry of the conversation sent with a Request.
type Message struct {
	Role    Role
	Content string
}

// Role of a Message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema a structured reply must satisfy. Name is also
// the validation cache key, so distinct schemas need distinct names.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a provider reply.
type Response struct {
	// Content is the reply text, or the validated JSON for structured
	// requests.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request as reported by the
	// provider, which may be more specific than ModelID.
	Model string

	StopReason StopReason
}

// StopReason is the provider's finish reason mapped onto a common set.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
	StopRefused   StopReason = "refused"
)

// Text returns Content trimmed, unquoting a reply that is a lone JSON string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	raw := strings.TrimSpace(string(r.Content))
	if !strings.HasPrefix(raw, `"`) {
		return raw
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return raw
	}
	return strings.TrimSpace(s)
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
