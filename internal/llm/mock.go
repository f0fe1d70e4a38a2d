package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
)

// MockResponse is one scripted reply of a MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Stop    StopReason // StopEnd when empty
	Err     error
}

// MockText scripts a free-text reply.
func MockText(text string) MockResponse {
	return MockResponse{Content: json.RawMessage(text)}
}

// MockRefusal scripts a reply the model declined to give.
func MockRefusal(reason string) MockResponse {
	return MockResponse{Err: &ErrRefused{Provider: ProviderMock, Reason: reason}}
}

// MockProvider replays scripted responses in order and records every request.
// Once the script runs out it answers with Fallback, or fails as unavailable
// when Fallback is nil.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockResponse
	Fallback func(Request) MockResponse
	Calls    []Request
}

// NewMockProvider returns a MockProvider that replays responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{script: responses}
}

// NewOfflineProvider returns a MockProvider that needs no network. Free-text
// requests get a short echo of the learner's last message. Structured
// requests fail, so every turn classifies as unknown.
func NewOfflineProvider() *MockProvider {
	return &MockProvider{Fallback: offlineReply}
}

func offlineReply(req Request) MockResponse {
	if req.Schema != nil {
		return MockResponse{Err: &ErrProviderUnavailable{
			Provider: ProviderMock,
			Err:      errors.New("offline mode has no structured output"),
		}}
	}
	var last string
	for _, m := range req.Messages {
		if m.Role == RoleUser {
			last = m.Content
		}
	}
	last = strings.Join(strings.Fields(last), " ")
	if r := []rune(last); len(r) > 160 {
		last = string(r[:160]) + "…"
	}
	return MockText("(offline) " + last)
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var next MockResponse
	switch {
	case len(m.script) > 0:
		next = m.script[0]
		m.script = m.script[1:]
	case m.Fallback != nil:
		next = m.Fallback(req)
	default:
		return nil, &ErrProviderUnavailable{Provider: ProviderMock, Err: errors.New("script exhausted")}
	}
	if next.Err != nil {
		return nil, next.Err
	}

	stop := next.Stop
	if stop == "" {
		stop = StopEnd
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: stop}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends to the script.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or false if none was made.
func (m *MockProvider) LastCall() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
