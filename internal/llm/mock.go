package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays canned responses in order and records every
// request. Config provider "mock" uses it so the tutor panel can be
// exercised offline.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	fallback  json.RawMessage
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// offlineExplanation is what provider "mock" answers with, so the tutor
// panel can be tried without an API key.
const offlineExplanation = `{"explanation":"This is the offline tutor. Configure an LLM provider to get a real explanation of this answer.","tip":"Run englifish llm status to check the setup."}`

// NewOfflineProvider returns a mock that answers every request with a
// fixed explanation.
func NewOfflineProvider() *MockProvider {
	return &MockProvider{fallback: json.RawMessage(offlineExplanation)}
}

// Generate pops the next canned response. An empty queue reads as an
// outage unless the mock has a fallback reply.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		if m.fallback == nil {
			return nil, &ErrProviderUnavailable{}
		}
		return finish(req, m.fallback, Usage{}, "mock", StopEnd)
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: StopEnd,
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
