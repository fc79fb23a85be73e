package llm

import (
	"context"
	"fmt"
)

// MockProvider is a deterministic offline provider for tests and local
// development without an API key
type MockProvider struct {
	// Responses, when set, are returned in order before falling back to
	// the echo response
	Responses []string

	calls int
}

// NewMockProvider creates an echoing mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "mock"
}

// Generate returns the next canned response, or an echo of the message
func (p *MockProvider) Generate(_ context.Context, _ []Message, message string) (string, error) {
	if p.calls < len(p.Responses) {
		resp := p.Responses[p.calls]
		p.calls++
		return resp, nil
	}
	return fmt.Sprintf("No generation backend is configured. You said: %s", message), nil
}
