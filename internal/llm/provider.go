package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/veracity/internal/model"
)

// Roles for conversation messages
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one prior turn in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is the upstream text-generation collaborator. The checking
// pipeline treats its output as an opaque string.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces the assistant response for message, given the prior
	// turns of the conversation
	Generate(ctx context.Context, history []Message, message string) (string, error)
}

// NewProvider selects a provider from configuration
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "mock", "":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
