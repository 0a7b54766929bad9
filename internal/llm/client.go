// Package llm provides the chat client abstraction over LLM providers.
// The interview engine treats the model as a stateless collaborator: every
// call carries a freshly composed instruction plus the full transcript.
package llm

import (
	"context"
	"fmt"
)

// Role tags a chat message as coming from the candidate or the interviewer.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation history sent with each request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Client is an abstraction over LLM providers.
type Client interface {
	// Chat sends the system instruction and the full message history and
	// returns the model's reply text. An empty reply is a valid success;
	// failures are reported as errors.
	Chat(ctx context.Context, instruction string, messages []Message) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// Provider identifies a supported LLM backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// Config selects the provider and model.
type Config struct {
	Provider Provider
	APIKey   string
	Model    string // empty uses the provider default
}

// NewClient creates a chat client for the configured provider.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg.APIKey, cfg.Model)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
