package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	anthropicMaxTokens    = 1024
)

// AnthropicClient implements Client using the Anthropic Messages API.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

// NewAnthropicClient creates a client for the Anthropic API.
func NewAnthropicClient(apiKey, model string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicClient{
		client: anthropic.NewClient(anthropicoption.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Chat sends the instruction and history and returns the reply text.
func (c *AnthropicClient) Chat(ctx context.Context, instruction string, messages []Message) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  buildAnthropicMessages(messages),
	}
	if instruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: instruction}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic chat failed: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	// No text block in the response; ask the candidate to repeat rather
	// than surfacing a provider-level error.
	return "Could you please repeat that?", nil
}

// Close is a no-op; the Anthropic client holds no long-lived resources.
func (c *AnthropicClient) Close() error { return nil }

func buildAnthropicMessages(msgs []Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(msgs))
	for _, msg := range msgs {
		block := anthropic.NewTextBlock(msg.Content)
		switch msg.Role {
		case RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(block))
		default:
			params = append(params, anthropic.NewUserMessage(block))
		}
	}
	return params
}
