// Package llm forwards a conversation to an upstream provider. Both OpenAI
// and Anthropic are reached through the OpenAI chat completions API; for
// Anthropic that is its OpenAI-compatible endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KpathaK21/CodeWizard/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	AnthropicBaseURL = "https://api.anthropic.com/v1/"

	Temperature        = 0.3
	AnthropicMaxTokens = 4000
)

var (
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")

	// ErrInvalidAPIKey means the provider rejected the key (HTTP 401).
	ErrInvalidAPIKey = errors.New("invalid API key")
)

// Generator produces one assistant reply for a conversation.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, messages []models.Message) (string, error)
}

// ChatClient implements Generator using the Chat Completions API.
type ChatClient struct {
	cli       openai.Client
	provider  string
	model     string
	maxTokens int64
}

// New returns a Generator for provider. Extra options are applied after the
// provider defaults, which lets tests point the client elsewhere.
func New(provider, model, apiKey string, opts ...option.RequestOption) (Generator, error) {
	base := []option.RequestOption{option.WithAPIKey(apiKey)}
	c := &ChatClient{provider: provider, model: model}

	switch provider {
	case models.ProviderOpenAI:
	case models.ProviderAnthropic:
		base = append(base, option.WithBaseURL(AnthropicBaseURL))
		c.maxTokens = AnthropicMaxTokens
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}

	c.cli = openai.NewClient(append(base, opts...)...)
	return c, nil
}

func (c *ChatClient) Generate(ctx context.Context, systemPrompt string, messages []models.Message) (string, error) {
	history := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
	}
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleUser:
			history = append(history, openai.UserMessage(msg.Content))
		case models.RoleAssistant:
			history = append(history, openai.AssistantMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    history,
		Temperature: openai.Float(Temperature),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(c.maxTokens)
	}

	resp, err := c.cli.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == 401 {
			return "", fmt.Errorf("%w for %s", ErrInvalidAPIKey, c.provider)
		}
		return "", fmt.Errorf("error querying %s API: %w", c.provider, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
