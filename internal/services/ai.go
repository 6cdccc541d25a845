package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"study-buddy/internal/config"
)

// Backend turns a prompt into raw model text. Implementations must honour ctx.
type Backend interface {
	Name() string
	Complete(ctx context.Context, instructions, input string) (string, error)
}

// OpenAIBackend calls an OpenAI-compatible chat completion endpoint.
type OpenAIBackend struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIBackend returns nil when no API key is configured so callers fall
// back to the deterministic generator.
func NewOpenAIBackend(cfg config.Config) Backend {
	if cfg.OpenAIKey == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIEndpoint != "" {
		clientCfg.BaseURL = cfg.OpenAIEndpoint
	}
	return &OpenAIBackend{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.OpenAIModel,
		timeout: cfg.OpenAITimeout,
	}
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) Complete(ctx context.Context, instructions, input string) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instructions},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("request chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
