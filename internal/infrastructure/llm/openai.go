// Package llm implements the generation-backend port on top of
// OpenAI-compatible chat completion APIs.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"AgendaScanner/internal/config"
	"AgendaScanner/internal/ports"
)

// OpenAIClient implements ports.GenerationClient.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

var _ ports.GenerationClient = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.OpenAIConfig, logger *slog.Logger) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger,
	}
}

// Complete issues one chat completion and returns the trimmed text.
func (c *OpenAIClient) Complete(ctx context.Context, req ports.GenerationRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Reachable probes the backend with a minimal completion.
func (c *OpenAIClient) Reachable(ctx context.Context) bool {
	_, err := c.Complete(ctx, ports.GenerationRequest{
		UserPrompt: "Hello, this is a connectivity test.",
		MaxTokens:  10,
	})
	if err != nil && c.logger != nil {
		c.logger.Warn("generation backend unreachable", "error", err)
	}
	return err == nil
}
