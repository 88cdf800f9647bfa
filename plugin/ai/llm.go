// Package ai provides the completion service collaborator: an
// OpenAI-compatible chat completion client plus the two JSON contracts the
// scheduling engine consumes (request extraction and slot ranking).
//
// Every failure here is soft. Callers fall back to deterministic defaults.
package ai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionConfig configures the completion backend.
type CompletionConfig struct {
	// BaseURL points at any OpenAI-compatible endpoint (vLLM, ollama, openai).
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// CompletionService performs synchronous prompt completion.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type completionService struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// NewCompletionService creates a CompletionService over the configured backend.
func NewCompletionService(cfg *CompletionConfig) (CompletionService, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("completion model is required")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &completionService{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}, nil
}

func (s *completionService) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
