// Package openai talks to OpenAI-compatible /chat/completions endpoints,
// including hosted routers such as Hugging Face's.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/docchat/internal/adapters/driven/llm"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

// LLMConfig configures an LLMService. Only APIKey is required.
type LLMConfig struct {
	APIKey string

	// BaseURL is everything before /chat/completions.
	BaseURL string

	// Model is used for requests that name none.
	Model string

	Timeout time.Duration

	// HTTPClient overrides the default client, and Timeout with it.
	HTTPClient *http.Client
}

// LLMService is an OpenAI-compatible chat client.
type LLMService struct {
	api   *llm.Endpoint
	model string
}

// chatCompletionRequest always carries temperature; omitting zero would
// let the provider substitute its own default.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature"`
}

type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatCompletionMsg `json:"message"`
		FinishReason string            `json:"finish_reason"`
	} `json:"choices"`
}

// NewLLMService validates cfg and fills in provider defaults.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai: API key is required", domain.ErrInvalidInput)
	}
	model := cfg.Model
	if model == "" {
		model = domain.DefaultLLMModels()[domain.AIProviderOpenAI]
	}
	header := http.Header{"Authorization": {"Bearer " + cfg.APIKey}}

	return &LLMService{
		api:   llm.NewEndpoint(domain.AIProviderOpenAI, cfg.BaseURL, cfg.Timeout, cfg.HTTPClient, header),
		model: model,
	}, nil
}

// Chat returns the content of the first choice.
func (s *LLMService) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	body := chatCompletionRequest{
		Model:       s.modelFor(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, chatCompletionMsg{Role: string(m.Role), Content: m.Content})
	}

	var resp chatCompletionResponse
	if err := s.api.Post(ctx, "/chat/completions", body, &resp, llm.ErrorMessage); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no response choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *LLMService) modelFor(req domain.ChatRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return s.model
}

func (s *LLMService) ModelName() string { return s.model }

// Ping lists models, which checks the key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Check(ctx, "/models")
}

func (s *LLMService) Close() error { return nil }
