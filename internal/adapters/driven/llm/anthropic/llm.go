// Package anthropic talks to the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/adapters/driven/llm"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const apiVersion = "2023-06-01"

// Config configures an LLMService. Only APIKey is required.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// LLMService sends chats to /v1/messages.
type LLMService struct {
	api   *llm.Endpoint
	model string
}

// messagesRequest carries system prompts outside the message list; the
// API rejects a "system" role.
type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	System      string            `json:"system,omitempty"`
	Temperature float64           `json:"temperature"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// NewLLMService validates cfg and fills in provider defaults.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic: API key is required", domain.ErrInvalidInput)
	}
	model := cfg.Model
	if model == "" {
		model = domain.DefaultLLMModels()[domain.AIProviderAnthropic]
	}
	header := http.Header{
		"X-Api-Key":         {cfg.APIKey},
		"Anthropic-Version": {apiVersion},
	}
	return &LLMService{
		api:   llm.NewEndpoint(domain.AIProviderAnthropic, cfg.BaseURL, cfg.Timeout, cfg.HTTPClient, header),
		model: model,
	}, nil
}

// toMessagesRequest moves system messages into the system field, joined by
// blank lines. max_tokens is mandatory for this API.
func (s *LLMService) toMessagesRequest(req domain.ChatRequest) messagesRequest {
	out := messagesRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if out.Model == "" {
		out.Model = s.model
	}
	if out.MaxTokens <= 0 {
		out.MaxTokens = domain.DefaultMaxTokens
	}

	var system []string
	for _, m := range req.Messages {
		if m.Role == domain.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		out.Messages = append(out.Messages, messagesMessage{Role: string(m.Role), Content: m.Content})
	}
	out.System = strings.Join(system, "\n\n")
	return out
}

// Chat returns the reply's text blocks concatenated.
func (s *LLMService) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	var resp messagesResponse
	if err := s.api.Post(ctx, "/v1/messages", s.toMessagesRequest(req), &resp, llm.ErrorMessage); err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", errors.New("anthropic: no response content returned")
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

func (s *LLMService) ModelName() string { return s.model }

// Ping lists models to check the key.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Check(ctx, "/v1/models")
}

func (s *LLMService) Close() error { return nil }
