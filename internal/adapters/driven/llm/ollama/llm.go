// Package ollama talks to a local Ollama server's /api/chat.
package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/custodia-labs/docchat/internal/adapters/driven/llm"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

// LLMConfig configures an LLMService. Every field is optional.
type LLMConfig struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// LLMService is a non-streaming Ollama chat client.
type LLMService struct {
	api   *llm.Endpoint
	model string
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatOptions are model options; num_predict is Ollama's max tokens.
type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

func NewLLMService(cfg LLMConfig) *LLMService {
	model := cfg.Model
	if model == "" {
		model = domain.DefaultLLMModels()[domain.AIProviderOllama]
	}
	return &LLMService{
		api:   llm.NewEndpoint(domain.AIProviderOllama, cfg.BaseURL, cfg.Timeout, cfg.HTTPClient, nil),
		model: model,
	}
}

// Chat returns the reply message content.
func (s *LLMService) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	body := chatRequest{
		Model:   req.Model,
		Options: chatOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens},
	}
	if body.Model == "" {
		body.Model = s.model
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	var resp chatResponse
	if err := s.api.Post(ctx, "/api/chat", body, &resp, errorText); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// errorText reads Ollama's {"error": "..."} body.
func errorText(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &e)
	return e.Error
}

func (s *LLMService) ModelName() string { return s.model }

// Ping lists local models, which only needs the server to be up.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Check(ctx, "/api/tags")
}

func (s *LLMService) Close() error { return nil }
