// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// LLMService sends grounded chat requests to a language model.
//
// Implementations may include:
//   - OpenAI-compatible endpoints (Hugging Face router, OpenAI, LM Studio)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Chat sends the request and returns the model's reply text.
	// The request's Model overrides the service default when set.
	Chat(ctx context.Context, req domain.ChatRequest) (string, error)

	// ModelName returns the name of the default model.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// TokenCounter estimates how many model tokens a text occupies.
type TokenCounter interface {
	// Count returns the token count of text.
	Count(text string) int
}
