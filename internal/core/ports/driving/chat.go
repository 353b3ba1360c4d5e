package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatService answers questions grounded on PDF content.
type ChatService interface {
	// Prepare ranks and packs the documents' chunks for message and
	// assembles the model request without calling the model.
	Prepare(ctx context.Context, paths []string, history []domain.ConversationTurn, message string) (*domain.PreparedTurn, error)

	// Send prepares a turn and calls the model once. A model failure is
	// reported in the reply, not as an error.
	Send(ctx context.Context, paths []string, history []domain.ConversationTurn, message string) (*domain.ChatReply, error)

	// Ask answers a single question about one document.
	Ask(ctx context.Context, path, question string) (*domain.ChatReply, error)

	// Summarise produces a summary of one document.
	Summarise(ctx context.Context, path string) (*domain.ChatReply, error)
}

// ConversationService manages persisted conversations over documents.
type ConversationService interface {
	// Start creates a conversation over the given documents.
	Start(ctx context.Context, paths []string) (*domain.Conversation, error)

	// Send appends a user message, asks the model and appends its reply.
	Send(ctx context.Context, conversationID, message string) (*domain.ChatReply, error)

	// Get retrieves a conversation by ID.
	Get(ctx context.Context, conversationID string) (*domain.Conversation, error)

	// List returns all conversations, most recently updated first.
	List(ctx context.Context) ([]domain.Conversation, error)

	// Turns returns the full history of a conversation, oldest first.
	Turns(ctx context.Context, conversationID string) ([]domain.ConversationTurn, error)

	// Delete removes a conversation and its history.
	Delete(ctx context.Context, conversationID string) error
}
