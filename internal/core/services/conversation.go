package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure ConversationService implements the interface.
var _ driving.ConversationService = (*ConversationService)(nil)

// ConversationService keeps conversations over a fixed set of documents.
type ConversationService struct {
	store        driven.ConversationStore
	chat         driving.ChatService
	historyLimit int
	now          func() time.Time
}

// NewConversationService creates a new conversation service.
// historyLimit is how many stored turns are read for each new turn;
// zero or less uses domain.DefaultHistoryFetchLimit.
func NewConversationService(store driven.ConversationStore, chat driving.ChatService, historyLimit int) *ConversationService {
	if historyLimit <= 0 {
		historyLimit = domain.DefaultHistoryFetchLimit
	}
	return &ConversationService{
		store:        store,
		chat:         chat,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// Start creates a conversation over the given documents.
func (s *ConversationService) Start(ctx context.Context, paths []string) (*domain.Conversation, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoDocuments
	}

	docs := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		docs[i] = abs
	}

	now := s.now()
	conv := &domain.Conversation{
		ID:        uuid.New().String(),
		Title:     domain.DefaultConversationTitle,
		Documents: docs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	logger.Debug("conversations: started %s with %d documents", conv.ID, len(docs))
	return conv, nil
}

// Send answers message within the conversation and records both turns.
//
// History is read before the new message is stored, so the model sees
// the message once. The conversation title is set from the first message.
func (s *ConversationService) Send(ctx context.Context, conversationID, message string) (*domain.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", domain.ErrInvalidInput)
	}

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountTurns(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("count turns: %w", err)
	}

	history, err := s.store.RecentTurns(ctx, conversationID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	reply, err := s.chat.Send(ctx, conv.Documents, history, message)
	if err != nil {
		return nil, err
	}

	if err := s.store.AppendTurn(ctx, conversationID, domain.ConversationTurn{IsUser: true, Content: message}); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	if err := s.store.AppendTurn(ctx, conversationID, domain.ConversationTurn{IsUser: false, Content: reply.Answer}); err != nil {
		return nil, fmt.Errorf("save reply: %w", err)
	}

	if count == 0 {
		conv.Title = domain.ConversationTitle(message)
	}
	conv.UpdatedAt = s.now()
	if err := s.store.SaveConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}

	return reply, nil
}

// Get retrieves a conversation by ID.
func (s *ConversationService) Get(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	return s.store.GetConversation(ctx, conversationID)
}

// List returns all conversations, most recently updated first.
func (s *ConversationService) List(ctx context.Context) ([]domain.Conversation, error) {
	return s.store.ListConversations(ctx)
}

// Turns returns the full history of a conversation, oldest first.
func (s *ConversationService) Turns(ctx context.Context, conversationID string) ([]domain.ConversationTurn, error) {
	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.store.RecentTurns(ctx, conversationID, 0)
}

// Delete removes a conversation and its history.
func (s *ConversationService) Delete(ctx context.Context, conversationID string) error {
	return s.store.DeleteConversation(ctx, conversationID)
}
