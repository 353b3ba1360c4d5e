package mcp

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	prepared *domain.PreparedTurn
	reply    *domain.ChatReply
	err      error

	lastPaths   []string
	lastMessage string
}

func (m *mockChatService) Prepare(
	_ context.Context,
	paths []string,
	_ []domain.ConversationTurn,
	message string,
) (*domain.PreparedTurn, error) {
	m.lastPaths, m.lastMessage = paths, message
	return m.prepared, m.err
}

func (m *mockChatService) Send(
	_ context.Context,
	paths []string,
	_ []domain.ConversationTurn,
	message string,
) (*domain.ChatReply, error) {
	m.lastPaths, m.lastMessage = paths, message
	return m.reply, m.err
}

func (m *mockChatService) Ask(_ context.Context, path, question string) (*domain.ChatReply, error) {
	m.lastPaths, m.lastMessage = []string{path}, question
	return m.reply, m.err
}

func (m *mockChatService) Summarise(_ context.Context, path string) (*domain.ChatReply, error) {
	m.lastPaths = []string{path}
	return m.reply, m.err
}

// mockConversationService is a mock implementation of driving.ConversationService.
type mockConversationService struct {
	conversations []domain.Conversation
	turns         []domain.ConversationTurn
	err           error
}

func (m *mockConversationService) Start(_ context.Context, paths []string) (*domain.Conversation, error) {
	return &domain.Conversation{ID: "new", Documents: paths}, m.err
}

func (m *mockConversationService) Send(_ context.Context, _, _ string) (*domain.ChatReply, error) {
	return &domain.ChatReply{}, m.err
}

func (m *mockConversationService) Get(_ context.Context, id string) (*domain.Conversation, error) {
	return &domain.Conversation{ID: id}, m.err
}

func (m *mockConversationService) List(_ context.Context) ([]domain.Conversation, error) {
	return m.conversations, m.err
}

func (m *mockConversationService) Turns(_ context.Context, _ string) ([]domain.ConversationTurn, error) {
	return m.turns, m.err
}

func (m *mockConversationService) Delete(_ context.Context, _ string) error {
	return m.err
}
