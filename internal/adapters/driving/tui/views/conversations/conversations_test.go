package conversations

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

type mockConversations struct {
	convs   []domain.Conversation
	err     error
	deleted []string
}

func (m *mockConversations) Start(_ context.Context, _ []string) (*domain.Conversation, error) {
	return nil, nil
}

func (m *mockConversations) Send(_ context.Context, _, _ string) (*domain.ChatReply, error) {
	return nil, nil
}

func (m *mockConversations) Get(_ context.Context, id string) (*domain.Conversation, error) {
	return &domain.Conversation{ID: id}, nil
}

func (m *mockConversations) List(_ context.Context) ([]domain.Conversation, error) {
	return m.convs, m.err
}

func (m *mockConversations) Turns(_ context.Context, _ string) ([]domain.ConversationTurn, error) {
	return nil, nil
}

func (m *mockConversations) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func sample() []domain.Conversation {
	at := time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)
	return []domain.Conversation{
		{ID: "c1", Title: "First", Documents: []string{"/a.pdf"}, UpdatedAt: at},
		{ID: "c2", Title: "Second", Documents: []string{"/b.pdf"}, UpdatedAt: at},
	}
}

func loadedView(t *testing.T, svc *mockConversations) *View {
	t.Helper()
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 30)

	cmd := v.Init()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func TestView_LoadsConversations(t *testing.T) {
	v := loadedView(t, &mockConversations{convs: sample()})

	assert.Equal(t, 2, v.List().Count())
	assert.Contains(t, v.View(), "2 conversations")
	assert.Contains(t, v.View(), "First")
}

func TestView_LoadError(t *testing.T) {
	v := loadedView(t, &mockConversations{err: errors.New("disk gone")})

	assert.Contains(t, v.View(), "disk gone")
}

func TestView_OpenSelected(t *testing.T) {
	v := loadedView(t, &mockConversations{convs: sample()})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ConversationSelected{ID: "c2"}, cmd())
}

func TestView_OpenOnEmptyList(t *testing.T) {
	v := loadedView(t, &mockConversations{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestView_Delete(t *testing.T) {
	svc := &mockConversations{convs: sample()}
	v := loadedView(t, svc)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NotNil(t, cmd)

	v, _ = v.Update(cmd())
	assert.Equal(t, []string{"c1"}, svc.deleted)
	assert.Equal(t, 1, v.List().Count())
	assert.Contains(t, v.View(), "Deleted conversation")
}

func TestView_Quit(t *testing.T) {
	v := loadedView(t, &mockConversations{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
