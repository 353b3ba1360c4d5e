package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// mockDocumentService implements driving.DocumentService.
type mockDocumentService struct {
	LoadFunc func(ctx context.Context, path string) (*domain.ProcessedDocument, error)
	TextFunc func(ctx context.Context, path string) (string, error)
}

func (m *mockDocumentService) Load(ctx context.Context, path string) (*domain.ProcessedDocument, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, path)
	}
	return &domain.ProcessedDocument{Document: domain.Document{Path: path}}, nil
}

func (m *mockDocumentService) Text(ctx context.Context, path string) (string, error) {
	if m.TextFunc != nil {
		return m.TextFunc(ctx, path)
	}
	return "", domain.ErrNoExtractableText
}

func (m *mockDocumentService) Invalidate(_ context.Context, _ string) error {
	return nil
}

// mockChatService implements driving.ChatService.
type mockChatService struct {
	PrepareFunc   func(ctx context.Context, paths []string, history []domain.ConversationTurn, message string) (*domain.PreparedTurn, error)
	SendFunc      func(ctx context.Context, paths []string, history []domain.ConversationTurn, message string) (*domain.ChatReply, error)
	AskFunc       func(ctx context.Context, path, question string) (*domain.ChatReply, error)
	SummariseFunc func(ctx context.Context, path string) (*domain.ChatReply, error)
}

func (m *mockChatService) Prepare(ctx context.Context, paths []string, history []domain.ConversationTurn, message string) (*domain.PreparedTurn, error) {
	if m.PrepareFunc != nil {
		return m.PrepareFunc(ctx, paths, history, message)
	}
	return &domain.PreparedTurn{}, nil
}

func (m *mockChatService) Send(ctx context.Context, paths []string, history []domain.ConversationTurn, message string) (*domain.ChatReply, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, paths, history, message)
	}
	return &domain.ChatReply{Answer: "ok"}, nil
}

func (m *mockChatService) Ask(ctx context.Context, path, question string) (*domain.ChatReply, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, path, question)
	}
	return &domain.ChatReply{Answer: "ok"}, nil
}

func (m *mockChatService) Summarise(ctx context.Context, path string) (*domain.ChatReply, error) {
	if m.SummariseFunc != nil {
		return m.SummariseFunc(ctx, path)
	}
	return &domain.ChatReply{Answer: "summary"}, nil
}

// mockConversationService keeps conversations in a map and answers every
// message with Reply.
type mockConversationService struct {
	conversations map[string]*domain.Conversation
	turns         map[string][]domain.ConversationTurn
	Reply         *domain.ChatReply
	SendErr       error
	sent          []string
}

func newMockConversationService() *mockConversationService {
	return &mockConversationService{
		conversations: map[string]*domain.Conversation{},
		turns:         map[string][]domain.ConversationTurn{},
		Reply:         &domain.ChatReply{Answer: "It rained."},
	}
}

func (m *mockConversationService) add(id string, docs ...string) *domain.Conversation {
	conv := &domain.Conversation{
		ID:        id,
		Title:     domain.DefaultConversationTitle,
		Documents: docs,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	m.conversations[id] = conv
	return conv
}

func (m *mockConversationService) Start(_ context.Context, paths []string) (*domain.Conversation, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoDocuments
	}
	return m.add("conv-new", paths...), nil
}

func (m *mockConversationService) Send(_ context.Context, id, message string) (*domain.ChatReply, error) {
	if _, ok := m.conversations[id]; !ok {
		return nil, domain.ErrNotFound
	}
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	m.sent = append(m.sent, message)
	m.turns[id] = append(m.turns[id],
		domain.ConversationTurn{IsUser: true, Content: message},
		domain.ConversationTurn{Content: m.Reply.Answer},
	)
	return m.Reply, nil
}

func (m *mockConversationService) Get(_ context.Context, id string) (*domain.Conversation, error) {
	conv, ok := m.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

func (m *mockConversationService) List(_ context.Context) ([]domain.Conversation, error) {
	out := make([]domain.Conversation, 0, len(m.conversations))
	for _, c := range m.conversations {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockConversationService) Turns(_ context.Context, id string) ([]domain.ConversationTurn, error) {
	if _, ok := m.conversations[id]; !ok {
		return nil, domain.ErrNotFound
	}
	return m.turns[id], nil
}

func (m *mockConversationService) Delete(_ context.Context, id string) error {
	if _, ok := m.conversations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.conversations, id)
	delete(m.turns, id)
	return nil
}

// mockSettingsService implements driving.SettingsService over a settings value.
type mockSettingsService struct {
	settings    domain.AppSettings
	SetErr      error
	ValidateErr error
	set         map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), set: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) Validate() error { return m.ValidateErr }

func (m *mockSettingsService) Set(key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"chat.chunk_size", "llm.api_key", "llm.model"}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

var (
	_ driving.DocumentService     = (*mockDocumentService)(nil)
	_ driving.ChatService         = (*mockChatService)(nil)
	_ driving.ConversationService = (*mockConversationService)(nil)
	_ driving.SettingsService     = (*mockSettingsService)(nil)
)

// testServices bundles the mocks installed by setupTestServices.
type testServices struct {
	documents     *mockDocumentService
	chat          *mockChatService
	conversations *mockConversationService
	settings      *mockSettingsService
}

// setupTestServices installs fresh mocks and returns a cleanup function
// that removes them and resets flag variables.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		documents:     &mockDocumentService{},
		chat:          &mockChatService{},
		conversations: newMockConversationService(),
		settings:      newMockSettingsService(),
	}
	SetServices(&Services{
		Documents:     ts.documents,
		Chat:          ts.chat,
		Conversations: ts.conversations,
		Settings:      ts.settings,
	})
	originalTerminal := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }

	return ts, func() {
		SetServices(nil)
		stdinIsTerminal = originalTerminal
		chunksJSON, chunksFull = false, false
		packQuery, packConversation = "", ""
		askHTML, summariseHTML = false, false
		chatNewMessage, chatHTML = "", false
		verbose, configDir = false, ""
		rootCmd.SetIn(nil)
	}
}

// executeCommand runs rootCmd with args and returns everything written
// to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
