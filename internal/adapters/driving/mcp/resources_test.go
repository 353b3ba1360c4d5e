package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestExtractConversationID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid", uri: "docchat://conversations/abc-123", expected: "abc-123"},
		{name: "invalid prefix", uri: "file://conversations/abc", expected: ""},
		{name: "nested path", uri: "docchat://conversations/abc/turns", expected: ""},
		{name: "empty", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractConversationID(tt.uri))
		})
	}
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleConversationsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil conversation service returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Chat: &mockChatService{}})
		require.NoError(t, err)

		result, err := server.handleConversationsResource(ctx, makeReadResourceRequest("docchat://conversations"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists conversations", func(t *testing.T) {
		convs := &mockConversationService{conversations: []domain.Conversation{{
			ID:        "c1",
			Title:     "What is in the report?",
			Documents: []string{"/docs/report.pdf"},
			UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		}}}
		server, err := NewServer(&Ports{Chat: &mockChatService{}, Conversations: convs})
		require.NoError(t, err)

		result, err := server.handleConversationsResource(ctx, makeReadResourceRequest("docchat://conversations"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"id": "c1"`)
		assert.Contains(t, text, "/docs/report.pdf")
		assert.Contains(t, text, "2024-05-01T12:00:00Z")
	})

	t.Run("list failure", func(t *testing.T) {
		convs := &mockConversationService{err: errors.New("database error")}
		server, err := NewServer(&Ports{Chat: &mockChatService{}, Conversations: convs})
		require.NoError(t, err)

		_, err = server.handleConversationsResource(ctx, makeReadResourceRequest("docchat://conversations"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing conversations")
	})
}

func TestServer_handleConversationResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns turns with roles", func(t *testing.T) {
		convs := &mockConversationService{turns: []domain.ConversationTurn{
			{IsUser: true, Content: "hi"},
			{IsUser: false, Content: "hello"},
		}}
		server, err := NewServer(&Ports{Chat: &mockChatService{}, Conversations: convs})
		require.NoError(t, err)

		result, err := server.handleConversationResource(ctx, makeReadResourceRequest("docchat://conversations/c1"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"role": "user"`)
		assert.Contains(t, result.Contents[0].Text, `"role": "assistant"`)
	})

	t.Run("invalid URI", func(t *testing.T) {
		server, err := NewServer(&Ports{Chat: &mockChatService{}, Conversations: &mockConversationService{}})
		require.NoError(t, err)

		_, err = server.handleConversationResource(ctx, makeReadResourceRequest("docchat://other"))
		assert.Error(t, err)
	})

	t.Run("nil conversation service", func(t *testing.T) {
		server, err := NewServer(&Ports{Chat: &mockChatService{}})
		require.NoError(t, err)

		_, err = server.handleConversationResource(ctx, makeReadResourceRequest("docchat://conversations/c1"))
		assert.Error(t, err)
	})
}
