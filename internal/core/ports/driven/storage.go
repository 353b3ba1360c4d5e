package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// CacheKey identifies a chunk list. The same file chunked at two sizes
// produces two entries.
type CacheKey struct {
	// Path is the absolute file path.
	Path string

	// ChunkSize is the chunker's maximum chunk length.
	ChunkSize int
}

// ChunkCache keeps processed documents between turns.
// Entries carry the file fingerprint they were built from; callers
// compare it against the file on disk before trusting an entry.
type ChunkCache interface {
	// Get returns the cached document. The boolean is false on a miss.
	Get(ctx context.Context, key CacheKey) (*domain.ProcessedDocument, bool, error)

	// Put stores a processed document, replacing any previous entry.
	Put(ctx context.Context, key CacheKey, doc *domain.ProcessedDocument) error

	// Invalidate drops every entry for path, whatever its chunk size.
	Invalidate(ctx context.Context, path string) error
}

// ConversationStore persists conversations and their turns.
// Turns are append-only; old turns are never removed by the window.
type ConversationStore interface {
	// SaveConversation creates or updates a conversation.
	SaveConversation(ctx context.Context, conv *domain.Conversation) error

	// GetConversation retrieves a conversation by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)

	// ListConversations returns all conversations, most recently updated first.
	ListConversations(ctx context.Context) ([]domain.Conversation, error)

	// DeleteConversation removes a conversation and its turns.
	DeleteConversation(ctx context.Context, id string) error

	// AppendTurn adds a turn to the end of a conversation.
	AppendTurn(ctx context.Context, conversationID string, turn domain.ConversationTurn) error

	// RecentTurns returns up to limit of the latest turns, oldest first.
	// A limit of zero or less returns every turn.
	RecentTurns(ctx context.Context, conversationID string, limit int) ([]domain.ConversationTurn, error)

	// CountTurns returns the number of stored turns.
	CountTurns(ctx context.Context, conversationID string) (int, error)
}

// FileWatcher reports changes to documents on disk.
type FileWatcher interface {
	// Watch starts watching path. Watching a path twice is not an error.
	Watch(path string) error
}
