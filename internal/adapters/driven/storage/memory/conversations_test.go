package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func newConversation(id string, updated time.Time) *domain.Conversation {
	return &domain.Conversation{
		ID:        id,
		Title:     domain.DefaultConversationTitle,
		Documents: []string{"/docs/" + id + ".pdf"},
		CreatedAt: updated,
		UpdatedAt: updated,
	}
}

func TestConversationStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	store := NewConversationStore()
	conv := newConversation("c1", time.Now())

	require.NoError(t, store.SaveConversation(ctx, conv))

	got, err := store.GetConversation(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, conv.Title, got.Title)
	assert.Equal(t, conv.Documents, got.Documents)
}

func TestConversationStore_GetMissing(t *testing.T) {
	_, err := NewConversationStore().GetConversation(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConversationStore_SaveInvalid(t *testing.T) {
	store := NewConversationStore()
	assert.ErrorIs(t, store.SaveConversation(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SaveConversation(context.Background(), &domain.Conversation{}), domain.ErrInvalidInput)
}

func TestConversationStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewConversationStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveConversation(ctx, newConversation("old", base)))
	require.NoError(t, store.SaveConversation(ctx, newConversation("new", base.Add(2*time.Hour))))
	require.NoError(t, store.SaveConversation(ctx, newConversation("mid", base.Add(time.Hour))))

	list, err := store.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Equal(t, "old", list[2].ID)
}

func TestConversationStore_Turns(t *testing.T) {
	ctx := context.Background()
	store := NewConversationStore()
	require.NoError(t, store.SaveConversation(ctx, newConversation("c1", time.Now())))

	for i, content := range []string{"q1", "a1", "q2", "a2", "q3"} {
		require.NoError(t, store.AppendTurn(ctx, "c1", domain.ConversationTurn{IsUser: i%2 == 0, Content: content}))
	}

	count, err := store.CountTurns(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	recent, err := store.RecentTurns(ctx, "c1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "a2", recent[0].Content)
	assert.Equal(t, "q3", recent[1].Content)

	all, err := store.RecentTurns(ctx, "c1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "q1", all[0].Content)
}

func TestConversationStore_AppendToMissing(t *testing.T) {
	err := NewConversationStore().AppendTurn(context.Background(), "nope", domain.ConversationTurn{Content: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConversationStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewConversationStore()
	require.NoError(t, store.SaveConversation(ctx, newConversation("c1", time.Now())))
	require.NoError(t, store.AppendTurn(ctx, "c1", domain.ConversationTurn{IsUser: true, Content: "hi"}))

	require.NoError(t, store.DeleteConversation(ctx, "c1"))

	_, err := store.GetConversation(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	count, err := store.CountTurns(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, store.DeleteConversation(ctx, "c1"), domain.ErrNotFound)
}
