// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewConversations lists stored conversations.
	ViewConversations ViewType = iota
	// ViewChat shows one conversation and accepts new messages.
	ViewChat
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewConversations:
		return "conversations"
	case ViewChat:
		return "chat"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ConversationsLoaded carries the conversation list.
type ConversationsLoaded struct {
	Conversations []domain.Conversation
	Err           error
}

// ConversationSelected is sent when a conversation is picked from the list.
type ConversationSelected struct {
	ID string
}

// ConversationOpened carries a conversation and its full history.
type ConversationOpened struct {
	Conversation *domain.Conversation
	Turns        []domain.ConversationTurn
	Err          error
}

// MessageSubmitted is sent when the user submits a message.
type MessageSubmitted struct {
	Content string
}

// ReplyReceived carries the model's reply to a submitted message.
type ReplyReceived struct {
	Reply *domain.ChatReply
	Err   error
}

// ConversationDeleted is sent after a conversation is removed.
type ConversationDeleted struct {
	ID  string
	Err error
}

// ErrorOccurred is sent when an operation fails.
type ErrorOccurred struct {
	Err error
}

// Quit is sent to exit the application.
type Quit struct{}
