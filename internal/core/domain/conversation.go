package domain

import (
	"time"
	"unicode/utf8"
)

// DefaultConversationTitle is the title of a conversation before its
// first exchange.
const DefaultConversationTitle = "New Chat"

// titleLength is the number of runes of the first message kept in a title.
const titleLength = 50

// Conversation is a persisted chat over a fixed set of documents.
type Conversation struct {
	// ID is the unique identifier (UUID).
	ID string

	// Title is set from the first user message.
	Title string

	// Documents holds the attached document paths. A document's index
	// in this slice is its number in the packed context.
	Documents []string

	// CreatedAt is when the conversation was started.
	CreatedAt time.Time

	// UpdatedAt is when the last turn was appended.
	UpdatedAt time.Time
}

// ConversationTitle derives a title from the first user message:
// the first 50 runes, with "..." appended when the message was longer.
func ConversationTitle(message string) string {
	if utf8.RuneCountInString(message) <= titleLength {
		return message
	}
	runes := []rune(message)
	return string(runes[:titleLength]) + "..."
}
