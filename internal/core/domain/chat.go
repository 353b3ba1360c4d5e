package domain

// Role tags a message sent to a language model.
type Role string

// Message roles understood by chat completion APIs.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// ChatMessage is a single role-tagged entry in a model request.
type ChatMessage struct {
	// Role is one of system, user or assistant.
	Role Role

	// Content is the message text.
	Content string
}

// ChatRequest is the complete request handed to a language model.
type ChatRequest struct {
	// Model is the provider's model identifier.
	Model string

	// Messages is the ordered conversation, system directive first.
	Messages []ChatMessage

	// Temperature controls sampling. Grounded chat uses 0.
	Temperature float64

	// MaxTokens bounds the length of the reply.
	MaxTokens int
}

// SourcedChunk is chunk text tagged with where it came from.
// It is the input to relevance ranking.
type SourcedChunk struct {
	// DocIndex is the zero-based index of the document among those
	// attached to the conversation.
	DocIndex int

	// Position is the chunk's position within its document.
	Position int

	// Text is the chunk content.
	Text string
}

// ScoredChunk is a chunk with its relevance score for one query.
// It only lives for the duration of a single turn.
type ScoredChunk struct {
	SourcedChunk

	// Score is the number of query keywords found in the chunk.
	Score int
}

// PackedContext is the context string sent to the model for one turn,
// together with what went into it.
type PackedContext struct {
	// Text is the header plus document sections, or the sentinel
	// when nothing was packed.
	Text string

	// Chunks holds the accepted chunks in packing order.
	// A truncated chunk appears with its truncated text.
	Chunks []ScoredChunk

	// Documents lists the distinct document indices in the order their
	// sections appear in Text.
	Documents []int

	// Length is the total rune length of accepted chunk text.
	Length int

	// Truncated is set when the single accepted chunk was cut to fit.
	Truncated bool
}

// DocumentCount returns the number of distinct documents in the context.
func (p PackedContext) DocumentCount() int {
	return len(p.Documents)
}

// IsEmpty reports whether no chunk was packed.
func (p PackedContext) IsEmpty() bool {
	return len(p.Chunks) == 0
}

// ConversationTurn is one message in a conversation's history.
type ConversationTurn struct {
	// IsUser is true for user messages and false for model replies.
	IsUser bool

	// Content is the message text. Model replies are stored raw,
	// before any markup transform.
	Content string
}

// Role maps the turn to a model message role.
func (t ConversationTurn) Role() Role {
	if t.IsUser {
		return RoleUser
	}
	return RoleAssistant
}

// PreparedTurn is everything computed for a turn before the model is called.
type PreparedTurn struct {
	// Request is the assembled model request.
	Request ChatRequest

	// Context is the packed context embedded in the request.
	Context PackedContext

	// Warnings names documents that contributed no text.
	Warnings []string
}

// ChatReply is the outcome of a chat turn.
type ChatReply struct {
	// Answer is the model's raw reply, or an apology when the call failed.
	Answer string

	// Failed is set when the model call failed and Answer is the apology.
	Failed bool

	// Context is the packed context the answer was grounded on.
	Context PackedContext

	// Warnings names documents that contributed no text.
	Warnings []string
}
