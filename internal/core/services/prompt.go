package services

import (
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Built-in prompts. Users may override them through the prompt store.
const (
	// DefaultChatSystemPrompt restricts multi-document chat to the packed
	// documents and makes the model count documents, not chunks.
	DefaultChatSystemPrompt = `You are a document assistant that ONLY answers questions based on the provided document content.
Follow these strict rules:
1. ONLY answer questions that can be directly answered from the document content provided.
2. If a question cannot be answered with information from the documents, respond with:
   "I can only answer questions related to the document content. Your question cannot be answered based on the documents provided."
3. Do not use any external knowledge beyond what's in the documents.
4. Do not make assumptions or inferences beyond what is explicitly stated.
5. If asked for opinions, judgments, advice, or anything outside the document scope, politely redirect to document content only.
6. Refuse to engage with any requests that are not about understanding or extracting information from the documents.
7. When referencing the documents, be clear about the true number of source PDFs - there are only as many actual documents as there are unique document numbers in the context.
8. If asked about the number of documents, always count the number of unique document numbers, not the number of content chunks.
`

	// DefaultAskSystemPrompt restricts single-document questions to the
	// supplied context.
	DefaultAskSystemPrompt = `You are a document assistant that ONLY answers questions based on the provided context.
If the question is not directly answerable from the document, respond with:
"I can only answer questions related to the document content. This question cannot be answered based on the provided document."
Never use external knowledge or make assumptions beyond what's explicitly stated in the document.`

	// DefaultSummariseSystemPrompt asks for a summary limited to the text.
	DefaultSummariseSystemPrompt = "You are a document summarization assistant. Provide a concise but comprehensive summary " +
		"of the text provided, focusing ONLY on information explicitly stated in the document."
)

const (
	contextPreamble = "Here are the document contents to reference:\n\n"
	acknowledgement = "I'll help you with questions about these documents, but I can only respond based on their content."
)

// Sampling settings for grounded requests.
const (
	ChatTemperature      = 0.0
	SummariseTemperature = 0.1
)

// DefaultPrompts returns the built-in prompt for every well-known name.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptChatSystem:      DefaultChatSystemPrompt,
		driven.PromptAskSystem:       DefaultAskSystemPrompt,
		driven.PromptSummariseSystem: DefaultSummariseSystemPrompt,
	}
}

// PromptOptions configures request assembly.
type PromptOptions struct {
	// Model is the model identifier placed in the request.
	Model string

	// MaxTokens bounds the reply. Zero uses domain.DefaultMaxTokens.
	MaxTokens int

	// HistoryWindow is how many recent turns to include. Zero or less
	// uses domain.DefaultHistoryWindow.
	HistoryWindow int

	// SystemPrompt replaces the built-in grounding directive when set.
	SystemPrompt string
}

// AssemblePrompt builds the model request for a chat turn: the grounding
// directive, the packed context as a user message, a fixed assistant
// acknowledgement, the most recent history turns in chronological order
// and finally the new message.
func AssemblePrompt(
	packed domain.PackedContext,
	history []domain.ConversationTurn,
	message string,
	opts PromptOptions,
) domain.ChatRequest {
	system := opts.SystemPrompt
	if system == "" {
		system = DefaultChatSystemPrompt
	}

	recent := windowHistory(history, opts.HistoryWindow)

	messages := make([]domain.ChatMessage, 0, len(recent)+4)
	messages = append(messages,
		domain.ChatMessage{Role: domain.RoleSystem, Content: system},
		domain.ChatMessage{Role: domain.RoleUser, Content: contextPreamble + packed.Text},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: acknowledgement},
	)
	for _, turn := range recent {
		messages = append(messages, domain.ChatMessage{Role: turn.Role(), Content: turn.Content})
	}
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: message})

	return domain.ChatRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: ChatTemperature,
		MaxTokens:   maxTokens(opts.MaxTokens),
	}
}

// AssembleAsk builds the request for a single question over one
// document's context.
func AssembleAsk(contextText, question string, opts PromptOptions) domain.ChatRequest {
	system := opts.SystemPrompt
	if system == "" {
		system = DefaultAskSystemPrompt
	}

	var user strings.Builder
	user.WriteString("Context from document:\n")
	user.WriteString(contextText)
	user.WriteString("\n\nQuestion: ")
	user.WriteString(question)

	return domain.ChatRequest{
		Model: opts.Model,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: system},
			{Role: domain.RoleUser, Content: user.String()},
		},
		Temperature: ChatTemperature,
		MaxTokens:   maxTokens(opts.MaxTokens),
	}
}

// AssembleSummary builds the request for summarising text.
func AssembleSummary(text string, opts PromptOptions) domain.ChatRequest {
	system := opts.SystemPrompt
	if system == "" {
		system = DefaultSummariseSystemPrompt
	}

	return domain.ChatRequest{
		Model: opts.Model,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: system},
			{Role: domain.RoleUser, Content: "Please summarize the following document:\n\n" + text},
		},
		Temperature: SummariseTemperature,
		MaxTokens:   maxTokens(opts.MaxTokens),
	}
}

// windowHistory returns the last n turns, oldest first.
func windowHistory(history []domain.ConversationTurn, n int) []domain.ConversationTurn {
	if n <= 0 {
		n = domain.DefaultHistoryWindow
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func maxTokens(n int) int {
	if n <= 0 {
		return domain.DefaultMaxTokens
	}
	return n
}

// loadPrompt returns the named prompt from store, or fallback when the
// store is nil or fails.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		if err != nil {
			logger.Warn("prompts: using built-in %s: %v", name, err)
		}
		return fallback
	}
	return prompt
}
