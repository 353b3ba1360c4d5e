package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Replies used when the model call fails. The error detail is appended.
const (
	chatFailureReply      = "I encountered an error while processing your request: %v"
	askFailureReply       = "I encountered an error while trying to answer your question: %v"
	summariseFailureReply = "I encountered an error while trying to summarize the text: %v"
)

// ChatConfig holds the limits a ChatService applies to every turn.
type ChatConfig struct {
	// Model is the model identifier placed in requests.
	Model string

	// MaxTokens bounds each reply.
	MaxTokens int

	// Timeout bounds a single model call. Zero uses domain.DefaultLLMTimeout.
	Timeout time.Duration

	// ContextBudget is the packing budget in runes.
	ContextBudget int

	// HistoryWindow is the number of recent turns sent to the model.
	HistoryWindow int

	// MaxChunksPerDocument caps the leading chunks taken from each document.
	// Zero means no cap.
	MaxChunksPerDocument int
}

// ChatConfigFromSettings derives a ChatConfig from application settings.
func ChatConfigFromSettings(s domain.AppSettings) ChatConfig {
	return ChatConfig{
		Model:                s.LLM.Model,
		MaxTokens:            s.LLM.MaxTokens,
		Timeout:              s.LLM.Timeout,
		ContextBudget:        s.Chat.ContextBudget,
		HistoryWindow:        s.Chat.HistoryWindow,
		MaxChunksPerDocument: s.Chat.MaxChunksPerDocument,
	}
}

// ChatService answers questions grounded on document chunks.
type ChatService struct {
	documents driving.DocumentService
	llm       driven.LLMService
	prompts   driven.PromptStore
	tokens    driven.TokenCounter
	cfg       ChatConfig
}

// NewChatService creates a new chat service.
// The LLM service may be nil; Prepare still works without it.
func NewChatService(documents driving.DocumentService, llm driven.LLMService, cfg ChatConfig) *ChatService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultLLMTimeout
	}
	if cfg.Model == "" && llm != nil {
		cfg.Model = llm.ModelName()
	}
	return &ChatService{
		documents: documents,
		llm:       llm,
		cfg:       cfg,
	}
}

// SetPromptStore sets the store used to load editable prompts.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetTokenCounter sets the counter used to log prompt size estimates.
func (s *ChatService) SetTokenCounter(counter driven.TokenCounter) {
	s.tokens = counter
}

// Prepare ranks and packs the documents' chunks for message and
// assembles the model request.
//
// Documents with no extractable text are skipped and reported in the
// warnings. If no document has text, Prepare returns
// domain.ErrNoExtractableText.
func (s *ChatService) Prepare(
	ctx context.Context,
	paths []string,
	history []domain.ConversationTurn,
	message string,
) (*domain.PreparedTurn, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoDocuments
	}
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", domain.ErrInvalidInput)
	}

	logger.Section("Prepare")

	var sourced []domain.SourcedChunk
	var warnings []string

	for i, path := range paths {
		doc, err := s.documents.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		if !doc.HasText() {
			warnings = append(warnings, noTextWarning(i, doc))
			continue
		}

		chunks := doc.Chunks
		if limit := s.cfg.MaxChunksPerDocument; limit > 0 && len(chunks) > limit {
			chunks = chunks[:limit]
		}
		for _, c := range chunks {
			sourced = append(sourced, domain.SourcedChunk{DocIndex: i, Position: c.Position, Text: c.Content})
		}
	}

	if len(sourced) == 0 {
		return nil, domain.ErrNoExtractableText
	}

	ranked := Rank(message, sourced)
	packed := Pack(ranked, s.cfg.ContextBudget)
	logger.Debug("chat: packed %d of %d chunks from %d documents (%d runes, truncated=%v)",
		len(packed.Chunks), len(sourced), packed.DocumentCount(), packed.Length, packed.Truncated)

	req := AssemblePrompt(packed, history, message, PromptOptions{
		Model:         s.cfg.Model,
		MaxTokens:     s.cfg.MaxTokens,
		HistoryWindow: s.cfg.HistoryWindow,
		SystemPrompt:  loadPrompt(s.prompts, driven.PromptChatSystem, DefaultChatSystemPrompt),
	})
	s.logTokens(req)

	return &domain.PreparedTurn{Request: req, Context: packed, Warnings: warnings}, nil
}

// Send prepares a turn and calls the model once. A failed model call
// is not retried; the reply carries an apology with the error detail.
func (s *ChatService) Send(
	ctx context.Context,
	paths []string,
	history []domain.ConversationTurn,
	message string,
) (*domain.ChatReply, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	turn, err := s.Prepare(ctx, paths, history, message)
	if err != nil {
		return nil, err
	}

	reply := s.call(ctx, turn.Request, chatFailureReply)
	reply.Context = turn.Context
	reply.Warnings = turn.Warnings
	return reply, nil
}

// Ask answers one question about one document. The context is the
// document's best-matching chunks, within the packing budget, in
// document order.
func (s *ChatService) Ask(ctx context.Context, path, question string) (*domain.ChatReply, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question cannot be empty", domain.ErrInvalidInput)
	}

	doc, err := s.loadWithText(ctx, path)
	if err != nil {
		return nil, err
	}

	packed := Pack(Rank(question, sourceChunks(doc.Chunks)), s.cfg.ContextBudget)
	req := AssembleAsk(joinInOrder(packed), question, PromptOptions{
		Model:        s.cfg.Model,
		MaxTokens:    s.cfg.MaxTokens,
		SystemPrompt: loadPrompt(s.prompts, driven.PromptAskSystem, DefaultAskSystemPrompt),
	})
	s.logTokens(req)

	reply := s.call(ctx, req, askFailureReply)
	reply.Context = packed
	return reply, nil
}

// Summarise summarises one document. The text is the document's leading
// chunks within the packing budget.
func (s *ChatService) Summarise(ctx context.Context, path string) (*domain.ChatReply, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	doc, err := s.loadWithText(ctx, path)
	if err != nil {
		return nil, err
	}

	packed := Pack(Rank("", sourceChunks(doc.Chunks)), s.cfg.ContextBudget)
	req := AssembleSummary(joinInOrder(packed), PromptOptions{
		Model:        s.cfg.Model,
		MaxTokens:    s.cfg.MaxTokens,
		SystemPrompt: loadPrompt(s.prompts, driven.PromptSummariseSystem, DefaultSummariseSystemPrompt),
	})
	s.logTokens(req)

	reply := s.call(ctx, req, summariseFailureReply)
	reply.Context = packed
	return reply, nil
}

// call sends req under the configured timeout.
func (s *ChatService) call(ctx context.Context, req domain.ChatRequest, failure string) *domain.ChatReply {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	defer logger.Timer("llm " + s.llm.ModelName())()

	answer, err := s.llm.Chat(callCtx, req)
	if err != nil {
		logger.Warn("chat: model call failed: %v", err)
		return &domain.ChatReply{Answer: fmt.Sprintf(failure, err), Failed: true}
	}
	return &domain.ChatReply{Answer: answer}
}

func (s *ChatService) loadWithText(ctx context.Context, path string) (*domain.ProcessedDocument, error) {
	doc, err := s.documents.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if !doc.HasText() {
		if doc.ExtractionErr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrNoExtractableText, doc.ExtractionErr)
		}
		return nil, domain.ErrNoExtractableText
	}
	return doc, nil
}

func (s *ChatService) logTokens(req domain.ChatRequest) {
	if s.tokens == nil || !logger.IsVerbose() {
		return
	}
	total := 0
	for _, m := range req.Messages {
		total += s.tokens.Count(m.Content)
	}
	logger.Debug("chat: request has %d messages, about %d tokens", len(req.Messages), total)
}

func noTextWarning(index int, doc *domain.ProcessedDocument) string {
	reason := "no text layer"
	if doc.ExtractionErr != nil {
		reason = doc.ExtractionErr.Error()
	}
	return fmt.Sprintf("document %d (%s) has no extractable text: %s", index+1, doc.Document.Title, reason)
}

func sourceChunks(chunks []domain.Chunk) []domain.SourcedChunk {
	sourced := make([]domain.SourcedChunk, len(chunks))
	for i, c := range chunks {
		sourced[i] = domain.SourcedChunk{Position: c.Position, Text: c.Content}
	}
	return sourced
}

// joinInOrder joins the packed chunks of a single document in position
// order, separated by spaces.
func joinInOrder(packed domain.PackedContext) string {
	chunks := slices.Clone(packed.Chunks)
	slices.SortStableFunc(chunks, func(a, b domain.ScoredChunk) int {
		return a.Position - b.Position
	})

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, " ")
}
