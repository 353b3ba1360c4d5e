package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var packCmd = &cobra.Command{
	Use:   "pack <file.pdf>... --query <question>",
	Short: "Print the model request for a question without sending it",
	Long: `Rank and pack the chunks of one or more PDFs for a question and print
the assembled model request as JSON.

Nothing is sent to the model. Use --conversation to include the recent
history of a stored conversation.

Examples:
  docchat pack report.pdf --query "What was revenue in Q3?"
  docchat pack a.pdf b.pdf -q "Compare the conclusions" --conversation <id>`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPack,
}

var (
	packQuery        string
	packConversation string
)

func init() {
	packCmd.Flags().StringVarP(&packQuery, "query", "q", "", "question to pack context for")
	packCmd.Flags().StringVar(&packConversation, "conversation", "", "conversation whose history is included")
	_ = packCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(packCmd)
}

type messageJSON struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type packedChunkJSON struct {
	Document int `json:"document"`
	Position int `json:"position"`
	Score    int `json:"score"`
}

type packJSON struct {
	Model       string            `json:"model"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
	Messages    []messageJSON     `json:"messages"`
	Documents   int               `json:"documents"`
	Chunks      []packedChunkJSON `json:"chunks"`
	Length      int               `json:"context_length"`
	Truncated   bool              `json:"truncated"`
	Warnings    []string          `json:"warnings,omitempty"`
}

func runPack(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errNoChatService
	}

	var history []domain.ConversationTurn
	if packConversation != "" {
		if conversationService == nil {
			return errNoConversationService
		}
		turns, err := conversationService.Turns(cmd.Context(), packConversation)
		if err != nil {
			return conversationError(packConversation, err)
		}
		history = turns
	}

	turn, err := chatService.Prepare(cmd.Context(), args, history, packQuery)
	if err != nil {
		return chatError(err)
	}

	return writeJSON(cmd, packOutput(turn))
}

func packOutput(turn *domain.PreparedTurn) packJSON {
	out := packJSON{
		Model:       turn.Request.Model,
		Temperature: turn.Request.Temperature,
		MaxTokens:   turn.Request.MaxTokens,
		Messages:    make([]messageJSON, 0, len(turn.Request.Messages)),
		Documents:   turn.Context.DocumentCount(),
		Chunks:      make([]packedChunkJSON, 0, len(turn.Context.Chunks)),
		Length:      turn.Context.Length,
		Truncated:   turn.Context.Truncated,
		Warnings:    turn.Warnings,
	}
	for _, m := range turn.Request.Messages {
		out.Messages = append(out.Messages, messageJSON{Role: m.Role.String(), Content: m.Content})
	}
	for _, c := range turn.Context.Chunks {
		out.Chunks = append(out.Chunks, packedChunkJSON{
			Document: c.DocIndex + 1,
			Position: c.Position,
			Score:    c.Score,
		})
	}
	return out
}

// chatError adds a hint to errors a user can fix.
func chatError(err error) error {
	switch {
	case errors.Is(err, domain.ErrLLMUnavailable):
		return fmt.Errorf("%w. Run 'docchat settings show' to check the LLM configuration", err)
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("document not found: %w", err)
	default:
		return err
	}
}

func conversationError(id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("conversation %s not found", id)
	}
	return fmt.Errorf("conversation %s: %w", id, err)
}
