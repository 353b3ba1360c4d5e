package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// previewLength is the number of runes of a chunk shown by "chunks".
const previewLength = 72

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Print the normalised text of a PDF",
	Long: `Extract the text layer of a PDF, collapse whitespace and print it.

Scanned PDFs without a text layer produce no output and exit with an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var chunksCmd = &cobra.Command{
	Use:   "chunks <file.pdf>",
	Short: "Show the chunks a PDF is split into",
	Long: `Load a PDF through the extract, normalise and chunk stages and list
the resulting chunks in order.

Chunks are cached and reused until the file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunks,
}

var (
	chunksJSON bool
	chunksFull bool
)

func init() {
	chunksCmd.Flags().BoolVar(&chunksJSON, "json", false, "print chunks as JSON")
	chunksCmd.Flags().BoolVar(&chunksFull, "full", false, "print whole chunks instead of previews")
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(chunksCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoDocumentService
	}

	text, err := documentService.Text(cmd.Context(), args[0])
	if err != nil {
		return documentError(args[0], err)
	}
	cmd.Println(text)
	return nil
}

type chunkJSON struct {
	Position int    `json:"position"`
	Length   int    `json:"length"`
	Content  string `json:"content"`
}

type documentJSON struct {
	Path   string      `json:"path"`
	Title  string      `json:"title"`
	Pages  int         `json:"pages"`
	Chunks []chunkJSON `json:"chunks"`
	Error  string      `json:"error,omitempty"`
}

func runChunks(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoDocumentService
	}

	doc, err := documentService.Load(cmd.Context(), args[0])
	if err != nil {
		return documentError(args[0], err)
	}

	if chunksJSON {
		return printDocumentJSON(cmd, doc)
	}

	cmd.Printf("%s (%d pages, %d chunks)\n", doc.Document.Title, doc.Document.Pages, len(doc.Chunks))
	if doc.ExtractionErr != nil {
		cmd.Printf("Warning: %v\n", doc.ExtractionErr)
	}
	if !doc.HasText() {
		cmd.Println(domain.ErrNoExtractableText.Error())
		return nil
	}
	cmd.Println()

	for _, chunk := range doc.Chunks {
		content := chunk.Content
		if !chunksFull {
			content = preview(content, previewLength)
		}
		cmd.Printf("[%d] (%d chars) %s\n", chunk.Position, utf8.RuneCountInString(chunk.Content), content)
	}
	return nil
}

func printDocumentJSON(cmd *cobra.Command, doc *domain.ProcessedDocument) error {
	out := documentJSON{
		Path:   doc.Document.Path,
		Title:  doc.Document.Title,
		Pages:  doc.Document.Pages,
		Chunks: make([]chunkJSON, 0, len(doc.Chunks)),
	}
	if doc.ExtractionErr != nil {
		out.Error = doc.ExtractionErr.Error()
	}
	for _, c := range doc.Chunks {
		out.Chunks = append(out.Chunks, chunkJSON{
			Position: c.Position,
			Length:   utf8.RuneCountInString(c.Content),
			Content:  c.Content,
		})
	}
	return writeJSON(cmd, out)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// documentError turns service errors into messages that name the file.
func documentError(path string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%s: no such file", path)
	case errors.Is(err, domain.ErrExtraction):
		return fmt.Errorf("%s: %w", path, domain.ErrNoExtractableText)
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}

// preview shortens s to at most n runes, marking the cut with "...".
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
