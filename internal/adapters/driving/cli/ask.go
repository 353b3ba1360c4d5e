package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/render"
)

// errModelFailed is returned after printing the apology for a failed call,
// so the process exits non-zero.
var errModelFailed = errors.New("the model call failed")

var askCmd = &cobra.Command{
	Use:   "ask <file.pdf> <question>...",
	Short: "Ask a single question about a PDF",
	Long: `Answer one question about one PDF. Nothing is stored.

Examples:
  docchat ask report.pdf What was revenue in Q3?
  docchat ask report.pdf "Who signed the contract?" --html`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

var summariseCmd = &cobra.Command{
	Use:     "summarise <file.pdf>",
	Aliases: []string{"summarize"},
	Short:   "Summarise a PDF",
	Args:    cobra.ExactArgs(1),
	RunE:    runSummarise,
}

var (
	askHTML       bool
	summariseHTML bool
)

func init() {
	askCmd.Flags().BoolVar(&askHTML, "html", false, "render the answer as HTML")
	summariseCmd.Flags().BoolVar(&summariseHTML, "html", false, "render the summary as HTML")
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(summariseCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errNoChatService
	}

	question := strings.Join(args[1:], " ")
	reply, err := chatService.Ask(cmd.Context(), args[0], question)
	if err != nil {
		return chatError(documentErrorIfExtraction(args[0], err))
	}
	return printReply(cmd, reply, askHTML)
}

func runSummarise(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errNoChatService
	}

	reply, err := chatService.Summarise(cmd.Context(), args[0])
	if err != nil {
		return chatError(documentErrorIfExtraction(args[0], err))
	}
	return printReply(cmd, reply, summariseHTML)
}

// printReply writes the answer to stdout and warnings to stderr.
func printReply(cmd *cobra.Command, reply *domain.ChatReply, html bool) error {
	answer := reply.Answer
	if html {
		answer = render.MarkdownToHTML(answer)
	}
	cmd.Println(answer)

	for _, w := range reply.Warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}
	if reply.Failed {
		return errModelFailed
	}
	return nil
}

func documentErrorIfExtraction(path string, err error) error {
	if errors.Is(err, domain.ErrNoExtractableText) || errors.Is(err, domain.ErrExtraction) {
		return documentError(path, err)
	}
	return err
}
