package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui"
)

// stdinIsTerminal reports whether the TUI can take over the terminal.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var chatOpenCmd = &cobra.Command{
	Use:   "open [conversation-id]",
	Short: "Chat in the interactive terminal UI",
	Long: `Open the terminal chat UI. Without an ID the UI starts on the list of
conversations; with one it opens that conversation directly.

When stdin is not a terminal, each input line is sent as a message to the
given conversation and the replies are printed.

Controls:
  ↑/k, ↓/j - Navigate conversations
  Enter    - Open / Send
  d        - Delete conversation
  PgUp/Dn  - Scroll transcript
  Esc      - Back
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChatOpen,
}

func init() {
	chatCmd.AddCommand(chatOpenCmd)
}

func runChatOpen(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errNoConversationService
	}

	var id string
	if len(args) == 1 {
		id = args[0]
	}

	if !stdinIsTerminal() {
		if id == "" {
			return errors.New("stdin is not a terminal; pass a conversation ID to send piped messages")
		}
		return runLineChat(cmd, id)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(&tui.Ports{Conversations: conversationService}, id)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runLineChat sends every non-empty input line to the conversation.
func runLineChat(cmd *cobra.Command, id string) error {
	if _, err := conversationService.Get(cmd.Context(), id); err != nil {
		return conversationError(id, err)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := sendMessage(cmd, id, line); err != nil && !errors.Is(err, errModelFailed) {
			return err
		}
		cmd.Println()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
