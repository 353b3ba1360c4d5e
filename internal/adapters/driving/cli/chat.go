package cli

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/render"
)

// timeLayout is how conversation times are printed.
const timeLayout = "2006-01-02 15:04"

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Manage stored conversations",
	Long: `Start, continue and inspect conversations over PDF documents.

Each conversation keeps its attached documents and full history. Every new
message is answered from the documents' best-matching chunks plus the most
recent turns of the conversation.`,
}

var chatNewCmd = &cobra.Command{
	Use:   "new <file.pdf>...",
	Short: "Start a conversation over one or more PDFs",
	Long: `Start a conversation and print its ID.

Use --message to send the first question straight away.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChatNew,
}

var chatSendCmd = &cobra.Command{
	Use:   "send <conversation-id> <message>...",
	Short: "Send a message to a conversation",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runChatSend,
}

var chatShowCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Print a conversation's history",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatShow,
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runChatList,
}

var chatDeleteCmd = &cobra.Command{
	Use:   "delete <conversation-id>",
	Short: "Delete a conversation and its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatDelete,
}

var (
	chatNewMessage string
	chatHTML       bool
)

func init() {
	chatNewCmd.Flags().StringVarP(&chatNewMessage, "message", "m", "", "first message to send")
	chatCmd.PersistentFlags().BoolVar(&chatHTML, "html", false, "render replies as HTML")

	chatCmd.AddCommand(chatNewCmd)
	chatCmd.AddCommand(chatSendCmd)
	chatCmd.AddCommand(chatShowCmd)
	chatCmd.AddCommand(chatListCmd)
	chatCmd.AddCommand(chatDeleteCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChatNew(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errNoConversationService
	}

	conv, err := conversationService.Start(cmd.Context(), args)
	if err != nil {
		return chatError(err)
	}
	cmd.Printf("Started conversation %s\n", conv.ID)

	if strings.TrimSpace(chatNewMessage) == "" {
		return nil
	}
	cmd.Println()
	return sendMessage(cmd, conv.ID, chatNewMessage)
}

func runChatSend(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errNoConversationService
	}
	return sendMessage(cmd, args[0], strings.Join(args[1:], " "))
}

func sendMessage(cmd *cobra.Command, id, message string) error {
	reply, err := conversationService.Send(cmd.Context(), id, message)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return conversationError(id, err)
		}
		return chatError(err)
	}
	return printReply(cmd, reply, chatHTML)
}

func runChatShow(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errNoConversationService
	}

	conv, err := conversationService.Get(cmd.Context(), args[0])
	if err != nil {
		return conversationError(args[0], err)
	}
	turns, err := conversationService.Turns(cmd.Context(), args[0])
	if err != nil {
		return conversationError(args[0], err)
	}

	cmd.Printf("%s\n", conv.Title)
	cmd.Printf("ID: %s\n", conv.ID)
	cmd.Printf("Updated: %s\n", conv.UpdatedAt.Local().Format(timeLayout))
	cmd.Println("Documents:")
	for i, doc := range conv.Documents {
		cmd.Printf("  %d. %s\n", i+1, doc)
	}
	cmd.Println()

	if len(turns) == 0 {
		cmd.Println("No messages yet.")
		return nil
	}
	for _, turn := range turns {
		printTurn(cmd, turn)
	}
	return nil
}

func printTurn(cmd *cobra.Command, turn domain.ConversationTurn) {
	if turn.IsUser {
		cmd.Printf("You: %s\n\n", turn.Content)
		return
	}
	content := turn.Content
	if chatHTML {
		content = render.MarkdownToHTML(content)
	}
	cmd.Printf("Assistant: %s\n\n", content)
}

func runChatList(cmd *cobra.Command, _ []string) error {
	if conversationService == nil {
		return errNoConversationService
	}

	convs, err := conversationService.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(convs) == 0 {
		cmd.Println("No conversations. Start one with 'docchat chat new <file.pdf>'.")
		return nil
	}

	for _, c := range convs {
		cmd.Printf("%s  %s  %s  [%s]\n",
			c.ID, c.UpdatedAt.Local().Format(timeLayout), c.Title, documentNames(c.Documents))
	}
	return nil
}

func runChatDelete(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errNoConversationService
	}
	if err := conversationService.Delete(cmd.Context(), args[0]); err != nil {
		return conversationError(args[0], err)
	}
	cmd.Printf("Deleted conversation %s\n", args[0])
	return nil
}

func documentNames(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return strings.Join(names, ", ")
}
