// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// chromeHeight is the number of lines used by the header, input and status bar.
const chromeHeight = 8

// View shows one conversation's transcript and sends new messages.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.MessageInput
	transcript viewport.Model
	statusbar  *status.Bar

	service driving.ConversationService
	ctx     context.Context

	conversation *domain.Conversation
	turns        []domain.ConversationTurn
	waiting      bool

	width  int
	height int
}

// NewView creates a chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.ConversationService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewMessageInput(s),
		transcript: viewport.New(80, 24-chromeHeight),
		statusbar:  status.NewBar(s, km.ChatHelp()),
		service:    service,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open loads the conversation with id and its history.
func (v *View) Open(id string) tea.Cmd {
	v.conversation = nil
	v.turns = nil
	v.waiting = false
	v.statusbar.Ready("")
	v.refresh()

	ctx := v.ctx
	return tea.Batch(v.input.Focus(), func() tea.Msg {
		conv, err := v.service.Get(ctx, id)
		if err != nil {
			return messages.ConversationOpened{Err: err}
		}
		turns, err := v.service.Turns(ctx, id)
		return messages.ConversationOpened{Conversation: conv, Turns: turns, Err: err}
	})
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ConversationOpened:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.conversation = msg.Conversation
		v.turns = msg.Turns
		v.statusbar.Ready(fmt.Sprintf("%d documents", len(msg.Conversation.Documents)))
		v.refresh()
		return v, nil

	case messages.ReplyReceived:
		return v.handleReply(msg), nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewConversations} }

	case keymap.Matches(keyStr, v.keymap.ScrollUp), keymap.Matches(keyStr, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd

	case keymap.Matches(keyStr, v.keymap.Send):
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) submit() tea.Cmd {
	if v.waiting || v.conversation == nil {
		return nil
	}
	text := v.input.Submit()
	if text == "" {
		return nil
	}

	v.turns = append(v.turns, domain.ConversationTurn{IsUser: true, Content: text})
	v.waiting = true
	v.statusbar.Show(status.StateThinking, "")
	v.refresh()

	id, ctx := v.conversation.ID, v.ctx
	return func() tea.Msg {
		reply, err := v.service.Send(ctx, id, text)
		return messages.ReplyReceived{Reply: reply, Err: err}
	}
}

func (v *View) handleReply(msg messages.ReplyReceived) *View {
	v.waiting = false
	if msg.Err != nil {
		// The message was not stored; take it back off the transcript.
		if n := len(v.turns); n > 0 && v.turns[n-1].IsUser {
			v.input.SetValue(v.turns[n-1].Content)
			v.turns = v.turns[:n-1]
		}
		v.setError(msg.Err)
		v.refresh()
		return v
	}

	v.turns = append(v.turns, domain.ConversationTurn{IsUser: false, Content: msg.Reply.Answer})
	switch {
	case msg.Reply.Failed:
		v.statusbar.Show(status.StateError, "the model call failed")
	case len(msg.Reply.Warnings) > 0:
		v.statusbar.Show(status.StateWarning, strings.Join(msg.Reply.Warnings, "; "))
	default:
		v.statusbar.Ready(fmt.Sprintf("Answered from %d documents", msg.Reply.Context.DocumentCount()))
	}
	v.refresh()
	return v
}

func (v *View) setError(err error) {
	v.statusbar.Fail(err)
}

// refresh re-renders the transcript and scrolls to the latest turn.
func (v *View) refresh() {
	v.transcript.SetContent(v.renderTurns())
	v.transcript.GotoBottom()
}

func (v *View) renderTurns() string {
	if len(v.turns) == 0 {
		return v.styles.Muted.Render("No messages yet. Ask a question below.")
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-2, 20))
	blocks := make([]string, 0, len(v.turns))
	for _, t := range v.turns {
		label := v.styles.AssistantLabel.Render("Assistant:")
		if t.IsUser {
			label = v.styles.UserLabel.Render("You:")
		}
		blocks = append(blocks, label+"\n"+wrap.Render(t.Content))
	}
	if v.waiting {
		blocks = append(blocks, v.styles.Muted.Render("Assistant is thinking..."))
	}
	return strings.Join(blocks, "\n\n")
}

// View renders the chat view.
func (v *View) View() string {
	title := "Loading conversation..."
	if v.conversation != nil {
		title = v.conversation.Title
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(v.transcript.View())
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.transcript.Width = width
	v.transcript.Height = max(height-chromeHeight, 3)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// Turns returns the transcript shown.
func (v *View) Turns() []domain.ConversationTurn {
	return v.turns
}

// Waiting reports whether a reply is pending.
func (v *View) Waiting() bool {
	return v.waiting
}

// Conversation returns the open conversation, or nil.
func (v *View) Conversation() *domain.Conversation {
	return v.conversation
}
