// Package conversations provides the conversation list view for the TUI.
package conversations

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// View lists stored conversations.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.ConversationList
	statusbar *status.Bar

	service driving.ConversationService
	ctx     context.Context

	width  int
	height int
}

// NewView creates a conversation list view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.ConversationService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewConversationList(s),
		statusbar: status.NewBar(s, km.ListHelp()),
		service:   service,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the conversation list.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		convs, err := v.service.List(ctx)
		return messages.ConversationsLoaded{Conversations: convs, Err: err}
	}
}

// Update handles messages for the list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ConversationsLoaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.list.SetItems(msg.Conversations)
		v.statusbar.Ready(fmt.Sprintf("%d conversations", len(msg.Conversations)))
		return v, nil

	case messages.ConversationDeleted:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.list.Remove(msg.ID)
		v.statusbar.Ready("Deleted conversation")
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, tea.Quit

	case keymap.Matches(keyStr, v.keymap.Open):
		selected := v.list.SelectedItem()
		if selected == nil {
			return v, nil
		}
		id := selected.ID
		return v, func() tea.Msg { return messages.ConversationSelected{ID: id} }

	case keymap.Matches(keyStr, v.keymap.Delete):
		selected := v.list.SelectedItem()
		if selected == nil {
			return v, nil
		}
		id, ctx := selected.ID, v.ctx
		return v, func() tea.Msg {
			return messages.ConversationDeleted{ID: id, Err: v.service.Delete(ctx, id)}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *View) setError(err error) {
	v.statusbar.Fail(err)
}

// View renders the list.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("docchat"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Chat with your PDF documents"))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-6)
	v.statusbar.SetWidth(width)
}

// List exposes the underlying list component.
func (v *View) List() *list.ConversationList {
	return v.list
}
