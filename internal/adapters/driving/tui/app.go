package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/conversations"
)

// App switches between the conversation list and an open conversation.
// Service results are delivered to the view that asked for them even if
// the user has moved on.
type App struct {
	ports *Ports
	ctx   context.Context

	listView *conversations.View
	chatView *chat.View

	currentView messages.ViewType
	initialID   string

	width, height int
	ready         bool
}

var _ tea.Model = (*App)(nil)

// NewApp opens the list, or conversationID directly when it is set.
func NewApp(ports *Ports, conversationID string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	theme, keys := styles.DefaultStyles(), keymap.DefaultKeyMap()
	start := messages.ViewConversations
	if conversationID != "" {
		start = messages.ViewChat
	}
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		listView:    conversations.NewView(theme, keys, ports.Conversations),
		chatView:    chat.NewView(theme, keys, ports.Conversations),
		currentView: start,
		initialID:   conversationID,
	}, nil
}

// WithContext bounds every service call made by the views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.listView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	return a
}

func (a *App) Init() tea.Cmd {
	load := a.listView.Init()
	if a.initialID != "" {
		load = a.chatView.Open(a.initialID)
	}
	return tea.Batch(tea.SetWindowTitle("docchat"), load)
}

func (a *App) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.listView, cmd = a.listView.Update(msg)
	return a, cmd
}

func (a *App) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
	case messages.Quit:
		return a, tea.Quit

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewConversations {
			return a, a.listView.Init()
		}
		return a, nil
	case messages.ConversationSelected:
		a.currentView = messages.ViewChat
		return a, a.chatView.Open(msg.ID)

	case messages.ConversationsLoaded, messages.ConversationDeleted:
		return a.updateList(msg)
	case messages.ConversationOpened, messages.ReplyReceived:
		return a.updateChat(msg)
	}

	if a.currentView == messages.ViewChat {
		return a.updateChat(msg)
	}
	return a.updateList(msg)
}

func (a *App) View() string {
	switch {
	case !a.ready:
		return "Initialising..."
	case a.currentView == messages.ViewChat:
		return a.chatView.View()
	default:
		return a.listView.View()
	}
}

// Run blocks until the user quits or the context ends.
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx)).Run()
	return err
}

func (a *App) CurrentView() messages.ViewType { return a.currentView }

// Ready reports whether a window size has arrived.
func (a *App) Ready() bool { return a.ready }

// SetDimensions resizes both views.
func (a *App) SetDimensions(width, height int) {
	a.width, a.height, a.ready = width, height, true
	a.listView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
}
