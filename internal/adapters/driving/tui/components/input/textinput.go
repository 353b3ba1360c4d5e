// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// messageLimit bounds a single typed message.
const messageLimit = 4000

// MessageInput is the single-line box a chat message is typed into.
type MessageInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewMessageInput creates a focused message input.
func NewMessageInput(s *styles.Styles) *MessageInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about your documents..."
	ti.Focus()
	ti.CharLimit = messageLimit
	ti.Width = 60

	return &MessageInput{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init starts the cursor blinking.
func (m *MessageInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (m *MessageInput) Update(msg tea.Msg) (*MessageInput, tea.Cmd) {
	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return m, cmd
}

// View renders the input with its label.
func (m *MessageInput) View() string {
	label := m.styles.UserLabel.Render("You: ")
	box := m.styles.InputField.Render(m.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, box)
}

// Value returns the typed text.
func (m *MessageInput) Value() string {
	return m.textinput.Value()
}

// Submit returns the trimmed text and clears the input. An empty
// message yields "" and leaves the input untouched.
func (m *MessageInput) Submit() string {
	text := strings.TrimSpace(m.textinput.Value())
	if text != "" {
		m.textinput.Reset()
	}
	return text
}

// SetValue sets the input value.
func (m *MessageInput) SetValue(value string) {
	m.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (m *MessageInput) Focus() tea.Cmd {
	return m.textinput.Focus()
}

// Blur removes focus from the input.
func (m *MessageInput) Blur() {
	m.textinput.Blur()
}

// Focused returns whether the input is focused.
func (m *MessageInput) Focused() bool {
	return m.textinput.Focused()
}

// SetWidth sets the total width including the label.
func (m *MessageInput) SetWidth(width int) {
	m.width = width
	inner := width - 12
	if inner < 20 {
		inner = 20
	}
	m.textinput.Width = inner
}

// Width returns the current width.
func (m *MessageInput) Width() int {
	return m.width
}
