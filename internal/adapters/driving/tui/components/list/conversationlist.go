// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ConversationList displays stored conversations in a navigable list.
type ConversationList struct {
	items    []domain.Conversation
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewConversationList creates an empty conversation list.
func NewConversationList(s *styles.Styles) *ConversationList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ConversationList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation keys.
func (l *ConversationList) Update(msg tea.Msg) (*ConversationList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *ConversationList) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render("No conversations yet. Start one with 'docchat chat new <file.pdf>'.")
	}

	lines := make([]string, 0, len(l.items)*2+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Conversations (%d)", len(l.items))), "")

	// Each entry takes two lines.
	visible := (l.height - 2) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.items))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i, &l.items[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *ConversationList) renderItem(index int, conv *domain.Conversation) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	title := truncate(conv.Title, max(l.width-24, 10))
	updated := conv.UpdatedAt.Format("2006-01-02 15:04")

	var titleLine string
	if index == l.selected {
		titleLine = l.styles.Selected.Render(indicator + title + "  " + updated)
	} else {
		titleLine = l.styles.Normal.Render(indicator+title+"  ") + l.styles.Muted.Render(updated)
	}

	names := make([]string, len(conv.Documents))
	for i, p := range conv.Documents {
		names[i] = filepath.Base(p)
	}
	docs := truncate(strings.Join(names, ", "), max(l.width-6, 20))

	return titleLine + "\n" + l.styles.Muted.Render("    "+docs)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// SetItems replaces the listed conversations and resets the selection.
func (l *ConversationList) SetItems(items []domain.Conversation) {
	l.items = items
	l.selected = 0
}

// Items returns the listed conversations.
func (l *ConversationList) Items() []domain.Conversation {
	return l.items
}

// Remove drops the conversation with id, keeping the selection in range.
func (l *ConversationList) Remove(id string) {
	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			break
		}
	}
	if l.selected >= len(l.items) && l.selected > 0 {
		l.selected = len(l.items) - 1
	}
}

// Selected returns the index of the selected conversation.
func (l *ConversationList) Selected() int {
	return l.selected
}

// SelectedItem returns the selected conversation, or nil if the list is empty.
func (l *ConversationList) SelectedItem() *domain.Conversation {
	if l.selected < 0 || l.selected >= len(l.items) {
		return nil
	}
	return &l.items[l.selected]
}

// MoveUp moves selection up.
func (l *ConversationList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *ConversationList) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *ConversationList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of conversations.
func (l *ConversationList) Count() int {
	return len(l.items)
}
