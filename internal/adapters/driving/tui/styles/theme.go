// Package styles provides the colour palette and lipgloss styles of the
// chat UI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette of the chat UI.
type Theme struct {
	// Accent marks titles and the selected conversation.
	Accent lipgloss.Color

	// User colours the user's side of a transcript.
	User lipgloss.Color

	// Assistant colours the model's side of a transcript.
	Assistant lipgloss.Color

	// Text is the default foreground.
	Text lipgloss.Color

	// Faint is for timestamps, document names and hints.
	Faint lipgloss.Color

	// Caution is for skipped documents and failed model calls.
	Caution lipgloss.Color

	// Danger is for errors.
	Danger lipgloss.Color

	// Edge is the input box border.
	Edge lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#7C3AED"),
		User:      lipgloss.Color("#06B6D4"),
		Assistant: lipgloss.Color("#A78BFA"),
		Text:      lipgloss.Color("#CDD6F4"),
		Faint:     lipgloss.Color("#6C7086"),
		Caution:   lipgloss.Color("#F9E2AF"),
		Danger:    lipgloss.Color("#F38BA8"),
		Edge:      lipgloss.Color("#45475A"),
		Bar:       lipgloss.Color("#181825"),
	}
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Normal         lipgloss.Style
	Muted          lipgloss.Style
	Selected       lipgloss.Style
	Error          lipgloss.Style
	Warning        lipgloss.Style
	InputField     lipgloss.Style
	StatusBar      lipgloss.Style
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// NewStyles derives styles from theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Title:    fg(theme.Accent).Bold(true),
		Subtitle: fg(theme.User).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Faint),
		Selected: fg(theme.Text).Background(theme.Accent).Bold(true),
		Error:    fg(theme.Danger),
		Warning:  fg(theme.Caution),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Edge).
			Padding(0, 1),
		StatusBar:      fg(theme.Faint).Background(theme.Bar).Padding(0, 1),
		UserLabel:      fg(theme.User).Bold(true),
		AssistantLabel: fg(theme.Assistant).Bold(true),
	}
}

// DefaultStyles returns styles for the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}
