// Package keymap holds the key bindings of the chat UI.
package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap is every binding the views react to. Open and Send share enter;
// they are never active in the same view.
type KeyMap struct {
	Quit       key.Binding
	Back       key.Binding
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	Delete     key.Binding
	Send       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns vim-style list navigation with enter to act.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:       bind("q", "quit", "q", "ctrl+c"),
		Back:       bind("esc", "back", "esc"),
		Up:         bind("↑/k", "up", "up", "k"),
		Down:       bind("↓/j", "down", "down", "j"),
		Open:       bind("enter", "open", "enter"),
		Delete:     bind("d", "delete", "d"),
		Send:       bind("enter", "send", "enter"),
		ScrollUp:   bind("pgup", "scroll up", "pgup"),
		ScrollDown: bind("pgdn", "scroll down", "pgdown"),
	}
}

// ListHelp is shown under the conversation list.
func (k *KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Open, k.Delete, k.Quit}
}

// ChatHelp is shown under a conversation. q is ordinary text there, so
// quitting is ctrl+c only.
func (k *KeyMap) ChatHelp() []key.Binding {
	return []key.Binding{k.Send, k.ScrollUp, k.Back}
}

// Matches reports whether keyStr is one of binding's keys.
func Matches(keyStr string, binding key.Binding) bool {
	return slices.Contains(binding.Keys(), keyStr)
}
