// Package keys contains the presenter keybindings.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the deck view reacts to.
type KeyMap struct {
	// Navigation
	Prev  key.Binding
	Next  key.Binding
	First key.Binding
	Last  key.Binding
	GoTo  key.Binding

	// Scrolling inside a tall slide
	ScrollUp   key.Binding
	ScrollDown key.Binding

	// Toggles
	Wrap    key.Binding
	Sidebar key.Binding
	Notes   key.Binding
	Logs    key.Binding

	// General
	Help   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "k", "pgup", "backspace"),
			key.WithHelp("←/h", "previous slide"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l", "j", " ", "pgdown"),
			key.WithHelp("→/l/space", "next slide"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first slide"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last slide"),
		),
		GoTo: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "go to slide"),
		),

		ScrollUp: key.NewBinding(
			key.WithKeys("up", "ctrl+u"),
			key.WithHelp("↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "ctrl+d"),
			key.WithHelp("↓", "scroll down"),
		),

		Wrap: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle wrap"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle slide list"),
		),
		Notes: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "toggle notes"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "debug log"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.GoTo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.First, k.Last, k.GoTo},
		{k.ScrollUp, k.ScrollDown},
		{k.Wrap, k.Sidebar, k.Notes, k.Logs},
		{k.Help, k.Escape, k.Quit},
	}
}

// GoToPrompt holds the bindings active while the go-to prompt is open.
type GoToPrompt struct {
	Submit   key.Binding
	Complete key.Binding
	Cancel   key.Binding
}

// DefaultGoToPrompt returns the go-to prompt bindings.
func DefaultGoToPrompt() GoToPrompt {
	return GoToPrompt{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
