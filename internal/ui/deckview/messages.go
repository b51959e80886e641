package deckview

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/slidedeck/internal/presentation"
	"github.com/zjrosen/slidedeck/internal/ui/toaster"
)

// ShowToastMsg asks the root model to show a toast.
type ShowToastMsg struct {
	Message string
	Style   toaster.Style
}

func showToast(message string, style toaster.Style) tea.Cmd {
	return func() tea.Msg {
		return ShowToastMsg{Message: message, Style: style}
	}
}

// Action is a navigation request coming from outside the keyboard.
type Action string

const (
	ActionNext  Action = "next"
	ActionPrev  Action = "prev"
	ActionFirst Action = "first"
	ActionLast  Action = "last"
	ActionGoTo  Action = "goto"
)

// NavigateMsg requests navigation, e.g. from the remote control.
type NavigateMsg struct {
	Action Action
	Slide  string // for ActionGoTo: slide name or 1-based number
	Source string // shown in error toasts
}

// ReloadedMsg carries a freshly parsed deck file.
type ReloadedMsg struct {
	Deck *presentation.Deck
	Err  error
}

// LoadCmd parses the deck file at path off the event loop.
func LoadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		d, err := presentation.Load(path)
		return ReloadedMsg{Deck: d, Err: err}
	}
}

// parseIndex reads a 1-based slide number and returns it 0-based.
func parseIndex(s string, n int) (int, bool) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}
