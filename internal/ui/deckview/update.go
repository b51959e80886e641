package deckview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/slidedeck/internal/config"
	"github.com/zjrosen/slidedeck/internal/deck"
	"github.com/zjrosen/slidedeck/internal/flags"
	"github.com/zjrosen/slidedeck/internal/log"
	"github.com/zjrosen/slidedeck/internal/ui/toaster"
)

// Zone names for clickable elements.
const (
	zonePrev  = "prev"
	zoneNext  = "next"
	zoneSlide = "slide:"
)

const wheelStep = 3

// Update handles messages for the deck view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)
	case tea.MouseMsg:
		m, cmd = m.handleMouse(msg)
	case NavigateMsg:
		m, cmd = m.navigate(msg)
	case ReloadedMsg:
		m, cmd = m.reload(msg)
	default:
		if m.prompting {
			m.prompt, cmd = m.prompt.Update(msg)
		}
	}
	m.syncViewport()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.prompting {
		return m.handlePromptKey(msg)
	}
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help, m.keys.Escape):
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Prev):
		m.ctrl.Prev()
	case key.Matches(msg, m.keys.Next):
		m.ctrl.Next()
	case key.Matches(msg, m.keys.First):
		m.ctrl.First()
	case key.Matches(msg, m.keys.Last):
		m.ctrl.Last()
	case key.Matches(msg, m.keys.GoTo):
		m.openPrompt()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Wrap):
		return m.toggleWrap()
	case key.Matches(msg, m.keys.Sidebar):
		m.showSidebar = !m.showSidebar
		return m, m.saveToggles()
	case key.Matches(msg, m.keys.Notes):
		m.showNotes = !m.showNotes
		return m, m.saveToggles()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	return m, nil
}

func (m Model) toggleWrap() (Model, tea.Cmd) {
	wrap := !m.ctrl.Wrap()
	m.ctrl.SetWrap(wrap)
	log.Info(log.CatUI, "Wrap toggled", "wrap", wrap)

	if m.configPath != "" {
		if err := config.SaveDeckSettings(m.configPath, wrap); err != nil {
			log.ErrorErr(log.CatConfig, "Saving wrap setting failed", err, "path", m.configPath)
			return m, showToast("Could not save wrap setting: "+err.Error(), toaster.StyleError)
		}
	}
	if wrap {
		return m, showToast("Wrap on", toaster.StyleInfo)
	}
	return m, showToast("Wrap off", toaster.StyleInfo)
}

func (m Model) saveToggles() tea.Cmd {
	if m.configPath == "" {
		return nil
	}
	if err := config.SaveUIToggles(m.configPath, m.showSidebar, m.showNotes); err != nil {
		log.ErrorErr(log.CatConfig, "Saving view toggles failed", err, "path", m.configPath)
		return showToast("Could not save view settings: "+err.Error(), toaster.StyleError)
	}
	return nil
}

func newPrompt() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "go to: "
	ti.Placeholder = "slide name or number"
	ti.CharLimit = 64
	return ti
}

func (m *Model) openPrompt() {
	m.prompting = true
	m.prompt.SetValue("")
	m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.promptKeys.Cancel):
		m.closePrompt()
		return m, nil
	case key.Matches(msg, m.promptKeys.Submit):
		target := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		if target == "" {
			return m, nil
		}
		return m, m.goTo(target, "go to")
	case key.Matches(msg, m.promptKeys.Complete):
		m.prompt.SetValue(m.complete(m.prompt.Value()))
		m.prompt.CursorEnd()
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// lookup resolves a slide name, "#k" key, 1-based number or raw id.
func (m Model) lookup(target string) deck.SlideID {
	if card, ok := m.cards[target]; ok && card.Attached() {
		return card.ID()
	}
	slides := m.ctrl.Slides()
	if i, ok := parseIndex(target, len(slides)); ok {
		return slides[i].ID
	}
	return deck.SlideID(target)
}

func (m Model) goTo(target, source string) tea.Cmd {
	if err := m.ctrl.GoTo(m.lookup(target)); err != nil {
		log.Warn(log.CatDeck, "Go to failed", "target", target, "source", source, "error", err)
		return showToast(fmt.Sprintf("%s: %v", source, err), toaster.StyleError)
	}
	return nil
}

// complete returns the first named slide starting with prefix, in deck order.
func (m Model) complete(prefix string) string {
	if prefix == "" {
		return prefix
	}
	for _, k := range m.order {
		if strings.HasPrefix(k, "#") && !strings.HasPrefix(prefix, "#") {
			continue
		}
		if strings.HasPrefix(k, prefix) {
			return k
		}
	}
	return prefix
}

func (m Model) navigate(msg NavigateMsg) (Model, tea.Cmd) {
	source := msg.Source
	if source == "" {
		source = "navigate"
	}
	switch msg.Action {
	case ActionNext:
		m.ctrl.Next()
	case ActionPrev:
		m.ctrl.Prev()
	case ActionFirst:
		m.ctrl.First()
	case ActionLast:
		m.ctrl.Last()
	case ActionGoTo:
		return m, m.goTo(msg.Slide, source)
	default:
		log.Warn(log.CatDeck, "Unknown navigation action", "action", msg.Action, "source", source)
		return m, showToast(fmt.Sprintf("%s: unknown action %q", source, msg.Action), toaster.StyleError)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.viewport.ScrollUp(wheelStep)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.viewport.ScrollDown(wheelStep)
		return m, nil
	}
	if !m.flags.Enabled(flags.FlagMouse) || msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	switch {
	case m.inZone(zonePrev, msg):
		m.ctrl.Prev()
	case m.inZone(zoneNext, msg):
		m.ctrl.Next()
	default:
		for _, s := range m.ctrl.Slides() {
			if m.inZone(zoneSlide+string(s.ID), msg) {
				_ = m.ctrl.GoTo(s.ID)
				break
			}
		}
	}
	return m, nil
}

func (m Model) zoneID(name string) string {
	return m.zones + name
}

func (m Model) inZone(name string, msg tea.MouseMsg) bool {
	z := zone.Get(m.zoneID(name))
	return z != nil && z.InBounds(msg)
}
