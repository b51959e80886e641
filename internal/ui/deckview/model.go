// Package deckview is the presenter component: it owns a deck controller and
// one card per slide, renders the active slide, and maps keys, mouse clicks
// and remote commands onto navigation.
package deckview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/slidedeck/internal/cachemanager"
	"github.com/zjrosen/slidedeck/internal/config"
	"github.com/zjrosen/slidedeck/internal/deck"
	"github.com/zjrosen/slidedeck/internal/flags"
	"github.com/zjrosen/slidedeck/internal/keys"
	"github.com/zjrosen/slidedeck/internal/log"
	"github.com/zjrosen/slidedeck/internal/presentation"
	"github.com/zjrosen/slidedeck/internal/ui/markdown"
	"github.com/zjrosen/slidedeck/internal/ui/toaster"
)

// Position describes where the presenter is in the deck.
type Position struct {
	Active deck.SlideID
	Key    string // slide name, or "#k" for the k-th unnamed slide
	Index  int    // 1-based, 0 when the deck is empty
	Total  int
}

// Config configures a deck view.
type Config struct {
	Deck   *presentation.Deck
	Wrap   bool
	Start  string // slide name or 1-based number; empty opens the first slide
	Strict bool   // fail instead of falling back when Start is unknown

	UI         config.UIConfig
	Cache      cachemanager.CacheManager[string, string]
	CacheTTL   time.Duration
	Flags      *flags.Registry
	Tracer     trace.Tracer
	ConfigPath string // wrap and pane toggles are saved here when set

	// Observers are registered before the first slide is resolved, so they
	// see the initial change from no slide to the opening one.
	Observers []deck.Observer
	// OnPosition is called after every active change and every reload.
	OnPosition func(Position)
}

// Model is the deck view state.
type Model struct {
	ctrl   *deck.Controller
	deck   *presentation.Deck
	order  []string                // slide keys in file order
	cards  map[string]*deck.Card   // by slide key; identities survive reloads
	slides map[deck.SlideID]presentation.Slide
	keyOf  map[deck.SlideID]string

	render *markdown.SlideCache
	tracer trace.Tracer
	flags  *flags.Registry

	keys       keys.KeyMap
	promptKeys keys.GoToPrompt
	help       help.Model
	viewport   viewport.Model
	prompt     textinput.Model
	zones      string

	prompting   bool
	showHelp    bool
	showSidebar bool
	showNotes   bool
	showFooter  bool

	renderedID    deck.SlideID
	renderedWidth int
	renderErr     error

	configPath string
	onPosition func(Position)
	startToast tea.Cmd

	width  int
	height int
}

// New builds the view and attaches one card per slide in a single batch.
// An unknown Start is an error in strict mode and a warning otherwise.
func New(cfg Config) (Model, error) {
	if cfg.Deck == nil {
		cfg.Deck = &presentation.Deck{}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("deckview")
	}
	cache := cfg.Cache
	if cache == nil {
		cache = cachemanager.NewInMemoryCacheManager[string, string]("slides", 0, 0)
	}

	m := Model{
		deck:        cfg.Deck,
		cards:       make(map[string]*deck.Card),
		slides:      make(map[deck.SlideID]presentation.Slide),
		keyOf:       make(map[deck.SlideID]string),
		render:      markdown.NewSlideCache(cache, cfg.UI.MarkdownStyle, cfg.CacheTTL),
		tracer:      tracer,
		flags:       cfg.Flags,
		keys:        keys.DefaultKeyMap(),
		promptKeys:  keys.DefaultGoToPrompt(),
		help:        help.New(),
		prompt:      newPrompt(),
		zones:       zone.NewPrefix(),
		showSidebar: cfg.UI.ShowSidebar,
		showNotes:   cfg.UI.ShowNotes,
		showFooter:  cfg.UI.ShowFooter,
		configPath:  cfg.ConfigPath,
		onPosition:  cfg.OnPosition,
	}

	for i, key := range cfg.Deck.Keys() {
		m.addCard(key, cfg.Deck.Slides[i])
	}

	var ctrl *deck.Controller
	opts := []deck.Option{
		deck.WithWrap(cfg.Wrap),
		deck.WithTracer(tracer),
		deck.WithInitialActive(m.resolveStart(cfg.Start)),
		deck.WithActiveRemoved(func(removed deck.SlideID) {
			log.Debug(log.CatDeck, "Active slide removed", "slide", removed)
		}),
	}
	for _, o := range cfg.Observers {
		opts = append(opts, deck.WithObserver(o))
	}
	if cfg.OnPosition != nil {
		keyOf := m.keyOf
		opts = append(opts, deck.WithObserver(deck.ObserverFunc(func(deck.Change) {
			cfg.OnPosition(position(ctrl, keyOf))
		})))
	}
	ctrl = deck.NewController(opts...)
	m.ctrl = ctrl

	err := ctrl.Batch(func() error {
		for _, key := range m.order {
			if err := m.cards[key].Attach(ctrl); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if cfg.Strict || !errors.Is(err, deck.ErrUnknownSlide) {
			return Model{}, fmt.Errorf("opening deck: %w", err)
		}
		log.Warn(log.CatDeck, "Start slide not found, opening first slide", "start", cfg.Start, "error", err)
		if rerr := ctrl.ResolveInitialActive(deck.None); rerr != nil {
			return Model{}, rerr
		}
		m.startToast = showToast(err.Error(), toaster.StyleWarn)
	}

	log.Info(log.CatDeck, "Deck opened", "path", cfg.Deck.Path, "slides", ctrl.Len(), "active", ctrl.ActiveID())
	return m, nil
}

// resolveStart maps a slide key or 1-based number onto a card id. Anything
// else is passed through so the controller reports it as unknown.
func (m *Model) resolveStart(start string) deck.SlideID {
	if start == "" {
		return deck.None
	}
	if card, ok := m.cards[start]; ok {
		return card.ID()
	}
	if i, ok := parseIndex(start, len(m.order)); ok {
		return m.cards[m.order[i]].ID()
	}
	return deck.SlideID(start)
}

// addCard creates the card for key, or reuses the one from a previous
// version of the deck, and records its content. It does not attach it.
func (m *Model) addCard(key string, slide presentation.Slide) *deck.Card {
	card, ok := m.cards[key]
	if !ok {
		card = deck.NewCard(slide.Name)
		m.cards[key] = card
	}
	m.slides[card.ID()] = slide
	m.keyOf[card.ID()] = key
	m.order = append(m.order, key)
	return card
}

// Init returns the start-up toast, if any.
func (m Model) Init() tea.Cmd {
	return m.startToast
}

// Controller exposes the deck controller.
func (m Model) Controller() *deck.Controller {
	return m.ctrl
}

// Deck returns the currently presented deck.
func (m Model) Deck() *presentation.Deck {
	return m.deck
}

// ActiveSlide returns the active slide's content.
func (m Model) ActiveSlide() (presentation.Slide, bool) {
	s, ok := m.slides[m.ctrl.ActiveID()]
	return s, ok
}

// Position returns the presenter's position in the deck.
func (m Model) Position() Position {
	return position(m.ctrl, m.keyOf)
}

func position(ctrl *deck.Controller, keyOf map[deck.SlideID]string) Position {
	active := ctrl.ActiveID()
	return Position{
		Active: active,
		Key:    keyOf[active],
		Index:  ctrl.IndexOf(active) + 1,
		Total:  ctrl.Len(),
	}
}

// KeyOf returns the deck key of slide id, or "" for an unknown id. The
// lookup reflects reloads on every copy of the model.
func (m Model) KeyOf(id deck.SlideID) string {
	return m.keyOf[id]
}

// Prompting reports whether the go-to prompt has focus.
func (m Model) Prompting() bool {
	return m.prompting
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	m.syncViewport()
	return m
}

func (m Model) reportPosition() {
	if m.onPosition != nil {
		m.onPosition(m.Position())
	}
}

// syncViewport renders the active slide into the viewport when the slide or
// the available width changed.
func (m *Model) syncViewport() {
	l := m.layout()
	m.viewport.Width = l.contentWidth
	m.viewport.Height = l.contentHeight

	active := m.ctrl.ActiveID()
	if active == m.renderedID && l.contentWidth == m.renderedWidth {
		return
	}
	m.renderedID = active
	m.renderedWidth = l.contentWidth
	m.renderErr = nil

	slide, ok := m.slides[active]
	if !ok || l.contentWidth <= 0 {
		m.viewport.SetContent("")
		return
	}
	out, err := m.render.Render(context.Background(), active, slide.Body, l.contentWidth)
	if err != nil {
		log.ErrorErr(log.CatUI, "Rendering slide failed", err, "slide", active)
		m.renderErr = err
		out = slide.Body
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

// invalidate forces the next sync to re-render.
func (m *Model) invalidate() {
	m.renderedID = deck.None
	m.renderedWidth = 0
}
