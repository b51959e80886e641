// Package app contains the root application model.
package app

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/slidedeck/internal/cachemanager"
	"github.com/zjrosen/slidedeck/internal/config"
	"github.com/zjrosen/slidedeck/internal/deck"
	"github.com/zjrosen/slidedeck/internal/flags"
	"github.com/zjrosen/slidedeck/internal/keys"
	"github.com/zjrosen/slidedeck/internal/log"
	"github.com/zjrosen/slidedeck/internal/presentation"
	"github.com/zjrosen/slidedeck/internal/pubsub"
	"github.com/zjrosen/slidedeck/internal/rehearsal"
	"github.com/zjrosen/slidedeck/internal/remote"
	"github.com/zjrosen/slidedeck/internal/ui/deckview"
	"github.com/zjrosen/slidedeck/internal/ui/logoverlay"
	"github.com/zjrosen/slidedeck/internal/ui/toaster"
	"github.com/zjrosen/slidedeck/internal/watcher"
)

// Remote is the part of the remote control client the app uses.
type Remote interface {
	Commands() *pubsub.Broker[remote.Command]
	PublishState(s remote.State)
}

// Config wires the application.
type Config struct {
	Deck       *presentation.Deck
	Settings   config.Config
	ConfigPath string
	Debug      bool // enables the log overlay (ctrl+x)

	// Command line overrides; they win over front matter, which wins over
	// the config file.
	Wrap  *bool
	Start string

	Cache  cachemanager.CacheManager[string, string]
	Flags  *flags.Registry
	Tracer trace.Tracer

	// Remote is nil when remote control is disabled.
	Remote Remote
	// Rehearsal is nil when timings are not recorded.
	Rehearsal rehearsal.Sink
	SessionID int64
}

// Model is the root application state.
type Model struct {
	view deckview.Model
	keys keys.KeyMap

	width  int
	height int

	// Centralized toaster, owned by app rather than the deck view
	toaster toaster.Model

	debugMode   bool
	logOverlay  logoverlay.Model
	logListener *log.Listener

	recorder *rehearsal.Recorder

	remoteListener *pubsub.ContinuousListener[remote.Command]

	// File watcher for live reload
	watcherHandle  *watcher.Watcher
	watcherChanges <-chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the application model. It fails when the deck cannot be
// opened, e.g. an unknown start slide in strict mode.
func New(cfg Config) (Model, error) {
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		keys:       keys.DefaultKeyMap(),
		toaster:    toaster.New(),
		debugMode:  cfg.Debug,
		logOverlay: logoverlay.New(),
		ctx:        ctx,
		cancel:     cancel,
	}

	var (
		view      deckview.Model
		observers []deck.Observer
	)
	if cfg.Rehearsal != nil {
		m.recorder = rehearsal.NewRecorder(cfg.Rehearsal, cfg.SessionID,
			rehearsal.WithTracer(cfg.Tracer),
			rehearsal.WithKeyFunc(func(id deck.SlideID) string { return view.KeyOf(id) }),
		)
		observers = append(observers, m.recorder)
	}

	var onPosition func(deckview.Position)
	if cfg.Remote != nil {
		r := cfg.Remote
		onPosition = func(p deckview.Position) {
			r.PublishState(remote.State{Active: p.Key, Index: p.Index, Total: p.Total})
		}
		m.remoteListener = pubsub.NewContinuousListener[remote.Command](ctx, r.Commands())
	}

	wrap := cfg.Settings.Deck.Wrap
	start := cfg.Settings.Deck.Start
	if cfg.Deck != nil {
		if w := cfg.Deck.Meta.Wrap; w != nil {
			wrap = *w
		}
		if s := cfg.Deck.Meta.Start; s != "" {
			start = s
		}
	}
	if cfg.Wrap != nil {
		wrap = *cfg.Wrap
	}
	if cfg.Start != "" {
		start = cfg.Start
	}

	view, err := deckview.New(deckview.Config{
		Deck:       cfg.Deck,
		Wrap:       wrap,
		Start:      start,
		Strict:     cfg.Settings.Deck.Strict,
		UI:         cfg.Settings.UI,
		Cache:      cfg.Cache,
		CacheTTL:   cfg.Settings.Cache.Expiration,
		Flags:      cfg.Flags,
		Tracer:     cfg.Tracer,
		ConfigPath: cfg.ConfigPath,
		Observers:  observers,
		OnPosition: onPosition,
	})
	if err != nil {
		cancel()
		return Model{}, err
	}
	m.view = view

	if cfg.Debug {
		m.logListener = log.NewListener(ctx)
	}

	if cfg.Settings.LiveReload.Enabled && cfg.Deck != nil && cfg.Deck.Path != "" {
		m.startWatcher(cfg.Deck.Path, cfg.Settings.LiveReload)
	}
	return m, nil
}

// startWatcher sets up live reload. The app works without it, so failures
// are only logged.
func (m *Model) startWatcher(path string, lr config.LiveReloadConfig) {
	w, err := watcher.New(watcher.Config{Path: path, Debounce: lr.Debounce})
	if err != nil {
		log.Warn(log.CatWatcher, "Live reload disabled", "error", err)
		return
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		log.Warn(log.CatWatcher, "Live reload disabled", "error", err)
		return
	}
	m.watcherHandle = w
	m.watcherChanges = changes
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.view.Init()}
	if m.watcherHandle != nil {
		cmds = append(cmds, m.watcherHandle.WaitCmd(m.watcherChanges))
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.remoteListener != nil {
		cmds = append(cmds, m.remoteListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view = m.view.SetSize(msg.Width, msg.Height)
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		// Route mouse events to log overlay when visible
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}

	case pubsub.Event[string]:
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, tea.Batch(cmd, m.logListener.Listen())

	case tea.KeyMsg:
		if m.debugMode && key.Matches(msg, m.keys.Logs) {
			m.logOverlay.Toggle()
			return m, nil
		}

		// If the debug log overlay is visible it takes precedence for updates
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}

	case watcher.ChangedMsg:
		if m.watcherHandle == nil {
			return m, nil
		}
		log.Debug(log.CatWatcher, "Deck file changed, reloading", "path", msg.Path)
		return m, tea.Batch(deckview.LoadCmd(msg.Path), m.watcherHandle.WaitCmd(m.watcherChanges))

	case pubsub.Event[remote.Command]:
		return m.handleRemote(msg)

	case deckview.ShowToastMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(msg.Message, msg.Style, toaster.DefaultDuration)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case logoverlay.CloseMsg:
		m.logOverlay.Hide()
		return m, nil
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m Model) handleRemote(ev pubsub.Event[remote.Command]) (tea.Model, tea.Cmd) {
	listen := m.remoteListener.Listen()
	switch ev.Type {
	case pubsub.Command:
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(deckview.NavigateMsg{
			Action: deckview.Action(ev.Payload.Action),
			Slide:  ev.Payload.Slide,
			Source: "remote",
		})
		return m, tea.Batch(cmd, listen)
	case pubsub.Failed:
		err := ev.Payload.Err
		if err == nil {
			err = errors.New("invalid command")
		}
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show("remote: "+err.Error(), toaster.StyleError, toaster.DefaultDuration)
		return m, tea.Batch(cmd, listen)
	}
	return m, listen
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.view.View()

	// Overlay toaster on top of the slide
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	// Overlay log viewer on top (only in debug mode when visible)
	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}

	return zone.Scan(view)
}

// Deck returns the deck view.
func (m Model) Deck() deckview.Model {
	return m.view
}

// Close releases resources held by the application: it records the final
// dwell, stops listeners and stops the watcher.
func (m *Model) Close() error {
	var errs []error
	if m.recorder != nil {
		errs = append(errs, m.recorder.Flush())
	}
	if m.cancel != nil {
		m.cancel()
	}
	if m.watcherHandle != nil {
		errs = append(errs, m.watcherHandle.Stop())
	}
	return errors.Join(errs...)
}
