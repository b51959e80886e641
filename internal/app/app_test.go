package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slidedeck/internal/config"
	"github.com/zjrosen/slidedeck/internal/deck"
	"github.com/zjrosen/slidedeck/internal/log"
	"github.com/zjrosen/slidedeck/internal/mocks"
	"github.com/zjrosen/slidedeck/internal/presentation"
	"github.com/zjrosen/slidedeck/internal/pubsub"
	"github.com/zjrosen/slidedeck/internal/rehearsal"
	"github.com/zjrosen/slidedeck/internal/remote"
	"github.com/zjrosen/slidedeck/internal/ui/deckview"
	"github.com/zjrosen/slidedeck/internal/watcher"
)

const talk = `---
title: Demo
---
<!-- slide: intro -->
# Welcome
---
# Middle
---
<!-- slide: outro -->
# Thanks
`

func testSettings() config.Config {
	cfg := config.Defaults()
	cfg.UI.MarkdownStyle = "notty"
	cfg.LiveReload.Enabled = false
	return cfg
}

func parseDeck(t *testing.T) *presentation.Deck {
	t.Helper()
	d, err := presentation.Parse(strings.NewReader(talk))
	require.NoError(t, err)
	return d
}

// createTestModel creates a sized Model without watcher, remote or store.
func createTestModel(t *testing.T, cfg Config) Model {
	t.Helper()
	if cfg.Deck == nil {
		cfg.Deck = parseDeck(t)
	}
	if cfg.Settings.UI.MarkdownStyle == "" {
		cfg.Settings = testSettings()
	}
	m, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type fakeRemote struct {
	mu       sync.Mutex
	commands *pubsub.Broker[remote.Command]
	states   []remote.State
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{commands: pubsub.NewBroker[remote.Command]()}
}

func (f *fakeRemote) Commands() *pubsub.Broker[remote.Command] { return f.commands }

func (f *fakeRemote) PublishState(s remote.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, s)
}

func (f *fakeRemote) last() remote.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[len(f.states)-1]
}

func TestApp_WindowSizeMsg(t *testing.T) {
	m := createTestModel(t, Config{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})

	require.Equal(t, 120, m.width)
	require.Equal(t, 50, m.height)
}

func TestApp_ViewShowsActiveSlide(t *testing.T) {
	m := createTestModel(t, Config{})

	view := m.View()

	require.Contains(t, view, "Welcome")
	require.Contains(t, view, "1/3")
}

func TestApp_StartPrecedence(t *testing.T) {
	settings := testSettings()
	settings.Deck.Start = "2"

	m := createTestModel(t, Config{Settings: settings})
	require.Equal(t, 2, m.Deck().Position().Index, "config start")

	d := parseDeck(t)
	d.Meta.Start = "outro"
	m = createTestModel(t, Config{Settings: settings, Deck: d})
	require.Equal(t, deck.SlideID("outro"), m.Deck().Controller().ActiveID(), "front matter wins over config")

	m = createTestModel(t, Config{Settings: settings, Deck: d, Start: "intro"})
	require.Equal(t, deck.SlideID("intro"), m.Deck().Controller().ActiveID(), "command line wins")
}

func TestApp_WrapOverride(t *testing.T) {
	wrap := true
	m := createTestModel(t, Config{Wrap: &wrap})

	require.True(t, m.Deck().Controller().Wrap())
}

func TestApp_StrictUnknownStartFails(t *testing.T) {
	_, err := New(Config{Deck: parseDeck(t), Settings: testSettings(), Start: "nope"})

	require.ErrorIs(t, err, deck.ErrUnknownSlide)
}

func TestApp_ToastFromDeckView(t *testing.T) {
	m := createTestModel(t, Config{})

	m, cmd := update(t, m, runes("w"))
	require.NotNil(t, cmd)
	m, dismiss := update(t, m, cmd())

	require.True(t, m.toaster.Visible())
	require.Equal(t, "Wrap on", m.toaster.Message())
	require.Contains(t, m.View(), "Wrap on")
	require.NotNil(t, dismiss)
}

func TestApp_LogOverlayToggle(t *testing.T) {
	m := createTestModel(t, Config{Debug: true})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.True(t, m.logOverlay.Visible())

	// Navigation keys go to the overlay while it is open.
	m, _ = update(t, m, runes("l"))
	require.Equal(t, 1, m.Deck().Position().Index)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.False(t, m.logOverlay.Visible())

	m, _ = update(t, m, runes("l"))
	require.Equal(t, 2, m.Deck().Position().Index)
}

func TestApp_LogOverlayIgnoredWithoutDebug(t *testing.T) {
	m := createTestModel(t, Config{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})

	require.False(t, m.logOverlay.Visible())
}

func TestApp_LogEventsReachOverlay(t *testing.T) {
	m := createTestModel(t, Config{Debug: true})

	m, _ = update(t, m, pubsub.Event[string]{Type: pubsub.LogEntry, Payload: "12:00:00 [INFO] [deck] hello\n"})

	require.Equal(t, []string{"12:00:00 [INFO] [deck] hello"}, m.logOverlay.Entries())
}

func TestApp_RemoteCommandsNavigate(t *testing.T) {
	r := newFakeRemote()
	m := createTestModel(t, Config{Remote: r})
	require.Equal(t, remote.State{Active: "intro", Index: 1, Total: 3}, r.last())

	m, cmd := update(t, m, pubsub.Event[remote.Command]{
		Type:    pubsub.Command,
		Payload: remote.Command{Action: remote.ActionGoTo, Slide: "outro"},
	})

	require.NotNil(t, cmd, "listener is re-issued")
	require.Equal(t, deck.SlideID("outro"), m.Deck().Controller().ActiveID())
	require.Equal(t, remote.State{Active: "outro", Index: 3, Total: 3}, r.last())
}

func TestApp_RemoteFailureShowsToast(t *testing.T) {
	r := newFakeRemote()
	m := createTestModel(t, Config{Remote: r})

	m, _ = update(t, m, pubsub.Event[remote.Command]{
		Type:    pubsub.Failed,
		Payload: remote.Command{Err: remote.ErrInvalidCommand},
	})

	require.Equal(t, "remote: invalid remote command", m.toaster.Message())
}

func TestApp_RecordsRehearsal(t *testing.T) {
	sink := mocks.NewMockSink(t)
	var slides []string
	sink.EXPECT().RecordDwell(mock.Anything, mock.Anything).
		Run(func(_ context.Context, d rehearsal.Dwell) { slides = append(slides, d.Slide) }).
		Return(nil)

	m := createTestModel(t, Config{Rehearsal: sink, SessionID: 3})
	m, _ = update(t, m, runes("l"))
	m, _ = update(t, m, runes("l"))
	require.NoError(t, m.Close())

	require.Equal(t, []string{"intro", "#1", "outro"}, slides)
}

func TestApp_CloseReportsFlushError(t *testing.T) {
	sink := mocks.NewMockSink(t)
	sink.EXPECT().RecordDwell(mock.Anything, mock.Anything).Return(errors.New("disk full"))

	m, err := New(Config{Deck: parseDeck(t), Settings: testSettings(), Rehearsal: sink})
	require.NoError(t, err)

	require.EqualError(t, m.Close(), "disk full")
}

func TestApp_LiveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.md")
	require.NoError(t, os.WriteFile(path, []byte(talk), 0o644))
	d, err := presentation.Load(path)
	require.NoError(t, err)

	settings := testSettings()
	settings.LiveReload.Enabled = true
	m := createTestModel(t, Config{Deck: d, Settings: settings})
	require.NotNil(t, m.watcherHandle)

	_, cmd := update(t, m, watcher.ChangedMsg{Path: path})
	require.NotNil(t, cmd)

	reloaded, err := presentation.Load(path)
	require.NoError(t, err)
	m, cmd = update(t, m, deckview.ReloadedMsg{Deck: reloaded})
	require.NotNil(t, cmd)
	msg, ok := cmd().(deckview.ShowToastMsg)
	require.True(t, ok)
	require.Equal(t, "Reloaded: no changes", msg.Message)
}

func TestApp_Program(t *testing.T) {
	m, err := New(Config{Deck: parseDeck(t), Settings: testSettings()})
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("1/3"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(runes("G"))
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("3/3"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(runes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final := tm.FinalModel(t).(Model)
	require.Equal(t, deck.SlideID("outro"), final.Deck().Controller().ActiveID())
}

func TestMain(m *testing.M) {
	zone.NewGlobal()
	closeLog := log.InitWriter(io.Discard)
	code := m.Run()
	closeLog()
	os.Exit(code)
}
