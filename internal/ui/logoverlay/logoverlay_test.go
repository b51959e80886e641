package logoverlay

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slidedeck/internal/log"
	"github.com/zjrosen/slidedeck/internal/pubsub"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func entry(level, msg string) string {
	return fmt.Sprintf("2025-03-01T09:00:00 [%s] [deck] %s\n", level, msg)
}

func visible(t *testing.T) Model {
	t.Helper()
	m := New()
	m.SetSize(80, 30)
	m.Show()
	return m
}

func TestNew(t *testing.T) {
	m := New()

	require.False(t, m.Visible())
	require.Equal(t, log.LevelDebug, m.MinLevel())
	require.Empty(t, m.View())
}

func TestToggle(t *testing.T) {
	m := New()
	m.Toggle()
	require.True(t, m.Visible())
	m.Toggle()
	require.False(t, m.Visible())
}

func TestUpdate_LogEventAppendsWhileHidden(t *testing.T) {
	m := New()

	m, _ = m.Update(pubsub.Event[string]{Type: pubsub.LogEntry, Payload: entry("INFO", "hello"), Timestamp: time.Now()})
	m, _ = m.Update(pubsub.Event[string]{Type: pubsub.Navigated, Payload: "ignored"})

	require.Equal(t, []string{strings.TrimSuffix(entry("INFO", "hello"), "\n")}, m.Entries())
}

func TestAppend_BoundsBuffer(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+10; i++ {
		m.Append(entry("DEBUG", fmt.Sprintf("n=%d", i)))
	}

	require.Len(t, m.Entries(), maxEntries)
	require.Contains(t, m.Entries()[0], "n=10")
}

func TestUpdate_KeysIgnoredWhenHidden(t *testing.T) {
	m := New()

	m, cmd := m.Update(key("e"))

	require.Nil(t, cmd)
	require.Equal(t, log.LevelDebug, m.MinLevel())
}

func TestUpdate_FilterKeys(t *testing.T) {
	tests := []struct {
		key  string
		want log.Level
	}{
		{"i", log.LevelInfo},
		{"w", log.LevelWarn},
		{"e", log.LevelError},
		{"d", log.LevelDebug},
	}
	m := visible(t)
	for _, tt := range tests {
		m, _ = m.Update(key(tt.key))
		require.Equal(t, tt.want, m.MinLevel(), "key %s", tt.key)
	}
}

func TestUpdate_Close(t *testing.T) {
	for _, k := range []string{"esc", "ctrl+x"} {
		t.Run(k, func(t *testing.T) {
			m := visible(t)

			m, cmd := m.Update(key(k))

			require.False(t, m.Visible())
			require.NotNil(t, cmd)
			require.Equal(t, CloseMsg{}, cmd())
		})
	}
}

func TestUpdate_ClearEmptiesBuffer(t *testing.T) {
	m := visible(t)
	m.Append(entry("INFO", "one"))

	m, _ = m.Update(key("c"))

	require.Empty(t, m.Entries())
	require.Contains(t, m.View(), "No logs to display")
}

func TestView_FiltersByLevel(t *testing.T) {
	m := visible(t)
	m.Append(entry("DEBUG", "noisy"))
	m.Append(entry("WARN", "careful"))
	m.Append("unformatted line")

	m, _ = m.Update(key("w"))
	view := ansi.Strip(m.View())

	require.NotContains(t, view, "noisy")
	require.Contains(t, view, "careful")
	require.Contains(t, view, "unformatted line", "entries without a level are always shown")
	require.Contains(t, view, "Logs")
	require.Contains(t, view, "[e] Error")
}

func TestEntryLevel(t *testing.T) {
	level, ok := entryLevel(entry("ERROR", "x"))
	require.True(t, ok)
	require.Equal(t, log.LevelError, level)

	_, ok = entryLevel("plain")
	require.False(t, ok)
}

func TestColorize_TruncatesLongEntries(t *testing.T) {
	out := ansi.Strip(colorize(strings.Repeat("x", 100), log.LevelDebug, false, 20))

	require.Equal(t, 20, ansi.StringWidth(out))
	require.True(t, strings.HasSuffix(out, "…"))
}

func TestOverlay(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 80)+"\n", 30), "\n")

	require.Equal(t, bg, New().Overlay(bg))

	m := visible(t)
	out := m.Overlay(bg)
	require.NotEqual(t, bg, out)
	require.Contains(t, out, "Logs")
}
