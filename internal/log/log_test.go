package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slidedeck/internal/pubsub"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	got := format(ts, LevelWarn, CatDeck, "unknown slide", []any{"id", "intro", "count", 3})
	require.Equal(t, "2025-03-01T09:30:00 [WARN] [deck] unknown slide id=intro count=3\n", got)

	got = format(ts, LevelInfo, CatRemote, "connected", []any{"broker"})
	require.Equal(t, "2025-03-01T09:30:00 [INFO] [remote] connected broker=<missing>\n", got)
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	SetMinLevel(LevelWarn)
	Debug(CatUI, "hidden")
	Info(CatUI, "hidden")
	Warn(CatUI, "shown")
	ErrorErr(CatConfig, "save failed", errors.New("disk full"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "[WARN] [ui] shown")
	require.Contains(t, out, "[ERROR] [config] save failed error=disk full")
}

func TestSetEnabled(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	SetEnabled(false)
	Info(CatDeck, "muted")
	SetEnabled(true)
	Info(CatDeck, "audible")

	require.NotContains(t, buf.String(), "muted")
	require.Contains(t, buf.String(), "audible")
}

func TestNoLoggerIsSilent(t *testing.T) {
	Close()
	require.NotPanics(t, func() { Error(CatDeck, "nobody listening") })
	require.Nil(t, NewListener(context.Background()))
}

func TestInit_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	cleanup, err := Init(path)
	require.NoError(t, err)
	Info(CatWatcher, "deck changed", "path", "talk.md")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [watcher] deck changed path=talk.md")
}

func TestInit_BadPath(t *testing.T) {
	_, err := Init(filepath.Join(t.TempDir(), "missing", "debug.log"))
	require.Error(t, err)
}

func TestListener_ReceivesEntries(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Debug(CatCache, "miss", "key", "intro")

	event, ok := listener.Listen()().(pubsub.Event[string])
	require.True(t, ok)
	require.Equal(t, pubsub.LogEntry, event.Type)
	require.Contains(t, event.Payload, "[DEBUG] [cache] miss key=intro")
}
