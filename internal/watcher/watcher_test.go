package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slidedeck/internal/watcher"
)

func startWatcher(t *testing.T, path string) (*watcher.Watcher, <-chan struct{}) {
	t.Helper()
	w, err := watcher.New(watcher.Config{Path: path, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	require.NoError(t, err)
	return w, changes
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.md")
	require.NoError(t, os.WriteFile(path, []byte("# one"), 0o644))
	_, changes := startWatcher(t, path)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("# slide %d", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}

	select {
	case <-changes:
		t.Fatal("burst should produce one notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talk.md")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("# one"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	_, changes := startWatcher(t, path)

	require.NoError(t, os.WriteFile(other, []byte("y"), 0o644))

	select {
	case <-changes:
		t.Fatal("unrelated file should not notify")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_SaveByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talk.md")
	require.NoError(t, os.WriteFile(path, []byte("# one"), 0o644))
	_, changes := startWatcher(t, path)

	tmp := filepath.Join(dir, ".talk.md.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("# two"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("rename over the deck file should notify")
	}
}

func TestWatcher_WaitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.md")
	require.NoError(t, os.WriteFile(path, []byte("# one"), 0o644))
	w, changes := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("# two"), 0o644))

	msg := w.WaitCmd(changes)()
	require.Equal(t, watcher.ChangedMsg{Path: w.Path()}, msg)

	require.NoError(t, w.Stop())
	require.Nil(t, w.WaitCmd(changes)())
}

func TestWatcher_StopTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.md")
	require.NoError(t, os.WriteFile(path, []byte("# one"), 0o644))
	w, _ := startWatcher(t, path)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestNew_Validation(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	require.Error(t, err)

	cfg := watcher.DefaultConfig("talk.md")
	require.Equal(t, watcher.DefaultDebounce, cfg.Debounce)
}
