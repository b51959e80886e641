package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slidedeck/internal/config"
	"github.com/zjrosen/slidedeck/internal/remote"
	"github.com/zjrosen/slidedeck/internal/testutil"
)

func writeDeck(t *testing.T) string {
	t.Helper()
	return testutil.NewDeck().WithTalk().Write(t)
}

// execute runs the root command with args in a fresh home directory and
// returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfgFile, outlineFormat, statsFormat, statsDB = "", "text", "text", ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// ============================================================================
// Config Loading Tests
// ============================================================================

// TestReadConfig_ExplicitFile verifies values from the file win over defaults
// and unset keys keep their defaults.
func TestReadConfig_ExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
deck:
  wrap: true
  start: outro
ui:
  show_notes: true
live_reload:
  debounce: 50ms
remote:
  qos: 2
flags:
  mouse: true
`), 0o644))

	c, err := readConfig(viper.New(), path)

	require.NoError(t, err)
	require.True(t, c.Deck.Wrap)
	require.True(t, c.Deck.Strict, "unset keys keep their defaults")
	require.Equal(t, "outro", c.Deck.Start)
	require.True(t, c.UI.ShowNotes)
	require.True(t, c.UI.ShowSidebar)
	require.Equal(t, 50*time.Millisecond, c.LiveReload.Debounce)
	require.Equal(t, byte(2), c.Remote.QoS)
	require.Equal(t, map[string]bool{"mouse": true}, c.Flags)
}

// TestReadConfig_EnvOverride verifies SLIDEDECK_ variables override the file.
func TestReadConfig_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SLIDEDECK_DECK_WRAP", "true")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("deck:\n  wrap: false\n"), 0o644))

	c, err := readConfig(viper.New(), path)

	require.NoError(t, err)
	require.True(t, c.Deck.Wrap)
}

// TestReadConfig_WritesDefaultFile verifies a missing config is created in
// the user config dir and read back.
func TestReadConfig_WritesDefaultFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	v := viper.New()
	c, err := readConfig(v, "")

	require.NoError(t, err)
	want := filepath.Join(home, ".config", "slidedeck", "config.yaml")
	require.FileExists(t, want)
	require.Equal(t, want, v.ConfigFileUsed())
	require.Equal(t, config.Defaults().Deck, c.Deck)
	require.Equal(t, config.Defaults().LiveReload, c.LiveReload)
}

// TestReadConfig_MissingExplicitFile verifies an explicit path must exist.
func TestReadConfig_MissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := readConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

// TestReadConfig_Invalid verifies validation errors stop loading.
func TestReadConfig_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  markdown_style: neon\n"), 0o644))

	_, err := readConfig(viper.New(), path)

	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid configuration")
	require.Contains(t, err.Error(), "ui.markdown_style")
}

// ============================================================================
// Command Tests
// ============================================================================

func TestRoot_RequiresDeck(t *testing.T) {
	_, err := execute(t)
	require.Error(t, err)
}

func TestRoot_Version(t *testing.T) {
	SetVersion("1.2.3 (commit: abc, built: today)")
	t.Cleanup(func() { SetVersion("dev") })

	out, err := execute(t, "--version")

	require.NoError(t, err)
	require.Contains(t, out, "1.2.3 (commit: abc, built: today)")
}

func TestRoot_MissingDeck(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "missing.md"))

	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOutline_Text(t *testing.T) {
	out, err := execute(t, "outline", writeDeck(t))

	require.NoError(t, err)
	require.Contains(t, out, "Demo\n\n")
	require.Contains(t, out, "  1  intro  Welcome  [notes]\n")
	require.Contains(t, out, "  2  #1     Middle\n")
	require.Contains(t, out, "  3  outro  Thanks\n")
}

func TestOutline_JSON(t *testing.T) {
	path := writeDeck(t)

	out, err := execute(t, "outline", path, "--format", "json")

	require.NoError(t, err)
	var outline struct {
		Path   string `json:"path"`
		Slides []struct {
			Key string `json:"key"`
		} `json:"slides"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &outline))
	require.Equal(t, path, outline.Path)
	require.Len(t, outline.Slides, 3)
	require.Equal(t, "#1", outline.Slides[1].Key)
}

func TestOutline_UnknownFormat(t *testing.T) {
	_, err := execute(t, "outline", writeDeck(t), "--format", "xml")

	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown format "xml"`)
}

func TestOutline_DuplicateSlideNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.md")
	require.NoError(t, os.WriteFile(path, []byte("<!-- slide: a -->\n---\n<!-- slide: a -->\n"), 0o644))

	_, err := execute(t, "outline", path)

	require.Error(t, err)
	require.Contains(t, err.Error(), path)
}

func TestStats_NoDatabase(t *testing.T) {
	out, err := execute(t, "stats", writeDeck(t), "--db", filepath.Join(t.TempDir(), "none.db"))

	require.NoError(t, err)
	require.Equal(t, "no rehearsals recorded\n", out)
}

func TestStats_RecordedDwells(t *testing.T) {
	deckPath := writeDeck(t)

	store, dbPath := testutil.NewTestStore(t)
	testutil.NewRehearsal(t, store, deckPath, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)).
		WithDwell("intro", 30*time.Second).
		WithDwell("#1", 12*time.Second).
		End()

	out, err := execute(t, "stats", deckPath, "--db", dbPath, "--format", "json")

	require.NoError(t, err)
	var stats []struct {
		Slide        string  `json:"slide"`
		Views        int     `json:"views"`
		TotalSeconds float64 `json:"total_seconds"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Len(t, stats, 2)
	require.Equal(t, "intro", stats[0].Slide)
	require.Equal(t, 1, stats[0].Views)
	require.InDelta(t, 30.0, stats[0].TotalSeconds, 0.001)
	require.Equal(t, "#1", stats[1].Slide)
}

func TestRemote_InvalidCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown action", args: []string{"remote", "jump"}},
		{name: "goto without slide", args: []string{"remote", "goto"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.ErrorIs(t, err, remote.ErrInvalidCommand)
		})
	}
}
