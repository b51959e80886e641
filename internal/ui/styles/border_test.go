package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func plainLines(s string) []string {
	return strings.Split(ansi.Strip(s), "\n")
}

func TestPanel_Render_Basic(t *testing.T) {
	out := Panel{Title: "Intro", Width: 20, Height: 5}.Render("hello")

	lines := plainLines(out)
	require.Len(t, lines, 5)
	require.True(t, strings.HasPrefix(lines[0], "╭─ Intro "))
	require.True(t, strings.HasSuffix(lines[0], "╮"))
	require.Equal(t, "│hello             │", lines[1])
	require.Equal(t, "╰──────────────────╯", lines[4])
	for _, l := range lines {
		require.Equal(t, 20, lipgloss.Width(l))
	}
}

func TestPanel_Render_Badge(t *testing.T) {
	out := Panel{Title: "Intro", Badge: "3/12", Width: 30, Height: 3}.Render("")

	top := plainLines(out)[0]
	require.Equal(t, 30, lipgloss.Width(top))
	require.True(t, strings.HasSuffix(top, " 3/12 ─╮"))
	require.Contains(t, top, "Intro")
}

func TestPanel_Render_NarrowDropsBadgeFirst(t *testing.T) {
	out := Panel{Title: "Introduction", Badge: "10/10", Width: 16, Height: 3}.Render("")

	top := plainLines(out)[0]
	require.NotContains(t, top, "10/10")
	require.Contains(t, top, "…")
	require.Equal(t, 16, lipgloss.Width(top))
}

func TestPanel_Render_NoTitle(t *testing.T) {
	out := Panel{Width: 6, Height: 3}.Render("")

	require.Equal(t, "╭────╮", plainLines(out)[0])
}

func TestPanel_Render_ClipsContent(t *testing.T) {
	out := Panel{Width: 8, Height: 4}.Render("one\ntwo\nthree\nfour")

	lines := plainLines(out)
	require.Len(t, lines, 4)
	require.Equal(t, "│one   │", lines[1])
	require.Equal(t, "│two   │", lines[2])
}

func TestPanel_Render_ActiveKeepsShape(t *testing.T) {
	inactive := Panel{Title: "A", Width: 12, Height: 4}.Render("x")
	active := Panel{Title: "A", Width: 12, Height: 4, Active: true}.Render("x")

	require.Equal(t, plainLines(inactive), plainLines(active))
}

func TestPanel_Render_ActiveChangesColor(t *testing.T) {
	// Force ANSI color output in test environment
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	inactive := Panel{Title: "A", Width: 12, Height: 4}.Render("x")
	active := Panel{Title: "A", Width: 12, Height: 4, Active: true}.Render("x")

	require.NotEqual(t, inactive, active)
}
