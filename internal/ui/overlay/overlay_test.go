package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

const fiveByFive = "AAAAA\nAAAAA\nAAAAA\nAAAAA\nAAAAA"

func TestPlace_Positions(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		row  int
		want string
	}{
		{"center", Config{Width: 5, Height: 5, Position: Center}, 2, "AXXAA"},
		{"top", Config{Width: 5, Height: 5, Position: Top}, 0, "AXXAA"},
		{"top padded", Config{Width: 5, Height: 5, Position: Top, PadY: 1}, 1, "AXXAA"},
		{"bottom", Config{Width: 5, Height: 5, Position: Bottom}, 4, "AXXAA"},
		{"bottom padded", Config{Width: 5, Height: 5, Position: Bottom, PadY: 1}, 3, "AXXAA"},
		{"top right", Config{Width: 5, Height: 5, Position: TopRight}, 0, "AAAXX"},
		{"bottom right padded", Config{Width: 5, Height: 5, Position: BottomRight, PadX: 1}, 4, "AAXXA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := strings.Split(Place(tt.cfg, "XX", fiveByFive), "\n")

			require.Len(t, lines, 5)
			for i, l := range lines {
				if i == tt.row {
					require.Equal(t, tt.want, l)
					continue
				}
				require.Equal(t, "AAAAA", l)
			}
		})
	}
}

func TestPlace_PreservesBackgroundOnSides(t *testing.T) {
	out := Place(Config{Width: 5, Height: 3}, "X", "ABCDE\nFGHIJ\nKLMNO")

	require.Equal(t, "ABCDE\nFGXIJ\nKLMNO", out)
}

func TestPlace_PadsShortBackground(t *testing.T) {
	out := Place(Config{Width: 4, Height: 3}, "XX", "")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, " XX ", lines[1])
}

func TestPlace_ForegroundWiderThanBackground(t *testing.T) {
	out := Place(Config{Width: 3, Height: 1}, "XXXXX", "AAA")

	require.Equal(t, "XXXXX", out)
}

func TestPlace_PreservesANSI(t *testing.T) {
	red := "\x1b[31mAAAAA\x1b[0m"

	out := Place(Config{Width: 5, Height: 1}, "X", red)

	require.Equal(t, "AAXAA", ansi.Strip(out))
	require.Contains(t, out, "\x1b[31m")
}
