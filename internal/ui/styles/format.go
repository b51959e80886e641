package styles

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// TruncateString cuts s to at most maxWidth terminal cells, ending in an
// ellipsis when anything was dropped. Grapheme clusters are never split.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if uniseg.StringWidth(s) <= maxWidth {
		return s
	}

	var b strings.Builder
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if width+w > maxWidth-1 {
			break
		}
		b.WriteString(g.Str())
		width += w
	}
	return b.String() + ellipsis
}

// Wrap word-wraps plain text to width columns.
func Wrap(s string, width int) string {
	if width < 1 {
		return s
	}
	return wordwrap.String(s, width)
}
