// Package markdown renders slide markdown for the terminal.
package markdown

import (
	"github.com/charmbracelet/glamour"
)

// DefaultStyle is used when no glamour style is configured.
const DefaultStyle = "dark"

// minWidth keeps glamour's word wrap sane in tiny terminals.
const minWidth = 10

// noMarginStyle removes glamour's document margins so slides can use the full
// panel width.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps a glamour renderer configured for one width and style.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// New creates a renderer that word-wraps at width. style is a glamour style
// name or path ("dark", "light", "notty", ...). An explicit style is used
// instead of auto detection so the terminal is never queried for its
// background colour while the program owns stdin.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = DefaultStyle
	}
	width = max(width, minWidth)

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width, style: style}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Style returns the glamour style name.
func (r *Renderer) Style() string {
	return r.style
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
