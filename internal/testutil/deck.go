// Package testutil provides builders for test decks and rehearsal databases.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// slideData holds one slide to be rendered into deck markdown.
type slideData struct {
	name  string
	title string
	body  string
	notes string
}

// SlideOption configures a slide during builder setup.
type SlideOption func(*slideData)

// Name sets the slide directive.
func Name(name string) SlideOption {
	return func(s *slideData) { s.name = name }
}

// Title sets the slide's "# " heading.
func Title(title string) SlideOption {
	return func(s *slideData) { s.title = title }
}

// Body sets the text after the heading.
func Body(body string) SlideOption {
	return func(s *slideData) { s.body = body }
}

// Notes sets the speaker notes.
func Notes(notes string) SlideOption {
	return func(s *slideData) { s.notes = notes }
}

// DeckBuilder accumulates front matter and slides and renders deck markdown.
type DeckBuilder struct {
	meta   [][2]string
	slides []slideData
}

// NewDeck creates an empty deck builder.
func NewDeck() *DeckBuilder {
	return &DeckBuilder{}
}

// WithMeta adds a front matter entry. Values are written verbatim.
func (b *DeckBuilder) WithMeta(key, value string) *DeckBuilder {
	b.meta = append(b.meta, [2]string{key, value})
	return b
}

// WithSlide appends a slide.
func (b *DeckBuilder) WithSlide(opts ...SlideOption) *DeckBuilder {
	var s slideData
	for _, opt := range opts {
		opt(&s)
	}
	b.slides = append(b.slides, s)
	return b
}

// String renders the deck.
func (b *DeckBuilder) String() string {
	var out strings.Builder
	if len(b.meta) > 0 {
		out.WriteString("---\n")
		for _, kv := range b.meta {
			out.WriteString(kv[0] + ": " + kv[1] + "\n")
		}
		out.WriteString("---\n")
	}
	for i, s := range b.slides {
		if i > 0 {
			out.WriteString("---\n")
		}
		if s.name != "" {
			out.WriteString("<!-- slide: " + s.name + " -->\n")
		}
		if s.title != "" {
			out.WriteString("# " + s.title + "\n")
		}
		if s.body != "" {
			out.WriteString(s.body + "\n")
		}
		if s.notes != "" {
			out.WriteString("???\n" + s.notes + "\n")
		}
	}
	return out.String()
}

// Write saves the deck as talk.md in a temp dir and returns its path.
func (b *DeckBuilder) Write(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.md")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}
