// Package presentation reads markdown deck files and formats deck outlines
// for the command line.
package presentation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/slidedeck/internal/deck"
)

// Deck file markers.
const (
	separator   = "---"
	notesMarker = "???"
)

// ErrInvalidSlideName is returned for a slide directive whose name is not a
// valid slide identifier.
var ErrInvalidSlideName = errors.New("invalid slide name")

var (
	directiveRe = regexp.MustCompile(`^\s*<!--\s*slide:\s*(\S*?)\s*-->\s*$`)
	slideNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
)

// Meta is the optional YAML front matter of a deck file.
type Meta struct {
	Title string `yaml:"title"`
	Wrap  *bool  `yaml:"wrap"`
	Start string `yaml:"start"`
}

// Slide is one parsed slide.
type Slide struct {
	Name  string // explicit name from a slide directive, empty when unnamed
	Title string
	Body  string
	Notes string
	Line  int // 1-based line where the slide starts
}

// Named reports whether the slide carries an explicit name.
func (s Slide) Named() bool {
	return s.Name != ""
}

// text is the slide content compared when diffing.
func (s Slide) text() string {
	if s.Notes == "" {
		return s.Body
	}
	return s.Body + "\n" + notesMarker + "\n" + s.Notes
}

// Deck is a parsed deck file.
type Deck struct {
	Path   string
	Meta   Meta
	Slides []Slide
}

// Keys returns a stable matching key per slide: the explicit name, or "#k"
// for the k-th unnamed slide. Keys pair up slides across reloads.
func (d *Deck) Keys() []string {
	keys := make([]string, len(d.Slides))
	unnamed := 0
	for i, s := range d.Slides {
		if s.Named() {
			keys[i] = s.Name
			continue
		}
		unnamed++
		keys[i] = "#" + strconv.Itoa(unnamed)
	}
	return keys
}

// Load reads and parses the deck file at path.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}
	d, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

// Parse reads a markdown deck.
func Parse(r io.Reader) (*Deck, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	d := &Deck{}
	start := 0
	if end := frontMatterEnd(lines); end > 0 {
		if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &d.Meta); err != nil {
			return nil, fmt.Errorf("parsing front matter: %w", err)
		}
		start = end + 1
	}

	p := &parser{startLine: start + 1}
	for i := start; i < len(lines); i++ {
		if err := p.line(lines[i], i+1); err != nil {
			return nil, err
		}
	}
	p.flush(len(lines) + 1)
	d.Slides = p.slides

	if err := checkUniqueNames(d.Slides); err != nil {
		return nil, err
	}
	return d, nil
}

// frontMatterEnd returns the index of the closing front matter delimiter, or
// 0 when the deck has no front matter.
func frontMatterEnd(lines []string) int {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != separator {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == separator {
			return i
		}
	}
	return 0
}

type parser struct {
	slides []Slide

	name      string
	nameLine  int
	body      []string
	notes     []string
	inNotes   bool
	fence     string
	startLine int
}

func (p *parser) line(raw string, lineNo int) error {
	trimmed := strings.TrimSpace(raw)

	if p.fence != "" {
		if strings.HasPrefix(trimmed, p.fence) {
			p.fence = ""
		}
		p.appendLine(raw)
		return nil
	}

	switch {
	case strings.HasPrefix(trimmed, "```"):
		p.fence = "```"
	case strings.HasPrefix(trimmed, "~~~"):
		p.fence = "~~~"
	case trimmed == separator:
		p.flush(lineNo)
		return nil
	case trimmed == notesMarker && !p.inNotes:
		p.inNotes = true
		return nil
	}

	if p.fence == "" && !p.inNotes {
		if m := directiveRe.FindStringSubmatch(raw); m != nil {
			return p.setName(m[1], lineNo)
		}
	}
	p.appendLine(raw)
	return nil
}

func (p *parser) setName(name string, lineNo int) error {
	if p.name != "" {
		return fmt.Errorf("line %d: slide already named %q on line %d", lineNo, p.name, p.nameLine)
	}
	if !slideNameRe.MatchString(name) {
		return fmt.Errorf("line %d: %w %q", lineNo, ErrInvalidSlideName, name)
	}
	p.name = name
	p.nameLine = lineNo
	return nil
}

func (p *parser) appendLine(raw string) {
	if p.inNotes {
		p.notes = append(p.notes, raw)
		return
	}
	p.body = append(p.body, raw)
}

// flush closes the current slide; the next one starts after separatorLine.
func (p *parser) flush(separatorLine int) {
	body := trimBlankLines(p.body)
	notes := trimBlankLines(p.notes)
	if p.name != "" || body != "" || notes != "" {
		p.slides = append(p.slides, Slide{
			Name:  p.name,
			Title: titleOf(body),
			Body:  body,
			Notes: notes,
			Line:  p.startLine,
		})
	}
	*p = parser{slides: p.slides, startLine: separatorLine + 1}
}

func checkUniqueNames(slides []Slide) error {
	reg := deck.NewRegistry()
	for _, s := range slides {
		if !s.Named() {
			continue
		}
		if err := reg.Register(deck.SlideID(s.Name)); err != nil {
			return fmt.Errorf("line %d: %w", s.Line, err)
		}
	}
	return nil
}

// trimBlankLines joins lines, dropping leading and trailing blank lines but
// keeping indentation of the remaining ones.
func trimBlankLines(lines []string) string {
	first, last := 0, len(lines)
	for first < last && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	for last > first && strings.TrimSpace(lines[last-1]) == "" {
		last--
	}
	return strings.Join(lines[first:last], "\n")
}

// titleOf returns the first heading of body, or its first non-empty line.
func titleOf(body string) string {
	var fallback string
	for _, l := range strings.Split(body, "\n") {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "#") {
			return strings.TrimSpace(strings.TrimLeft(t, "#"))
		}
		if fallback == "" {
			fallback = t
		}
	}
	return fallback
}
