package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	maxTitleWidth = 48
	maxKeyWidth   = 24
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatOutline formats a deck outline as JSON
func (f *Formatter) FormatOutline(outline OutlineDTO) error {
	return f.encode(outline)
}

// FormatStats formats rehearsal statistics as JSON
func (f *Formatter) FormatStats(stats []SlideStatDTO) error {
	if stats == nil {
		stats = []SlideStatDTO{}
	}
	return f.encode(stats)
}

// FormatOutlineText prints one line per slide, with wide titles truncated.
func (f *Formatter) FormatOutlineText(outline OutlineDTO) error {
	var b strings.Builder
	if outline.Title != "" {
		fmt.Fprintf(&b, "%s\n\n", outline.Title)
	}

	keyWidth := 0
	for _, s := range outline.Slides {
		keyWidth = max(keyWidth, runewidth.StringWidth(s.Key))
	}
	keyWidth = min(keyWidth, maxKeyWidth)

	for _, s := range outline.Slides {
		key := runewidth.FillRight(runewidth.Truncate(s.Key, keyWidth, "…"), keyWidth)
		title := runewidth.Truncate(s.Title, maxTitleWidth, "…")
		notes := ""
		if s.HasNotes {
			notes = "  [notes]"
		}
		fmt.Fprintf(&b, "%3d  %s  %s%s\n", s.Index, key, title, notes)
	}

	_, err := io.WriteString(f.writer, b.String())
	return err
}

// FormatStatsText prints rehearsal statistics as an aligned table.
func (f *Formatter) FormatStatsText(stats []SlideStatDTO) error {
	if len(stats) == 0 {
		_, err := io.WriteString(f.writer, "no rehearsals recorded\n")
		return err
	}

	slideWidth := runewidth.StringWidth("SLIDE")
	for _, s := range stats {
		slideWidth = max(slideWidth, runewidth.StringWidth(s.Slide))
	}
	slideWidth = min(slideWidth, maxKeyWidth)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %5s  %9s  %9s\n", runewidth.FillRight("SLIDE", slideWidth), "VIEWS", "TOTAL(s)", "AVG(s)")
	for _, s := range stats {
		name := runewidth.FillRight(runewidth.Truncate(s.Slide, slideWidth, "…"), slideWidth)
		fmt.Fprintf(&b, "%s  %5d  %9.1f  %9.1f\n", name, s.Views, s.TotalSeconds, s.AverageSeconds)
	}

	_, err := io.WriteString(f.writer, b.String())
	return err
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
