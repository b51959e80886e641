package presentation

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeKind classifies a slide difference between two versions of a deck.
type ChangeKind int

const (
	SlideAdded ChangeKind = iota
	SlideRemoved
	SlideChanged
)

func (k ChangeKind) String() string {
	switch k {
	case SlideAdded:
		return "added"
	case SlideRemoved:
		return "removed"
	case SlideChanged:
		return "changed"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// SlideChange is one slide-level difference. Key is the slide's matching key
// as returned by Deck.Keys.
type SlideChange struct {
	Kind     ChangeKind
	Key      string
	Inserted int
	Deleted  int
}

// Diff compares two versions of a deck. Added and changed slides are listed
// in new order, followed by removed slides in old order. A nil deck counts
// as empty.
func Diff(oldDeck, newDeck *Deck) []SlideChange {
	oldSlides := indexByKey(oldDeck)
	newSlides := indexByKey(newDeck)

	var changes []SlideChange
	for _, k := range keysOf(newDeck) {
		newSlide := newSlides[k]
		oldSlide, ok := oldSlides[k]
		if !ok {
			changes = append(changes, SlideChange{Kind: SlideAdded, Key: k, Inserted: countLines(newSlide.text())})
			continue
		}
		if oldSlide.text() == newSlide.text() {
			continue
		}
		ins, del := lineDelta(oldSlide.text(), newSlide.text())
		changes = append(changes, SlideChange{Kind: SlideChanged, Key: k, Inserted: ins, Deleted: del})
	}
	for _, k := range keysOf(oldDeck) {
		if _, ok := newSlides[k]; ok {
			continue
		}
		changes = append(changes, SlideChange{Kind: SlideRemoved, Key: k, Deleted: countLines(oldSlides[k].text())})
	}
	return changes
}

// Summarize renders changes as a short human readable line, e.g.
// "1 added, 2 changed". It returns "no changes" for an empty list.
func Summarize(changes []SlideChange) string {
	var added, removed, changed int
	for _, c := range changes {
		switch c.Kind {
		case SlideAdded:
			added++
		case SlideRemoved:
			removed++
		case SlideChanged:
			changed++
		}
	}
	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", removed))
	}
	if changed > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", changed))
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}

func keysOf(d *Deck) []string {
	if d == nil {
		return nil
	}
	return d.Keys()
}

func indexByKey(d *Deck) map[string]Slide {
	m := make(map[string]Slide)
	if d == nil {
		return m
	}
	for i, k := range d.Keys() {
		m[k] = d.Slides[i]
	}
	return m
}

// lineDelta counts inserted and deleted lines between two texts.
func lineDelta(oldText, newText string) (inserted, deleted int) {
	dmp := diffmatchpatch.New()
	// Terminate both so an unterminated last line still matches.
	a, b, lines := dmp.DiffLinesToChars(oldText+"\n", newText+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			deleted += countLines(d.Text)
		}
	}
	return inserted, deleted
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
