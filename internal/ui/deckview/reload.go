package deckview

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zjrosen/slidedeck/internal/deck"
	"github.com/zjrosen/slidedeck/internal/flags"
	"github.com/zjrosen/slidedeck/internal/log"
	"github.com/zjrosen/slidedeck/internal/presentation"
	"github.com/zjrosen/slidedeck/internal/tracing"
	"github.com/zjrosen/slidedeck/internal/ui/toaster"
)

// reload swaps in a new version of the deck. Cards whose key survives keep
// their identity, so the active slide stays put unless it was removed.
// Observers notified at the end of the batch can still look up the key of a
// removed slide.
// A failed load keeps the current deck.
func (m Model) reload(msg ReloadedMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		log.ErrorErr(log.CatDeck, "Reload failed", msg.Err, "path", m.deck.Path)
		return m, showToast("Reload failed: "+msg.Err.Error(), toaster.StyleError)
	}
	next := msg.Deck
	if next == nil {
		next = &presentation.Deck{Path: m.deck.Path}
	}

	ctx, span := m.tracer.Start(context.Background(), tracing.SpanReload)
	defer span.End()

	changes := presentation.Diff(m.deck, next)
	var added, removed, changed int
	for _, c := range changes {
		switch c.Kind {
		case presentation.SlideAdded:
			added++
		case presentation.SlideRemoved:
			removed++
		case presentation.SlideChanged:
			changed++
		}
	}
	span.SetAttributes(
		attribute.String(tracing.AttrDeckPath, next.Path),
		attribute.Int(tracing.AttrSlidesAdded, added),
		attribute.Int(tracing.AttrSlidesRemoved, removed),
		attribute.Int(tracing.AttrSlidesChanged, changed),
	)

	var removedIDs []deck.SlideID
	err := m.ctrl.Batch(func() error {
		var applyErr error
		removedIDs, applyErr = m.applyDeck(ctx, next, changes)
		return applyErr
	})
	for _, id := range removedIDs {
		delete(m.slides, id)
		delete(m.keyOf, id)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatDeck, "Applying reloaded deck failed", err, "path", next.Path)
		return m, showToast("Reload failed: "+err.Error(), toaster.StyleError)
	}

	if w := next.Meta.Wrap; w != nil && (m.deck.Meta.Wrap == nil || *w != *m.deck.Meta.Wrap) {
		m.ctrl.SetWrap(*w)
	}
	m.deck = next
	m.invalidate()
	m.reportPosition()

	log.Info(log.CatDeck, "Deck reloaded",
		"path", next.Path, "added", added, "removed", removed, "changed", changed, "active", m.ctrl.ActiveID())
	return m, showToast(m.reloadMessage(changes), toaster.StyleSuccess)
}

// applyDeck runs inside a controller batch and returns the ids of the cards
// it removed. Removed cards are detached first; new cards attach at the end
// and the controller order is then set to the file order. Surviving cards
// stay attached, so moving slides around never disturbs the active slide.
// The caller drops the removed ids from keyOf once the batch has notified.
func (m *Model) applyDeck(ctx context.Context, next *presentation.Deck, changes []presentation.SlideChange) ([]deck.SlideID, error) {
	keys := next.Keys()
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	var surviving []string
	var removed []deck.SlideID
	for _, k := range m.order {
		if present[k] {
			surviving = append(surviving, k)
			continue
		}
		card := m.cards[k]
		card.Detach()
		m.render.Invalidate(ctx, card.ID())
		removed = append(removed, card.ID())
		delete(m.cards, k)
	}
	for _, c := range changes {
		if c.Kind == presentation.SlideChanged {
			m.render.Invalidate(ctx, m.cards[c.Key].ID())
		}
	}

	m.order = m.order[:0]
	for i, k := range keys {
		m.addCard(k, next.Slides[i])
	}
	for _, k := range m.order {
		card := m.cards[k]
		if card.Attached() {
			continue
		}
		if err := card.Attach(m.ctrl); err != nil {
			return removed, err
		}
	}

	if len(keys) >= len(surviving) && slices.Equal(keys[:len(surviving)], surviving) {
		return removed, nil
	}
	ids := make([]deck.SlideID, len(m.order))
	for i, k := range m.order {
		ids[i] = m.cards[k].ID()
	}
	return removed, m.ctrl.Reorder(ids)
}

func (m Model) reloadMessage(changes []presentation.SlideChange) string {
	summary := "Reloaded: " + presentation.Summarize(changes)
	if !m.flags.Enabled(flags.FlagReloadDiff) || len(changes) == 0 {
		return summary
	}
	var b strings.Builder
	b.WriteString(summary)
	for _, c := range changes {
		fmt.Fprintf(&b, "\n%s %s +%d -%d", c.Kind, c.Key, c.Inserted, c.Deleted)
	}
	return b.String()
}
