package deckview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/slidedeck/internal/ui/overlay"
	"github.com/zjrosen/slidedeck/internal/ui/styles"
)

const (
	minSidebarWidth   = 16
	maxSidebarWidth   = 32
	sidebarMinScreen  = 60
	minNotesHeight    = 5
	minSlideHeight    = 5
	activeMarker      = "▸ "
	inactiveMarker    = "  "
	maxPromptBoxWidth = 50
)

// layout holds the sizes of the view's regions.
type layout struct {
	sidebarWidth  int
	bodyHeight    int
	mainWidth     int
	mainHeight    int
	notesHeight   int
	footerHeight  int
	contentWidth  int
	contentHeight int
}

func (m Model) layout() layout {
	var l layout
	if m.width <= 0 || m.height <= 0 {
		return l
	}
	if m.showFooter {
		l.footerHeight = 1
	}
	if m.showSidebar && m.width >= sidebarMinScreen {
		l.sidebarWidth = min(max(m.width/4, minSidebarWidth), maxSidebarWidth)
	}
	l.bodyHeight = max(m.height-l.footerHeight, 0)
	l.mainWidth = m.width - l.sidebarWidth
	if m.showNotes {
		l.notesHeight = max(minNotesHeight, l.bodyHeight/4)
		if l.bodyHeight-l.notesHeight < minSlideHeight {
			l.notesHeight = 0
		}
	}
	l.mainHeight = l.bodyHeight - l.notesHeight
	l.contentWidth = max(l.mainWidth-2, 0)
	l.contentHeight = max(l.mainHeight-2, 0)
	return l
}

// View renders the deck view. Clickable regions are marked with bubblezone;
// the caller is expected to zone.Scan the final frame.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	l := m.layout()

	main := m.slideView(l)
	if l.notesHeight > 0 {
		main = lipgloss.JoinVertical(lipgloss.Left, main, m.notesView(l))
	}
	view := main
	if l.sidebarWidth > 0 {
		view = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(l), main)
	}
	if l.footerHeight > 0 {
		view = lipgloss.JoinVertical(lipgloss.Left, view, m.footerView())
	}

	if m.showHelp {
		view = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   m.height,
			Position: overlay.Center,
		}, m.helpView(), view)
	}
	if m.prompting {
		view = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   m.height,
			Position: overlay.Top,
			PadY:     2,
		}, m.promptView(), view)
	}
	return view
}

func (m Model) slideView(l layout) string {
	panel := styles.Panel{
		Width:  l.mainWidth,
		Height: l.mainHeight,
		Active: true,
	}
	if m.ctrl.Len() == 0 {
		panel.Title = m.deck.Meta.Title
		return panel.Render(styles.MutedStyle.Render("This deck has no slides."))
	}

	pos := m.Position()
	panel.Badge = fmt.Sprintf("%d/%d", pos.Index, pos.Total)
	if slide, ok := m.ActiveSlide(); ok {
		panel.Title = slide.Title
	}
	return panel.Render(m.viewport.View())
}

func (m Model) notesView(l layout) string {
	panel := styles.Panel{
		Title:  "Notes",
		Width:  l.mainWidth,
		Height: l.notesHeight,
	}
	slide, ok := m.ActiveSlide()
	if !ok || slide.Notes == "" {
		return panel.Render(styles.MutedStyle.Render("No notes"))
	}
	return panel.Render(styles.Wrap(slide.Notes, max(l.mainWidth-2, 1)))
}

func (m Model) sidebarView(l layout) string {
	panel := styles.Panel{
		Title:  "Slides",
		Width:  l.sidebarWidth,
		Height: l.bodyHeight,
	}
	slides := m.ctrl.Slides()
	rows := max(l.bodyHeight-2, 1)
	inner := max(l.sidebarWidth-2, 1)

	active := m.ctrl.IndexOf(m.ctrl.ActiveID())
	start := min(max(active-rows/2, 0), max(len(slides)-rows, 0))
	end := min(start+rows, len(slides))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		s := slides[i]
		label := string(s.ID)
		if slide, ok := m.slides[s.ID]; ok && slide.Title != "" {
			label = slide.Title
		}
		marker := inactiveMarker
		if s.Active {
			marker = activeMarker
		}
		row := styles.TruncateString(fmt.Sprintf("%s%d %s", marker, i+1, label), inner)
		if s.Active {
			row = styles.SelectionIndicatorStyle.Render(row)
		}
		lines = append(lines, zone.Mark(m.zoneID(zoneSlide+string(s.ID)), row))
	}
	return panel.Render(strings.Join(lines, "\n"))
}

func (m Model) footerView() string {
	prevStyle, nextStyle := styles.ButtonStyle, styles.ButtonStyle
	if m.ctrl.PrevDisabled() {
		prevStyle = styles.ButtonDisabledStyle
	}
	if m.ctrl.NextDisabled() {
		nextStyle = styles.ButtonDisabledStyle
	}
	prev := zone.Mark(m.zoneID(zonePrev), prevStyle.Render("◀ Prev"))
	next := zone.Mark(m.zoneID(zoneNext), nextStyle.Render("Next ▶"))

	pos := m.Position()
	status := fmt.Sprintf("%d/%d", pos.Index, pos.Total)
	if m.ctrl.Wrap() {
		status += " · wrap"
	}
	left := prev + " " + next + styles.StatusBarStyle.Render(status)

	h := m.help
	h.Width = max(m.width-lipgloss.Width(left)-1, 0)
	if h.Width == 0 {
		return left
	}
	return left + " " + h.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) helpView() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 1)
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).Render("Keys")
	h := m.help
	h.ShowAll = true
	return box.Render(title + "\n\n" + h.View(m.keys))
}

func (m Model) promptView() string {
	width := min(maxPromptBoxWidth, max(m.width-4, 10))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderActiveColor).
		Padding(0, 1).
		Width(width)
	return box.Render(m.prompt.View())
}
