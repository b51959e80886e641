package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Panel describes a bordered box with a title embedded in the top border and
// an optional badge embedded at its right end: ╭─ Title ──── 3/12 ─╮
type Panel struct {
	Title  string
	Badge  string
	Width  int
	Height int
	Active bool
}

// Render draws content inside the panel. Content is clipped to the inner area.
func (p Panel) Render(content string) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if p.Active {
		borderColor = BorderActiveColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(OverlayTitleColor).Bold(p.Active)
	badgeStyle := lipgloss.NewStyle().Foreground(TextMutedColor)

	innerWidth := max(p.Width-2, 1)
	innerHeight := max(p.Height-2, 1)

	top := topBorder(p.Title, p.Badge, innerWidth, borderStyle, titleStyle, badgeStyle)
	bottom := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	body := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Height(innerHeight).
		MaxHeight(innerHeight).
		Render(content)

	lines := strings.Split(body, "\n")
	side := borderStyle.Render(borderVertical)
	rows := make([]string, innerHeight)
	for i := range rows {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		rows[i] = side + line + side
	}

	return top + "\n" + strings.Join(rows, "\n") + "\n" + bottom
}

// topBorder builds ╭─ Title ─── Badge ─╮, dropping the badge and then
// truncating the title when the border is too narrow.
func topBorder(title, badge string, innerWidth int, borderStyle, titleStyle, badgeStyle lipgloss.Style) string {
	plain := func() string {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}
	// "─ " + title + " " ... " " + badge + " ─"
	const titleChrome = 3
	const badgeChrome = 3

	if title == "" && badge == "" {
		return plain()
	}

	available := innerWidth - titleChrome - 1
	badgeWidth := lipgloss.Width(badge)
	if badge != "" && available-badgeWidth-badgeChrome < 4 {
		badge, badgeWidth = "", 0
	}
	if badge != "" {
		available -= badgeWidth + badgeChrome
	}
	if available < 1 && title != "" {
		return plain()
	}

	displayTitle := TruncateString(title, available)
	var b strings.Builder
	b.WriteString(borderStyle.Render(borderTopLeft + borderHorizontal))
	used := 1
	if displayTitle != "" {
		b.WriteString(borderStyle.Render(" "))
		b.WriteString(titleStyle.Render(displayTitle))
		b.WriteString(borderStyle.Render(" "))
		used += lipgloss.Width(displayTitle) + 2
	}

	tail := ""
	tailWidth := 0
	if badge != "" {
		tail = borderStyle.Render(" ") + badgeStyle.Render(badge) + borderStyle.Render(" "+borderHorizontal)
		tailWidth = badgeWidth + badgeChrome
	}
	fill := max(innerWidth-used-tailWidth, 0)
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, fill)))
	b.WriteString(tail)
	b.WriteString(borderStyle.Render(borderTopRight))
	return b.String()
}
