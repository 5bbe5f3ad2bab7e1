// Package layout draws the frame around every screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/ui/theme"
)

// Below MinWidth x MinHeight the app shows only a resize prompt. Below
// the compact thresholds screens drop decoration such as the banner.
const (
	MinWidth  = 80
	MinHeight = 24

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

const brand = "  ><> Englifish"

// KeyHint is one "key action" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage fills the terminal with a resize prompt.
func RenderMinSizeMessage(width, height int) string {
	return theme.Body.
		Align(lipgloss.Center, lipgloss.Center).
		Width(width).
		Height(height).
		Render(fmt.Sprintf("Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height))
}

// bar is the bordered strip used for both header and footer.
func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader shows the brand on the left, title centred and status
// (the running score during a quiz) on the right.
func RenderHeader(title, status string, width int) string {
	left := theme.Selected.Render(brand)
	center := theme.Body.Render(title)
	right := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(status)

	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	return bar(width).Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter lists key hints. Hints that would overflow the bar are
// dropped from the end, so screens list the most important ones first.
func RenderFooter(hints []KeyHint, width int) string {
	const sep = "   "
	key := theme.Body.Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	room := max(width-4, 0) - 2
	var b strings.Builder
	b.WriteString("  ")
	used := 0
	for i, h := range hints {
		part := key.Render(h.Key) + " " + desc.Render(h.Description)
		w := lipgloss.Width(part)
		if i > 0 {
			w += len(sep)
		}
		if used+w > room {
			break
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(part)
		used += w
	}
	return bar(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, giving content exactly
// the rows the bars leave over.
func RenderFrame(header, content, footer string, width, height int) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rows).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
