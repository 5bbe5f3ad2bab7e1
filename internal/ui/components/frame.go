package components

import (
	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/ui/theme"
)

// ContentWidth is the inner width every screen lays its cards out at:
// the frame minus cabinet border and padding, clamped to [20, 68].
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 68)
}

// CabinetFrame centres content inside a double border filling
// width x height.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
