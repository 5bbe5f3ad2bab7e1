package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/ui/theme"
)

// ProgressBar is a one-line bar, optionally prefixed by Label and
// followed by a percentage.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// StepProgress is the question counter shown above each exercise, for
// example "3/10 ███░░░".
func StepProgress(done, total, width int) ProgressBar {
	var frac float64
	if total > 0 {
		frac = float64(done) / float64(total)
	}
	return ProgressBar{Label: fmt.Sprintf("%d/%d", done, total), Percent: frac, Width: width}
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

func (p ProgressBar) View() string {
	var prefix, suffix string
	if p.Label != "" {
		prefix = theme.Body.Render(p.Label) + "  "
	}
	if p.ShowPercent {
		suffix = theme.Hint.Italic(false).Render(fmt.Sprintf("  %3d%%", int(p.Percent*100)))
	}

	cells := max(p.Width-lipgloss.Width(prefix)-lipgloss.Width(suffix), 4)
	filled := min(max(int(float64(cells)*p.Percent), 0), cells)

	return prefix +
		theme.ProgressFilled.Render(strings.Repeat("█", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat("░", cells-filled)) +
		suffix
}
