package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/ui/components"
	"github.com/englifish/englifish/internal/ui/theme"
)

// Block-letter title.
const arcadeTitleFull = `███████╗███╗   ██╗ ██████╗ ██╗     ██╗███████╗██╗███████╗██╗  ██╗
██╔════╝████╗  ██║██╔════╝ ██║     ██║██╔════╝██║██╔════╝██║  ██║
█████╗  ██╔██╗ ██║██║  ███╗██║     ██║█████╗  ██║███████╗███████║
██╔══╝  ██║╚██╗██║██║   ██║██║     ██║██╔══╝  ██║╚════██║██╔══██║
███████╗██║ ╚████║╚██████╔╝███████╗██║██║     ██║███████║██║  ██║
╚══════╝╚═╝  ╚═══╝ ╚═════╝ ╚══════╝╚═╝╚═╝     ╚═╝╚══════╝╚═╝  ╚═╝`

const arcadeTitleCompact = "E · N · G · L · I · F · I · S · H"

// titleWidth is the column count of arcadeTitleFull.
const titleWidth = 65

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	art := arcadeTitleFull
	if compact || cw < titleWidth {
		art = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar renders the catalog stats in a bordered box matching content width.
func renderStatsBar(sets, questions int, tutor bool, cw int, compact bool) string {
	setStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	questionStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	tutorStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			setStyle.Render(fmt.Sprintf("◆%d", sets)),
			questionStyle.Render(fmt.Sprintf("★%d", questions)),
			tutorText(tutor, true, tutorStyle, dimStyle),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			setStyle.Render(fmt.Sprintf("◆ %d SETS", sets)),
			questionStyle.Render(fmt.Sprintf("★ %d QUESTIONS", questions)),
			tutorText(tutor, false, tutorStyle, dimStyle),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func tutorText(on bool, compact bool, active, dim lipgloss.Style) string {
	switch {
	case on && compact:
		return active.Render("✦")
	case on:
		return active.Render("✦ TUTOR ON")
	case compact:
		return dim.Render("✧")
	default:
		return dim.Render("✧ TUTOR OFF")
	}
}

// renderMenu renders the menu as text lines with details in a dim
// column. Disabled items are dimmed and cannot be selected.
func renderMenu(items []components.MenuItem, selected int, cw int, compact bool) string {
	labelWidth := 0
	for _, it := range items {
		labelWidth = max(labelWidth, lipgloss.Width(it.Label))
	}

	var lines []string
	for i, it := range items {
		label := it.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(it.Label))
		var line string
		switch {
		case it.Disabled:
			line = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("   " + label)
		case i == selected:
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + label + " ")
		default:
			line = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label + " ")
		}
		if it.Detail != "" && !compact {
			line += "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(it.Detail)
		}
		lines = append(lines, line)
	}
	block := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(block)
}

// renderTutorBanner explains how to turn on explanations.
func renderTutorBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set an LLM API key to get explanations for missed answers (see englifish --help)")
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
