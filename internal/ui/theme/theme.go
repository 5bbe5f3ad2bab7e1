// Package theme holds the englifish color palette and shared styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette: ocean blues with warm highlights.
var (
	Primary   = lipgloss.Color("#0EA5E9") // Sky
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Warning   = lipgloss.Color("#EAB308") // Amber
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0B1220") // Deep Sea
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate

	ArcadeYellow = lipgloss.Color("#FACC15")
	ArcadeCyan   = lipgloss.Color("#22D3EE")
)

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// Text styles.
var (
	Title    = fg(Primary).Bold(true).Align(lipgloss.Center)
	Subtitle = fg(TextDim).Align(lipgloss.Center)
	Body     = fg(Text)
	Hint     = fg(TextDim).Italic(true)
	Notice   = fg(Warning)
	Problem  = fg(Error)
)

// Card frames a question, grammar topic or results panel.
var Card = lipgloss.NewStyle().
	Background(BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// Answer states. Close marks a typo that earns a retry; Locked is a
// choice already spent on a wrong guess; Picked is a chip or match
// pair the learner has selected.
var (
	Selected   = fg(Primary).Bold(true)
	Unselected = fg(Text)
	Correct    = fg(Success).Bold(true)
	Incorrect  = fg(Error).Bold(true)
	Close      = fg(Warning).Bold(true)
	Locked     = fg(TextDim).Strikethrough(true)
	Picked     = fg(BgDark).Background(ArcadeCyan).Bold(true)
)

// Verdict glyphs shown next to answers.
var (
	TickMark  = fg(Success).Render("✓")
	CloseMark = fg(Warning).Render("~")
	CrossMark = fg(Error).Render("✗")
)

// Widgets.
var (
	ProgressFilled = fg(Secondary)
	ProgressEmpty  = fg(Border)

	ButtonActive   = fg(Text).Background(Primary).Bold(true).Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
