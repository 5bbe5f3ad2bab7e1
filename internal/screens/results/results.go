// Package results shows the score of a finished set.
package results

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/englifish/englifish/internal/screen"
	"github.com/englifish/englifish/internal/session"
	"github.com/englifish/englifish/internal/ui/components"
	"github.com/englifish/englifish/internal/ui/layout"
	"github.com/englifish/englifish/internal/ui/theme"
)

// Actions are supplied by the screen that finished the set.
type Actions struct {
	Retry func() tea.Cmd
	Home  func() tea.Cmd
}

// copiedMsg reports the outcome of copying the share text.
type copiedMsg struct {
	err error
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

const (
	buttonRetry = iota
	buttonHome
	buttonShare
)

// ResultsScreen displays the session summary.
type ResultsScreen struct {
	summary *session.Summary
	actions Actions
	buttons components.ButtonRow
	copied  string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.EscapeHandler = (*ResultsScreen)(nil)

// New creates a new ResultsScreen.
func New(summary *session.Summary, actions Actions) *ResultsScreen {
	s := &ResultsScreen{summary: summary, actions: actions}
	s.buttons = components.NewButtonRow(
		components.Button{Label: "Try again", Shortcut: "r", Press: s.retry},
		components.Button{Label: "Home", Shortcut: "esc", Press: s.home},
		components.Button{Label: "Copy result", Shortcut: "c", Press: s.share},
	)
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

// HandlesEscape makes Esc end the session like the Home button.
func (s *ResultsScreen) HandlesEscape() bool {
	return true
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Select"},
		{Key: "R", Description: "Try again"},
		{Key: "C", Description: "Copy"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case copiedMsg:
		if msg.err != nil {
			s.copied = "Clipboard is not available here."
		} else {
			s.copied = "Copied to clipboard!"
		}
		return s, nil

	case tea.KeyMsg:
		return s, s.buttons.Update(msg)
	}
	return s, nil
}

func (s *ResultsScreen) retry() tea.Cmd {
	if s.actions.Retry == nil {
		return nil
	}
	return s.actions.Retry()
}

func (s *ResultsScreen) home() tea.Cmd {
	if s.actions.Home == nil {
		return nil
	}
	return s.actions.Home()
}

func (s *ResultsScreen) share() tea.Cmd {
	if s.summary == nil {
		return nil
	}
	text := s.summary.ShareText()
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(text)}
	}
}

func (s *ResultsScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	cw := components.ContentWidth(width)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().
		Foreground(tierColor(sum.Tier)).
		Bold(true).
		Render(sum.Tier.Title())))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(sum.SetTitle)))
	b.WriteString("\n\n")

	score := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render(fmt.Sprintf("%d%%", sum.Percentage))
	b.WriteString(center(score))
	b.WriteString("\n")
	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(fmt.Sprintf("%d of %d correct   ·   %d:%02d", sum.Score, sum.Total, mins, secs))))
	b.WriteString("\n")
	b.WriteString(center(components.NewProgressBar("", float64(sum.Percentage)/100, false, min(cw, 40)).View()))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(cw).
		Align(lipgloss.Center).
		Render(sum.Tier.Message())))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	b.WriteString(center(divider))
	b.WriteString("\n")

	// Leave room for the header block above and the buttons below.
	room := max(height-16, 3)
	var lines []string
	for i, r := range sum.Results {
		if i == room-1 && len(sum.Results) > room {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("  ... and %d more", len(sum.Results)-i)))
			break
		}
		lines = append(lines, resultLine(r, cw))
	}
	b.WriteString(center(strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	b.WriteString(center(s.buttons.View()))
	if s.copied != "" {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.copied)))
	}

	return b.String()
}

func resultLine(r session.QuestionResult, cw int) string {
	mark := theme.TickMark
	if !r.Correct {
		mark = theme.CrossMark
	}
	prompt := strings.Join(strings.Fields(r.Prompt), " ")
	kind := lipgloss.NewStyle().Foreground(theme.TextDim).Render(r.Kind.DisplayName())
	text := lipgloss.NewStyle().
		Foreground(theme.Text).
		MaxWidth(max(cw-lipgloss.Width(kind)-6, 10)).
		Render(prompt)
	line := fmt.Sprintf("%s %s", mark, text)
	gap := max(cw-lipgloss.Width(line)-lipgloss.Width(kind), 2)
	return line + strings.Repeat(" ", gap) + kind
}

// tierColor returns the theme color for a performance tier.
func tierColor(t session.Tier) color.Color {
	switch t {
	case session.TierExcellent:
		return theme.Success
	case session.TierGood:
		return theme.Secondary
	case session.TierFair:
		return theme.Warning
	default:
		return theme.Accent
	}
}
