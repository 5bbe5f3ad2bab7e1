package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/evaluate"
	"github.com/englifish/englifish/internal/exercise"
	sess "github.com/englifish/englifish/internal/session"
	"github.com/englifish/englifish/internal/ui/components"
	"github.com/englifish/englifish/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	switch {
	case s.err != nil:
		return renderError(width, s.err.Error())
	case !s.loaded:
		return renderLoading(width)
	case s.quitConfirm:
		return renderQuitConfirm(width)
	}
	return s.renderQuestion(width)
}

func (s *QuizScreen) renderQuestion(width int) string {
	cw := components.ContentWidth(width)
	q := s.view.Question
	active := s.activeQuestion()
	att := s.activeAttempt()

	var b strings.Builder

	// Info line.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(active.Kind.DisplayName())
	bar := components.StepProgress(s.view.Progress.Current, s.view.Progress.Total, 24).View()
	gap := cw - lipgloss.Width(infoLeft) - lipgloss.Width(bar)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(infoLeft + strings.Repeat(" ", gap) + bar)
	b.WriteString("\n\n")

	if q.Kind == exercise.KindReadingComprehension && q.Reading != nil {
		b.WriteString(renderPassage(q, s.view.Attempt, cw))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Bold(true).
		Render(active.Prompt))
	b.WriteString("\n\n")

	if att != nil {
		b.WriteString(s.renderBody(active, att, cw))
	}

	if fb := s.renderFeedback(att, cw); fb != "" {
		b.WriteString("\n")
		b.WriteString(fb)
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Notice.Render(s.notice))
	}

	if s.view.Phase == sess.PhaseAdvancing {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(advanceLabel(s.view)))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func advanceLabel(v sess.View) string {
	if v.Attempt != nil && !v.Attempt.Resolved {
		return "Press Enter for the next question about the text."
	}
	if v.IsLast {
		return "Press Enter to see your results."
	}
	return "Press Enter to continue."
}

func renderPassage(q exercise.Question, att *evaluate.Attempt, cw int) string {
	text := strings.Join(q.Reading.Passage, "\n\n")
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Text).
		Padding(0, 1).
		Width(cw).
		Render(text)

	if att == nil || att.Reading == nil || att.Reading.Total == 0 {
		return card
	}
	st := att.Reading
	counter := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d of %d about the text", st.Sub+1, st.Total))
	return card + "\n" + counter
}

func (s *QuizScreen) renderBody(q exercise.Question, att *evaluate.Attempt, cw int) string {
	switch {
	case att.Choice != nil:
		return s.options.View()
	case att.Blanks != nil:
		return s.renderBlanks(q, att.Blanks, cw)
	case att.Matching != nil:
		return s.renderMatching(att.Matching, cw)
	case att.Ordering != nil:
		return s.renderOrdering(att.Ordering, att.Resolved, cw)
	case att.Text != nil:
		return s.text.View() + "\n"
	}
	return ""
}

func (s *QuizScreen) renderBlanks(q exercise.Question, st *evaluate.BlanksState, cw int) string {
	if q.Blanks == nil {
		return ""
	}

	var sentence strings.Builder
	n := 0
	for _, p := range q.Blanks.Parts {
		if p.Blank == nil {
			sentence.WriteString(p.Text)
			continue
		}
		n++
		label := fmt.Sprintf("(%d)____", n)
		if i := n - 1; i < len(st.Results) && st.Results[i].Locked && st.Results[i].Correct {
			label = theme.Correct.Render(st.Values[i])
		}
		sentence.WriteString(label)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(sentence.String()))
	b.WriteString("\n\n")
	for i, ti := range s.blanks {
		fmt.Fprintf(&b, "%d. %s", i+1, ti.View())
		if i < len(st.Results) && st.Results[i].Reveal != "" {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("  → " + st.Results[i].Reveal))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (s *QuizScreen) renderMatching(m *evaluate.MatchingState, cw int) string {
	colWidth := (cw - 4) / 2

	item := func(text string, cursor, picked, matched, flashed bool) string {
		prefix := "  "
		if cursor {
			prefix = "▸ "
		}
		var style lipgloss.Style
		switch {
		case flashed:
			style = theme.Incorrect
		case matched:
			style = theme.Locked
			text += " ✓"
		case picked:
			style = theme.Picked
		case cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		return style.Width(colWidth).Render(prefix + text)
	}

	var left, right []string
	for i, v := range m.Lefts {
		flashed := m.Flash != nil && m.Flash.Left == v
		left = append(left, item(v, s.match.col == 0 && i == s.match.left, m.SelectedLeft == v, m.IsLeftMatched(v), flashed))
	}
	for i, v := range m.Rights {
		flashed := m.Flash != nil && m.Flash.Right == v
		right = append(right, item(v, s.match.col == 1 && i == s.match.right, m.SelectedRight == v, m.RightMatchedAt(i), flashed))
	}

	cols := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(left, "\n"),
		"    ",
		strings.Join(right, "\n"),
	)
	count := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Matched %d of %d", len(m.Matched), len(m.Lefts)))
	return cols + "\n\n" + count + "\n"
}

func (s *QuizScreen) renderOrdering(o *evaluate.OrderingState, resolved bool, cw int) string {
	chips := func(words []string, cursor int, active bool) string {
		if len(words) == 0 {
			return lipgloss.NewStyle().Foreground(theme.TextDim).Render("(empty)")
		}
		out := make([]string, len(words))
		for i, w := range words {
			style := theme.Unselected
			if active && i == cursor && !resolved {
				style = theme.Picked
			}
			out[i] = style.Render("[" + w + "]")
		}
		return lipgloss.NewStyle().Width(cw).Render(strings.Join(out, " "))
	}

	label := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	var b strings.Builder
	b.WriteString(label.Render("Words"))
	b.WriteByte('\n')
	b.WriteString(chips(o.Pool, s.order.pool, !s.order.inBuilt))
	b.WriteString("\n\n")
	b.WriteString(label.Render("Your sentence"))
	b.WriteByte('\n')
	b.WriteString(chips(o.Built, s.order.built, s.order.inBuilt))
	b.WriteByte('\n')
	return b.String()
}

// renderFeedback shows the outcome message, its hint and any generated
// explanation.
func (s *QuizScreen) renderFeedback(att *evaluate.Attempt, cw int) string {
	var b strings.Builder

	if s.view.Feedback != "" {
		style := theme.Correct
		switch {
		case s.view.Phase == sess.PhaseRetryPending:
			style = theme.Close
		case att != nil && att.Resolved && !att.Correct:
			style = theme.Incorrect
		case att != nil && att.Matching != nil && att.Matching.Flash != nil:
			style = theme.Incorrect
		}
		b.WriteString(style.Width(cw).Render(s.view.Feedback))
		b.WriteByte('\n')
	}
	if s.view.Hint != "" {
		b.WriteString(theme.Hint.Width(cw).Render(s.view.Hint))
		b.WriteByte('\n')
	}

	switch {
	case s.explanation != nil:
		text := s.explanation.Text
		if s.explanation.Tip != "" {
			text += "\n\nTip: " + s.explanation.Tip
		}
		b.WriteByte('\n')
		b.WriteString(lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ArcadeCyan).
			Foreground(theme.Text).
			Padding(0, 1).
			Width(cw).
			Render(text))
		b.WriteByte('\n')
	case s.explaining:
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("Asking the tutor why..."))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave this quiz?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Your progress in this set will be lost."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[N] No, keep going"))
	return b.String()
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Loading exercises...")
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Could not load this set: %s\n\n  Press Esc to go back.", errMsg))
}
