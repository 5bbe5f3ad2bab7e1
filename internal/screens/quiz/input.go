package quiz

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/englifish/englifish/internal/evaluate"
	"github.com/englifish/englifish/internal/exercise"
	"github.com/englifish/englifish/internal/textmatch"
	"github.com/englifish/englifish/internal/ui/components"
	"github.com/englifish/englifish/internal/ui/layout"
)

// matchCursor is the highlighted item of each matching column.
type matchCursor struct {
	col   int
	left  int
	right int
}

// orderCursor is the highlighted word of the pool or the built sentence.
type orderCursor struct {
	inBuilt bool
	pool    int
	built   int
}

func kindHints(k exercise.Kind) []layout.KeyHint {
	switch k {
	case exercise.KindMultipleChoice:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
		}
	case exercise.KindTrueFalse:
		return []layout.KeyHint{
			{Key: "T/F", Description: "Answer"},
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
		}
	case exercise.KindFillInBlanks:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next blank"},
			{Key: "Enter", Description: "Check"},
		}
	case exercise.KindMatching:
		return []layout.KeyHint{
			{Key: "←→", Description: "Column"},
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter", Description: "Pick"},
		}
	case exercise.KindOrdering:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Words/Sentence"},
			{Key: "Enter", Description: "Place"},
			{Key: "Shift+←→", Description: "Move"},
			{Key: "C", Description: "Check"},
		}
	case exercise.KindShortAnswer:
		return []layout.KeyHint{{Key: "Enter", Description: "Check"}}
	}
	return nil
}

// resetWidgets builds fresh input widgets for the active question.
func (s *QuizScreen) resetWidgets() {
	q := s.activeQuestion()
	s.notice = ""
	s.options = components.OptionList{}
	s.blanks = nil
	s.blankFocus = 0
	s.match = matchCursor{}
	s.order = orderCursor{}

	switch q.Kind {
	case exercise.KindMultipleChoice, exercise.KindTrueFalse:
		s.options = components.NewOptionList(choiceLabels(q))

	case exercise.KindFillInBlanks:
		if q.Blanks == nil {
			return
		}
		for i, b := range q.Blanks.Blanks() {
			placeholder := b.Label
			if placeholder == "" {
				placeholder = fmt.Sprintf("blank %d", i+1)
			}
			ti := components.NewTextInput(placeholder, answerLength)
			if i > 0 {
				ti.Blur()
			}
			s.blanks = append(s.blanks, ti)
		}

	case exercise.KindShortAnswer:
		s.text = components.NewTextInput("Type your answer...", answerLength)
	}
}

// choiceLabels are the option texts, or True/False for a true_false
// question answered by value.
func choiceLabels(q exercise.Question) []string {
	if q.Choice == nil || !q.Choice.HasOptions() {
		return []string{"True", "False"}
	}
	labels := make([]string, len(q.Choice.Options))
	for i, o := range q.Choice.Options {
		labels[i] = o.Text
	}
	return labels
}

// syncWidgets mirrors the attempt state into the widgets.
func (s *QuizScreen) syncWidgets() {
	q := s.activeQuestion()
	att := s.activeAttempt()
	if att == nil {
		return
	}

	switch {
	case att.Choice != nil:
		if att.Resolved && !s.options.Revealed() {
			s.options.Reveal(chosenIndex(q, att), correctIndex(q))
		}

	case att.Blanks != nil:
		s.syncBlanks(att.Blanks, att.Attempts > 0)

	case att.Text != nil:
		if v := att.Text.LastVerdict; v != nil {
			switch {
			case v.IsCorrect:
				s.text.SetMark(components.MarkCorrect)
			case att.Resolved:
				s.text.SetMark(components.MarkWrong)
			default:
				s.text.SetMark(components.MarkClose)
			}
		}
		if att.Resolved {
			s.text.Blur()
		}

	case att.Matching != nil:
		m := att.Matching
		s.match.left = clamp(s.match.left, len(m.Lefts))
		s.match.right = clamp(s.match.right, len(m.Rights))

	case att.Ordering != nil:
		o := att.Ordering
		s.order.pool = clamp(s.order.pool, len(o.Pool))
		s.order.built = clamp(s.order.built, len(o.Built))
		if len(o.Pool) == 0 && len(o.Built) > 0 {
			s.order.inBuilt = true
		}
		if len(o.Built) == 0 {
			s.order.inBuilt = false
		}
	}
}

func (s *QuizScreen) syncBlanks(st *evaluate.BlanksState, judged bool) {
	if !judged {
		return
	}
	for i := range s.blanks {
		if i >= len(st.Results) {
			break
		}
		r := st.Results[i]
		switch {
		case r.Locked && r.Correct:
			s.blanks[i].SetMark(components.MarkCorrect)
		case r.Locked:
			s.blanks[i].SetMark(components.MarkWrong)
		case r.Verdict.Level >= textmatch.LevelModerate:
			s.blanks[i].SetMark(components.MarkClose)
		default:
			s.blanks[i].SetMark(components.MarkWrong)
		}
		if r.Locked {
			s.blanks[i].Blur()
		}
	}
	if st.Locked(s.blankFocus) {
		s.focusBlank(1)
	}
}

func chosenIndex(q exercise.Question, att *evaluate.Attempt) int {
	if att.Choice.Selected >= 0 {
		return att.Choice.Selected
	}
	if c := att.Choice.Chosen; c != nil {
		if *c {
			return 0
		}
		return 1
	}
	return -1
}

func correctIndex(q exercise.Question) int {
	if q.Choice == nil {
		return -1
	}
	if q.Choice.HasOptions() {
		return q.Choice.CorrectIndex()
	}
	switch textmatch.Normalize(q.Choice.Answer) {
	case "true":
		return 0
	case "false":
		return 1
	}
	return -1
}

// handleAnswerKey routes a key to the input of the active question.
func (s *QuizScreen) handleAnswerKey(msg tea.KeyMsg) tea.Cmd {
	q := s.activeQuestion()
	att := s.activeAttempt()
	if att == nil || att.Resolved {
		return nil
	}

	switch q.Kind {
	case exercise.KindMultipleChoice, exercise.KindTrueFalse:
		return s.handleChoiceKey(msg, q)
	case exercise.KindFillInBlanks:
		return s.handleBlanksKey(msg, att)
	case exercise.KindMatching:
		return s.handleMatchingKey(msg, att.Matching)
	case exercise.KindOrdering:
		return s.handleOrderingKey(msg, att.Ordering)
	case exercise.KindShortAnswer:
		if msg.String() == "enter" {
			return s.submit(evaluate.SubmitText{Text: s.text.Value()})
		}
		var cmd tea.Cmd
		s.text, cmd = s.text.Update(msg)
		return cmd
	}
	return nil
}

func (s *QuizScreen) handleChoiceKey(msg tea.KeyMsg, q exercise.Question) tea.Cmd {
	if q.Choice == nil {
		return nil
	}
	byValue := !q.Choice.HasOptions()

	switch msg.String() {
	case "t", "T":
		if q.Kind == exercise.KindTrueFalse {
			return s.submitBool(q, true)
		}
	case "f", "F":
		if q.Kind == exercise.KindTrueFalse {
			return s.submitBool(q, false)
		}
	case "enter", "space":
		if byValue {
			return s.submit(evaluate.ChooseBool{Value: s.options.Cursor == 0})
		}
		return s.submit(evaluate.SelectOption{Index: s.options.Cursor})
	}

	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	return cmd
}

// submitBool answers a true_false question by value. With options the
// matching option is selected instead.
func (s *QuizScreen) submitBool(q exercise.Question, v bool) tea.Cmd {
	if q.Choice.HasOptions() {
		want := "false"
		if v {
			want = "true"
		}
		for i, o := range q.Choice.Options {
			if textmatch.Normalize(o.Text) == want {
				s.options.Cursor = i
				return s.submit(evaluate.SelectOption{Index: i})
			}
		}
		return nil
	}
	return s.submit(evaluate.ChooseBool{Value: v})
}

func (s *QuizScreen) handleBlanksKey(msg tea.KeyMsg, att *evaluate.Attempt) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		return s.focusBlank(1)
	case "shift+tab", "up":
		return s.focusBlank(-1)
	case "enter":
		values := make([]string, len(s.blanks))
		for i, b := range s.blanks {
			values[i] = b.Value()
		}
		return s.submit(evaluate.SubmitBlanks{Values: values})
	}

	if s.blankFocus >= len(s.blanks) || att.Blanks.Locked(s.blankFocus) {
		return nil
	}
	var cmd tea.Cmd
	s.blanks[s.blankFocus], cmd = s.blanks[s.blankFocus].Update(msg)
	return cmd
}

// focusBlank moves the cursor to the next editable blank in direction
// dir, wrapping around.
func (s *QuizScreen) focusBlank(dir int) tea.Cmd {
	n := len(s.blanks)
	if n == 0 {
		return nil
	}
	var st *evaluate.BlanksState
	if att := s.activeAttempt(); att != nil {
		st = att.Blanks
	}

	i := s.blankFocus
	for range n {
		i = (i + dir + n) % n
		if st == nil || !st.Locked(i) {
			break
		}
	}
	if st != nil && st.Locked(i) {
		return nil
	}

	if s.blankFocus < n {
		s.blanks[s.blankFocus].Blur()
	}
	s.blankFocus = i
	return s.blanks[i].Focus()
}

func (s *QuizScreen) handleMatchingKey(msg tea.KeyMsg, m *evaluate.MatchingState) tea.Cmd {
	if m == nil {
		return nil
	}
	switch msg.String() {
	case "left", "h":
		s.match.col = 0
	case "right", "l":
		s.match.col = 1
	case "tab":
		s.match.col = 1 - s.match.col
	case "up", "k":
		if s.match.col == 0 {
			s.match.left = clamp(s.match.left-1, len(m.Lefts))
		} else {
			s.match.right = clamp(s.match.right-1, len(m.Rights))
		}
	case "down", "j":
		if s.match.col == 0 {
			s.match.left = clamp(s.match.left+1, len(m.Lefts))
		} else {
			s.match.right = clamp(s.match.right+1, len(m.Rights))
		}
	case "enter", "space":
		if s.match.col == 0 {
			if s.match.left >= len(m.Lefts) {
				return nil
			}
			v := m.Lefts[s.match.left]
			if m.IsLeftMatched(v) {
				return nil
			}
			cmd := s.submit(evaluate.SelectLeft{Value: v})
			if m.SelectedLeft != "" {
				s.match.col = 1
			}
			return cmd
		}
		if s.match.right >= len(m.Rights) {
			return nil
		}
		v := m.Rights[s.match.right]
		if m.RightMatchedAt(s.match.right) {
			return nil
		}
		cmd := s.submit(evaluate.SelectRight{Value: v})
		if m.SelectedRight != "" {
			s.match.col = 0
		}
		return cmd
	}
	return nil
}

func (s *QuizScreen) handleOrderingKey(msg tea.KeyMsg, o *evaluate.OrderingState) tea.Cmd {
	if o == nil {
		return nil
	}
	switch msg.String() {
	case "tab":
		s.order.inBuilt = !s.order.inBuilt && len(o.Built) > 0
	case "up":
		s.order.inBuilt = false
	case "down":
		s.order.inBuilt = len(o.Built) > 0
	case "left", "h":
		if s.order.inBuilt {
			s.order.built = clamp(s.order.built-1, len(o.Built))
		} else {
			s.order.pool = clamp(s.order.pool-1, len(o.Pool))
		}
	case "right", "l":
		if s.order.inBuilt {
			s.order.built = clamp(s.order.built+1, len(o.Built))
		} else {
			s.order.pool = clamp(s.order.pool+1, len(o.Pool))
		}
	case "shift+left":
		if s.order.inBuilt && s.order.built > 0 {
			from := s.order.built
			s.order.built--
			return s.submit(evaluate.OrderMove{From: from, To: from - 1})
		}
	case "shift+right":
		if s.order.inBuilt && s.order.built < len(o.Built)-1 {
			from := s.order.built
			s.order.built++
			return s.submit(evaluate.OrderMove{From: from, To: from + 1})
		}
	case "backspace":
		if len(o.Built) > 0 {
			return s.submit(evaluate.OrderRemove{BuiltIndex: len(o.Built) - 1})
		}
	case "c", "C":
		return s.submit(evaluate.OrderCheck{})
	case "enter", "space":
		switch {
		case !s.order.inBuilt && len(o.Pool) > 0:
			return s.submit(evaluate.OrderAppend{PoolIndex: s.order.pool})
		case s.order.inBuilt && len(o.Pool) == 0 && msg.String() == "enter":
			return s.submit(evaluate.OrderCheck{})
		case s.order.inBuilt && len(o.Built) > 0:
			return s.submit(evaluate.OrderRemove{BuiltIndex: s.order.built})
		}
	}
	return nil
}

// forwardToInput passes non-key messages, such as cursor blinks, to the
// focused text input.
func (s *QuizScreen) forwardToInput(msg tea.Msg) tea.Cmd {
	if !s.loaded {
		return nil
	}
	var cmd tea.Cmd
	switch s.activeQuestion().Kind {
	case exercise.KindFillInBlanks:
		if s.blankFocus < len(s.blanks) {
			s.blanks[s.blankFocus], cmd = s.blanks[s.blankFocus].Update(msg)
		}
	case exercise.KindShortAnswer:
		s.text, cmd = s.text.Update(msg)
	}
	return cmd
}

// focusCmd starts the cursor of the active text input.
func (s *QuizScreen) focusCmd() tea.Cmd {
	switch s.activeQuestion().Kind {
	case exercise.KindFillInBlanks:
		if s.blankFocus < len(s.blanks) {
			return s.blanks[s.blankFocus].Focus()
		}
	case exercise.KindShortAnswer:
		return s.text.Focus()
	}
	return nil
}

// clamp keeps i within [0, n).
func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
