package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/englifish/englifish/internal/ui/theme"
)

// Mark is the result glyph shown after a text input.
type Mark int

const (
	MarkNone Mark = iota
	MarkCorrect
	MarkClose
	MarkWrong
)

// TextInput wraps bubbles/textinput with englifish styling.
type TextInput struct {
	Model textinput.Model
	mark  Mark
}

// NewTextInput creates a new styled text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	switch t.mark {
	case MarkCorrect:
		view += " " + theme.TickMark
	case MarkClose:
		view += " " + theme.CloseMark
	case MarkWrong:
		view += " " + theme.CrossMark
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the text.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// SetMark sets the glyph shown after the input.
func (t *TextInput) SetMark(m Mark) {
	t.mark = m
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has the cursor.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}
