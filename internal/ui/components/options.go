package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/ui/theme"
)

// OptionList is a lettered list of answer options. It only moves the
// cursor; the caller decides what picking means and reveals the result
// with Reveal.
type OptionList struct {
	Options []string
	Cursor  int

	revealed bool
	chosen   int
	correct  int
}

// NewOptionList creates a list with the cursor on the first option.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options, chosen: -1, correct: -1}
}

// Update moves the cursor. Letter keys jump to an option.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.revealed {
		return o, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	default:
		if i, ok := letterIndex(key); ok && i < len(o.Options) {
			o.Cursor = i
		}
	}
	return o, nil
}

// Reveal freezes the list and colors the chosen and correct options.
// correct may be -1 when the right answer is not an option.
func (o *OptionList) Reveal(chosen, correct int) {
	o.revealed = true
	o.chosen = chosen
	o.correct = correct
}

// Revealed reports whether Reveal was called.
func (o OptionList) Revealed() bool {
	return o.revealed
}

// View renders the options, one per line.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor && !o.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+rune(i), opt)

		var style lipgloss.Style
		switch {
		case o.revealed && i == o.correct:
			style = theme.Correct
			line += "  ✓"
		case o.revealed && i == o.chosen:
			style = theme.Incorrect
			line += "  ✗"
		case o.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == o.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteByte('\n')
	}
	return b.String()
}

// letterIndex maps "a".."z" to 0..25.
func letterIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0] | 0x20
	if c < 'a' || c > 'z' {
		return 0, false
	}
	return int(c - 'a'), true
}
