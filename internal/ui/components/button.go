package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/ui/theme"
)

// Button is one action in a ButtonRow. Shortcut, when set, presses the
// button from anywhere in the row regardless of focus.
type Button struct {
	Label    string
	Shortcut string
	Press    func() tea.Cmd
}

// ButtonRow is a horizontal set of buttons with one focused. Arrow keys
// and tab move focus and wrap at the ends; Enter presses the focused one.
type ButtonRow struct {
	buttons []Button
	focus   int
}

func NewButtonRow(buttons ...Button) ButtonRow {
	return ButtonRow{buttons: buttons}
}

func (r ButtonRow) Focused() int { return r.focus }

// Focus moves focus to i, wrapping out-of-range values.
func (r *ButtonRow) Focus(i int) {
	if n := len(r.buttons); n > 0 {
		r.focus = ((i % n) + n) % n
	}
}

// Update handles navigation and presses. It returns the pressed button's
// command, if any.
func (r *ButtonRow) Update(msg tea.Msg) tea.Cmd {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(r.buttons) == 0 {
		return nil
	}
	key := kmsg.String()
	switch key {
	case "left", "h", "shift+tab":
		r.Focus(r.focus - 1)
		return nil
	case "right", "l", "tab":
		r.Focus(r.focus + 1)
		return nil
	case "enter":
		return r.press(r.focus)
	}
	for i, b := range r.buttons {
		if b.Shortcut != "" && strings.EqualFold(key, b.Shortcut) {
			return r.press(i)
		}
	}
	return nil
}

func (r *ButtonRow) press(i int) tea.Cmd {
	if r.buttons[i].Press == nil {
		return nil
	}
	return r.buttons[i].Press()
}

func (r ButtonRow) View() string {
	views := make([]string, 0, 2*len(r.buttons))
	for i, b := range r.buttons {
		if i > 0 {
			views = append(views, "  ")
		}
		label := "  ▸ " + b.Label + " "
		if i == r.focus {
			views = append(views, theme.ButtonActive.Render(label))
		} else {
			views = append(views, theme.ButtonInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}
