package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = max(m.seek(-1, 1), 0)
	return m
}

// SetItems replaces the items, keeping the cursor when it is still valid.
func (m *Menu) SetItems(items []MenuItem) {
	m.Items = items
	if m.Selected < len(items) && !items[m.Selected].Disabled {
		return
	}
	*m = NewMenu(items)
}

func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

// seek returns the first enabled index after from in direction dir, or
// -1 when there is none.
func (m Menu) seek(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// Update moves the cursor over enabled items and runs the selected
// item's action on Enter. Movement stops at the ends; home and end jump
// to them.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	next := -1
	switch kmsg.String() {
	case "up", "k":
		next = m.seek(m.Selected, -1)
	case "down", "j":
		next = m.seek(m.Selected, 1)
	case "home", "g":
		next = m.seek(-1, 1)
	case "end", "G":
		next = m.seek(len(m.Items), -1)
	case "enter":
		if item, ok := m.Current(); ok && item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}
	if next >= 0 {
		m.Selected = next
	}
	return m, nil
}

func (m Menu) View() string {
	detail := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder
	for i, item := range m.Items {
		var line string
		switch {
		case item.Disabled:
			line = theme.Locked.Render("    " + item.Label)
		case i == m.Selected:
			line = theme.Selected.Render("  ▸ " + item.Label)
		default:
			line = theme.Unselected.Render("    " + item.Label)
		}
		if item.Detail != "" {
			line += "  " + detail.Render(item.Detail)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
