// Package home is the start screen: the list of exercise sets.
package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/content"
	"github.com/englifish/englifish/internal/router"
	"github.com/englifish/englifish/internal/screen"
	"github.com/englifish/englifish/internal/ui/components"
	"github.com/englifish/englifish/internal/ui/layout"
	"github.com/englifish/englifish/internal/ui/theme"
)

const listTimeout = 15 * time.Second

// SetLister lists the available exercise sets.
type SetLister interface {
	ListSets(ctx context.Context) ([]content.SetInfo, error)
}

// Deps are the collaborators of the home screen.
type Deps struct {
	Sets SetLister

	// Play creates the quiz screen for a set.
	Play func(setID string) screen.Screen

	// Grammar creates the grammar reference screen. Nil hides the entry.
	Grammar func() screen.Screen

	// Tutor reports whether missed answers get generated explanations.
	Tutor bool
}

// setsLoadedMsg carries the result of listing the catalog.
type setsLoadedMsg struct {
	sets []content.SetInfo
	err  error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps    Deps
	menu    components.Menu
	sets    []content.SetInfo
	loading bool
	err     error
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Revealer = (*HomeScreen)(nil)

// New creates a new HomeScreen. The set list is loaded by Init.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps, loading: true}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadSets()
}

// Revealed reloads the catalog when the learner comes back from a quiz.
func (h *HomeScreen) Revealed() tea.Cmd {
	return h.loadSets()
}

func (h *HomeScreen) loadSets() tea.Cmd {
	lister := h.deps.Sets
	if lister == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()
		sets, err := lister.ListSets(ctx)
		return setsLoadedMsg{sets: sets, err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case setsLoadedMsg:
		first := h.loading
		h.loading = false
		h.err = msg.err
		if msg.err == nil {
			h.sets = msg.sets
		}
		if first {
			h.menu = components.NewMenu(h.items())
		} else {
			h.menu.SetItems(h.items())
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// items builds the menu: one entry per set, then the grammar reference
// and exit.
func (h *HomeScreen) items() []components.MenuItem {
	var items []components.MenuItem
	for _, set := range h.sets {
		id := set.ID
		items = append(items, components.MenuItem{
			Label:  set.Title,
			Detail: questionCount(set.Total),
			Action: func() tea.Cmd {
				if h.deps.Play == nil {
					return nil
				}
				return router.PushCmd(h.deps.Play(id))
			},
		})
	}
	if len(h.sets) == 0 {
		label := "No exercise sets found"
		if h.loading {
			label = "Loading exercise sets..."
		}
		items = append(items, components.MenuItem{Label: label, Disabled: true})
	}

	if h.deps.Grammar != nil {
		items = append(items, components.MenuItem{
			Label: "GRAMMAR",
			Action: func() tea.Cmd {
				return router.PushCmd(h.deps.Grammar())
			},
		})
	}
	items = append(items, components.MenuItem{
		Label:  "EXIT",
		Action: func() tea.Cmd { return tea.Quit },
	})
	return items
}

func questionCount(n int) string {
	if n == 1 {
		return "1 question"
	}
	return fmt.Sprintf("%d questions", n)
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := layout.IsCompactHeight(termHeight) || layout.IsCompactWidth(width)

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	variant := MascotIdle
	if h.err != nil {
		variant = MascotAlert
	}
	if !compact {
		sections = append(sections, renderMascotBox(variant, cw))
	}

	questions := 0
	for _, s := range h.sets {
		questions += s.Total
	}
	sections = append(sections, renderStatsBar(len(h.sets), questions, h.deps.Tutor, cw, compact))

	if h.err != nil {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Error).
			Width(cw).
			Align(lipgloss.Center).
			Render("Could not load exercise sets: "+h.err.Error()))
	}

	sections = append(sections, renderMenu(h.menu.Items, h.menu.Selected, cw, compact))

	if !h.deps.Tutor && !compact {
		sections = append(sections, renderTutorBanner(cw))
	}

	content := strings.Join(sections, "\n\n")
	return components.CabinetFrame(content, width, height)
}
