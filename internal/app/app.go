// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/content"
	"github.com/englifish/englifish/internal/explain"
	"github.com/englifish/englifish/internal/router"
	"github.com/englifish/englifish/internal/screen"
	"github.com/englifish/englifish/internal/screens/home"
	"github.com/englifish/englifish/internal/screens/quiz"
	"github.com/englifish/englifish/internal/screens/topics"
	"github.com/englifish/englifish/internal/session"
	"github.com/englifish/englifish/internal/ui/layout"
)

// Options holds the services the TUI runs on.
type Options struct {
	Library    *content.Library
	Controller *session.Controller

	// Explainer is nil when no LLM provider is configured.
	Explainer *explain.Service

	Logger *slog.Logger

	// StartSet opens this set right away instead of waiting on the home
	// screen.
	StartSet string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	width    int
	height   int
	startCmd tea.Cmd
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	quizDeps := quiz.Deps{
		Controller: opts.Controller,
		Explainer:  opts.Explainer,
		Logger:     opts.Logger,
	}
	play := func(id string) screen.Screen {
		return quiz.New(quizDeps, id)
	}

	homeScreen := home.New(home.Deps{
		Sets: opts.Library,
		Play: play,
		Grammar: func() screen.Screen {
			return topics.New(opts.Library)
		},
		Tutor: opts.Explainer != nil,
	})

	m := AppModel{router: router.New(homeScreen)}
	if opts.StartSet != "" {
		m.startCmd = router.PushCmd(play(opts.StartSet))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.startCmd)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if eh, ok := m.router.Active().(screen.EscapeHandler); ok && eh.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.PopCmd()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// footerHints prefers the hints of the active screen.
func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
