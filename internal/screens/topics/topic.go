package topics

import (
	"fmt"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/grammar"
	"github.com/englifish/englifish/internal/screen"
	"github.com/englifish/englifish/internal/ui/layout"
	"github.com/englifish/englifish/internal/ui/theme"
)

// TopicScreen shows one grammar topic in a scrollable viewport.
type TopicScreen struct {
	topic    *grammar.Topic
	viewport viewport.Model

	// renderedWidth is the width the viewport content was laid out for.
	renderedWidth int
}

var _ screen.Screen = (*TopicScreen)(nil)
var _ screen.KeyHintProvider = (*TopicScreen)(nil)

// NewTopic creates a TopicScreen for t.
func NewTopic(t *grammar.Topic) *TopicScreen {
	return &TopicScreen{topic: t, viewport: viewport.New()}
}

func (s *TopicScreen) Init() tea.Cmd { return nil }

func (s *TopicScreen) Title() string {
	if s.topic.Title != "" {
		return s.topic.Title
	}
	return s.topic.Info.ID
}

func (s *TopicScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TopicScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

func (s *TopicScreen) View(width, height int) string {
	textWidth := min(width-4, 90)
	if textWidth != s.renderedWidth {
		s.viewport.SetContent(grammar.Render(s.topic, ThemedStyles(), textWidth))
		s.renderedWidth = textWidth
	}
	s.viewport.SetWidth(textWidth)
	s.viewport.SetHeight(max(height-1, 1))

	pct := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%3.0f%%", s.viewport.ScrollPercent()*100))
	body := lipgloss.JoinVertical(lipgloss.Right, s.viewport.View(), pct)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

// ThemedStyles colors a rendered topic with the app theme.
func ThemedStyles() grammar.Styles {
	return grammar.Styles{
		Title:     lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true),
		Heading:   lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true),
		Label:     lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		Structure: lipgloss.NewStyle().Foreground(theme.ArcadeCyan),
		Example:   lipgloss.NewStyle().Foreground(theme.Text).Italic(true),
		Note:      lipgloss.NewStyle().Foreground(theme.TextDim),
	}
}
