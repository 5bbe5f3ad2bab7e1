// Package topics holds the grammar reference screens.
package topics

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/englifish/englifish/internal/content"
	"github.com/englifish/englifish/internal/grammar"
	"github.com/englifish/englifish/internal/router"
	"github.com/englifish/englifish/internal/screen"
	"github.com/englifish/englifish/internal/ui/layout"
	"github.com/englifish/englifish/internal/ui/theme"
)

const fetchTimeout = 15 * time.Second

// TopicSource serves the grammar index and topics.
type TopicSource interface {
	TopicIndex(ctx context.Context) (*grammar.Index, error)
	LoadTopic(ctx context.Context, id string) (*grammar.Topic, error)
}

type rowKind int

const (
	rowLevelHeader rowKind = iota
	rowTopic
)

type row struct {
	kind  rowKind
	level string
	topic grammar.TopicInfo
}

type indexLoadedMsg struct {
	index *grammar.Index
	err   error
}

type topicLoadedMsg struct {
	topic *grammar.Topic
	err   error
}

// TopicsScreen lists the grammar topics grouped by level.
type TopicsScreen struct {
	src          TopicSource
	rows         []row
	cursor       int
	scrollOffset int
	loading      bool
	opening      string
	err          error
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)

// New creates a TopicsScreen. The index is fetched by Init.
func New(src TopicSource) *TopicsScreen {
	return &TopicsScreen{src: src, loading: true}
}

func (s *TopicsScreen) Init() tea.Cmd {
	src := s.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		ix, err := src.TopicIndex(ctx)
		return indexLoadedMsg{index: ix, err: err}
	}
}

func (s *TopicsScreen) Title() string {
	return "Grammar"
}

// KeyHints returns the key binding hints for the footer.
func (s *TopicsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Level"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case indexLoadedMsg:
		s.loading = false
		s.err = msg.err
		if msg.err == nil {
			s.rows = buildRows(msg.index)
			s.cursor = 0
			s.moveCursor(1)
		}
		return s, nil

	case topicLoadedMsg:
		s.opening = ""
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		s.err = nil
		return s, router.PushCmd(NewTopic(msg.topic))

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "tab":
			s.nextLevel()
		case "enter":
			return s, s.open()
		case "q":
			return s, router.PopCmd()
		}
	}
	return s, nil
}

// buildRows groups topics under a header per level, keeping index order.
func buildRows(ix *grammar.Index) []row {
	var levels []string
	byLevel := make(map[string][]grammar.TopicInfo)
	for _, t := range ix.Topics {
		lvl := t.Level
		if lvl == "" {
			lvl = "Other"
		}
		if _, ok := byLevel[lvl]; !ok {
			levels = append(levels, lvl)
		}
		byLevel[lvl] = append(byLevel[lvl], t)
	}

	var rows []row
	for _, lvl := range levels {
		rows = append(rows, row{kind: rowLevelHeader, level: lvl})
		for _, t := range byLevel[lvl] {
			rows = append(rows, row{kind: rowTopic, level: lvl, topic: t})
		}
	}
	return rows
}

// moveCursor moves the cursor by delta, skipping level headers. From a
// header row it lands on the first topic in that direction.
func (s *TopicsScreen) moveCursor(delta int) {
	next := s.cursor
	if len(s.rows) > 0 && s.rows[s.cursor].kind == rowTopic {
		next += delta
	}
	for next >= 0 && next < len(s.rows) {
		if s.rows[next].kind == rowTopic {
			s.cursor = next
			return
		}
		next += delta
	}
}

// nextLevel jumps to the first topic of the next level, wrapping.
func (s *TopicsScreen) nextLevel() {
	if len(s.rows) == 0 {
		return
	}
	current := s.rows[s.cursor].level
	for i := 1; i <= len(s.rows); i++ {
		j := (s.cursor + i) % len(s.rows)
		if s.rows[j].kind == rowTopic && s.rows[j].level != current {
			s.cursor = j
			return
		}
	}
}

// open starts loading the topic under the cursor.
func (s *TopicsScreen) open() tea.Cmd {
	if s.opening != "" || len(s.rows) == 0 {
		return nil
	}
	r := s.rows[s.cursor]
	if r.kind != rowTopic {
		return nil
	}
	s.opening = r.topic.ID
	src, id := s.src, r.topic.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		t, err := src.LoadTopic(ctx, id)
		return topicLoadedMsg{topic: t, err: err}
	}
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *TopicsScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowLevelHeader {
		headerRow--
	}
	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *TopicsScreen) View(width, height int) string {
	status := s.statusLine()
	if len(s.rows) == 0 {
		if status == "" {
			status = "No grammar topics available."
		}
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n" + status)
	}

	listHeight := height
	if status != "" {
		listHeight -= 2
	}
	s.adjustScroll(listHeight)

	var lines []string
	for i := s.scrollOffset; i < len(s.rows) && len(lines) < listHeight; i++ {
		r := s.rows[i]
		switch r.kind {
		case rowLevelHeader:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Secondary).
				Bold(true).
				Padding(0, 0, 0, 2).
				Render(strings.ToUpper(r.level)))
		case rowTopic:
			lines = append(lines, renderTopicRow(r.topic, i == s.cursor, width))
		}
	}

	if status != "" {
		lines = append(lines, "", status)
	}
	return strings.Join(lines, "\n")
}

func (s *TopicsScreen) statusLine() string {
	switch {
	case s.loading:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("  Loading topics...")
	case s.opening != "":
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("  Opening " + s.opening + "...")
	case errors.Is(s.err, content.ErrTopicLoadInProgress):
		return theme.Notice.Render("  Another topic is still loading.")
	case s.err != nil:
		return theme.Problem.Render("  " + s.err.Error())
	}
	return ""
}

func renderTopicRow(t grammar.TopicInfo, selected bool, width int) string {
	prefix := "    "
	style := theme.Unselected
	if selected {
		prefix = "  ▸ "
		style = theme.Selected
	}
	title := t.Title
	if title == "" {
		title = t.ID
	}
	line := style.Render(prefix + title)
	if t.Subtitle != "" {
		line += "  " + lipgloss.NewStyle().
			Foreground(theme.TextDim).
			MaxWidth(max(width-lipgloss.Width(line)-4, 0)).
			Render(t.Subtitle)
	}
	return line
}
