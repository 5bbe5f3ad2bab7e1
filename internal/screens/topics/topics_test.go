package topics

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/englifish/englifish/internal/content"
	"github.com/englifish/englifish/internal/grammar"
	"github.com/englifish/englifish/internal/router"
)

type stubSource struct {
	index  *grammar.Index
	topic  *grammar.Topic
	err    error
	opened []string
}

func (s *stubSource) TopicIndex(context.Context) (*grammar.Index, error) {
	return s.index, nil
}

func (s *stubSource) LoadTopic(_ context.Context, id string) (*grammar.Topic, error) {
	s.opened = append(s.opened, id)
	return s.topic, s.err
}

func testIndex() *grammar.Index {
	return &grammar.Index{Topics: []grammar.TopicInfo{
		{ID: "present-simple", Title: "Present Simple", Level: "A1"},
		{ID: "past-simple", Title: "Past Simple", Level: "A2", Subtitle: "Finished actions"},
		{ID: "to-be", Title: "Verb to be", Level: "A1"},
	}}
}

func testTopic() *grammar.Topic {
	return &grammar.Topic{
		Title: "Past Simple",
		Sections: []grammar.Section{
			{Title: "Regular verbs", Structure: "verb + -ed"},
		},
		Tips: []grammar.Tip{{Title: "Spelling", Content: "stop -> stopped"}},
	}
}

func loaded(t *testing.T, src *stubSource) *TopicsScreen {
	t.Helper()
	s := New(src)
	s.Update(s.Init()())
	return s
}

func TestBuildRows_GroupsByLevel(t *testing.T) {
	rows := buildRows(testIndex())
	require.Len(t, rows, 5)

	assert.Equal(t, rowLevelHeader, rows[0].kind)
	assert.Equal(t, "A1", rows[0].level)
	assert.Equal(t, "present-simple", rows[1].topic.ID)
	assert.Equal(t, "to-be", rows[2].topic.ID)
	assert.Equal(t, rowLevelHeader, rows[3].kind)
	assert.Equal(t, "A2", rows[3].level)
}

func TestTopics_CursorSkipsHeaders(t *testing.T) {
	s := loaded(t, &stubSource{index: testIndex()})
	assert.Equal(t, 1, s.cursor)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 4, s.cursor, "moving down skips the A2 header")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 4, s.cursor)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, 1, s.cursor, "tab wraps to the first level")
}

func TestTopics_OpenPushesTopic(t *testing.T) {
	src := &stubSource{index: testIndex(), topic: testTopic()}
	s := loaded(t, src)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Contains(t, s.View(80, 20), "Opening present-simple...")

	_, cmd = s.Update(cmd())
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Past Simple", msg.Screen.Title())
	assert.Equal(t, []string{"present-simple"}, src.opened)
}

func TestTopics_LoadInProgress(t *testing.T) {
	src := &stubSource{index: testIndex(), err: content.ErrTopicLoadInProgress}
	s := loaded(t, src)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())
	assert.Contains(t, s.View(80, 20), "Another topic is still loading.")
}

func TestTopics_View(t *testing.T) {
	s := loaded(t, &stubSource{index: testIndex()})
	view := s.View(80, 20)
	assert.Contains(t, view, "A1")
	assert.Contains(t, view, "▸ Present Simple")
	assert.Contains(t, view, "Finished actions")
}

func TestTopics_EmptyIndex(t *testing.T) {
	s := loaded(t, &stubSource{index: &grammar.Index{}})
	assert.Contains(t, s.View(80, 20), "No grammar topics available.")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestTopicScreen_RendersAndScrolls(t *testing.T) {
	topic := testTopic()
	for i := 0; i < 40; i++ {
		topic.Tips = append(topic.Tips, grammar.Tip{Title: "Tip", Content: strings.Repeat("x", 10)})
	}
	s := NewTopic(topic)

	view := s.View(100, 10)
	assert.Contains(t, view, "Past Simple")
	assert.Contains(t, view, "0%")

	s.Update(tea.KeyPressMsg{Code: tea.KeyPgDown})
	assert.Greater(t, s.viewport.ScrollPercent(), 0.0)
}

func TestTopicScreen_TitleFallback(t *testing.T) {
	s := NewTopic(&grammar.Topic{Info: grammar.TopicInfo{ID: "articles"}})
	assert.Equal(t, "articles", s.Title())
}
