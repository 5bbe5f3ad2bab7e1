package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/englifish/englifish/internal/screen"
)

type stubScreen struct {
	title    string
	initRan  bool
	revealed int
	got      []tea.Msg
}

type revealedMsg struct{}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func (s *stubScreen) Revealed() tea.Cmd {
	s.revealed++
	return func() tea.Msg { return revealedMsg{} }
}

func TestPushPop(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	quiz := &stubScreen{title: "quiz"}
	r.Push(quiz)
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "quiz", r.Active().Title())
	assert.True(t, quiz.initRan)

	cmd := r.Pop()
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "home", r.Active().Title())
	assert.Equal(t, 1, home.revealed)
	require.NotNil(t, cmd)
	assert.IsType(t, revealedMsg{}, cmd())
}

func TestPopNoopAtBottom(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	assert.Nil(t, r.Pop())
	assert.Equal(t, 1, r.Depth())
	assert.Zero(t, home.revealed)
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "quiz"})

	results := &stubScreen{title: "results"}
	r.Update(ReplaceScreenMsg{Screen: results})
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "results", r.Active().Title())
	assert.True(t, results.initRan)
}

func TestPopToRoot(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Push(&stubScreen{title: "grammar"})
	r.Push(&stubScreen{title: "topic"})

	r.Update(PopToRootMsg{})
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "home", r.View(80, 24))
	assert.Equal(t, 1, home.revealed)

	assert.Nil(t, r.PopToRoot())
}

func TestUpdateForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	quiz := &stubScreen{title: "quiz"}
	r := New(home)
	r.Push(quiz)

	r.Update("tick")
	assert.Empty(t, home.got)
	assert.Equal(t, []tea.Msg{"tick"}, quiz.got)
}

func TestCommandHelpers(t *testing.T) {
	s := &stubScreen{title: "x"}

	assert.Equal(t, PushScreenMsg{Screen: s}, PushCmd(s)())
	assert.Equal(t, PopScreenMsg{}, PopCmd()())
	assert.Equal(t, ReplaceScreenMsg{Screen: s}, ReplaceCmd(s)())
	assert.Equal(t, PopToRootMsg{}, PopToRootCmd()())
}
