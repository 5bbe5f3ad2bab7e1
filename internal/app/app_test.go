package app

import (
	"log/slog"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/englifish/englifish/internal/content"
	"github.com/englifish/englifish/internal/router"
	"github.com/englifish/englifish/internal/screens/home"
	"github.com/englifish/englifish/internal/screens/quiz"
	"github.com/englifish/englifish/internal/screens/topics"
	"github.com/englifish/englifish/internal/session"
)

func testOptions() Options {
	logger := slog.New(slog.DiscardHandler)
	lib := content.NewLibrary(content.NewFSSource(content.Bundled()), logger)
	return Options{
		Library:    lib,
		Controller: session.NewController(lib, session.Options{Logger: logger}),
		Logger:     logger,
	}
}

func TestAppModel_StartsOnHome(t *testing.T) {
	m := newAppModel(testOptions())
	assert.IsType(t, &home.HomeScreen{}, m.router.Active())
	assert.Equal(t, 1, m.router.Depth())
	assert.NotNil(t, m.Init())
}

func TestAppModel_StartSetPushesQuiz(t *testing.T) {
	opts := testOptions()
	opts.StartSet = "present-simple"
	m := newAppModel(opts)
	require.NotNil(t, m.startCmd)

	msg, ok := m.startCmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &quiz.QuizScreen{}, msg.Screen)
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(testOptions())
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAppModel_EscOnRootDoesNothing(t *testing.T) {
	m := newAppModel(testOptions())
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
}

func TestAppModel_EscPopsPlainScreens(t *testing.T) {
	opts := testOptions()
	m := newAppModel(opts)
	m.router.Push(topics.New(opts.Library))

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestAppModel_EscGoesToEscapeHandler(t *testing.T) {
	opts := testOptions()
	m := newAppModel(opts)
	m.router.Push(quiz.New(quiz.Deps{Controller: opts.Controller}, "present-simple"))

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd, "the quiz handles Esc itself")
	assert.Equal(t, 2, m.router.Depth())
}

func TestAppModel_View(t *testing.T) {
	m := newAppModel(testOptions())
	assert.Empty(t, m.render())
	assert.True(t, m.View().AltScreen)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	out := updated.(AppModel).render()
	assert.Contains(t, out, "Navigate")
	assert.Contains(t, out, "GRAMMAR")

	small, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.NotContains(t, small.(AppModel).render(), "GRAMMAR")
}
