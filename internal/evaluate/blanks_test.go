package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/englifish/englifish/internal/exercise"
)

func blanksQuestion() exercise.Question {
	return exercise.Question{
		Kind: exercise.KindFillInBlanks,
		Blanks: &exercise.BlanksPayload{Parts: []exercise.Part{
			{Text: "She"},
			{Blank: &exercise.Blank{Answer: "is going", Alternatives: []string{"'s going"}}},
			{Text: "to the park because she"},
			{Blank: &exercise.Blank{Answer: "likes"}},
			{Text: "running."},
		}},
	}
}

func TestBlanks_AllCorrect(t *testing.T) {
	r := newRegistry()
	q := blanksQuestion()
	att := r.Begin(q, nil)

	out, err := r.Apply(q, att, SubmitBlanks{Values: []string{"Is going", "likes"}})
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.True(t, out.MayAdvance)
	assert.Equal(t, 1, out.ScoreDelta)
	require.Len(t, out.Blanks, 2)
	assert.True(t, out.Blanks[0].Locked)
	assert.True(t, out.Blanks[1].Locked)
}

func TestBlanks_TypoGetsSecondChance(t *testing.T) {
	r := newRegistry()
	q := blanksQuestion()
	att := r.Begin(q, nil)

	out, err := r.Apply(q, att, SubmitBlanks{Values: []string{"is going", "likse"}})
	require.NoError(t, err)
	assert.True(t, out.Retry)
	assert.False(t, out.MayAdvance)
	assert.Zero(t, out.ScoreDelta)
	require.NotNil(t, out.Deferred)
	assert.Equal(t, DeferClearFeedback, out.Deferred.Kind)
	assert.True(t, att.Blanks.Locked(0))
	assert.False(t, att.Blanks.Locked(1))

	// The locked blank's value is ignored on resubmission.
	out, err = r.Apply(q, att, SubmitBlanks{Values: []string{"", "likes"}})
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, 1, out.ScoreDelta)
	assert.Equal(t, 2, att.Attempts)
}

func TestBlanks_CloseAnswersRetryWithoutLimit(t *testing.T) {
	r := newRegistry()
	q := blanksQuestion()
	att := r.Begin(q, nil)

	for range 4 {
		out, err := r.Apply(q, att, SubmitBlanks{Values: []string{"is going", "likse"}})
		require.NoError(t, err)
		assert.True(t, out.Retry)
		assert.False(t, out.MayAdvance)
		assert.False(t, att.Blanks.Locked(1))
		assert.Empty(t, out.Blanks[1].Reveal)
	}

	out, err := r.Apply(q, att, SubmitBlanks{Values: []string{"is going", "likes"}})
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, 1, out.ScoreDelta)
	assert.Equal(t, 5, att.Attempts)
}

func TestBlanks_ExhaustedAttemptsReveal(t *testing.T) {
	p := DefaultPolicy()
	p.MaxBlankAttempts = 2
	r := NewRegistry(p)
	q := blanksQuestion()
	att := r.Begin(q, nil)

	_, err := r.Apply(q, att, SubmitBlanks{Values: []string{"is going", "likse"}})
	require.NoError(t, err)

	out, err := r.Apply(q, att, SubmitBlanks{Values: []string{"is going", "lieks"}})
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.False(t, out.Retry)
	assert.True(t, out.MayAdvance)
	assert.Zero(t, out.ScoreDelta)
	assert.Equal(t, "likes", out.Blanks[1].Reveal)
	assert.Contains(t, out.Feedback, "likes")

	_, err = r.Apply(q, att, SubmitBlanks{Values: []string{"is going", "likes"}})
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestBlanks_WrongAnswerLocksImmediately(t *testing.T) {
	r := newRegistry()
	q := blanksQuestion()
	att := r.Begin(q, nil)

	out, err := r.Apply(q, att, SubmitBlanks{Values: []string{"is going", "hates"}})
	require.NoError(t, err)
	assert.True(t, out.MayAdvance)
	assert.False(t, out.Correct)
	assert.Equal(t, "likes", out.Blanks[1].Reveal)
}

func TestBlanks_EmptyBlankIsWrong(t *testing.T) {
	r := newRegistry()
	q := blanksQuestion()
	att := r.Begin(q, nil)

	out, err := r.Apply(q, att, SubmitBlanks{Values: []string{"is going", "  "}})
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.True(t, out.MayAdvance)
	assert.Zero(t, out.ScoreDelta)
	assert.True(t, att.Blanks.Locked(1))
	assert.Equal(t, "likes", out.Blanks[1].Reveal)
	assert.Equal(t, 1, att.Attempts)
}

func TestBlanks_WrongValueCount(t *testing.T) {
	r := newRegistry()
	q := blanksQuestion()
	att := r.Begin(q, nil)

	_, err := r.Apply(q, att, SubmitBlanks{Values: []string{"is going"}})
	assert.ErrorIs(t, err, ErrWrongAction)
	assert.Zero(t, att.Attempts)
}
