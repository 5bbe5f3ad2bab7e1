package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/englifish/englifish/internal/exercise"
)

func matchingQuestion() exercise.Question {
	return exercise.Question{
		Kind: exercise.KindMatching,
		Matching: &exercise.MatchingPayload{Pairs: []exercise.Pair{
			{Left: "dog", Right: "perro"},
			{Left: "cat", Right: "gato"},
		}},
	}
}

func pick(t *testing.T, r *Registry, q exercise.Question, att *Attempt, left, right string) Outcome {
	t.Helper()
	out, err := r.Apply(q, att, SelectLeft{Value: left})
	require.NoError(t, err)
	require.False(t, out.Evaluated)
	out, err = r.Apply(q, att, SelectRight{Value: right})
	require.NoError(t, err)
	return out
}

func TestMatching_RightColumnShuffled(t *testing.T) {
	r := newRegistry()
	att := r.Begin(matchingQuestion(), reverse{})
	assert.Equal(t, []string{"dog", "cat"}, att.Matching.Lefts)
	assert.Equal(t, []string{"gato", "perro"}, att.Matching.Rights)
}

func TestMatching_WrongPairFlashes(t *testing.T) {
	r := newRegistry()
	q := matchingQuestion()
	att := r.Begin(q, nil)

	out := pick(t, r, q, att, "dog", "gato")
	assert.True(t, out.Evaluated)
	assert.False(t, out.Correct)
	assert.Zero(t, out.ScoreDelta)
	assert.Empty(t, att.Matching.Matched)
	assert.Equal(t, 1, att.Matching.WrongAttempts)
	require.NotNil(t, att.Matching.Flash)
	assert.Equal(t, "dog", att.Matching.Flash.Left)
	assert.Empty(t, att.Matching.SelectedLeft)

	require.NotNil(t, out.Deferred)
	assert.Equal(t, DeferClearFlash, out.Deferred.Kind)
	assert.Equal(t, DefaultPolicy().MatchingResetDelay, out.Deferred.Delay)

	_, err := r.Apply(q, att, out.Deferred.Action)
	require.NoError(t, err)
	assert.Nil(t, att.Matching.Flash)
}

func TestMatching_StaleClearFlashIgnored(t *testing.T) {
	r := newRegistry()
	q := matchingQuestion()
	att := r.Begin(q, nil)

	first := pick(t, r, q, att, "dog", "gato")
	pick(t, r, q, att, "cat", "perro")
	require.Equal(t, 2, att.Matching.Flash.Seq)

	_, err := r.Apply(q, att, first.Deferred.Action)
	require.NoError(t, err)
	assert.NotNil(t, att.Matching.Flash)
}

func TestMatching_CompletionScoresOnce(t *testing.T) {
	r := newRegistry()
	q := matchingQuestion()
	att := r.Begin(q, nil)

	total := 0
	out := pick(t, r, q, att, "dog", "gato")
	total += out.ScoreDelta

	out = pick(t, r, q, att, "dog", "perro")
	total += out.ScoreDelta
	assert.True(t, out.Correct)
	assert.False(t, out.MayAdvance)
	assert.True(t, att.Matching.IsLeftMatched("dog"))
	assert.True(t, att.Matching.IsRightMatched("perro"))

	// Right first, then left.
	_, err := r.Apply(q, att, SelectRight{Value: "gato"})
	require.NoError(t, err)
	out, err = r.Apply(q, att, SelectLeft{Value: "cat"})
	require.NoError(t, err)
	total += out.ScoreDelta

	assert.True(t, out.MayAdvance)
	assert.True(t, att.Resolved)
	assert.True(t, att.Correct)
	assert.Equal(t, 1, total)

	_, err = r.Apply(q, att, SelectLeft{Value: "cat"})
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestMatching_RejectsLockedAndUnknown(t *testing.T) {
	r := newRegistry()
	q := matchingQuestion()
	att := r.Begin(q, nil)
	pick(t, r, q, att, "dog", "perro")

	_, err := r.Apply(q, att, SelectLeft{Value: "dog"})
	assert.ErrorIs(t, err, ErrWrongAction)
	_, err = r.Apply(q, att, SelectRight{Value: "perro"})
	assert.ErrorIs(t, err, ErrWrongAction)
	_, err = r.Apply(q, att, SelectLeft{Value: "bird"})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMatching_ToggleSelection(t *testing.T) {
	r := newRegistry()
	q := matchingQuestion()
	att := r.Begin(q, nil)

	_, err := r.Apply(q, att, SelectLeft{Value: "dog"})
	require.NoError(t, err)
	_, err = r.Apply(q, att, SelectLeft{Value: "dog"})
	require.NoError(t, err)
	assert.Empty(t, att.Matching.SelectedLeft)

	_, err = r.Apply(q, att, SelectLeft{Value: "cat"})
	require.NoError(t, err)
	assert.Equal(t, "cat", att.Matching.SelectedLeft)
}

func TestMatching_SharedRightValue(t *testing.T) {
	r := newRegistry()
	q := exercise.Question{
		Kind: exercise.KindMatching,
		Matching: &exercise.MatchingPayload{Pairs: []exercise.Pair{
			{Left: "big", Right: "grande"},
			{Left: "large", Right: "grande"},
			{Left: "small", Right: "pequeño"},
		}},
	}
	att := r.Begin(q, nil)
	m := att.Matching

	out := pick(t, r, q, att, "big", "grande")
	assert.True(t, out.Correct)
	assert.False(t, m.IsRightMatched("grande"))
	assert.True(t, m.RightMatchedAt(0))
	assert.False(t, m.RightMatchedAt(1))

	out = pick(t, r, q, att, "large", "grande")
	assert.True(t, out.Correct)
	assert.False(t, att.Resolved)
	assert.True(t, m.IsRightMatched("grande"))
	assert.True(t, m.RightMatchedAt(1))

	_, err := r.Apply(q, att, SelectRight{Value: "grande"})
	assert.ErrorIs(t, err, ErrWrongAction)

	out = pick(t, r, q, att, "small", "pequeño")
	assert.True(t, out.MayAdvance)
	assert.Equal(t, 1, out.ScoreDelta)
	assert.True(t, att.Resolved)
}
