package exercise

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func TestDecode_MixedSet(t *testing.T) {
	set, skipped, err := Decode("mixed", loadFixture(t, "mixed.json"))
	require.NoError(t, err)

	assert.Equal(t, "mixed", set.ID)
	assert.Equal(t, "Present Simple Practice", set.Title)
	require.Len(t, set.Questions, 7)
	require.Len(t, skipped, 2)

	assert.Equal(t, 7, skipped[0].Index)
	assert.Equal(t, "correctOrder", skipped[0].Field)
	assert.Equal(t, 8, skipped[1].Index)
	assert.Equal(t, "type", skipped[1].Field)

	kinds := make([]Kind, len(set.Questions))
	for i, q := range set.Questions {
		kinds[i] = q.Kind
	}
	assert.Equal(t, []Kind{
		KindMultipleChoice, KindTrueFalse, KindFillInBlanks, KindMatching,
		KindOrdering, KindShortAnswer, KindReadingComprehension,
	}, kinds)

	// 6 plain questions plus 2 reading sub-questions.
	assert.Equal(t, 8, set.TotalFlat())
}

func TestDecode_Payloads(t *testing.T) {
	set, _, err := Decode("mixed", loadFixture(t, "mixed.json"))
	require.NoError(t, err)

	mc := set.Questions[0]
	assert.Equal(t, 1, mc.Choice.CorrectIndex())
	assert.Equal(t, "Third person singular adds -es.", mc.Choice.Options[1].Rationale)

	tf := set.Questions[1]
	assert.False(t, tf.Choice.HasOptions())
	assert.Equal(t, "false", tf.Choice.Answer)

	blanks := set.Questions[2].Blanks.Blanks()
	require.Len(t, blanks, 2)
	assert.Equal(t, []string{"am", "'m"}, blanks[0].Accepted())
	assert.Equal(t, "to be", blanks[1].Label)

	pairs := set.Questions[3].Matching.Pairs
	assert.Equal(t, []Pair{{Left: "dog", Right: "perro"}, {Left: "cat", Right: "gato"}}, pairs)

	ord := set.Questions[4].Ordering
	assert.Equal(t, []string{"I", "eat", "apples"}, ord.CorrectOrder)

	sa := set.Questions[5].ShortAnswer
	assert.Equal(t, []string{"I go", "I am going"}, sa.Accepted())

	rc := set.Questions[6].Reading
	assert.Equal(t, []string{"Tom lives in London.", "He works in a bank."}, rc.Passage)
	require.Len(t, rc.Questions, 2)
	assert.Equal(t, "false", rc.Questions[1].Choice.Answer)
}

func TestDecode_ReadingWithRootOptions(t *testing.T) {
	data := []byte(`{
		"title": "Reading",
		"questions": [{
			"type": "reading_comprehension",
			"passage": "First paragraph.\n\nSecond paragraph.",
			"question": "What is this?",
			"answerOptions": [
				{"text": "A text", "isCorrect": true},
				{"text": "A song", "isCorrect": false}
			]
		}]
	}`)

	set, skipped, err := Decode("reading", data)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	rc := set.Questions[0].Reading
	assert.Equal(t, []string{"First paragraph.", "Second paragraph."}, rc.Passage)
	require.Len(t, rc.Questions, 1)
	assert.Equal(t, KindMultipleChoice, rc.Questions[0].Kind)
	assert.Equal(t, "What is this?", rc.Questions[0].Prompt)
	assert.Equal(t, 1, set.TotalFlat())
}

func TestDecode_ReadingRejectsDisallowedSubType(t *testing.T) {
	data := []byte(`{
		"questions": [{
			"type": "reading_comprehension",
			"passage": "Text.",
			"questions": [
				{"type": "ordering", "items": ["a"], "correctOrder": [0]},
				{"type": "short_answer", "question": "Q?", "correctAnswer": "yes"}
			]
		}]
	}`)

	set, skipped, err := Decode("r", data)
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	assert.Equal(t, "questions[0].type", skipped[0].Field)
	assert.Len(t, set.Questions[0].Reading.Questions, 1)
}

func TestDecode_ShapeErrors(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		field string
	}{
		{"mc without correct option", `{"type":"multiple_choice","question":"q","answerOptions":[{"text":"a"},{"text":"b"}]}`, "answerOptions"},
		{"mc missing options", `{"type":"multiple_choice","question":"q"}`, ""},
		{"tf missing answer", `{"type":"true_false","question":"q"}`, ""},
		{"fill without blanks", `{"type":"fill_in_the_blanks","questionParts":["only text"]}`, "questionParts"},
		{"matching duplicate left", `{"type":"matching","pairs":[{"left":"a","right":"b"},{"left":"a","right":"c"}]}`, "pairs"},
		{"ordering bad token", `{"type":"ordering","items":["a","b"],"correctOrder":["a","c"]}`, "correctOrder"},
		{"ordering index out of range", `{"type":"ordering","items":["a","b"],"correctOrder":[0,2]}`, "correctOrder"},
		{"short answer empty", `{"type":"short_answer","question":"q","correctAnswer":""}`, ""},
		{"not an object", `"text"`, ""},
		{"unknown type", `{"type":"essay"}`, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, shapeErr := decodeQuestion(json.RawMessage(tt.json), 3, false)
			require.NotNil(t, shapeErr)
			assert.Equal(t, 3, shapeErr.Index)
			assert.Equal(t, tt.field, shapeErr.Field)
			assert.NotEmpty(t, shapeErr.Error())
		})
	}
}

func TestDecode_NoValidQuestions(t *testing.T) {
	_, skipped, err := Decode("empty", []byte(`{"title":"x","questions":[{"type":"essay"}]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoQuestions))
	assert.Len(t, skipped, 1)
}

func TestDecode_BadEnvelope(t *testing.T) {
	_, _, err := Decode("bad", []byte(`{"title": 1, "questions": []}`))
	require.Error(t, err)

	_, _, err = Decode("bad", []byte(`not json`))
	require.Error(t, err)
}

func TestResolveCorrectOrder(t *testing.T) {
	items := []string{"I", "eat", "apples"}
	raw := func(s string) []json.RawMessage {
		var out []json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(s), &out))
		return out
	}

	got, err := ResolveCorrectOrder(items, raw(`[2, 0, 1]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"apples", "I", "eat"}, got)

	got, err = ResolveCorrectOrder(items, raw(`["I", "eat", "apples"]`))
	require.NoError(t, err)
	assert.Equal(t, items, got)

	_, err = ResolveCorrectOrder(items, raw(`[0, "eat", "apples"]`))
	assert.Error(t, err)

	_, err = ResolveCorrectOrder(items, raw(`["I", "I", "apples"]`))
	assert.Error(t, err)
}

func TestShapeErrorsMessage(t *testing.T) {
	errs := ShapeErrors{
		{Index: 1, Kind: "matching", Field: "pairs", Reason: "pair 0 has an empty side"},
		{Index: 4, Reason: "not an object"},
	}
	assert.Equal(t,
		"question 1 (matching): pairs: pair 0 has an empty side; question 4: not an object",
		errs.Error())
}
