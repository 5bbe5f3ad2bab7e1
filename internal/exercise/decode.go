package exercise

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type rawSet struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []json.RawMessage `json:"questions"`
}

type rawOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Rationale string `json:"rationale"`
}

type rawBlank struct {
	Answer       string   `json:"answer"`
	Label        string   `json:"label"`
	Alternatives []string `json:"alternatives"`
}

type rawPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

type rawQuestion struct {
	Type          string            `json:"type"`
	Question      string            `json:"question"`
	Hint          string            `json:"hint"`
	Explanation   string            `json:"explanation"`
	AnswerOptions []rawOption       `json:"answerOptions"`
	Answer        json.RawMessage   `json:"answer"`
	QuestionParts []json.RawMessage `json:"questionParts"`
	Pairs         []rawPair         `json:"pairs"`
	Items         []string          `json:"items"`
	CorrectOrder  []json.RawMessage `json:"correctOrder"`
	CorrectAnswer string            `json:"correctAnswer"`
	Alternatives  []string          `json:"alternatives"`
	Passage       json.RawMessage   `json:"passage"`
	Questions     []json.RawMessage `json:"questions"`
}

// Decode parses an exercise set. Malformed questions are skipped and
// returned as ShapeErrors; err is non-nil only when the envelope is
// unusable or no question survives.
func Decode(id string, data []byte) (*Set, ShapeErrors, error) {
	var envelope any
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, nil, fmt.Errorf("parse exercise set %q: %w", id, err)
	}
	if err := validateAgainst("set", setSchema, envelope); err != nil {
		return nil, nil, fmt.Errorf("exercise set %q: %w", id, err)
	}

	var raw rawSet
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("decode exercise set %q: %w", id, err)
	}

	set := &Set{
		ID:          id,
		Title:       raw.Title,
		Description: raw.Description,
	}
	if raw.ID != "" {
		set.ID = raw.ID
	}
	if set.Title == "" {
		set.Title = set.ID
	}

	var skipped ShapeErrors
	for i, rq := range raw.Questions {
		q, warnings, err := decodeQuestion(rq, i, false)
		skipped = append(skipped, warnings...)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		set.Questions = append(set.Questions, q)
	}

	if len(set.Questions) == 0 {
		return nil, skipped, fmt.Errorf("exercise set %q: %w", id, ErrNoQuestions)
	}
	return set, skipped, nil
}

// decodeQuestion builds one question. warnings report dropped
// sub-questions of a reading item that is otherwise usable.
func decodeQuestion(data json.RawMessage, index int, nested bool) (Question, ShapeErrors, *ShapeError) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Question{}, nil, &ShapeError{Index: index, Reason: "invalid JSON", Err: err}
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return Question{}, nil, &ShapeError{Index: index, Reason: "not an object"}
	}

	typeName, _ := obj["type"].(string)
	kind, ok := ParseKind(typeName)
	if !ok {
		return Question{}, nil, &ShapeError{Index: index, Kind: typeName, Field: "type", Reason: "unknown exercise type"}
	}
	if nested && !kind.AllowedInReading() {
		return Question{}, nil, &ShapeError{Index: index, Kind: typeName, Field: "type", Reason: "not allowed inside reading_comprehension"}
	}

	shapeErr := func(field, reason string, err error) *ShapeError {
		return &ShapeError{Index: index, Kind: typeName, Field: field, Reason: reason, Err: err}
	}

	if err := validateAgainst(typeName, kindSchemas[kind], parsed); err != nil {
		return Question{}, nil, shapeErr("", "does not match schema", err)
	}

	var rq rawQuestion
	if err := json.Unmarshal(data, &rq); err != nil {
		return Question{}, nil, shapeErr("", "decode", err)
	}

	q := Question{
		Kind:        kind,
		Prompt:      rq.Question,
		Hint:        rq.Hint,
		Explanation: rq.Explanation,
	}

	switch kind {
	case KindMultipleChoice:
		q.Choice = &ChoicePayload{Options: convertOptions(rq.AnswerOptions)}
		if q.Choice.CorrectIndex() < 0 {
			return Question{}, nil, shapeErr("answerOptions", "no option is marked correct", nil)
		}

	case KindTrueFalse:
		q.Choice = &ChoicePayload{Options: convertOptions(rq.AnswerOptions)}
		if q.Choice.HasOptions() {
			if q.Choice.CorrectIndex() < 0 {
				return Question{}, nil, shapeErr("answerOptions", "no option is marked correct", nil)
			}
			break
		}
		answer, err := scalarString(rq.Answer)
		if err != nil || answer == "" {
			return Question{}, nil, shapeErr("answer", "must be a boolean or non-empty string", err)
		}
		q.Choice.Answer = answer

	case KindFillInBlanks:
		parts, err := decodeParts(rq.QuestionParts)
		if err != nil {
			return Question{}, nil, shapeErr("questionParts", err.Error(), nil)
		}
		q.Blanks = &BlanksPayload{Parts: parts}
		if len(q.Blanks.Blanks()) == 0 {
			return Question{}, nil, shapeErr("questionParts", "contains no blank", nil)
		}

	case KindMatching:
		pairs, err := convertPairs(rq.Pairs)
		if err != nil {
			return Question{}, nil, shapeErr("pairs", err.Error(), nil)
		}
		q.Matching = &MatchingPayload{Pairs: pairs}

	case KindOrdering:
		order, err := ResolveCorrectOrder(rq.Items, rq.CorrectOrder)
		if err != nil {
			return Question{}, nil, shapeErr("correctOrder", err.Error(), nil)
		}
		q.Ordering = &OrderingPayload{Items: rq.Items, CorrectOrder: order}

	case KindShortAnswer:
		q.ShortAnswer = &ShortAnswerPayload{
			CorrectAnswer: rq.CorrectAnswer,
			Alternatives:  rq.Alternatives,
		}

	case KindReadingComprehension:
		reading, warnings, err := decodeReading(rq, index)
		if err != nil {
			return Question{}, warnings, err
		}
		q.Reading = reading
		return q, warnings, nil
	}

	return q, nil, nil
}

func decodeReading(rq rawQuestion, index int) (*ReadingPayload, ShapeErrors, *ShapeError) {
	passage, err := decodePassage(rq.Passage)
	if err != nil {
		return nil, nil, &ShapeError{Index: index, Kind: KindReadingComprehension.String(), Field: "passage", Reason: err.Error()}
	}
	reading := &ReadingPayload{Passage: passage}

	if len(rq.Questions) == 0 {
		// A single root question becomes one multiple choice sub-question.
		sub := Question{
			Kind:        KindMultipleChoice,
			Prompt:      rq.Question,
			Hint:        rq.Hint,
			Explanation: rq.Explanation,
			Choice:      &ChoicePayload{Options: convertOptions(rq.AnswerOptions)},
		}
		if sub.Choice.CorrectIndex() < 0 {
			return nil, nil, &ShapeError{Index: index, Kind: KindReadingComprehension.String(), Field: "answerOptions", Reason: "no option is marked correct"}
		}
		reading.Questions = []Question{sub}
		return reading, nil, nil
	}

	var warnings ShapeErrors
	for j, raw := range rq.Questions {
		sub, _, err := decodeQuestion(raw, j, true)
		if err != nil {
			field := fmt.Sprintf("questions[%d]", j)
			if err.Field != "" {
				field += "." + err.Field
			}
			err.Field = field
			err.Index = index
			warnings = append(warnings, err)
			continue
		}
		reading.Questions = append(reading.Questions, sub)
	}
	if len(reading.Questions) == 0 {
		return nil, warnings, &ShapeError{Index: index, Kind: KindReadingComprehension.String(), Field: "questions", Reason: "no valid sub-question"}
	}
	return reading, warnings, nil
}

func convertOptions(raw []rawOption) []Option {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Option, len(raw))
	for i, o := range raw {
		out[i] = Option{Text: o.Text, IsCorrect: o.IsCorrect, Rationale: o.Rationale}
	}
	return out
}

func convertPairs(raw []rawPair) ([]Pair, error) {
	seen := make(map[string]bool)
	out := make([]Pair, 0, len(raw))
	for i, p := range raw {
		left, right := p.Left, p.Right
		if left == "" && right == "" {
			left, right = p.Text1, p.Text2
		}
		if left == "" || right == "" {
			return nil, fmt.Errorf("pair %d has an empty side", i)
		}
		if seen[left] {
			return nil, fmt.Errorf("duplicate left value %q", left)
		}
		seen[left] = true
		out = append(out, Pair{Left: left, Right: right})
	}
	return out, nil
}

func decodeParts(raw []json.RawMessage) ([]Part, error) {
	parts := make([]Part, 0, len(raw))
	for i, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) > 0 && r[0] == '"' {
			var text string
			if err := json.Unmarshal(r, &text); err != nil {
				return nil, fmt.Errorf("part %d: %v", i, err)
			}
			parts = append(parts, Part{Text: text})
			continue
		}
		var b rawBlank
		if err := json.Unmarshal(r, &b); err != nil {
			return nil, fmt.Errorf("part %d: %v", i, err)
		}
		parts = append(parts, Part{Blank: &Blank{
			Answer:       b.Answer,
			Label:        b.Label,
			Alternatives: b.Alternatives,
		}})
	}
	return parts, nil
}

// decodePassage accepts a string (paragraphs separated by blank lines) or
// an array of paragraphs.
func decodePassage(raw json.RawMessage) ([]string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		var paras []string
		for _, p := range strings.Split(text, "\n\n") {
			if p = strings.TrimSpace(p); p != "" {
				paras = append(paras, p)
			}
		}
		if len(paras) == 0 {
			return nil, fmt.Errorf("empty passage")
		}
		return paras, nil
	}

	var paras []string
	if err := json.Unmarshal(raw, &paras); err != nil {
		return nil, fmt.Errorf("must be a string or a list of paragraphs")
	}
	return paras, nil
}

// scalarString renders a JSON boolean or string as a string.
func scalarString(raw json.RawMessage) (string, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

// ResolveCorrectOrder turns a correctOrder given as 0-based indices into
// items, or as literal tokens, into literal tokens. Either way the result
// must be a permutation of items.
func ResolveCorrectOrder(items []string, raw []json.RawMessage) ([]string, error) {
	if len(raw) != len(items) {
		return nil, fmt.Errorf("has %d entries for %d items", len(raw), len(items))
	}

	tokens := make([]string, len(raw))
	var indexForm, tokenForm bool
	for i, r := range raw {
		var idx int
		if err := json.Unmarshal(r, &idx); err == nil {
			if idx < 0 || idx >= len(items) {
				return nil, fmt.Errorf("index %d out of range", idx)
			}
			tokens[i] = items[idx]
			indexForm = true
			continue
		}
		var tok string
		if err := json.Unmarshal(r, &tok); err != nil {
			return nil, fmt.Errorf("entry %d is neither an index nor a token", i)
		}
		tokens[i] = tok
		tokenForm = true
	}
	if indexForm && tokenForm {
		return nil, fmt.Errorf("mixes indices and tokens")
	}

	counts := make(map[string]int, len(items))
	for _, it := range items {
		counts[it]++
	}
	for _, tok := range tokens {
		counts[tok]--
		if counts[tok] < 0 {
			return nil, fmt.Errorf("token %q is not an unused item", tok)
		}
	}
	return tokens, nil
}
