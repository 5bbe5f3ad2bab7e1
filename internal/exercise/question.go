package exercise

// Set is an ordered collection of questions loaded from one content file.
type Set struct {
	ID          string
	Title       string
	Description string
	Questions   []Question
}

// TotalFlat returns the number of individually scored questions in the
// set. Reading comprehension items count once per sub-question.
func (s *Set) TotalFlat() int {
	total := 0
	for _, q := range s.Questions {
		total += q.FlatCount()
	}
	return total
}

// Question is one exercise. Exactly one payload pointer is set, matching
// Kind.
type Question struct {
	Kind        Kind
	Prompt      string
	Hint        string
	Explanation string

	Choice      *ChoicePayload
	Blanks      *BlanksPayload
	Matching    *MatchingPayload
	Ordering    *OrderingPayload
	ShortAnswer *ShortAnswerPayload
	Reading     *ReadingPayload
}

// FlatCount is 1 for plain questions and the sub-question count for
// reading comprehension.
func (q Question) FlatCount() int {
	if q.Kind == KindReadingComprehension && q.Reading != nil {
		return len(q.Reading.Questions)
	}
	return 1
}

// Option is a selectable answer of a choice question.
type Option struct {
	Text      string
	IsCorrect bool
	Rationale string
}

// ChoicePayload backs multiple_choice and true_false questions. Either
// Options is non-empty or Answer holds the expected value.
type ChoicePayload struct {
	Options []Option
	Answer  string
}

// HasOptions reports whether the question is answered by picking an option.
func (c *ChoicePayload) HasOptions() bool {
	return len(c.Options) > 0
}

// CorrectIndex returns the index of the first correct option, or -1.
func (c *ChoicePayload) CorrectIndex() int {
	for i, o := range c.Options {
		if o.IsCorrect {
			return i
		}
	}
	return -1
}

// Blank is a gap the learner fills in.
type Blank struct {
	Answer       string
	Label        string
	Alternatives []string
}

// Accepted returns the answer followed by its alternatives.
func (b Blank) Accepted() []string {
	return append([]string{b.Answer}, b.Alternatives...)
}

// Part is a literal run of text or a blank.
type Part struct {
	Text  string
	Blank *Blank
}

// BlanksPayload backs fill_in_the_blanks questions.
type BlanksPayload struct {
	Parts []Part
}

// Blanks returns the blanks in order of appearance.
func (b *BlanksPayload) Blanks() []Blank {
	var out []Blank
	for _, p := range b.Parts {
		if p.Blank != nil {
			out = append(out, *p.Blank)
		}
	}
	return out
}

// Pair is one left/right correspondence.
type Pair struct {
	Left  string
	Right string
}

// MatchingPayload backs matching questions.
type MatchingPayload struct {
	Pairs []Pair
}

// RightFor returns the right value paired with left.
func (m *MatchingPayload) RightFor(left string) (string, bool) {
	for _, p := range m.Pairs {
		if p.Left == left {
			return p.Right, true
		}
	}
	return "", false
}

// OrderingPayload backs ordering questions. CorrectOrder always holds
// literal tokens.
type OrderingPayload struct {
	Items        []string
	CorrectOrder []string
}

// ShortAnswerPayload backs short_answer questions.
type ShortAnswerPayload struct {
	CorrectAnswer string
	Alternatives  []string
}

// Accepted returns the correct answer followed by its alternatives.
func (s *ShortAnswerPayload) Accepted() []string {
	return append([]string{s.CorrectAnswer}, s.Alternatives...)
}

// ReadingPayload backs reading_comprehension questions.
type ReadingPayload struct {
	Passage   []string
	Questions []Question
}
