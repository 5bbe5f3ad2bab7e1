package exercise

// Kind identifies the exercise type of a Question.
type Kind int

const (
	KindMultipleChoice Kind = iota + 1
	KindTrueFalse
	KindFillInBlanks
	KindMatching
	KindOrdering
	KindShortAnswer
	KindReadingComprehension
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{
	KindMultipleChoice,
	KindTrueFalse,
	KindFillInBlanks,
	KindMatching,
	KindOrdering,
	KindShortAnswer,
	KindReadingComprehension,
}

var kindNames = map[Kind]string{
	KindMultipleChoice:       "multiple_choice",
	KindTrueFalse:            "true_false",
	KindFillInBlanks:         "fill_in_the_blanks",
	KindMatching:             "matching",
	KindOrdering:             "ordering",
	KindShortAnswer:          "short_answer",
	KindReadingComprehension: "reading_comprehension",
}

// String returns the content-format name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// DisplayName returns a human-readable label.
func (k Kind) DisplayName() string {
	switch k {
	case KindMultipleChoice:
		return "Multiple choice"
	case KindTrueFalse:
		return "True or false"
	case KindFillInBlanks:
		return "Fill in the blanks"
	case KindMatching:
		return "Matching"
	case KindOrdering:
		return "Ordering"
	case KindShortAnswer:
		return "Short answer"
	case KindReadingComprehension:
		return "Reading comprehension"
	default:
		return "Unknown"
	}
}

// ParseKind maps a content-format type name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// AllowedInReading reports whether k may appear as a reading
// comprehension sub-question.
func (k Kind) AllowedInReading() bool {
	switch k {
	case KindMultipleChoice, KindTrueFalse, KindShortAnswer:
		return true
	}
	return false
}
