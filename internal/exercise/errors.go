package exercise

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoQuestions is returned when a set has no usable question.
var ErrNoQuestions = errors.New("exercise set has no valid questions")

// ShapeError reports a question that lacks what its kind requires. The
// question is skipped; the rest of the set still loads.
type ShapeError struct {
	Index  int
	Kind   string
	Field  string
	Reason string
	Err    error
}

func (e *ShapeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "question %d", e.Index)
	if e.Kind != "" {
		fmt.Fprintf(&b, " (%s)", e.Kind)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ShapeError) Unwrap() error { return e.Err }

// ShapeErrors collects the per-question problems of one set.
type ShapeErrors []*ShapeError

func (es ShapeErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
