package evaluate

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind      = errors.New("no evaluator for exercise kind")
	ErrNoAttempt        = errors.New("no attempt in progress")
	ErrAlreadyResolved  = errors.New("question already resolved")
	ErrWrongAction      = errors.New("action not valid for this exercise")
	ErrOutOfRange       = errors.New("selection out of range")
	ErrPoolNotExhausted = errors.New("all items must be placed before checking")
	ErrEmptyAnswer      = errors.New("answer is empty")
)

// InputValidationError rejects a submission before it is judged. It does
// not consume an attempt.
type InputValidationError struct {
	Field string
	Err   error
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *InputValidationError) Unwrap() error { return e.Err }

func wrongAction(a Action) error {
	return fmt.Errorf("%w: %T", ErrWrongAction, a)
}
