package session

import "errors"

var (
	ErrLoadInProgress = errors.New("a set is already loading")
	ErrNotAccepting   = errors.New("session is not accepting this action now")
	ErrNoSession      = errors.New("no session in progress")
	ErrNotFinished    = errors.New("session has not reached the summary")
	ErrOutOfRange     = errors.New("question index out of range")
)
