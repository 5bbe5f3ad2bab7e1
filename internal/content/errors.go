package content

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("content not found")
	ErrInvalidID           = errors.New("invalid content identifier")
	ErrListUnsupported     = errors.New("source cannot list content")
	ErrTopicLoadInProgress = errors.New("a grammar topic is already loading")
)

// LoadError wraps any failure to fetch or parse a piece of content.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
}

// Temporary reports whether the request may succeed if repeated.
func (e *StatusError) Temporary() bool {
	return e.Code == 429 || e.Code >= 500
}
