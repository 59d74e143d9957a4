package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadable means the source bytes could not be read.
	ErrUnreadable = errors.New("source unreadable")
	// ErrMalformed means the bytes are not a JSON array of records.
	ErrMalformed = errors.New("malformed document")
)

// LoadError is returned when a backend cannot materialize its records.
// Kind is ErrUnreadable or ErrMalformed; both it and the underlying cause are
// reachable through errors.Is and errors.As.
type LoadError struct {
	Source string
	Kind   error
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("loading %s: %v", e.Source, e.Kind)
	}
	return fmt.Sprintf("loading %s: %v: %v", e.Source, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Unreadable wraps an I/O failure on source.
func Unreadable(source string, err error) *LoadError {
	return &LoadError{Source: source, Kind: ErrUnreadable, Err: err}
}

// Malformed wraps a decode failure on source.
func Malformed(source string, err error) *LoadError {
	return &LoadError{Source: source, Kind: ErrMalformed, Err: err}
}
