// Package errs defines the error taxonomy shared by the ontodoc packages.
//
// Errors are classified by kind so callers can decide between aborting a
// run (primary ontology, prefix registry) and degrading gracefully
// (secondary vocabularies used only for labels).
package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrNetwork is returned when a document cannot be retrieved.
	ErrNetwork = errors.New("network error")

	// ErrParse is returned when a document is not well-formed.
	ErrParse = errors.New("parse error")

	// ErrValidation is returned for malformed options or URLs.
	ErrValidation = errors.New("validation error")

	// ErrInvalidResponse is returned when a payload has the wrong shape.
	ErrInvalidResponse = errors.New("invalid response")
)

// Error wraps an underlying error with its kind and the operation that failed.
type Error struct {
	Kind error
	Op   string
	URL  string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.URL != "" {
		msg += fmt.Sprintf(" (%s)", e.URL)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Network classifies err as a network failure.
func Network(op, url string, err error) error {
	return &Error{Kind: ErrNetwork, Op: op, URL: url, Err: err}
}

// Parse classifies err as a parse failure.
func Parse(op, url string, err error) error {
	return &Error{Kind: ErrParse, Op: op, URL: url, Err: err}
}

// Validation classifies err as a validation failure.
func Validation(op string, err error) error {
	return &Error{Kind: ErrValidation, Op: op, Err: err}
}

// InvalidResponse classifies err as an unexpected payload.
func InvalidResponse(op, url string, err error) error {
	return &Error{Kind: ErrInvalidResponse, Op: op, URL: url, Err: err}
}

// Kind returns the kind of err, or nil when err is not classified.
func Kind(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
