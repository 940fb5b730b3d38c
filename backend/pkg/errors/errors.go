package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Every business error wraps exactly one of them so the HTTP
// layer can choose a status code without knowing the concrete error.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("state conflict")
	ErrForbidden  = errors.New("forbidden")
)

// kindError carries a user facing message and the kind it belongs to.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Validation returns a validation error with the given message.
func Validation(msg string) error { return &kindError{kind: ErrValidation, msg: msg} }

// NotFound returns a not-found error with the given message.
func NotFound(msg string) error { return &kindError{kind: ErrNotFound, msg: msg} }

// Conflict returns a state conflict error with the given message.
func Conflict(msg string) error { return &kindError{kind: ErrConflict, msg: msg} }

// Forbidden returns a forbidden error with the given message.
func Forbidden(msg string) error { return &kindError{kind: ErrForbidden, msg: msg} }

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) error {
	return Validation(fmt.Sprintf(format, args...))
}

// Kind reports which kind err belongs to, or nil for unclassified errors.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrForbidden} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
