package store

import (
	"fmt"

	domainerrors "github.com/listenupapp/listenup-shelf/internal/errors"
)

// Error is a storage failure classified by domain error code.
type Error struct {
	Code    domainerrors.Code
	Message string
	Err     error // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Domain converts the error to a coded domain error.
func (e *Error) Domain() *domainerrors.Error {
	return domainerrors.Wrap(e, e.Code, e.Message)
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    domainerrors.CodeNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    domainerrors.CodeConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    domainerrors.CodeValidation,
		Message: "invalid input",
	}
)
