package models

import "errors"

// Error kinds shared by the workflows, the upload store and the handlers.
// Match them with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	ErrUnsupportedMedia = errors.New("unsupported media")
	ErrStorage          = errors.New("storage failure")
	ErrUnavailable      = errors.New("dependency unavailable")
	ErrUnauthenticated  = errors.New("not authenticated")
)

// Error carries a user-facing message alongside one of the kinds above.
// The underlying cause, if any, is kept for logging only.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

// NewError builds an Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds an Error of the given kind that records cause.
func WrapError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Message returns the user-facing message for err. Errors that are not
// *Error produce a generic message so internal details never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong. Please try again."
}
