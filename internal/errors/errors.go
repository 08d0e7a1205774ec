package errors

import "fmt"

// Kind represents the type of error
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrInvalidInput
	ErrIllegalState
	ErrPreconditionFailed
	ErrDuplicateVote
	ErrUnavailable
)

// Error is an application-level error with a kind for classification
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Constructor functions for common error types

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func IllegalState(msg string) *Error {
	return &Error{Kind: ErrIllegalState, Message: msg}
}

func IllegalStatef(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrIllegalState, Message: fmt.Sprintf(format, args...)}
}

func PreconditionFailed(msg string) *Error {
	return &Error{Kind: ErrPreconditionFailed, Message: msg}
}

func PreconditionFailedf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrPreconditionFailed, Message: fmt.Sprintf(format, args...)}
}

func DuplicateVote(msg string) *Error {
	return &Error{Kind: ErrDuplicateVote, Message: msg}
}

func DuplicateVotef(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrDuplicateVote, Message: fmt.Sprintf(format, args...)}
}

func Unavailable(msg string, err error) *Error {
	return &Error{Kind: ErrUnavailable, Message: msg, Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}
