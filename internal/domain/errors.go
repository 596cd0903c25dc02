package domain

import "errors"

// ErrorKind classifies failures surfaced to API callers
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
)

// Error is a failure with a client-facing message and a kind that maps to an HTTP status
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	// ErrNotFound is returned by repositories when no record matches
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned by repositories when a unique key already exists
	ErrDuplicate = errors.New("duplicate key")
)

func NewValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewForbiddenError(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NewUnauthenticatedError(message string) error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func NewRateLimitedError(message string) error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// KindOf resolves the kind of err, following wrapped errors
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return KindConflict
	}
	return KindUnexpected
}
