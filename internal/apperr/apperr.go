package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindInsufficientStock  Kind = "insufficient_stock"
	KindDuplicateKey       Kind = "duplicate_key"
	KindPartialFailure     Kind = "partial_failure"
	KindBackendUnavailable Kind = "backend_unavailable"
)

// Error carries a taxonomy kind alongside the user-facing message. Multi-step
// operations set Step so a partial failure names where it stopped.
type Error struct {
	Kind    Kind
	Message string
	Step    string
	Err     error
}

func (e *Error) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s (step: %s)", e.Message, e.Step)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Partial marks a multi-step operation that left earlier steps persisted.
func Partial(step, message string, err error) *Error {
	return &Error{Kind: KindPartialFailure, Message: message, Step: step, Err: err}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOr returns the error's kind, or the fallback when the error carries none.
func KindOr(err error, fallback Kind) Kind {
	if k := KindOf(err); k != "" {
		return k
	}
	return fallback
}

// HTTPStatus maps a kind to the status the central error handler responds with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	case KindInsufficientStock, KindDuplicateKey:
		return 409
	case KindBackendUnavailable:
		return 503
	case KindPartialFailure:
		return 500
	default:
		return 500
	}
}
