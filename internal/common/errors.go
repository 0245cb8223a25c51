package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain failures so transport code can map them to
// status codes without string matching.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindInvalidState ErrorKind = "INVALID_STATE"
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	// KindUnavailable marks transient infrastructure failures (store or
	// cache unreachable). These are the only retry candidates.
	KindUnavailable ErrorKind = "UNAVAILABLE"
)

type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that the referenced entity does not exist.
func NotFoundError(resource string) error {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// ForbiddenError reports that the actor is authenticated but not permitted.
func ForbiddenError(message string) error {
	return &DomainError{Kind: KindForbidden, Message: message}
}

// InvalidStateError reports a mutation that is not legal for the entity's
// current lifecycle state.
func InvalidStateError(message string) error {
	return &DomainError{Kind: KindInvalidState, Message: message}
}

// ValidationError reports malformed input, caught before any domain logic runs.
func ValidationError(message string) error {
	return &DomainError{Kind: KindValidation, Message: message}
}

// UnavailableError wraps a transient infrastructure failure.
func UnavailableError(operation string, err error) error {
	return &DomainError{Kind: KindUnavailable, Message: fmt.Sprintf("failed to %s", operation), Err: err}
}

// KindOf returns the error's kind, or KindUnavailable for errors that did not
// originate in the domain layer (store failures bubbling up raw).
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnavailable
}

func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool    { return KindOf(err) == KindForbidden }
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }
func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
