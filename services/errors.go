package services

import (
	"errors"
	"fmt"
)

// Kind classifies domain errors for the HTTP boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindDataIntegrity
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDataIntegrity:
		return "data_integrity"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a classified domain error. Message is safe to show to clients; Err is not.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Persistence wraps a storage failure; op names the failed step for the logs.
func Persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: op, Err: err}
}

// ServiceNotFoundError aborts receipt creation when a requested line names an unknown service.
type ServiceNotFoundError struct {
	ServiceID uint
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service with id %d not found", e.ServiceID)
}

// MalformedSequenceStateError means the latest stored receipt number for the day cannot be parsed.
type MalformedSequenceStateError struct {
	ReceiptNumber string
}

func (e *MalformedSequenceStateError) Error() string {
	return fmt.Sprintf("malformed sequence state: cannot parse receipt number %q", e.ReceiptNumber)
}

// KindOf classifies err, looking through wrapping.
func KindOf(err error) Kind {
	var snf *ServiceNotFoundError
	if errors.As(err, &snf) {
		return KindValidation
	}
	var mss *MalformedSequenceStateError
	if errors.As(err, &mss) {
		return KindDataIntegrity
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// PublicMessage returns the client-facing text for a classified error.
func PublicMessage(err error) string {
	var e *Error
	switch KindOf(err) {
	case KindValidation:
		var snf *ServiceNotFoundError
		if errors.As(err, &snf) {
			return snf.Error()
		}
	case KindDataIntegrity, KindPersistence, KindUnknown:
		return "internal server error"
	}
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
