// Package apperr defines the application error taxonomy. Every error the
// service surfaces carries a kind that maps to a machine-readable code and an
// HTTP-style status for the transport layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for propagation policy and transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	// KindValidation: malformed command input. Never retried.
	KindValidation
	// KindNotFound: referenced aggregate or subtask does not exist.
	KindNotFound
	KindConflict
	// KindCorruption: the backing store holds unparseable data.
	KindCorruption
	// KindQuota: the backing store refused a write for lack of capacity.
	KindQuota
	// KindDatabase: a backend-specific failure (network, throttling, permission).
	KindDatabase
)

type Error struct {
	Kind    Kind
	Op      string // failed operation name, set for storage errors
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the wire-level error code.
func (e *Error) Code() string {
	switch e.Kind {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict, KindQuota:
		return "CONFLICT"
	case KindDatabase:
		return "DATABASE_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// Status returns the HTTP status the transport layer should answer with.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindQuota:
		return http.StatusInsufficientStorage
	case KindDatabase:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Database wraps a backend failure with the name of the operation that failed.
func Database(op string, err error) *Error {
	return &Error{Kind: KindDatabase, Op: op, Message: "storage operation failed", Err: err}
}

// Corruption marks unparseable data found in the backing store.
func Corruption(op string, err error) *Error {
	return &Error{Kind: KindCorruption, Op: op, Message: "stored data is corrupted", Err: err}
}

// Quota marks a write rejected because the backing store is out of capacity.
func Quota(err error) *Error {
	return &Error{Kind: KindQuota, Message: "storage quota exceeded", Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}
