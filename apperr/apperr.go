// ABOUTME: Failure taxonomy shared by every operation
// ABOUTME: Coded errors for invalid input, missing records and store failures
package apperr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeStoreFailure Code = "STORE_FAILURE"
)

// Sentinels for errors.Is checks. Matching is by code only.
var (
	ErrInvalidInput = &Error{Code: CodeInvalidInput}
	ErrNotFound     = &Error{Code: CodeNotFound}
	ErrStoreFailure = &Error{Code: CodeStoreFailure}
)

// genericStoreMessage is what callers see for store failures.
const genericStoreMessage = "internal error"

// Error is the domain error type.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Caller-facing message
	Op      string // Operation that failed, for logs
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface. The cause is included for logs;
// use PublicMessage for anything returned to a caller.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// InvalidInput builds a malformed-request error.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a missing-record error.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// StoreFailure wraps a persistence error. An error that already carries a
// code is returned unchanged.
func StoreFailure(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) {
		return cause
	}
	return &Error{Code: CodeStoreFailure, Message: genericStoreMessage, Op: op, Cause: cause}
}

// CodeOf extracts the code from err. Errors without one count as store failures.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStoreFailure
}

// PublicMessage returns the message safe to show a caller.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Code == CodeStoreFailure {
		return genericStoreMessage
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}
