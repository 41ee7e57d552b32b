package webextract

import (
	"errors"
	"fmt"
	"time"
)

// Application error codes.
const (
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	EINTERNAL = "internal"

	// ENAVIGATION reports that a page could not be rendered: unreachable
	// URL, timeout or a browser failure.
	ENAVIGATION = "navigation"

	// ENOCONTENT reports that a page rendered but nothing was left after
	// cleaning.
	ENOCONTENT = "no_content"

	// EEMPTY reports that extraction was requested on blank content.
	EEMPTY = "empty_content"

	// EQUOTA reports that the model call quota is exhausted. The error
	// carries the duration after which a retry may succeed.
	EQUOTA = "quota_exceeded"

	// EMODEL reports that the model collaborator failed.
	EMODEL = "model"
)

// Error represents an application-specific error.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// RetryAfter is set for EQUOTA errors.
	RetryAfter time.Duration

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("webextract error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with the given code whose message is taken
// from err. The cause stays reachable through errors.Is and errors.As.
func WrapError(code string, err error) *Error {
	return &Error{
		Code:    code,
		Message: err.Error(),
		Err:     err,
	}
}

// QuotaExceeded returns an EQUOTA error carrying the retry-after duration.
func QuotaExceeded(retryAfter time.Duration) *Error {
	return &Error{
		Code:       EQUOTA,
		Message:    fmt.Sprintf("model call quota exceeded, retry in %s", retryAfter.Round(time.Second)),
		RetryAfter: retryAfter,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorRetryAfter returns the retry-after duration of an EQUOTA error and
// zero for anything else.
func ErrorRetryAfter(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.Code == EQUOTA {
		return e.RetryAfter
	}
	return 0
}
