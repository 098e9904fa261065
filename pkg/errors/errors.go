package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the kinds of failures a search collaborator can signal
type ErrorType string

const (
	ErrorTypeSession   ErrorType = "session"
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeNotFound  ErrorType = "not_found"
	ErrorTypeTransient ErrorType = "transient"
)

// Error represents a collaborator error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	// ResetAt is when a rate limit window ends, if the platform reported it
	ResetAt *time.Time
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Type)
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (code %d)", msg, e.Code)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// SessionFailure wraps a failure to obtain an authenticated session
func SessionFailure(err error) *Error {
	return &Error{Type: ErrorTypeSession, Message: "could not acquire session", Err: err}
}

// RateLimited reports a rate limit, with an optional reset time
func RateLimited(resetAt *time.Time, message string) *Error {
	return &Error{Type: ErrorTypeRateLimit, Message: message, Code: 429, ResetAt: resetAt}
}

// NotFound reports a missing resource or an invalid cursor
func NotFound(message string) *Error {
	return &Error{Type: ErrorTypeNotFound, Message: message, Code: 404}
}

// Transient wraps any other failure
func Transient(err error) *Error {
	return &Error{Type: ErrorTypeTransient, Err: err}
}

// TypeOf classifies err. Errors that are not *Error count as transient.
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeTransient
}

// ResetTime returns the rate limit reset time carried by err, if any
func ResetTime(err error) *time.Time {
	var e *Error
	if stderrors.As(err, &e) && e.Type == ErrorTypeRateLimit {
		return e.ResetAt
	}
	return nil
}

// IsRateLimited reports whether err is a rate limit signal
func IsRateLimited(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeRateLimit
}

// IsNotFound reports whether err is a not-found signal
func IsNotFound(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeNotFound
}

// TypeForStatus maps an HTTP status reported by a collaborator onto an ErrorType
func TypeForStatus(statusCode int) ErrorType {
	switch {
	case statusCode == 429:
		return ErrorTypeRateLimit
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode == 401 || statusCode == 403:
		return ErrorTypeSession
	default:
		return ErrorTypeTransient
	}
}

// FromStatus builds an error for a collaborator response with the given
// HTTP status. resetAt is kept only for rate limits.
func FromStatus(statusCode int, message string, resetAt *time.Time) *Error {
	e := &Error{Type: TypeForStatus(statusCode), Message: message, Code: statusCode}
	if e.Type == ErrorTypeRateLimit {
		e.ResetAt = resetAt
	}
	return e
}
