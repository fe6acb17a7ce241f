package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so wrapped clones still
// match their predefined value.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// WrapAs wraps err with the code and status of a predefined error.
func WrapAs(err error, base *Error, message string) *Error {
	if message == "" {
		message = base.Message
	}
	return Wrap(err, base.Code, base.Status, message)
}

// Predefined errors for common scenarios.
var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrRateLimited  = New("RATE_LIMITED", http.StatusTooManyRequests, "rate limit exceeded")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	ErrInvalidWindow    = New("INVALID_WINDOW", http.StatusBadRequest, "window_end must not be before window_start")
	ErrSeriesLoad       = New("SERIES_LOAD_FAILED", http.StatusInternalServerError, "failed to load class series")
	ErrInstanceLoad     = New("INSTANCE_LOAD_FAILED", http.StatusInternalServerError, "failed to load class instances")
	ErrInsertBatch      = New("INSERT_BATCH_FAILED", http.StatusInternalServerError, "failed to insert class instances")
	ErrInstanceNotFound = New("INSTANCE_NOT_FOUND", http.StatusNotFound, "class instance not found")
	ErrSeriesNotFound   = New("SERIES_NOT_FOUND", http.StatusNotFound, "class series not found")
	ErrInstanceUpdate   = New("INSTANCE_UPDATE_FAILED", http.StatusInternalServerError, "failed to update class instances")
	ErrSeriesUpdate     = New("SERIES_UPDATE_FAILED", http.StatusInternalServerError, "failed to update class series")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
