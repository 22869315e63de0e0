package http

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error carrying its API code and HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Field: field, Status: status}
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return NewAppError("ERR_INTERNAL", "", message, http.StatusInternalServerError)
}

// ErrorRule maps a sentinel error onto an API code and status.
type ErrorRule struct {
	Target error
	Code   string
	Field  string
	Status int
}

// MapError returns the AppError of the first rule whose Target matches err
// (errors.Is), using err's text as the message. Unmatched errors become a 500
// with the fallback message; the bool reports whether a rule matched.
func MapError(err error, fallback string, rules ...ErrorRule) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	for _, r := range rules {
		if errors.Is(err, r.Target) {
			return NewAppError(r.Code, r.Field, err.Error(), r.Status).WithError(err), true
		}
	}
	return InternalError(fallback).WithError(err), false
}
