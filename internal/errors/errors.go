// Package errors provides the structured error type used across the
// ranking core. Indexation-time problems (bad directives, unreadable
// files) are never represented as errors; they are logged and skipped.
package errors

import (
	"fmt"
)

// Error is the structured error type for graphseek.
type Error struct {
	// Code is the unique error code (e.g. "ERR_201_ROLE_UNKNOWN").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Build, Query, Source, Internal).
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with Error.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given code and message.
// The category is derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Newf creates a new Error with a formatted message.
func Newf(code string, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates an Error from an existing error.
// The error's message becomes the Error message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// BuildError creates a construction-failure error, fatal to role activation.
func BuildError(code string, message string, cause error) *Error {
	e := New(code, message, cause)
	e.Category = CategoryBuild
	return e
}

// QueryError creates a caller-facing query error.
func QueryError(code string, message string) *Error {
	e := New(code, message, nil)
	e.Category = CategoryQuery
	return e
}

// IsCategory reports whether err (or anything it wraps) is an *Error of
// the given category.
func IsCategory(err error, cat Category) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Category == cat {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
