// Package errors provides structured error types for the gasket application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the core
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The geometric core reports three degeneracies:
//   - DEGENERATE_INPUT: a non-positive input radius or a zero curvature sum
//     (the fourth circle would have infinite radius)
//   - NO_UNIQUE_SOLUTION: three circle centers are collinear, so the tangent
//     center linear system is singular
//   - INVALID_SEED: seed points violate the triangle inequality
//
// These are mathematical, not transient, failures. Retrying the same input is
// meaningless; callers may re-sample seeds instead (see [IsDegenerate]).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDepth, "depth %d out of range", n)
//	if errors.Is(err, errors.ErrCodeInvalidDepth) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "save run %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Geometric degeneracies
	ErrCodeDegenerateInput  Code = "DEGENERATE_INPUT"
	ErrCodeNoUniqueSolution Code = "NO_UNIQUE_SOLUTION"
	ErrCodeInvalidSeed      Code = "INVALID_SEED"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidDepth  Code = "INVALID_DEPTH"
	ErrCodeInvalidPolicy Code = "INVALID_POLICY"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsDegenerate reports whether err is one of the geometric degeneracies
// (DEGENERATE_INPUT, NO_UNIQUE_SOLUTION, INVALID_SEED). Only these justify
// re-sampling the seed and generating again.
func IsDegenerate(err error) bool {
	switch GetCode(err) {
	case ErrCodeDegenerateInput, ErrCodeNoUniqueSolution, ErrCodeInvalidSeed:
		return true
	}
	return false
}

// IsValidation reports whether err is caused by bad caller input, as opposed
// to a storage or internal failure.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDepth, ErrCodeInvalidPolicy,
		ErrCodeInvalidFormat, ErrCodeInvalidID, ErrCodeInvalidConfig:
		return true
	}
	return false
}
