package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDepth, "depth out of range: %d", 42)

	if err.Code != ErrCodeInvalidDepth {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDepth)
	}

	if err.Message != "depth out of range: 42" {
		t.Errorf("Message = %v, want %v", err.Message, "depth out of range: 42")
	}

	expected := "INVALID_DEPTH: depth out of range: 42"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "failed to save")

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "INTERNAL_ERROR: failed to save: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeNoUniqueSolution, "test"),
			code:     ErrCodeNoUniqueSolution,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeNoUniqueSolution, "test"),
			code:     ErrCodeDegenerateInput,
			expected: false,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("generate: %w", New(ErrCodeInvalidSeed, "inner")),
			code:     ErrCodeInvalidSeed,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidPolicy, "test"), ErrCodeInvalidPolicy},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %v, want %v", got, "friendly message")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %v, want %v", got, "plain error")
	}
}

func TestIsDegenerate(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeDegenerateInput, "x"), true},
		{New(ErrCodeNoUniqueSolution, "x"), true},
		{fmt.Errorf("wrapped: %w", New(ErrCodeInvalidSeed, "x")), true},
		{New(ErrCodeInvalidDepth, "x"), false},
		{errors.New("plain"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsDegenerate(tt.err); got != tt.want {
			t.Errorf("IsDegenerate(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(New(ErrCodeInvalidFormat, "x")) {
		t.Error("INVALID_FORMAT should be a validation error")
	}
	if IsValidation(New(ErrCodeNotFound, "x")) {
		t.Error("NOT_FOUND should not be a validation error")
	}
	if IsValidation(New(ErrCodeNoUniqueSolution, "x")) {
		t.Error("NO_UNIQUE_SOLUTION should not be a validation error")
	}
}
