package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestExecutionError_Error(t *testing.T) {
	err := &ExecutionError{
		Category: ErrCategoryTimeout,
		Code:     "test_error",
		Message:  "test message",
	}

	if got := err.Error(); got != "test message" {
		t.Errorf("Error() = %q, want %q", got, "test message")
	}
}

func TestExecutionError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ExecutionError{
		Category: ErrCategoryTimeout,
		Code:     "test_error",
		Message:  "test message",
		Cause:    cause,
	}

	got := err.Error()
	if !strings.Contains(got, "test message") || !strings.Contains(got, "underlying error") {
		t.Errorf("Error() = %q, want both message and cause", got)
	}
}

func TestExecutionError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrServerUnreachable.WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should match with errors.Is")
	}
}

func TestExecutionError_SentinelMatchSurvivesCopies(t *testing.T) {
	err := ErrConditionNotMet.WithMessagef("condition %d/%d not met within %s: %s", 2, 3, "5s", "visible")

	if !errors.Is(err, ErrConditionNotMet) {
		t.Error("WithMessagef copy should still match its sentinel")
	}
	if errors.Is(err, ErrScrollTimeout) {
		t.Error("copy must not match a different sentinel")
	}

	wrapped := fmt.Errorf("chain failed: %w", err)
	if !errors.Is(wrapped, ErrConditionNotMet) {
		t.Error("fmt-wrapped copy should still match its sentinel")
	}
}

func TestExecutionError_WithMessage(t *testing.T) {
	err := ErrNoConditions.WithMessage("custom detail")

	if err.Error() != "custom detail" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err == ErrNoConditions {
		t.Error("WithMessage must return a copy")
	}
	if ErrNoConditions.Message != "no wait conditions specified" {
		t.Errorf("sentinel mutated: %q", ErrNoConditions.Message)
	}
}

func TestIsScrollBoundary(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed sentinel", ErrScrollBoundary, true},
		{"sentinel copy", ErrScrollBoundary.WithMessage("end of list"), true},
		{"wrapped sentinel", fmt.Errorf("gesture: %w", ErrScrollBoundary), true},
		{"foreign boundary text", errors.New("unable to scroll further in the view"), true},
		{"foreign scroll text", errors.New("Scroll gesture did not move"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsScrollBoundary(tt.err); got != tt.want {
				t.Errorf("IsScrollBoundary(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		err      *ExecutionError
		category ErrorCategory
	}{
		{ErrConditionNotMet, ErrCategoryTimeout},
		{ErrScrollTimeout, ErrCategoryTimeout},
		{ErrScrollBoundary, ErrCategoryScroll},
		{ErrScrollExhausted, ErrCategoryScroll},
		{ErrNoConditions, ErrCategoryConfig},
		{ErrInvalidConfig, ErrCategoryConfig},
		{ErrMissingDriver, ErrCategoryConfig},
		{ErrNotInteractable, ErrCategoryConfig},
		{ErrNotScrollable, ErrCategoryConfig},
		{ErrServerUnreachable, ErrCategoryConnection},
	}

	for _, tt := range tests {
		if tt.err.Category != tt.category {
			t.Errorf("%s: category = %q, want %q", tt.err.Code, tt.err.Category, tt.category)
		}
	}
}
