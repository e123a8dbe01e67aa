package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory groups errors by how callers should react to them.
type ErrorCategory string

// Error categories.
const (
	// ErrCategoryTimeout marks budget exhaustion: a wait or scroll-search
	// that never met its goal. Expected and common in test triage.
	ErrCategoryTimeout ErrorCategory = "timeout"
	// ErrCategoryConfig marks programmer errors: empty chains, missing
	// drivers, unsupported capabilities. Fail fast, never polled.
	ErrCategoryConfig ErrorCategory = "config"
	// ErrCategoryScroll marks scroll gesture failures, including the
	// recognized content-boundary case.
	ErrCategoryScroll ErrorCategory = "scroll"
	// ErrCategoryConnection marks backend transport failures.
	ErrCategoryConnection ErrorCategory = "connection"
)

// ExecutionError is a structured error with category, machine-readable code
// and a human-readable message.
type ExecutionError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is matches two ExecutionErrors by code, so sentinel comparisons survive
// WithMessage/WithCause copies.
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	return ok && e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{Category: e.Category, Code: e.Code, Message: e.Message, Cause: cause}
}

// WithMessage returns a copy of the error with a custom message.
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{Category: e.Category, Code: e.Code, Message: msg, Cause: e.Cause}
}

// WithMessagef is WithMessage with fmt.Sprintf formatting.
func (e *ExecutionError) WithMessagef(format string, args ...any) *ExecutionError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// Predefined errors.
var (
	// Timeout errors
	ErrConditionNotMet = &ExecutionError{
		Category: ErrCategoryTimeout,
		Code:     "condition_not_met",
		Message:  "wait condition was not met within the timeout",
	}
	ErrScrollTimeout = &ExecutionError{
		Category: ErrCategoryTimeout,
		Code:     "scroll_timeout",
		Message:  "element not found within the scroll-search timeout",
	}

	// Scroll errors
	ErrScrollBoundary = &ExecutionError{
		Category: ErrCategoryScroll,
		Code:     "scroll_boundary",
		Message:  "unable to scroll further, end of content reached",
	}
	ErrScrollExhausted = &ExecutionError{
		Category: ErrCategoryScroll,
		Code:     "scroll_exhausted",
		Message:  "reached end of scrollable content without finding the element",
	}

	// Config errors
	ErrNoConditions = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "no_conditions",
		Message:  "no wait conditions specified",
	}
	ErrInvalidConfig = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}
	ErrMissingDriver = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "missing_driver",
		Message:  "no driver configured for the selected framework",
	}
	ErrNotInteractable = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "not_interactable",
		Message:  "driver does not support interaction",
	}
	ErrNotScrollable = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "not_scrollable",
		Message:  "driver does not support scrolling",
	}

	// Connection errors
	ErrServerUnreachable = &ExecutionError{
		Category: ErrCategoryConnection,
		Code:     "server_unreachable",
		Message:  "could not connect to automation server",
	}
)

// IsScrollBoundary reports whether err indicates that the scroll container
// cannot move any further. Typed ErrScrollBoundary errors match directly;
// for foreign backend errors a message heuristic is applied, since WebDriver
// implementations only expose the boundary through free-form text.
func IsScrollBoundary(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrScrollBoundary) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unable to scroll") || strings.Contains(msg, "scroll")
}
