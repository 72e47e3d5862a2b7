// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/talkchat/talkchat/chatsync"
	"github.com/talkchat/talkchat/messaging"
)

// ErrorCategory classifies command errors so scripts can decide whether
// to fix input, sign in again or retry without parsing message text.
type ErrorCategory string

const (
	// CategoryValidation: bad input. Fix it and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a referenced user or chat does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden: not signed in, session expired, or the role
	// does not permit the operation.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryTransient: network failure, timeout or a 5xx. Retry later.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: anything else.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by CLI commands. It wraps
// the inner error, so errors.Is and errors.As see the full chain.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint is an optional next step appended to the message.
	Hint string
}

func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Categorize classifies err. A *ToolError keeps its own category; chat
// core and backend errors are classified by their type and status.
func Categorize(err error) ErrorCategory {
	var toolErr *ToolError
	var validationErr *chatsync.ValidationError
	var validationErrs chatsync.ValidationErrors
	var remoteErr *messaging.RemoteError
	switch {
	case errors.As(err, &toolErr):
		return toolErr.Category
	case errors.As(err, &validationErrs), errors.As(err, &validationErr):
		return CategoryValidation
	case errors.Is(err, chatsync.ErrNotAuthenticated),
		errors.Is(err, chatsync.ErrSessionRejected),
		errors.Is(err, chatsync.ErrForbidden):
		return CategoryForbidden
	case errors.Is(err, chatsync.ErrUnknownChat):
		return CategoryNotFound
	case messaging.IsNetworkError(err):
		return CategoryTransient
	case errors.As(err, &remoteErr):
		switch {
		case remoteErr.StatusCode == http.StatusBadRequest:
			return CategoryValidation
		case remoteErr.StatusCode == http.StatusUnauthorized, remoteErr.StatusCode == http.StatusForbidden:
			return CategoryForbidden
		case remoteErr.StatusCode == http.StatusNotFound:
			return CategoryNotFound
		case remoteErr.StatusCode >= 500:
			return CategoryTransient
		}
	}
	return CategoryInternal
}
