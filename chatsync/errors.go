// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync

import (
	"errors"
	"strings"
)

var (
	// ErrNotAuthenticated is returned by operations that need a signed-in
	// identity when there is none.
	ErrNotAuthenticated = errors.New("chatsync: not authenticated")

	// ErrForbidden is returned when the signed-in identity's role does not
	// permit the operation. No request is sent.
	ErrForbidden = errors.New("chatsync: not permitted for this role")

	// ErrSessionRejected is returned when the backend rejected the token.
	// The session has already been torn down when the caller sees it.
	ErrSessionRejected = errors.New("chatsync: session rejected by backend")

	// ErrSignInAbandoned is returned by Login and Register when a logout
	// or another sign-in happened while the request was in flight. The
	// issued token is not stored.
	ErrSignInAbandoned = errors.New("chatsync: sign-in abandoned")

	// ErrUnknownChat is returned by SelectChatByID for an id not in the
	// chat list.
	ErrUnknownChat = errors.New("chatsync: unknown chat")
)

// ValidationError is a client-side input error. The request it guards
// is never sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "chatsync: " + e.Field + ": " + e.Message
}

// ValidationErrors collects every failed field of a form.
type ValidationErrors []*ValidationError

// Add records a failure for field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, &ValidationError{Field: field, Message: message})
}

// HasErrors reports whether any field failed.
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Err returns v as an error, or nil when nothing failed. A single
// failure is returned as the bare *ValidationError.
func (v ValidationErrors) Err() error {
	switch len(v) {
	case 0:
		return nil
	case 1:
		return v[0]
	default:
		return v
	}
}

func (v ValidationErrors) Error() string {
	messages := make([]string, len(v))
	for i, err := range v {
		messages[i] = err.Field + ": " + err.Message
	}
	return "chatsync: " + strings.Join(messages, "; ")
}

// Unwrap exposes the individual failures to errors.As.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, err := range v {
		errs[i] = err
	}
	return errs
}
