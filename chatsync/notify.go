// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync

import (
	"errors"
	"strings"

	"github.com/talkchat/talkchat/messaging"
)

// Kind classifies a notice.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
	// KindAuthRequired asks the presentation layer to start the sign-in
	// flow. Sent whenever the session becomes unauthenticated other than
	// by an explicit Logout.
	KindAuthRequired
)

func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	case KindAuthRequired:
		return "auth-required"
	default:
		return "unknown"
	}
}

// Notifier receives user-facing notices. Implementations must not block
// and must not call back into the Core.
type Notifier interface {
	Notify(kind Kind, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind Kind, message string)

func (f NotifierFunc) Notify(kind Kind, message string) { f(kind, message) }

type discardNotifier struct{}

func (discardNotifier) Notify(Kind, string) {}

// Message returns the text shown to the user for err.
func Message(err error) string {
	var validationErrs ValidationErrors
	var validationErr *ValidationError
	var remoteErr *messaging.RemoteError
	switch {
	case errors.As(err, &validationErrs):
		messages := make([]string, len(validationErrs))
		for i, fieldErr := range validationErrs {
			messages[i] = fieldErr.Message
		}
		return strings.Join(messages, "; ")
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, ErrSessionRejected):
		return "session expired, sign in again"
	case errors.As(err, &remoteErr):
		return remoteErr.Message
	case messaging.IsNetworkError(err):
		return "network error, try again"
	case errors.Is(err, ErrForbidden):
		return "you do not have permission to do that"
	case errors.Is(err, ErrNotAuthenticated):
		return "sign in first"
	default:
		return err.Error()
	}
}
