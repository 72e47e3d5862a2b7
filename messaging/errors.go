// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// RemoteError is a non-2xx response from the backend. Callers extract it
// with errors.As:
//
//	var remoteErr *RemoteError
//	if errors.As(err, &remoteErr) {
//	    notify(remoteErr.Message)
//	}
type RemoteError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Message is the server's "error" field, or a generic message for
	// the action when the body carried none.
	Message string
	// Action names the failed operation, e.g. "chats.send".
	Action string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("messaging: %s (%d): %s", e.Action, e.StatusCode, e.Message)
}

// NetworkError is a request that never produced an HTTP response.
type NetworkError struct {
	Action string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("messaging: %s: %v", e.Action, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request was cut off by a deadline.
func (e *NetworkError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// IsUnauthorized reports whether err is a 401 from the backend: the
// token is missing, expired or revoked.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports whether err is a 403 from the backend. Banned
// users and role checks both produce 403.
func IsForbidden(err error) bool {
	return IsStatus(err, http.StatusForbidden)
}

// IsStatus reports whether err is a *RemoteError with the given status.
func IsStatus(err error, status int) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode == status
	}
	return false
}

// IsCanceled reports whether err is a request abandoned because its
// context was canceled, as happens to in-flight calls at logout.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsNetworkError reports whether err is a *NetworkError.
func IsNetworkError(err error) bool {
	var networkErr *NetworkError
	return errors.As(err, &networkErr)
}

// fallbackMessages are used when an error response carries no "error"
// field.
var fallbackMessages = map[string]string{
	actionLogin:       "login failed",
	actionSendCode:    "could not send verification code",
	actionRegister:    "registration failed",
	actionMe:          "could not load profile",
	actionSearch:      "search failed",
	actionListUsers:   "could not load users",
	actionProfile:     "could not update profile",
	actionBan:         "could not ban user",
	actionUnban:       "could not unban user",
	actionSetRole:     "could not change role",
	actionListChats:   "could not load chats",
	actionContacts:    "could not load contacts",
	actionMessages:    "could not load messages",
	actionCreateChat:  "could not create chat",
	actionSendMessage: "could not send message",
	actionAddContact:  "could not add contact",
	actionUploadImage: "could not upload image",
}

func fallbackMessage(action string) string {
	if message, ok := fallbackMessages[action]; ok {
		return message
	}
	return "request failed"
}
