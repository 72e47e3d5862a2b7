// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/talkchat/talkchat/chatsync"
	"github.com/talkchat/talkchat/messaging"
)

func TestMessage(t *testing.T) {
	var two chatsync.ValidationErrors
	two.Add("username", "username is required")
	two.Add("password", "password is required")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &chatsync.ValidationError{Field: "email", Message: "email is required"}, "email is required"},
		{"validation list", two, "username is required; password is required"},
		{"rejected", fmt.Errorf("%w: %w", chatsync.ErrSessionRejected, &messaging.RemoteError{StatusCode: 401, Message: "unauthorized"}), "session expired, sign in again"},
		{"remote", fmt.Errorf("chatsync: x: %w", &messaging.RemoteError{StatusCode: 400, Message: "username is taken"}), "username is taken"},
		{"network", &messaging.NetworkError{Action: "chats.list", Err: context.DeadlineExceeded}, "network error, try again"},
		{"forbidden", chatsync.ErrForbidden, "you do not have permission to do that"},
		{"unauthenticated", chatsync.ErrNotAuthenticated, "sign in first"},
		{"other", errors.New("disk full"), "disk full"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := chatsync.Message(test.err); got != test.want {
				t.Errorf("Message = %q, want %q", got, test.want)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	var errs chatsync.ValidationErrors
	if errs.HasErrors() || errs.Err() != nil {
		t.Fatal("empty ValidationErrors reports errors")
	}

	errs.Add("email", "email is required")
	var single *chatsync.ValidationError
	if !errors.As(errs.Err(), &single) || single.Field != "email" {
		t.Errorf("Err() = %v, want the single field error", errs.Err())
	}

	errs.Add("code", "verification code is required")
	err := errs.Err()
	if !errors.As(err, &single) {
		t.Error("errors.As does not reach the individual failures")
	}
	if got := err.Error(); got != "chatsync: email: email is required; code: verification code is required" {
		t.Errorf("Error() = %q", got)
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[chatsync.Kind]string{
		chatsync.KindInfo:         "info",
		chatsync.KindSuccess:      "success",
		chatsync.KindError:        "error",
		chatsync.KindAuthRequired: "auth-required",
	} {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestNotifierFunc(t *testing.T) {
	var got []string
	notifier := chatsync.NotifierFunc(func(kind chatsync.Kind, message string) {
		got = append(got, kind.String()+":"+message)
	})
	notifier.Notify(chatsync.KindInfo, "hello")
	if len(got) != 1 || got[0] != "info:hello" {
		t.Errorf("notices = %v", got)
	}
}
