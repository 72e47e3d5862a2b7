// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type failReader struct{}

func (failReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestReadResponse(t *testing.T) {
	t.Run("normal body", func(t *testing.T) {
		data, err := ReadResponse(strings.NewReader(`{"chats":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"chats":[]}` {
			t.Fatalf("got %q", data)
		}
	})

	t.Run("read error propagates", func(t *testing.T) {
		if _, err := ReadResponse(failReader{}); err == nil {
			t.Fatal("expected error from failing reader")
		}
	})
}

func TestDecodeResponse(t *testing.T) {
	var result struct {
		Token  string `json:"token"`
		UserID int64  `json:"user_id"`
	}
	if err := DecodeResponse(bytes.NewReader([]byte(`{"token":"abc","user_id":7}`)), &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token != "abc" || result.UserID != 7 {
		t.Fatalf("got %+v", result)
	}

	if err := DecodeResponse(strings.NewReader("not json"), &result); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestErrorBody(t *testing.T) {
	if got := ErrorBody(strings.NewReader("gateway timeout")); got != "gateway timeout" {
		t.Fatalf("got %q", got)
	}
	if got := ErrorBody(failReader{}); got != "" {
		t.Fatalf("expected empty body from failing reader, got %q", got)
	}
}
