// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type storedRecord struct {
	Token   string    `cbor:"token"`
	SavedAt time.Time `cbor:"saved_at"`
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]any{"zeta": 1, "alpha": "a", "mid": true}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for range 10 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("map encoding is not deterministic")
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	saved := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	data, err := Marshal(storedRecord{Token: "tok", SavedAt: saved})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded storedRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Token != "tok" || !decoded.SavedAt.Equal(saved) {
		t.Fatalf("got %+v", decoded)
	}

	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	if !strings.Contains(diagnostic, `"token"`) {
		t.Fatalf("diagnostic missing field name: %s", diagnostic)
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"key": "auth_token"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		t.Fatalf("expected map[string]any, got %T", decoded)
	}
}
