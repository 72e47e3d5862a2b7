// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRole(t *testing.T) {
	if !(RoleOwner.Rank() > RoleAdmin.Rank() && RoleAdmin.Rank() > RoleVIP.Rank() && RoleVIP.Rank() > RoleMember.Rank()) {
		t.Error("roles out of order")
	}
	if Role("gardener").Rank() >= RoleMember.Rank() {
		t.Error("unknown role should rank below member")
	}
	if RoleAdmin.Name() != "admin" {
		t.Errorf("Name() = %q", RoleAdmin.Name())
	}

	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"owner", RoleOwner, false},
		{"ADMIN", RoleAdmin, false},
		{"vip", RoleVIP, false},
		{"VIP", RoleVIP, false},
		{"пользователь", RoleMember, false},
		{" member ", RoleMember, false},
		{"root", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRole(%q) should fail", tt.input)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseRole(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"naive isoformat", `"2026-01-15T09:30:00"`, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)},
		{"naive with micros", `"2026-01-15T09:30:00.250000"`, time.Date(2026, 1, 15, 9, 30, 0, 250000000, time.UTC)},
		{"space separated", `"2026-01-15 09:30:00"`, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)},
		{"rfc3339", `"2026-01-15T12:30:00+03:00"`, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
	if err := json.Unmarshal([]byte(`12345`), &ts); err == nil {
		t.Error("expected error for numeric timestamp")
	}

	encoded, err := json.Marshal(struct {
		At Timestamp `json:"at"`
	}{})
	if err != nil || string(encoded) != `{"at":null}` {
		t.Errorf("zero Timestamp encodes as %s, %v", encoded, err)
	}
}

func TestIdentityLabel(t *testing.T) {
	if got := (Identity{Username: "alice"}).Label(); got != "alice" {
		t.Errorf("Label() = %q", got)
	}
	if got := (Identity{Username: "alice", DisplayName: "Alice"}).Label(); got != "Alice" {
		t.Errorf("Label() = %q", got)
	}
}
