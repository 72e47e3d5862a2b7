// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/talkchat/talkchat/chatsync"
	"github.com/talkchat/talkchat/messaging"
)

func adminUser(t *testing.T, h *harness, userID int64) messaging.Identity {
	t.Helper()
	for _, user := range h.core.AdminUsers() {
		if user.ID == userID {
			return user
		}
	}
	t.Fatalf("user %d not in admin list", userID)
	return messaging.Identity{}
}

func TestPermissionPredicates(t *testing.T) {
	tests := []struct {
		role       messaging.Role
		administer bool
		assign     bool
	}{
		{messaging.RoleOwner, true, true},
		{messaging.RoleAdmin, true, false},
		{messaging.RoleVIP, false, false},
		{messaging.RoleMember, false, false},
		{messaging.Role("guest"), false, false},
	}
	for _, test := range tests {
		t.Run(test.role.Name(), func(t *testing.T) {
			identity := &messaging.Identity{ID: 1, Role: test.role}
			if got := chatsync.CanAdminister(identity); got != test.administer {
				t.Errorf("CanAdminister = %v, want %v", got, test.administer)
			}
			if got := chatsync.CanAssignRoles(identity); got != test.assign {
				t.Errorf("CanAssignRoles = %v, want %v", got, test.assign)
			}
		})
	}
	if chatsync.CanAdminister(nil) || chatsync.CanAssignRoles(nil) {
		t.Error("nil identity granted permissions")
	}
}

func TestBanShowsBannedUser(t *testing.T) {
	h := newHarness(t)
	h.login(t, "olga")

	if err := h.core.Ban(context.Background(), spamID, "spam"); err != nil {
		t.Fatalf("Ban: %v", err)
	}
	user := adminUser(t, h, spamID)
	if !user.IsBanned || user.BanReason != "spam" {
		t.Errorf("user 7 = %+v, want banned for spam", user)
	}
	if !h.notices.contains(chatsync.KindSuccess, "user banned") {
		t.Errorf("notices = %v", h.notices.all())
	}

	if err := h.core.Unban(context.Background(), spamID); err != nil {
		t.Fatalf("Unban: %v", err)
	}
	if user := adminUser(t, h, spamID); user.IsBanned {
		t.Errorf("user 7 = %+v, want unbanned", user)
	}
}

func TestBanBlankReasonUsesServerDefault(t *testing.T) {
	h := newHarness(t)
	h.login(t, "anna")

	if err := h.core.Ban(context.Background(), spamID, "  "); err != nil {
		t.Fatalf("Ban: %v", err)
	}
	if user := adminUser(t, h, spamID); user.BanReason != "rules violation" {
		t.Errorf("ban reason = %q, want the server default", user.BanReason)
	}
}

func TestAdminGuards(t *testing.T) {
	t.Run("member cannot ban", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "alice")
		if err := h.core.Ban(context.Background(), spamID, "spam"); err != chatsync.ErrForbidden {
			t.Errorf("Ban = %v, want ErrForbidden", err)
		}
		if err := h.core.Unban(context.Background(), spamID); err != chatsync.ErrForbidden {
			t.Errorf("Unban = %v, want ErrForbidden", err)
		}
		if got := h.backend.callCount("Ban") + h.backend.callCount("Unban"); got != 0 {
			t.Errorf("backend saw %d admin calls, want 0", got)
		}
		if !h.notices.contains(chatsync.KindError, "you do not have permission to do that") {
			t.Errorf("notices = %v", h.notices.all())
		}
	})

	t.Run("admin cannot assign roles", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "anna")
		if err := h.core.SetRole(context.Background(), bobID, messaging.RoleVIP); err != chatsync.ErrForbidden {
			t.Errorf("SetRole = %v, want ErrForbidden", err)
		}
		if got := h.backend.callCount("SetRole"); got != 0 {
			t.Errorf("SetRole sent %d requests, want 0", got)
		}
	})

	t.Run("signed out", func(t *testing.T) {
		h := newHarness(t)
		if err := h.core.Ban(context.Background(), spamID, ""); err != chatsync.ErrNotAuthenticated {
			t.Errorf("Ban = %v, want ErrNotAuthenticated", err)
		}
	})
}

func TestSetRole(t *testing.T) {
	h := newHarness(t)
	h.login(t, "olga")

	if err := h.core.SetRole(context.Background(), bobID, messaging.RoleVIP); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if user := adminUser(t, h, bobID); user.Role != messaging.RoleVIP {
		t.Errorf("bob's role = %q, want VIP", user.Role)
	}
	if !h.notices.contains(chatsync.KindSuccess, "role changed to vip") {
		t.Errorf("notices = %v", h.notices.all())
	}

	if err := h.core.SetRole(context.Background(), bobID, messaging.Role("superuser")); err == nil {
		t.Error("SetRole accepted an unknown role")
	}
	if got := h.backend.callCount("SetRole"); got != 1 {
		t.Errorf("SetRole sent %d requests, want 1", got)
	}
}

func TestAdminFailureKeepsList(t *testing.T) {
	h := newHarness(t)
	h.login(t, "olga")
	before := h.core.AdminUsers()
	listCalls := h.backend.callCount("ListUsers")

	h.backend.fail("Ban", &messaging.RemoteError{StatusCode: http.StatusNotFound, Message: "user not found", Action: "users.ban"})
	err := h.core.Ban(context.Background(), 999, "spam")
	var remoteErr *messaging.RemoteError
	if !errors.As(err, &remoteErr) || remoteErr.StatusCode != http.StatusNotFound {
		t.Fatalf("Ban = %v, want 404", err)
	}
	if got := len(h.core.AdminUsers()); got != len(before) {
		t.Errorf("admin users = %d, want %d", got, len(before))
	}
	if got := h.backend.callCount("ListUsers"); got != listCalls {
		t.Errorf("failed ban re-fetched the list %d times", got-listCalls)
	}
	if !h.notices.contains(chatsync.KindError, "user not found") {
		t.Errorf("notices = %v", h.notices.all())
	}
}
