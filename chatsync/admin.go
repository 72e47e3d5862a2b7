// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync

import (
	"context"
	"strings"

	"github.com/talkchat/talkchat/messaging"
)

// CanAdminister reports whether identity may ban, unban and list users:
// owners and administrators.
func CanAdminister(identity *messaging.Identity) bool {
	if identity == nil {
		return false
	}
	return identity.Role == messaging.RoleOwner || identity.Role == messaging.RoleAdmin
}

// CanAssignRoles reports whether identity may change roles: owners only.
func CanAssignRoles(identity *messaging.Identity) bool {
	return identity != nil && identity.Role == messaging.RoleOwner
}

// beginAdmin checks the signed-in identity against the permission
// predicate before any request is sent.
func (c *Core) beginAdmin(ctx context.Context, action string, allowed func(*messaging.Identity) bool) (*operation, error) {
	identity := c.Identity()
	if identity == nil {
		c.notifier.Notify(KindError, Message(ErrNotAuthenticated))
		return nil, ErrNotAuthenticated
	}
	if !allowed(identity) {
		c.logger.Warn("admin operation refused", "action", action, "user_id", identity.ID, "role", identity.Role.Name())
		c.notifier.Notify(KindError, Message(ErrForbidden))
		return nil, ErrForbidden
	}
	return c.beginWrite(ctx)
}

// Ban bans userID. A blank reason lets the backend record its default.
// The user list is reloaded after a successful ban.
func (c *Core) Ban(ctx context.Context, userID int64, reason string) error {
	if err := validateUserID(userID); err != nil {
		c.notifier.Notify(KindError, Message(err))
		return err
	}
	op, err := c.beginAdmin(ctx, "ban", CanAdminister)
	if err != nil {
		return err
	}
	defer op.done()

	if err := c.gateway.Ban(op.ctx, userID, strings.TrimSpace(reason)); err != nil {
		return c.fail(op, "banning user", err)
	}
	c.logger.Info("user banned", "target_user_id", userID)
	c.notifier.Notify(KindSuccess, "user banned")
	c.RefreshAdminUsers(ctx)
	return nil
}

// Unban lifts a ban and reloads the user list.
func (c *Core) Unban(ctx context.Context, userID int64) error {
	if err := validateUserID(userID); err != nil {
		c.notifier.Notify(KindError, Message(err))
		return err
	}
	op, err := c.beginAdmin(ctx, "unban", CanAdminister)
	if err != nil {
		return err
	}
	defer op.done()

	if err := c.gateway.Unban(op.ctx, userID); err != nil {
		return c.fail(op, "unbanning user", err)
	}
	c.logger.Info("user unbanned", "target_user_id", userID)
	c.notifier.Notify(KindSuccess, "user unbanned")
	c.RefreshAdminUsers(ctx)
	return nil
}

// SetRole changes userID's role and reloads the user list. Owners only.
func (c *Core) SetRole(ctx context.Context, userID int64, role messaging.Role) error {
	if err := validateRole(userID, role); err != nil {
		c.notifier.Notify(KindError, Message(err))
		return err
	}
	op, err := c.beginAdmin(ctx, "set-role", CanAssignRoles)
	if err != nil {
		return err
	}
	defer op.done()

	if err := c.gateway.SetRole(op.ctx, userID, role); err != nil {
		return c.fail(op, "changing role", err)
	}
	c.logger.Info("role changed", "target_user_id", userID, "role", role.Name())
	c.notifier.Notify(KindSuccess, "role changed to "+role.Name())
	c.RefreshAdminUsers(ctx)
	return nil
}
