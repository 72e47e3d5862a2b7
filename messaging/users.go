// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"net/url"
)

// Me returns the identity the current token belongs to.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := c.call(ctx, actionMe, nil, nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Search finds users whose username or display name contains query,
// excluding the caller. The backend returns at most 20 results and none
// for queries shorter than two characters.
func (c *Client) Search(ctx context.Context, query string) ([]Identity, error) {
	var response struct {
		Users []Identity `json:"users"`
	}
	if err := c.call(ctx, actionSearch, url.Values{"q": {query}}, nil, &response); err != nil {
		return nil, err
	}
	return response.Users, nil
}

// ListUsers returns every user, newest first. Owner or admin only.
func (c *Client) ListUsers(ctx context.Context) ([]Identity, error) {
	var response struct {
		Users []Identity `json:"users"`
	}
	if err := c.call(ctx, actionListUsers, nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Users, nil
}

// UpdateProfile sets the caller's display name and avatar URL. An empty
// avatarURL clears the avatar.
func (c *Client) UpdateProfile(ctx context.Context, displayName, avatarURL string) error {
	request := map[string]string{
		"display_name": displayName,
		"avatar_url":   avatarURL,
	}
	return c.call(ctx, actionProfile, nil, request, nil)
}

// Ban bans a user. An empty reason lets the backend apply its default.
func (c *Client) Ban(ctx context.Context, userID int64, reason string) error {
	request := map[string]any{"user_id": userID}
	if reason != "" {
		request["reason"] = reason
	}
	return c.call(ctx, actionBan, nil, request, nil)
}

// Unban lifts a ban.
func (c *Client) Unban(ctx context.Context, userID int64) error {
	return c.call(ctx, actionUnban, nil, map[string]any{"user_id": userID}, nil)
}

// SetRole changes a user's role. Owner only.
func (c *Client) SetRole(ctx context.Context, userID int64, role Role) error {
	request := map[string]any{
		"user_id": userID,
		"role":    role,
	}
	return c.call(ctx, actionSetRole, nil, request, nil)
}
