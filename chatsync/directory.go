// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/talkchat/talkchat/messaging"
)

// MinSearchLength is the shortest query, in characters after trimming,
// that reaches the backend.
const MinSearchLength = 2

// RefreshChats replaces the chat list with the server's. On failure the
// list becomes empty.
func (c *Core) RefreshChats(ctx context.Context) error {
	return refreshSlice(c, ctx, "chats", c.gateway.ListChats, func(s *session, chats []messaging.Chat) {
		s.chats = chats
	})
}

// RefreshContacts replaces the contact list with the server's. On
// failure the list becomes empty.
func (c *Core) RefreshContacts(ctx context.Context) error {
	return refreshSlice(c, ctx, "contacts", c.gateway.Contacts, func(s *session, contacts []messaging.Contact) {
		s.contacts = contacts
	})
}

// RefreshAdminUsers replaces the full user list with the server's. Only
// owners and administrators may call it. On failure the list becomes
// empty.
func (c *Core) RefreshAdminUsers(ctx context.Context) error {
	identity := c.Identity()
	if identity == nil {
		return ErrNotAuthenticated
	}
	if !CanAdminister(identity) {
		return ErrForbidden
	}
	return refreshSlice(c, ctx, "admin users", c.gateway.ListUsers, func(s *session, users []messaging.Identity) {
		s.adminUsers = users
	})
}

// Search looks users up by username or display name. Queries shorter
// than MinSearchLength clear the results without a request. Each call
// supersedes the previous one: an older request still in flight is
// canceled, and its response is discarded if it arrives anyway.
func (c *Core) Search(ctx context.Context, query string) error {
	trimmed := strings.TrimSpace(query)

	c.mu.Lock()
	c.session.searchGeneration++
	generation := c.session.searchGeneration
	c.session.searchQuery = query
	if c.session.searchCancel != nil {
		c.session.searchCancel()
		c.session.searchCancel = nil
	}
	if utf8.RuneCountInString(trimmed) < MinSearchLength {
		c.session.searchResults = nil
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	op, err := c.begin(ctx, true)
	if err != nil {
		return err
	}
	defer op.done()

	searchCtx, cancel := context.WithCancel(op.ctx)
	defer cancel()
	c.mu.Lock()
	if generation == c.session.searchGeneration {
		c.session.searchCancel = cancel
	}
	c.mu.Unlock()

	results, err := c.gateway.Search(searchCtx, trimmed)
	if err != nil && messaging.IsUnauthorized(err) {
		return c.rejectSession(op, err)
	}

	c.mu.Lock()
	superseded := op.epoch != c.epoch || generation != c.session.searchGeneration
	if !superseded {
		c.session.searchCancel = nil
		switch {
		case err == nil:
			c.session.searchResults = results
		case !messaging.IsCanceled(err):
			c.session.searchResults = nil
		}
	}
	c.mu.Unlock()

	if superseded {
		return nil
	}
	if err != nil {
		if !messaging.IsCanceled(err) {
			c.logger.Warn("search failed, showing no results", "error", err)
		}
		return fmt.Errorf("chatsync: search: %w", err)
	}
	return nil
}
