// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/talkchat/talkchat/lib/secret"
	"github.com/talkchat/talkchat/messaging"
)

// Start picks up a stored token. With one, the session resolves it and
// loads the directory; without one, the core stays unauthenticated and
// asks for sign-in.
func (c *Core) Start(ctx context.Context) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("chatsync: reading stored token: %w", err)
	}
	if token == "" {
		c.mu.Lock()
		c.state = StateUnauthenticated
		c.mu.Unlock()
		c.notifier.Notify(KindAuthRequired, "sign in to continue")
		return nil
	}
	return c.ResolveSession(ctx)
}

// ResolveSession fetches the identity behind the stored token. On
// success the session becomes authenticated and the chat and contact
// lists (and, for administrators, the user list) are loaded. On any
// failure the stored token is cleared and the session becomes
// unauthenticated.
func (c *Core) ResolveSession(ctx context.Context) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("chatsync: reading stored token: %w", err)
	}
	if token == "" {
		c.mu.Lock()
		c.state = StateUnauthenticated
		c.mu.Unlock()
		c.notifier.Notify(KindAuthRequired, "sign in to continue")
		return ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.state == StateUnauthenticated {
		c.state = StateResolving
	}
	c.mu.Unlock()

	op, _ := c.begin(ctx, false)
	defer op.done()

	identity, err := c.gateway.Me(op.ctx)
	if err != nil {
		if ctx.Err() != nil {
			// The caller gave up; the token may still be good.
			c.mu.Lock()
			if op.epoch == c.epoch && c.state == StateResolving {
				c.state = StateUnauthenticated
			}
			c.mu.Unlock()
			return fmt.Errorf("chatsync: resolving session: %w", ctx.Err())
		}
		if !c.endSession(ctx, op.epoch, "identity fetch failed") {
			return ErrNotAuthenticated
		}
		if messaging.IsUnauthorized(err) {
			err = fmt.Errorf("%w: %w", ErrSessionRejected, err)
		} else {
			err = fmt.Errorf("chatsync: resolving session: %w", err)
		}
		c.notifier.Notify(KindError, Message(err))
		return err
	}

	c.mu.Lock()
	if op.epoch != c.epoch {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	c.session.identity = identity
	c.state = StateAuthenticated
	c.mu.Unlock()

	c.logger.Info("session resolved",
		"user_id", identity.ID,
		"username", identity.Username,
		"role", identity.Role.Name(),
		"token", secret.Fingerprint(token),
	)

	c.loadDirectory(ctx, identity)
	return nil
}

// loadDirectory fills the lists a fresh session shows. Failures have
// already degraded to empty lists.
func (c *Core) loadDirectory(ctx context.Context, identity *messaging.Identity) {
	if errors.Is(c.RefreshChats(ctx), ErrSessionRejected) {
		return
	}
	if errors.Is(c.RefreshContacts(ctx), ErrSessionRejected) {
		return
	}
	if CanAdminister(identity) {
		c.RefreshAdminUsers(ctx)
	}
}

// CompleteAuthentication stores a freshly issued token and resolves the
// session with it. Any previous session's state is discarded first. The
// token is stored before any request that depends on it is sent.
func (c *Core) CompleteAuthentication(ctx context.Context, token string) error {
	return c.completeAuthentication(ctx, token, nil)
}

// completeAuthentication stores token unless op is non-nil and its epoch
// has ended, in which case ErrSignInAbandoned is returned.
func (c *Core) completeAuthentication(ctx context.Context, token string, op *operation) error {
	if strings.TrimSpace(token) == "" {
		var errs ValidationErrors
		errs.Add("token", "token is required")
		c.notifier.Notify(KindError, Message(errs.Err()))
		return errs.Err()
	}

	c.tokenMu.Lock()
	if op != nil && !c.current(op) {
		c.tokenMu.Unlock()
		return ErrSignInAbandoned
	}
	if err := c.tokens.SetToken(ctx, token); err != nil {
		c.tokenMu.Unlock()
		err = fmt.Errorf("chatsync: storing token: %w", err)
		c.notifier.Notify(KindError, Message(err))
		return err
	}
	c.mu.Lock()
	c.resetLocked()
	c.state = StateResolving
	c.mu.Unlock()
	c.tokenMu.Unlock()

	return c.ResolveSession(ctx)
}

// Logout clears the stored token and discards the identity and every
// cached list, the selected chat and its messages. Requests in flight
// are canceled and their results discarded.
func (c *Core) Logout(ctx context.Context) error {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	clearErr := c.tokens.ClearToken(ctx)

	c.mu.Lock()
	var userID int64
	if c.session.identity != nil {
		userID = c.session.identity.ID
	}
	c.resetLocked()
	c.mu.Unlock()

	c.logger.Info("logged out", "user_id", userID)
	if clearErr != nil {
		return fmt.Errorf("chatsync: clearing stored token: %w", clearErr)
	}
	return nil
}

// Login authenticates with a username and password and resolves the
// resulting session.
func (c *Core) Login(ctx context.Context, username, password string) error {
	if err := validateLogin(username, password); err != nil {
		c.notifier.Notify(KindError, Message(err))
		return err
	}

	op, _ := c.begin(ctx, false)
	defer op.done()

	response, err := c.gateway.Login(op.ctx, strings.ToLower(strings.TrimSpace(username)), password)
	if err != nil {
		if !c.current(op) {
			return fmt.Errorf("chatsync: login: %w", ErrSignInAbandoned)
		}
		c.notifier.Notify(KindError, Message(err))
		return fmt.Errorf("chatsync: login: %w", err)
	}
	if err := c.completeAuthentication(ctx, response.Token, op); err != nil {
		if errors.Is(err, ErrSignInAbandoned) {
			c.logger.Info("discarding login that finished after logout", "user_id", response.UserID)
			return fmt.Errorf("chatsync: login: %w", err)
		}
		return err
	}

	if identity := c.Identity(); identity != nil {
		c.notifier.Notify(KindSuccess, "signed in as "+identity.Label())
	}
	return nil
}

// SendCode asks the backend to email a registration code. The returned
// code is non-empty only when the backend runs without outbound mail;
// it is also surfaced as an info notice.
func (c *Core) SendCode(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var errs ValidationErrors
	validateEmail(&errs, email)
	if err := errs.Err(); err != nil {
		c.notifier.Notify(KindError, Message(err))
		return "", err
	}

	response, err := c.gateway.SendCode(ctx, email)
	if err != nil {
		c.notifier.Notify(KindError, Message(err))
		return "", fmt.Errorf("chatsync: sending code: %w", err)
	}

	message := response.Message
	if message == "" {
		message = "verification code sent to " + email
	}
	c.notifier.Notify(KindSuccess, message)
	if response.Code != "" {
		c.notifier.Notify(KindInfo, "verification code: "+response.Code)
	}
	return response.Code, nil
}

// Register creates an account and resolves the resulting session.
func (c *Core) Register(ctx context.Context, form RegisterForm) error {
	form = form.normalize()
	if err := validateRegister(form); err != nil {
		c.notifier.Notify(KindError, Message(err))
		return err
	}

	op, _ := c.begin(ctx, false)
	defer op.done()

	response, err := c.gateway.Register(op.ctx, messaging.RegisterRequest{
		Email:       form.Email,
		Code:        form.Code,
		Username:    form.Username,
		DisplayName: form.DisplayName,
		Password:    form.Password,
	})
	if err != nil {
		if !c.current(op) {
			return fmt.Errorf("chatsync: register: %w", ErrSignInAbandoned)
		}
		c.notifier.Notify(KindError, Message(err))
		return fmt.Errorf("chatsync: register: %w", err)
	}
	if err := c.completeAuthentication(ctx, response.Token, op); err != nil {
		if errors.Is(err, ErrSignInAbandoned) {
			c.logger.Info("discarding registration that finished after logout", "user_id", response.UserID)
			return fmt.Errorf("chatsync: register: %w", err)
		}
		return err
	}

	c.notifier.Notify(KindSuccess, "account created")
	return nil
}

// UpdateProfile changes the display name and avatar URL, then re-fetches
// the identity so the session reflects what the server stored.
func (c *Core) UpdateProfile(ctx context.Context, displayName, avatarURL string) error {
	if err := validateProfile(displayName); err != nil {
		c.notifier.Notify(KindError, Message(err))
		return err
	}
	op, err := c.beginWrite(ctx)
	if err != nil {
		return err
	}
	defer op.done()

	if err := c.gateway.UpdateProfile(op.ctx, strings.TrimSpace(displayName), strings.TrimSpace(avatarURL)); err != nil {
		return c.fail(op, "updating profile", err)
	}

	identity, err := c.gateway.Me(op.ctx)
	if err != nil {
		if messaging.IsUnauthorized(err) {
			return c.rejectSession(op, err)
		}
		c.logger.Warn("re-fetching identity after profile update failed", "error", err)
	} else {
		c.mu.Lock()
		if op.epoch == c.epoch {
			c.session.identity = identity
		}
		c.mu.Unlock()
	}

	c.notifier.Notify(KindSuccess, "profile updated")
	return nil
}

// UploadAvatar uploads an image (bare base64 or a data: URL, at most
// 5 MB decoded) and sets it as the avatar, keeping the display name.
// Returns the image URL.
func (c *Core) UploadAvatar(ctx context.Context, image string) (string, error) {
	if err := validateImage(image); err != nil {
		c.notifier.Notify(KindError, Message(err))
		return "", err
	}
	op, err := c.beginWrite(ctx)
	if err != nil {
		return "", err
	}
	defer op.done()

	url, err := c.gateway.UploadImage(op.ctx, image)
	if err != nil {
		return "", c.fail(op, "uploading avatar", err)
	}

	identity := c.Identity()
	if identity == nil {
		return "", ErrNotAuthenticated
	}
	if err := c.UpdateProfile(ctx, identity.Label(), url); err != nil {
		return "", err
	}
	return url, nil
}
