// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"fmt"
)

// Login exchanges a username and password for a bearer token. The
// backend lower-cases the username.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	request := map[string]string{
		"username": username,
		"password": password,
	}
	var response AuthResponse
	if err := c.call(ctx, actionLogin, nil, request, &response); err != nil {
		return nil, err
	}
	if response.Token == "" {
		return nil, fmt.Errorf("messaging: login response has no token")
	}

	c.logger.Info("logged in", "user_id", response.UserID)
	return &response, nil
}

// SendCode asks the backend to email a registration code to email.
func (c *Client) SendCode(ctx context.Context, email string) (*SendCodeResponse, error) {
	var response SendCodeResponse
	if err := c.call(ctx, actionSendCode, nil, map[string]string{"email": email}, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Register creates an account and returns a token for it.
func (c *Client) Register(ctx context.Context, request RegisterRequest) (*AuthResponse, error) {
	var response AuthResponse
	if err := c.call(ctx, actionRegister, nil, request, &response); err != nil {
		return nil, err
	}
	if response.Token == "" {
		return nil, fmt.Errorf("messaging: register response has no token")
	}

	c.logger.Info("registered account", "user_id", response.UserID, "username", request.Username)
	return &response, nil
}
