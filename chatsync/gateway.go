// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync

import (
	"context"

	"github.com/talkchat/talkchat/messaging"
)

// Gateway is the backend as seen by the core. *messaging.Client
// implements it.
type Gateway interface {
	Login(ctx context.Context, username, password string) (*messaging.AuthResponse, error)
	SendCode(ctx context.Context, email string) (*messaging.SendCodeResponse, error)
	Register(ctx context.Context, request messaging.RegisterRequest) (*messaging.AuthResponse, error)

	Me(ctx context.Context) (*messaging.Identity, error)
	Search(ctx context.Context, query string) ([]messaging.Identity, error)
	ListUsers(ctx context.Context) ([]messaging.Identity, error)
	UpdateProfile(ctx context.Context, displayName, avatarURL string) error
	Ban(ctx context.Context, userID int64, reason string) error
	Unban(ctx context.Context, userID int64) error
	SetRole(ctx context.Context, userID int64, role messaging.Role) error

	ListChats(ctx context.Context) ([]messaging.Chat, error)
	Contacts(ctx context.Context) ([]messaging.Contact, error)
	Messages(ctx context.Context, chatID int64) ([]messaging.Message, error)
	CreateChat(ctx context.Context, userID int64) (*messaging.CreateChatResponse, error)
	SendMessage(ctx context.Context, chatID int64, content string) (*messaging.SendMessageResponse, error)
	AddContact(ctx context.Context, userID int64) error

	UploadImage(ctx context.Context, image string) (string, error)
}

var _ Gateway = (*messaging.Client)(nil)
