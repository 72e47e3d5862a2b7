// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"net/url"
	"strconv"
)

// ListChats returns the caller's chats, most recently active first.
func (c *Client) ListChats(ctx context.Context) ([]Chat, error) {
	var response struct {
		Chats []Chat `json:"chats"`
	}
	if err := c.call(ctx, actionListChats, nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Chats, nil
}

// Contacts returns the caller's contact list, most recently added first.
func (c *Client) Contacts(ctx context.Context) ([]Contact, error) {
	var response struct {
		Contacts []Contact `json:"contacts"`
	}
	if err := c.call(ctx, actionContacts, nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Contacts, nil
}

// Messages returns every message in a chat, oldest first.
func (c *Client) Messages(ctx context.Context, chatID int64) ([]Message, error) {
	var response struct {
		Messages []Message `json:"messages"`
	}
	query := url.Values{"chat_id": {strconv.FormatInt(chatID, 10)}}
	if err := c.call(ctx, actionMessages, query, nil, &response); err != nil {
		return nil, err
	}
	return response.Messages, nil
}

// CreateChat opens a one-to-one chat with userID. If one already exists
// the backend returns it with Existed set.
func (c *Client) CreateChat(ctx context.Context, userID int64) (*CreateChatResponse, error) {
	var response CreateChatResponse
	if err := c.call(ctx, actionCreateChat, nil, map[string]any{"user_id": userID}, &response); err != nil {
		return nil, err
	}
	c.logger.Debug("chat created", "chat_id", response.ChatID, "user_id", userID, "existed", response.Existed)
	return &response, nil
}

// SendMessage posts content to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, content string) (*SendMessageResponse, error) {
	request := map[string]any{
		"chat_id": chatID,
		"content": content,
	}
	var response SendMessageResponse
	if err := c.call(ctx, actionSendMessage, nil, request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// AddContact adds userID to the caller's contacts. Adding an existing
// contact succeeds.
func (c *Client) AddContact(ctx context.Context, userID int64) error {
	return c.call(ctx, actionAddContact, nil, map[string]any{"user_id": userID}, nil)
}
