// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/talkchat/talkchat/messaging"
)

// SelectChat makes chat the selected chat, discards the previous
// messages and loads chat's.
func (c *Core) SelectChat(ctx context.Context, chat messaging.Chat) error {
	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	selected := chat
	c.session.selected = &selected
	c.session.messages = nil
	c.mu.Unlock()

	c.logger.Debug("chat selected", "chat_id", chat.ID)
	return c.RefreshMessages(ctx, chat.ID)
}

// SelectChatByID selects a chat from the last fetched chat list.
func (c *Core) SelectChatByID(ctx context.Context, chatID int64) error {
	c.mu.Lock()
	chat, ok := c.session.findChat(chatID)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownChat, chatID)
	}
	return c.SelectChat(ctx, chat)
}

// RefreshMessages loads the messages of chatID. Nothing is fetched when
// chatID is not the selected chat. The result is applied only if chatID
// is still selected and no newer message fetch has started; otherwise
// it is discarded. On failure the message list becomes empty.
func (c *Core) RefreshMessages(ctx context.Context, chatID int64) error {
	op, err := c.begin(ctx, true)
	if err != nil {
		return err
	}
	defer op.done()

	c.mu.Lock()
	if c.session.selected == nil || c.session.selected.ID != chatID {
		c.mu.Unlock()
		return nil
	}
	c.session.messageGeneration++
	generation := c.session.messageGeneration
	c.mu.Unlock()

	messages, err := c.gateway.Messages(op.ctx, chatID)
	if err != nil {
		if messaging.IsUnauthorized(err) {
			return c.rejectSession(op, err)
		}
		if messaging.IsCanceled(err) {
			return err
		}
		messages = nil
	}

	c.mu.Lock()
	applied := op.epoch == c.epoch &&
		generation == c.session.messageGeneration &&
		c.session.selected != nil &&
		c.session.selected.ID == chatID
	if applied {
		c.session.messages = messages
	}
	c.mu.Unlock()

	if !applied {
		c.logger.Debug("discarding stale message fetch", "chat_id", chatID)
		return nil
	}
	if err != nil {
		c.logger.Warn("loading messages failed, showing none", "chat_id", chatID, "error", err)
		return fmt.Errorf("chatsync: loading messages of chat %d: %w", chatID, err)
	}
	return nil
}

// CreateChat opens a chat with userID, reloads the chat list and
// selects the new chat. If the chat is not in the reloaded list, the
// list is read once more after a short pause; if it is still missing,
// a chat assembled from the create response and the known user details
// is selected instead. Returns the selected chat.
func (c *Core) CreateChat(ctx context.Context, userID int64) (*messaging.Chat, error) {
	if err := validateUserID(userID); err != nil {
		c.notifier.Notify(KindError, Message(err))
		return nil, err
	}
	op, err := c.beginWrite(ctx)
	if err != nil {
		return nil, err
	}
	defer op.done()

	response, err := c.gateway.CreateChat(op.ctx, userID)
	if err != nil {
		return nil, c.fail(op, "creating chat", err)
	}
	c.logger.Info("chat opened", "chat_id", response.ChatID, "user_id", userID, "existed", response.Existed)

	chat, found := c.locateChat(ctx, op, response.ChatID)
	if !c.current(op) {
		return nil, ErrNotAuthenticated
	}
	if !found {
		c.logger.Warn("new chat missing from chat list, selecting local copy", "chat_id", response.ChatID)
		chat = c.synthesizeChat(response.ChatID, userID)
	}

	if err := c.SelectChat(ctx, chat); errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrSessionRejected) {
		return nil, err
	}
	return &chat, nil
}

// locateChat reloads the chat list and looks for chatID, retrying once
// after createRetryDelay.
func (c *Core) locateChat(ctx context.Context, op *operation, chatID int64) (messaging.Chat, bool) {
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-c.clock.After(c.createRetryDelay):
			case <-op.ctx.Done():
				return messaging.Chat{}, false
			}
		}
		if errors.Is(c.RefreshChats(ctx), ErrSessionRejected) {
			return messaging.Chat{}, false
		}
		c.mu.Lock()
		chat, ok := c.session.findChat(chatID)
		c.mu.Unlock()
		if ok {
			return chat, true
		}
	}
	return messaging.Chat{}, false
}

func (c *Core) synthesizeChat(chatID, userID int64) messaging.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	party, ok := c.session.findParty(userID)
	if !ok {
		party = messaging.Party{ID: userID}
	}
	return messaging.Chat{ID: chatID, OtherParty: &party}
}

// OpenChatWith selects the existing chat with userID if the chat list
// has one, and creates it otherwise.
func (c *Core) OpenChatWith(ctx context.Context, userID int64) (*messaging.Chat, error) {
	c.mu.Lock()
	var existing *messaging.Chat
	for _, chat := range c.session.chats {
		if chat.OtherParty != nil && chat.OtherParty.ID == userID {
			existing = &chat
			break
		}
	}
	c.mu.Unlock()

	if existing == nil {
		return c.CreateChat(ctx, userID)
	}
	if err := c.SelectChat(ctx, *existing); errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrSessionRejected) {
		return nil, err
	}
	return existing, nil
}

// SetDraft replaces the message input buffer.
func (c *Core) SetDraft(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.draft = content
}

// Draft returns the message input buffer.
func (c *Core) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.draft
}

// SendMessage sends the input buffer to the selected chat. It does
// nothing when the buffer is blank or no chat is selected. On success
// the buffer is cleared (unless it was edited meanwhile) and the
// messages and chat list are reloaded; on failure the buffer is kept.
func (c *Core) SendMessage(ctx context.Context) error {
	c.mu.Lock()
	content := c.session.draft
	selected := c.session.selected
	c.mu.Unlock()

	if strings.TrimSpace(content) == "" || selected == nil {
		return nil
	}
	chatID := selected.ID

	op, err := c.beginWrite(ctx)
	if err != nil {
		return err
	}
	defer op.done()

	if _, err := c.gateway.SendMessage(op.ctx, chatID, content); err != nil {
		return c.fail(op, "sending message", err)
	}

	c.mu.Lock()
	if op.epoch == c.epoch && c.session.draft == content {
		c.session.draft = ""
	}
	c.mu.Unlock()

	if errors.Is(c.RefreshMessages(ctx, chatID), ErrSessionRejected) {
		return nil
	}
	c.RefreshChats(ctx)
	return nil
}

// Send puts content in the input buffer and sends it.
func (c *Core) Send(ctx context.Context, content string) error {
	c.SetDraft(content)
	return c.SendMessage(ctx)
}

// AddContact adds userID to the contact list and reloads it.
func (c *Core) AddContact(ctx context.Context, userID int64) error {
	if err := validateUserID(userID); err != nil {
		c.notifier.Notify(KindError, Message(err))
		return err
	}
	op, err := c.beginWrite(ctx)
	if err != nil {
		return err
	}
	defer op.done()

	if err := c.gateway.AddContact(op.ctx, userID); err != nil {
		return c.fail(op, "adding contact", err)
	}
	c.notifier.Notify(KindSuccess, "contact added")
	c.RefreshContacts(ctx)
	return nil
}
