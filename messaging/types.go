// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role is a user's privilege level, carried on the wire as the
// backend's display strings.
type Role string

const (
	RoleOwner  Role = "владелец"
	RoleAdmin  Role = "администратор"
	RoleVIP    Role = "VIP"
	RoleMember Role = "пользователь"
)

var roleNames = map[Role]string{
	RoleOwner:  "owner",
	RoleAdmin:  "admin",
	RoleVIP:    "vip",
	RoleMember: "member",
}

var roleRanks = map[Role]int{
	RoleOwner:  3,
	RoleAdmin:  2,
	RoleVIP:    1,
	RoleMember: 0,
}

// Roles lists every role, highest first.
var Roles = []Role{RoleOwner, RoleAdmin, RoleVIP, RoleMember}

// Rank orders roles: owner > admin > vip > member. Unknown roles rank
// below member.
func (r Role) Rank() int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return -1
}

// Name returns the ASCII name (owner, admin, vip, member). Unknown
// roles return their wire string.
func (r Role) Name() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return string(r)
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// ParseRole accepts either the ASCII name (case-insensitive) or the wire
// string.
func ParseRole(s string) (Role, error) {
	trimmed := strings.TrimSpace(s)
	for role, name := range roleNames {
		if strings.EqualFold(trimmed, name) || trimmed == string(role) {
			return role, nil
		}
	}
	return "", fmt.Errorf("messaging: unknown role %q (want owner, admin, vip or member)", s)
}

// Timestamp is a time that decodes from RFC 3339, from the zone-less
// ISO-8601 form the backend produces (interpreted as UTC), or from null.
// The zero Timestamp encodes as null.
type Timestamp struct {
	time.Time
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses the formats Timestamp accepts.
func ParseTimestamp(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{t}, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("messaging: unrecognized timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("messaging: timestamp must be a string: %s", data)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// Identity is a user profile as returned by users.me and users.list.
// Search results carry the public subset (no email, ban reason or
// creation time).
type Identity struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Role        Role      `json:"role"`
	IsBanned    bool      `json:"is_banned"`
	BanReason   string    `json:"ban_reason,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Label returns the display name, or the username when it is empty.
func (i Identity) Label() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Username
}

// Party is the other participant of a chat.
type Party struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Chat is a one-to-one conversation from the caller's point of view.
type Chat struct {
	ID int64 `json:"id"`
	// OtherParty is nil when the other participant no longer exists.
	OtherParty      *Party    `json:"other_user"`
	LastMessage     string    `json:"last_message,omitempty"`
	LastMessageTime Timestamp `json:"last_message_time"`
	CreatedAt       Timestamp `json:"created_at"`
	UpdatedAt       Timestamp `json:"updated_at"`
}

// Title is the label a chat list shows for c.
func (c Chat) Title() string {
	if c.OtherParty == nil {
		return fmt.Sprintf("chat %d", c.ID)
	}
	if c.OtherParty.DisplayName != "" {
		return c.OtherParty.DisplayName
	}
	return c.OtherParty.Username
}

// Sender is the author projection embedded in a Message.
type Sender struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Message is one message in a chat. The backend returns messages oldest
// first.
type Message struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	SenderID  int64     `json:"sender_id"`
	CreatedAt Timestamp `json:"created_at"`
	Sender    Sender    `json:"sender"`
}

// Contact is a user in the caller's contact list.
type Contact struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	AddedAt     Timestamp `json:"added_at"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

// RegisterRequest is the body of auth.register.
type RegisterRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// SendCodeResponse is returned by auth.send-code. Code is populated only
// by backends running without outbound mail.
type SendCodeResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// CreateChatResponse is returned by chats.create. Existed is true when
// the backend returned an existing chat with the same user.
type CreateChatResponse struct {
	ChatID  int64 `json:"chat_id"`
	Existed bool  `json:"existed"`
}

// SendMessageResponse is returned by chats.send.
type SendMessageResponse struct {
	MessageID int64     `json:"message_id"`
	CreatedAt Timestamp `json:"created_at"`
}
