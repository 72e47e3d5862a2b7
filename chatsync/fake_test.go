// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync_test

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/talkchat/talkchat/chatsync"
	"github.com/talkchat/talkchat/lib/tokenstore"
	"github.com/talkchat/talkchat/messaging"
)

const testPassword = "secret1"

// Users seeded into every fakeBackend.
const (
	aliceID int64 = 1
	olgaID  int64 = 2
	annaID  int64 = 3
	spamID  int64 = 7
	bobID   int64 = 42
)

// gate holds one call to a fakeBackend method until released. entered
// is closed when the call arrives.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

type fakeChat struct {
	id       int64
	a, b     int64
	messages []messaging.Message
	created  time.Time
	updated  time.Time
}

// fakeBackend is an in-memory backend behind the Gateway interface. It
// identifies the caller by reading the token from the same store the
// core writes, the way messaging.Client does.
type fakeBackend struct {
	tokens tokenstore.Store

	// afterLogin runs once a login has been granted, before it returns.
	afterLogin func()

	mu        sync.Mutex
	now       time.Time
	calls     []string
	users     map[int64]*messaging.Identity
	passwords map[string]string
	sessions  map[string]int64
	codes     map[string]string
	chats     []*fakeChat
	contacts  map[int64][]messaging.Contact
	nextID    int64
	failures  map[string]error
	gates     map[string]*gate
	hidden    map[int64]int

	// hideCreated is how many chat listings omit each chat created from
	// now on.
	hideCreated int
}

var _ chatsync.Gateway = (*fakeBackend)(nil)

func newFakeBackend(tokens tokenstore.Store) *fakeBackend {
	f := &fakeBackend{
		tokens:    tokens,
		now:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		users:     make(map[int64]*messaging.Identity),
		passwords: make(map[string]string),
		sessions:  make(map[string]int64),
		codes:     make(map[string]string),
		contacts:  make(map[int64][]messaging.Contact),
		nextID:    100,
		failures:  make(map[string]error),
		gates:     make(map[string]*gate),
		hidden:    make(map[int64]int),
	}
	f.addUser(aliceID, "alice", "Alice", messaging.RoleMember)
	f.addUser(olgaID, "olga", "Olga", messaging.RoleOwner)
	f.addUser(annaID, "anna", "Anna", messaging.RoleAdmin)
	f.addUser(spamID, "spammer", "Spammer", messaging.RoleMember)
	f.addUser(bobID, "bob", "Bob", messaging.RoleMember)
	return f
}

func (f *fakeBackend) addUser(id int64, username, displayName string, role messaging.Role) {
	f.users[id] = &messaging.Identity{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
		Email:       username + "@example.com",
		Role:        role,
		CreatedAt:   messaging.Timestamp{Time: f.now},
	}
	f.passwords[username] = testPassword
}

// seedChat adds a chat between a and b with messages sent by a.
func (f *fakeBackend) seedChat(id, a, b int64, contents ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := f.tick()
	chat := &fakeChat{id: id, a: a, b: b, created: created, updated: created}
	for _, content := range contents {
		message := f.messageLocked(a, content)
		chat.messages = append(chat.messages, message)
		chat.updated = message.CreatedAt.Time
	}
	f.chats = append(f.chats, chat)
}

func (f *fakeBackend) seedContact(owner, userID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[userID]
	f.contacts[owner] = append(f.contacts[owner], messaging.Contact{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AddedAt:     messaging.Timestamp{Time: f.tick()},
	})
}

// hold gates the next call to method.
func (f *fakeBackend) hold(method string) *gate {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &gate{entered: make(chan struct{}), release: make(chan struct{})}
	f.gates[method] = g
	return g
}

// fail makes every call to method return err. A nil err clears it.
func (f *fakeBackend) fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, method)
		return
	}
	f.failures[method] = err
}

// revokeAll invalidates every issued token.
func (f *fakeBackend) revokeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.sessions)
}

func (f *fakeBackend) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, call := range f.calls {
		if call == method {
			count++
		}
	}
	return count
}

func (f *fakeBackend) user(id int64) messaging.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.users[id]
}

func (f *fakeBackend) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeBackend) messageLocked(senderID int64, content string) messaging.Message {
	f.nextID++
	sender := f.users[senderID]
	return messaging.Message{
		ID:        f.nextID,
		Content:   content,
		SenderID:  senderID,
		CreatedAt: messaging.Timestamp{Time: f.tick()},
		Sender: messaging.Sender{
			Username:    sender.Username,
			DisplayName: sender.DisplayName,
			AvatarURL:   sender.AvatarURL,
		},
	}
}

// enter records the call, waits on its gate if one is set and returns
// the configured failure.
func (f *fakeBackend) enter(ctx context.Context, method string) error {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	g := f.gates[method]
	delete(f.gates, method)
	err := f.failures[method]
	f.mu.Unlock()

	if g != nil {
		close(g.entered)
		select {
		case <-g.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func remoteError(status int, action, message string) error {
	return &messaging.RemoteError{StatusCode: status, Message: message, Action: action}
}

// caller resolves the stored token to a user id.
func (f *fakeBackend) caller(ctx context.Context, action string) (int64, error) {
	token, err := f.tokens.Token(ctx)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.sessions[token]
	if !ok {
		return 0, remoteError(http.StatusUnauthorized, action, "unauthorized")
	}
	if f.users[id].IsBanned {
		return 0, remoteError(http.StatusForbidden, action, "account is banned")
	}
	return id, nil
}

func (f *fakeBackend) issueLocked(userID int64) *messaging.AuthResponse {
	token := fmt.Sprintf("token-%d-%d", userID, len(f.sessions)+1)
	f.sessions[token] = userID
	return &messaging.AuthResponse{Token: token, UserID: userID}
}

func (f *fakeBackend) Login(ctx context.Context, username, password string) (*messaging.AuthResponse, error) {
	if err := f.enter(ctx, "Login"); err != nil {
		return nil, err
	}
	response, err := f.login(username, password)
	if err == nil && f.afterLogin != nil {
		f.afterLogin()
	}
	return response, err
}

func (f *fakeBackend) login(username, password string) (*messaging.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passwords[username] != password || password == "" {
		return nil, remoteError(http.StatusBadRequest, "auth.login", "invalid username or password")
	}
	for _, user := range f.users {
		if user.Username == username {
			if user.IsBanned {
				return nil, remoteError(http.StatusForbidden, "auth.login", "account is banned")
			}
			return f.issueLocked(user.ID), nil
		}
	}
	return nil, remoteError(http.StatusBadRequest, "auth.login", "invalid username or password")
}

func (f *fakeBackend) SendCode(ctx context.Context, email string) (*messaging.SendCodeResponse, error) {
	if err := f.enter(ctx, "SendCode"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[email] = "123456"
	return &messaging.SendCodeResponse{Message: "code sent", Code: "123456"}, nil
}

func (f *fakeBackend) Register(ctx context.Context, request messaging.RegisterRequest) (*messaging.AuthResponse, error) {
	if err := f.enter(ctx, "Register"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.codes[request.Email] != request.Code {
		return nil, remoteError(http.StatusBadRequest, "auth.register", "invalid or expired code")
	}
	if _, taken := f.passwords[request.Username]; taken {
		return nil, remoteError(http.StatusBadRequest, "auth.register", "username is taken")
	}
	f.nextID++
	id := f.nextID
	f.addUser(id, request.Username, request.DisplayName, messaging.RoleMember)
	f.users[id].Email = request.Email
	f.passwords[request.Username] = request.Password
	return f.issueLocked(id), nil
}

func (f *fakeBackend) Me(ctx context.Context) (*messaging.Identity, error) {
	if err := f.enter(ctx, "Me"); err != nil {
		return nil, err
	}
	id, err := f.caller(ctx, "users.me")
	if err != nil {
		return nil, err
	}
	identity := f.user(id)
	return &identity, nil
}

func (f *fakeBackend) Search(ctx context.Context, query string) ([]messaging.Identity, error) {
	if err := f.enter(ctx, "Search"); err != nil {
		return nil, err
	}
	id, err := f.caller(ctx, "users.search")
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	query = strings.ToLower(query)
	var results []messaging.Identity
	for _, user := range f.sortedUsersLocked() {
		if user.ID == id || user.IsBanned {
			continue
		}
		if strings.Contains(user.Username, query) || strings.Contains(strings.ToLower(user.DisplayName), query) {
			results = append(results, messaging.Identity{
				ID:          user.ID,
				Username:    user.Username,
				DisplayName: user.DisplayName,
				AvatarURL:   user.AvatarURL,
				Role:        user.Role,
			})
		}
	}
	return results, nil
}

func (f *fakeBackend) sortedUsersLocked() []messaging.Identity {
	users := make([]messaging.Identity, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, *user)
	}
	slices.SortFunc(users, func(a, b messaging.Identity) int { return int(a.ID - b.ID) })
	return users
}

func (f *fakeBackend) requireAdmin(ctx context.Context, action string, ownerOnly bool) (int64, error) {
	id, err := f.caller(ctx, action)
	if err != nil {
		return 0, err
	}
	role := f.user(id).Role
	if role == messaging.RoleOwner || (!ownerOnly && role == messaging.RoleAdmin) {
		return id, nil
	}
	return 0, remoteError(http.StatusForbidden, action, "insufficient permissions")
}

func (f *fakeBackend) ListUsers(ctx context.Context) ([]messaging.Identity, error) {
	if err := f.enter(ctx, "ListUsers"); err != nil {
		return nil, err
	}
	if _, err := f.requireAdmin(ctx, "users.list", false); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedUsersLocked(), nil
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, displayName, avatarURL string) error {
	if err := f.enter(ctx, "UpdateProfile"); err != nil {
		return err
	}
	id, err := f.caller(ctx, "users.update")
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].DisplayName = displayName
	f.users[id].AvatarURL = avatarURL
	return nil
}

func (f *fakeBackend) Ban(ctx context.Context, userID int64, reason string) error {
	if err := f.enter(ctx, "Ban"); err != nil {
		return err
	}
	if _, err := f.requireAdmin(ctx, "users.ban", false); err != nil {
		return err
	}
	if reason == "" {
		reason = "rules violation"
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return remoteError(http.StatusNotFound, "users.ban", "user not found")
	}
	user.IsBanned = true
	user.BanReason = reason
	return nil
}

func (f *fakeBackend) Unban(ctx context.Context, userID int64) error {
	if err := f.enter(ctx, "Unban"); err != nil {
		return err
	}
	if _, err := f.requireAdmin(ctx, "users.unban", false); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return remoteError(http.StatusNotFound, "users.unban", "user not found")
	}
	user.IsBanned = false
	user.BanReason = ""
	return nil
}

func (f *fakeBackend) SetRole(ctx context.Context, userID int64, role messaging.Role) error {
	if err := f.enter(ctx, "SetRole"); err != nil {
		return err
	}
	if _, err := f.requireAdmin(ctx, "users.set-role", true); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return remoteError(http.StatusNotFound, "users.set-role", "user not found")
	}
	user.Role = role
	return nil
}

func (f *fakeBackend) ListChats(ctx context.Context) ([]messaging.Chat, error) {
	if err := f.enter(ctx, "ListChats"); err != nil {
		return nil, err
	}
	id, err := f.caller(ctx, "chats.list")
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var visible []*fakeChat
	for _, chat := range f.chats {
		if chat.a != id && chat.b != id {
			continue
		}
		if f.hidden[chat.id] > 0 {
			f.hidden[chat.id]--
			continue
		}
		visible = append(visible, chat)
	}
	slices.SortFunc(visible, func(a, b *fakeChat) int { return b.updated.Compare(a.updated) })

	chats := make([]messaging.Chat, 0, len(visible))
	for _, chat := range visible {
		otherID := chat.a
		if otherID == id {
			otherID = chat.b
		}
		other := f.users[otherID]
		view := messaging.Chat{
			ID: chat.id,
			OtherParty: &messaging.Party{
				ID:          other.ID,
				Username:    other.Username,
				DisplayName: other.DisplayName,
				AvatarURL:   other.AvatarURL,
			},
			CreatedAt: messaging.Timestamp{Time: chat.created},
			UpdatedAt: messaging.Timestamp{Time: chat.updated},
		}
		if n := len(chat.messages); n > 0 {
			view.LastMessage = chat.messages[n-1].Content
			view.LastMessageTime = chat.messages[n-1].CreatedAt
		}
		chats = append(chats, view)
	}
	return chats, nil
}

func (f *fakeBackend) Contacts(ctx context.Context) ([]messaging.Contact, error) {
	if err := f.enter(ctx, "Contacts"); err != nil {
		return nil, err
	}
	id, err := f.caller(ctx, "chats.contacts")
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	contacts := slices.Clone(f.contacts[id])
	slices.Reverse(contacts)
	return contacts, nil
}

func (f *fakeBackend) chatForLocked(action string, chatID, callerID int64) (*fakeChat, error) {
	for _, chat := range f.chats {
		if chat.id != chatID {
			continue
		}
		if chat.a != callerID && chat.b != callerID {
			return nil, remoteError(http.StatusForbidden, action, "access denied")
		}
		return chat, nil
	}
	return nil, remoteError(http.StatusNotFound, action, "chat not found")
}

func (f *fakeBackend) Messages(ctx context.Context, chatID int64) ([]messaging.Message, error) {
	if err := f.enter(ctx, "Messages"); err != nil {
		return nil, err
	}
	id, err := f.caller(ctx, "chats.messages")
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	chat, err := f.chatForLocked("chats.messages", chatID, id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(chat.messages), nil
}

func (f *fakeBackend) CreateChat(ctx context.Context, userID int64) (*messaging.CreateChatResponse, error) {
	if err := f.enter(ctx, "CreateChat"); err != nil {
		return nil, err
	}
	id, err := f.caller(ctx, "chats.create")
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return nil, remoteError(http.StatusNotFound, "chats.create", "user not found")
	}
	for _, chat := range f.chats {
		if (chat.a == id && chat.b == userID) || (chat.a == userID && chat.b == id) {
			return &messaging.CreateChatResponse{ChatID: chat.id, Existed: true}, nil
		}
	}
	f.nextID++
	created := f.tick()
	chat := &fakeChat{id: f.nextID, a: id, b: userID, created: created, updated: created}
	f.chats = append(f.chats, chat)
	if f.hideCreated > 0 {
		f.hidden[chat.id] = f.hideCreated
	}
	return &messaging.CreateChatResponse{ChatID: chat.id}, nil
}

func (f *fakeBackend) SendMessage(ctx context.Context, chatID int64, content string) (*messaging.SendMessageResponse, error) {
	if err := f.enter(ctx, "SendMessage"); err != nil {
		return nil, err
	}
	id, err := f.caller(ctx, "chats.send")
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	chat, err := f.chatForLocked("chats.send", chatID, id)
	if err != nil {
		return nil, err
	}
	message := f.messageLocked(id, content)
	chat.messages = append(chat.messages, message)
	chat.updated = message.CreatedAt.Time
	return &messaging.SendMessageResponse{MessageID: message.ID, CreatedAt: message.CreatedAt}, nil
}

func (f *fakeBackend) AddContact(ctx context.Context, userID int64) error {
	if err := f.enter(ctx, "AddContact"); err != nil {
		return err
	}
	id, err := f.caller(ctx, "chats.add-contact")
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return remoteError(http.StatusNotFound, "chats.add-contact", "user not found")
	}
	for _, contact := range f.contacts[id] {
		if contact.ID == userID {
			return nil
		}
	}
	f.contacts[id] = append(f.contacts[id], messaging.Contact{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		AddedAt:     messaging.Timestamp{Time: f.tick()},
	})
	return nil
}

func (f *fakeBackend) UploadImage(ctx context.Context, image string) (string, error) {
	if err := f.enter(ctx, "UploadImage"); err != nil {
		return "", err
	}
	id, err := f.caller(ctx, "upload.image")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://cdn.example.com/avatars/%d.png", id), nil
}
