// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package chatsync

import (
	"slices"

	"github.com/talkchat/talkchat/messaging"
)

// State is the session lifecycle state.
type State int

const (
	// StateUnauthenticated means no identity is known. The presentation
	// layer should run the sign-in flow.
	StateUnauthenticated State = iota
	// StateResolving means a token is stored and the identity it belongs
	// to is being fetched.
	StateResolving
	// StateAuthenticated means the identity is known and the directory
	// may be loaded.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of everything the core tracks. Slices
// are copies; the caller may keep them.
type Snapshot struct {
	State    State
	Identity *messaging.Identity

	Chats      []messaging.Chat
	Contacts   []messaging.Contact
	AdminUsers []messaging.Identity

	SearchQuery   string
	SearchResults []messaging.Identity

	SelectedChat *messaging.Chat
	Messages     []messaging.Message
	Draft        string
}

// session is the per-identity state. Everything in it is discarded at
// teardown.
type session struct {
	identity *messaging.Identity

	chats      []messaging.Chat
	contacts   []messaging.Contact
	adminUsers []messaging.Identity

	searchQuery      string
	searchResults    []messaging.Identity
	searchGeneration uint64
	searchCancel     func()

	selected          *messaging.Chat
	messages          []messaging.Message
	messageGeneration uint64
	draft             string
}

func (s *session) snapshot(state State) Snapshot {
	snapshot := Snapshot{
		State:         state,
		Chats:         slices.Clone(s.chats),
		Contacts:      slices.Clone(s.contacts),
		AdminUsers:    slices.Clone(s.adminUsers),
		SearchQuery:   s.searchQuery,
		SearchResults: slices.Clone(s.searchResults),
		Messages:      slices.Clone(s.messages),
		Draft:         s.draft,
	}
	if s.identity != nil {
		identity := *s.identity
		snapshot.Identity = &identity
	}
	if s.selected != nil {
		selected := *s.selected
		snapshot.SelectedChat = &selected
	}
	return snapshot
}

// findChat returns the chat with id from the last fetched list.
func (s *session) findChat(id int64) (messaging.Chat, bool) {
	for _, chat := range s.chats {
		if chat.ID == id {
			return chat, true
		}
	}
	return messaging.Chat{}, false
}

// findParty looks userID up in every list that carries user details:
// search results, contacts, the admin list and existing chats.
func (s *session) findParty(userID int64) (messaging.Party, bool) {
	for _, user := range s.searchResults {
		if user.ID == userID {
			return messaging.Party{ID: user.ID, Username: user.Username, DisplayName: user.DisplayName, AvatarURL: user.AvatarURL}, true
		}
	}
	for _, contact := range s.contacts {
		if contact.ID == userID {
			return messaging.Party{ID: contact.ID, Username: contact.Username, DisplayName: contact.DisplayName, AvatarURL: contact.AvatarURL}, true
		}
	}
	for _, user := range s.adminUsers {
		if user.ID == userID {
			return messaging.Party{ID: user.ID, Username: user.Username, DisplayName: user.DisplayName, AvatarURL: user.AvatarURL}, true
		}
	}
	for _, chat := range s.chats {
		if chat.OtherParty != nil && chat.OtherParty.ID == userID {
			return *chat.OtherParty, true
		}
	}
	return messaging.Party{}, false
}
