// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"net/http"
	"testing"
)

func TestListChats(t *testing.T) {
	client := newTestClient(t, staticToken("tok"), func(writer http.ResponseWriter, request *http.Request) {
		expectRequest(t, request, http.MethodGet, "/chats", "list")
		writeJSON(t, writer, http.StatusOK, map[string]any{"chats": []map[string]any{
			{
				"id":                10,
				"created_at":        "2026-02-01T10:00:00",
				"updated_at":        "2026-02-02T11:00:00",
				"other_user":        map[string]any{"id": 2, "username": "bob", "display_name": "Bob", "avatar_url": nil},
				"last_message":      "see you",
				"last_message_time": "2026-02-02T11:00:00",
			},
			{
				"id":                11,
				"other_user":        nil,
				"last_message":      nil,
				"last_message_time": nil,
			},
		}})
	})
	chats, err := client.ListChats(context.Background())
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("len(chats) = %d", len(chats))
	}
	if chats[0].OtherParty == nil || chats[0].OtherParty.Username != "bob" || chats[0].Title() != "Bob" {
		t.Errorf("unexpected first chat: %+v", chats[0])
	}
	if chats[1].OtherParty != nil || !chats[1].LastMessageTime.IsZero() {
		t.Errorf("unexpected second chat: %+v", chats[1])
	}
	if chats[1].Title() != "chat 11" {
		t.Errorf("Title() = %q", chats[1].Title())
	}
}

func TestContacts(t *testing.T) {
	client := newTestClient(t, staticToken("tok"), func(writer http.ResponseWriter, request *http.Request) {
		expectRequest(t, request, http.MethodGet, "/chats", "contacts")
		writeJSON(t, writer, http.StatusOK, map[string]any{"contacts": []map[string]any{
			{"id": 4, "username": "dave", "display_name": "Dave", "added_at": "2026-03-01T08:00:00"},
		}})
	})
	contacts, err := client.Contacts(context.Background())
	if err != nil {
		t.Fatalf("Contacts: %v", err)
	}
	if len(contacts) != 1 || contacts[0].AddedAt.Month() != 3 {
		t.Errorf("unexpected contacts: %+v", contacts)
	}
}

func TestMessages(t *testing.T) {
	client := newTestClient(t, staticToken("tok"), func(writer http.ResponseWriter, request *http.Request) {
		expectRequest(t, request, http.MethodGet, "/chats", "messages")
		if got := request.URL.Query().Get("chat_id"); got != "42" {
			t.Errorf("chat_id = %q", got)
		}
		writeJSON(t, writer, http.StatusOK, map[string]any{"messages": []map[string]any{
			{"id": 2, "content": "second", "sender_id": 1, "created_at": "2026-03-01T08:00:01",
				"sender": map[string]any{"username": "a", "display_name": "A"}},
			{"id": 1, "content": "first", "sender_id": 2, "created_at": "2026-03-01T08:00:00",
				"sender": map[string]any{"username": "b", "display_name": "B"}},
		}})
	})
	messages, err := client.Messages(context.Background(), 42)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(messages) != 2 || messages[0].ID != 2 || messages[1].ID != 1 {
		t.Errorf("server order not preserved: %+v", messages)
	}
	if messages[0].Sender.DisplayName != "A" {
		t.Errorf("sender = %+v", messages[0].Sender)
	}
}

func TestCreateChat(t *testing.T) {
	client := newTestClient(t, staticToken("tok"), func(writer http.ResponseWriter, request *http.Request) {
		expectRequest(t, request, http.MethodPost, "/chats", "create")
		if body := decodeBody(t, request); body["user_id"] != float64(9) {
			t.Errorf("unexpected body: %v", body)
		}
		writeJSON(t, writer, http.StatusOK, map[string]any{"chat_id": 55, "existed": true})
	})
	response, err := client.CreateChat(context.Background(), 9)
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if response.ChatID != 55 || !response.Existed {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestSendMessage(t *testing.T) {
	client := newTestClient(t, staticToken("tok"), func(writer http.ResponseWriter, request *http.Request) {
		expectRequest(t, request, http.MethodPost, "/chats", "send")
		body := decodeBody(t, request)
		if body["chat_id"] != float64(55) || body["content"] != "hello" {
			t.Errorf("unexpected body: %v", body)
		}
		writeJSON(t, writer, http.StatusOK, map[string]any{"message_id": 900, "created_at": "2026-03-01T08:00:00.5"})
	})
	response, err := client.SendMessage(context.Background(), 55, "hello")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if response.MessageID != 900 || response.CreatedAt.IsZero() {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestAddContact(t *testing.T) {
	client := newTestClient(t, staticToken("tok"), func(writer http.ResponseWriter, request *http.Request) {
		expectRequest(t, request, http.MethodPost, "/chats", "add-contact")
		if body := decodeBody(t, request); body["user_id"] != float64(4) {
			t.Errorf("unexpected body: %v", body)
		}
		writeJSON(t, writer, http.StatusOK, map[string]string{"message": "Контакт уже добавлен"})
	})
	if err := client.AddContact(context.Background(), 4); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
}
