// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/talkchat/talkchat/messaging"
)

const timeLayout = "2006-01-02 15:04"

func formatTime(t messaging.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
}

func printChats(w io.Writer, chats []messaging.Chat) {
	if len(chats) == 0 {
		fmt.Fprintln(w, "No chats.")
		return
	}
	table := newTable(w)
	fmt.Fprintln(table, "ID\tWITH\tLAST MESSAGE\tUPDATED")
	for _, chat := range chats {
		fmt.Fprintf(table, "%d\t%s\t%s\t%s\n", chat.ID, chat.Title(), truncate(chat.LastMessage, 40), formatTime(chat.UpdatedAt))
	}
	table.Flush()
}

func printContacts(w io.Writer, contacts []messaging.Contact) {
	if len(contacts) == 0 {
		fmt.Fprintln(w, "No contacts.")
		return
	}
	table := newTable(w)
	fmt.Fprintln(table, "ID\tUSERNAME\tNAME\tADDED")
	for _, contact := range contacts {
		fmt.Fprintf(table, "%d\t%s\t%s\t%s\n", contact.ID, contact.Username, contact.DisplayName, formatTime(contact.AddedAt))
	}
	table.Flush()
}

func printUsers(w io.Writer, users []messaging.Identity, detailed bool) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	table := newTable(w)
	if detailed {
		fmt.Fprintln(table, "ID\tUSERNAME\tNAME\tROLE\tBANNED\tREASON")
	} else {
		fmt.Fprintln(table, "ID\tUSERNAME\tNAME\tROLE")
	}
	for _, user := range users {
		if detailed {
			banned := "no"
			if user.IsBanned {
				banned = "yes"
			}
			fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%s\t%s\n", user.ID, user.Username, user.DisplayName, user.Role.Name(), banned, user.BanReason)
		} else {
			fmt.Fprintf(table, "%d\t%s\t%s\t%s\n", user.ID, user.Username, user.DisplayName, user.Role.Name())
		}
	}
	table.Flush()
}

// printConversation writes a chat header and its messages, oldest
// first, with the sender's name in bold on a terminal.
func printConversation(w io.Writer, chat *messaging.Chat, messages []messaging.Message) {
	renderer := lipgloss.NewRenderer(w)
	header := renderer.NewStyle().Bold(true).Underline(true)
	sender := renderer.NewStyle().Bold(true)
	timestamp := renderer.NewStyle().Faint(true)

	if chat != nil {
		fmt.Fprintln(w, header.Render(fmt.Sprintf("%s (chat %d)", chat.Title(), chat.ID)))
	}
	if len(messages) == 0 {
		fmt.Fprintln(w, "No messages yet.")
		return
	}
	for _, message := range messages {
		name := message.Sender.DisplayName
		if name == "" {
			name = message.Sender.Username
		}
		fmt.Fprintf(w, "%s %s: %s\n", timestamp.Render(formatTime(message.CreatedAt)), sender.Render(name), message.Content)
	}
}

func printIdentity(w io.Writer, identity *messaging.Identity) {
	table := newTable(w)
	fmt.Fprintf(table, "ID:\t%d\n", identity.ID)
	fmt.Fprintf(table, "Username:\t%s\n", identity.Username)
	fmt.Fprintf(table, "Name:\t%s\n", identity.DisplayName)
	if identity.Email != "" {
		fmt.Fprintf(table, "Email:\t%s\n", identity.Email)
	}
	if identity.AvatarURL != "" {
		fmt.Fprintf(table, "Avatar:\t%s\n", identity.AvatarURL)
	}
	fmt.Fprintf(table, "Role:\t%s\n", identity.Role.Name())
	fmt.Fprintf(table, "Since:\t%s\n", formatTime(identity.CreatedAt))
	table.Flush()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
