// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/talkchat/talkchat/chatsync"
	"github.com/talkchat/talkchat/cmd/talk/cli"
)

func chatsCommand(streams Streams, globals *globalFlags) *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "chats",
		Summary: "List chats, most recently active first",
		Usage:   "talk chats [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("chats", globals)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "talk chats [flags]"); err != nil {
				return err
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				chats := env.core.Chats()
				if done, err := output.EmitJSON(streams.Out, chats); done {
					return err
				}
				printChats(streams.Out, chats)
				return nil
			})
		},
	}
}

func contactsCommand(streams Streams, globals *globalFlags) *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "contacts",
		Summary: "List contacts, most recently added first",
		Usage:   "talk contacts [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("contacts", globals)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "talk contacts [flags]"); err != nil {
				return err
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				contacts := env.core.Contacts()
				if done, err := output.EmitJSON(streams.Out, contacts); done {
					return err
				}
				printContacts(streams.Out, contacts)
				return nil
			})
		},
	}
}

// selectChat selects chatID and reports a failed message load as an
// error; the core only degrades it to an empty list.
func selectChat(ctx context.Context, env *environment, chatID int64) error {
	err := env.core.SelectChatByID(ctx, chatID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, chatsync.ErrUnknownChat):
		return cli.NotFound("chat %d is not in your chat list", chatID).
			WithHint("Run 'talk chats' to list your chats, or 'talk open <user-id>' to start one.")
	default:
		return refreshError(err)
	}
}

// refreshError converts a failed refresh into a command error. The core
// only logs refresh failures, except a rejected session, which it has
// already announced.
func refreshError(err error) error {
	if errors.Is(err, chatsync.ErrSessionRejected) {
		return cli.Reported(err)
	}
	return &cli.ToolError{Category: cli.Categorize(err), Err: err}
}

func messagesCommand(streams Streams, globals *globalFlags) *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "messages",
		Summary: "Show the messages of a chat",
		Usage:   "talk messages <chat-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("messages", globals)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "talk messages <chat-id> [flags]"); err != nil {
				return err
			}
			chatID, err := parseID("chat", args[0])
			if err != nil {
				return err
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				if err := selectChat(ctx, env, chatID); err != nil {
					return err
				}
				messages := env.core.Messages()
				if done, err := output.EmitJSON(streams.Out, messages); done {
					return err
				}
				printConversation(streams.Out, env.core.SelectedChat(), messages)
				return nil
			})
		},
	}
}

func sendCommand(streams Streams, globals *globalFlags) *cli.Command {
	var show bool
	return &cli.Command{
		Name:    "send",
		Summary: "Send a message to a chat",
		Description: `Send a message to a chat. All arguments after the chat id are joined
with spaces. A blank message is not sent.`,
		Usage: "talk send <chat-id> <message...> [flags]",
		Examples: []cli.Example{
			{Description: "Say hello in chat 12", Command: "talk send 12 hello there"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("send", globals)
			flagSet.BoolVar(&show, "show", false, "print the conversation after sending")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return cli.Validation("missing argument\n\nUsage: talk send <chat-id> <message...> [flags]")
			}
			chatID, err := parseID("chat", args[0])
			if err != nil {
				return err
			}
			content := strings.Join(args[1:], " ")
			if strings.TrimSpace(content) == "" {
				return cli.Validation("message is empty")
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				if err := selectChat(ctx, env, chatID); err != nil {
					return err
				}
				if err := env.core.Send(ctx, content); err != nil {
					return cli.Reported(err)
				}
				if show {
					printConversation(streams.Out, env.core.SelectedChat(), env.core.Messages())
				}
				return nil
			})
		},
	}
}

func openCommand(streams Streams, globals *globalFlags) *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "open",
		Summary: "Open (or create) the chat with a user",
		Description: `Open the one-to-one chat with a user, creating it if it does not
exist yet, and show its messages. Find user ids with "talk search".`,
		Usage: "talk open <user-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("open", globals)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "talk open <user-id> [flags]"); err != nil {
				return err
			}
			userID, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				chat, err := env.core.OpenChatWith(ctx, userID)
				if err != nil {
					return cli.Reported(err)
				}
				if done, err := output.EmitJSON(streams.Out, chat); done {
					return err
				}
				printConversation(streams.Out, chat, env.core.Messages())
				return nil
			})
		},
	}
}

func addContactCommand(streams Streams, globals *globalFlags) *cli.Command {
	return &cli.Command{
		Name:    "add-contact",
		Summary: "Add a user to your contacts",
		Usage:   "talk add-contact <user-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("add-contact", globals)
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "talk add-contact <user-id> [flags]"); err != nil {
				return err
			}
			userID, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				return cli.Reported(env.core.AddContact(ctx, userID))
			})
		},
	}
}

func searchCommand(streams Streams, globals *globalFlags) *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "search",
		Summary: "Find users by username or display name",
		Usage:   "talk search <query> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("search", globals)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return cli.Validation("missing argument\n\nUsage: talk search <query> [flags]")
			}
			query := strings.Join(args, " ")
			if len([]rune(strings.TrimSpace(query))) < chatsync.MinSearchLength {
				return cli.Validation("search query must be at least %d characters", chatsync.MinSearchLength)
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				if err := env.core.Search(ctx, query); err != nil {
					return refreshError(err)
				}
				results := env.core.SearchResults()
				if done, err := output.EmitJSON(streams.Out, results); done {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintf(streams.Out, "No users match %q.\n", query)
					return nil
				}
				printUsers(streams.Out, results, false)
				return nil
			})
		},
	}
}
