// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/talkchat/talkchat/chatsync"
	"github.com/talkchat/talkchat/cmd/talk/cli"
	"github.com/talkchat/talkchat/messaging"
)

func adminCommand(streams Streams, globals *globalFlags) *cli.Command {
	return &cli.Command{
		Name:    "admin",
		Summary: "Moderate users (owners and administrators)",
		Description: `Moderation commands. Listing, banning and unbanning users needs the
owner or administrator role; changing roles needs the owner role.`,
		Subcommands: []*cli.Command{
			adminUsersCommand(streams, globals),
			adminBanCommand(streams, globals),
			adminUnbanCommand(streams, globals),
			adminSetRoleCommand(streams, globals),
		},
	}
}

func adminUsersCommand(streams Streams, globals *globalFlags) *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "users",
		Summary: "List all users with role and ban status",
		Usage:   "talk admin users [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("users", globals)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "talk admin users [flags]"); err != nil {
				return err
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				if !chatsync.CanAdminister(env.core.Identity()) {
					return cli.Forbidden("listing users needs the owner or administrator role")
				}
				users := env.core.AdminUsers()
				if done, err := output.EmitJSON(streams.Out, users); done {
					return err
				}
				printUsers(streams.Out, users, true)
				return nil
			})
		},
	}
}

func adminBanCommand(streams Streams, globals *globalFlags) *cli.Command {
	var reason string
	return &cli.Command{
		Name:    "ban",
		Summary: "Ban a user",
		Usage:   "talk admin ban <user-id> [--reason <text>] [flags]",
		Examples: []cli.Example{
			{Description: "Ban user 7 for spam", Command: "talk admin ban 7 --reason spam"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("ban", globals)
			flagSet.StringVar(&reason, "reason", "", "reason shown to the user (server default when empty)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "talk admin ban <user-id> [flags]"); err != nil {
				return err
			}
			userID, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				return cli.Reported(env.core.Ban(ctx, userID, reason))
			})
		},
	}
}

func adminUnbanCommand(streams Streams, globals *globalFlags) *cli.Command {
	return &cli.Command{
		Name:    "unban",
		Summary: "Lift a user's ban",
		Usage:   "talk admin unban <user-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("unban", globals)
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "talk admin unban <user-id> [flags]"); err != nil {
				return err
			}
			userID, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				return cli.Reported(env.core.Unban(ctx, userID))
			})
		},
	}
}

func adminSetRoleCommand(streams Streams, globals *globalFlags) *cli.Command {
	return &cli.Command{
		Name:    "set-role",
		Summary: "Change a user's role (owner only)",
		Description: `Change a user's role. The role is one of owner, admin, vip or member
(the backend's own role names are accepted too).`,
		Usage: "talk admin set-role <user-id> <role> [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("set-role", globals)
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 2, "talk admin set-role <user-id> <role> [flags]"); err != nil {
				return err
			}
			userID, err := parseID("user", args[0])
			if err != nil {
				return err
			}
			role, err := messaging.ParseRole(args[1])
			if err != nil {
				return cli.Validation("%w", err)
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				return cli.Reported(env.core.SetRole(ctx, userID, role))
			})
		},
	}
}
