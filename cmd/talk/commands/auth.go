// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/talkchat/talkchat/chatsync"
	"github.com/talkchat/talkchat/cmd/talk/cli"
)

func loginCommand(streams Streams, globals *globalFlags) *cli.Command {
	var passwordFile string
	return &cli.Command{
		Name:    "login",
		Summary: "Sign in and store the session token",
		Description: `Sign in with a username and password.

The password is prompted for on the terminal unless --password-file is
given. On success the session token is stored and the chat list is
loaded to confirm the session works.`,
		Usage: "talk login <username> [flags]",
		Examples: []cli.Example{
			{Description: "Sign in interactively", Command: "talk login alice"},
			{Description: "Sign in from a script", Command: "talk login alice --password-file ~/.talk-password"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("login", globals)
			flagSet.StringVar(&passwordFile, "password-file", "", "file containing the password, or - to prompt (default: prompt)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "talk login <username> [flags]"); err != nil {
				return err
			}
			password, err := cli.ReadPassword(passwordFile, streams.Err)
			if err != nil {
				return err
			}
			defer password.Close()

			return withEnvironment(streams, globals, func(env *environment) error {
				return cli.Reported(env.core.Login(ctx, args[0], password.String()))
			})
		},
	}
}

func sendCodeCommand(streams Streams, globals *globalFlags) *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "send-code",
		Summary: "Email a registration code",
		Description: `Ask the backend to email a verification code for "talk register".

Backends running without outbound mail return the code directly; it is
then printed.`,
		Usage: "talk send-code <email> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("send-code", globals)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "talk send-code <email> [flags]"); err != nil {
				return err
			}
			return withEnvironment(streams, globals, func(env *environment) error {
				code, err := env.core.SendCode(ctx, args[0])
				if err != nil {
					return cli.Reported(err)
				}
				if done, err := output.EmitJSON(streams.Out, map[string]string{"code": code}); done {
					return err
				}
				if code != "" {
					printf(streams, "%s\n", code)
				}
				return nil
			})
		},
	}
}

func registerCommand(streams Streams, globals *globalFlags) *cli.Command {
	var form chatsync.RegisterForm
	var passwordFile string
	return &cli.Command{
		Name:    "register",
		Summary: "Create an account",
		Description: `Create an account with the code from "talk send-code" and sign in.

Usernames are 3 to 50 characters of a-z, 0-9 and underscore; passwords
are at least 6 characters.`,
		Usage: "talk register --email <email> --code <code> --username <name> --display-name <name> [flags]",
		Examples: []cli.Example{
			{
				Description: "Register after requesting a code",
				Command:     "talk register --email carol@example.com --code 123456 --username carol --display-name Carol",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("register", globals)
			flagSet.StringVar(&form.Email, "email", "", "email address the code was sent to")
			flagSet.StringVar(&form.Code, "code", "", "verification code")
			flagSet.StringVar(&form.Username, "username", "", "username")
			flagSet.StringVar(&form.DisplayName, "display-name", "", "display name")
			flagSet.StringVar(&passwordFile, "password-file", "", "file containing the password, or - to prompt (default: prompt)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "talk register [flags]"); err != nil {
				return err
			}
			password, err := cli.ReadPassword(passwordFile, streams.Err)
			if err != nil {
				return err
			}
			defer password.Close()

			return withEnvironment(streams, globals, func(env *environment) error {
				request := form
				request.Password = password.String()
				return cli.Reported(env.core.Register(ctx, request))
			})
		},
	}
}

func logoutCommand(streams Streams, globals *globalFlags) *cli.Command {
	return &cli.Command{
		Name:    "logout",
		Summary: "Forget the stored session token",
		Usage:   "talk logout [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("logout", globals)
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "talk logout [flags]"); err != nil {
				return err
			}
			return withEnvironment(streams, globals, func(env *environment) error {
				if err := env.core.Logout(ctx); err != nil {
					return cli.Internal("%w", err)
				}
				if !globals.Quiet {
					fmt.Fprintln(streams.Err, "Signed out.")
				}
				return nil
			})
		},
	}
}

func whoamiCommand(streams Streams, globals *globalFlags) *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the signed-in identity",
		Usage:   "talk whoami [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("whoami", globals)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "talk whoami [flags]"); err != nil {
				return err
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				identity := env.core.Identity()
				if done, err := output.EmitJSON(streams.Out, identity); done {
					return err
				}
				printIdentity(streams.Out, identity)
				return nil
			})
		},
	}
}
