// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the talk CLI command tree. Every command that
// talks to the backend opens an [environment] from the configuration
// file, resolves the stored session through the chat core and then
// performs one operation.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/talkchat/talkchat/cmd/talk/cli"
	"github.com/talkchat/talkchat/lib/version"
)

// Streams are the output destinations of the command tree: Out for
// results, Err for notices, logs and help.
type Streams struct {
	Out io.Writer
	Err io.Writer
}

// StandardStreams writes to the process's stdout and stderr.
func StandardStreams() Streams {
	return Streams{Out: os.Stdout, Err: os.Stderr}
}

// Root builds the complete talk command tree.
func Root(streams Streams) *cli.Command {
	globals := &globalFlags{}
	return &cli.Command{
		Name: "talk",
		Description: `talk: terminal client for Talk Chat.

Sign in once with "talk login"; the session token is stored according
to the credentials section of the configuration file and reused by
every later command until "talk logout".

The configuration file is read from --config or $TALK_CONFIG.`,
		HelpOutput: streams.Err,
		Subcommands: []*cli.Command{
			loginCommand(streams, globals),
			sendCodeCommand(streams, globals),
			registerCommand(streams, globals),
			logoutCommand(streams, globals),
			whoamiCommand(streams, globals),
			statusCommand(streams, globals),
			chatsCommand(streams, globals),
			contactsCommand(streams, globals),
			messagesCommand(streams, globals),
			sendCommand(streams, globals),
			openCommand(streams, globals),
			addContactCommand(streams, globals),
			searchCommand(streams, globals),
			profileCommand(streams, globals),
			avatarCommand(streams, globals),
			adminCommand(streams, globals),
			versionCommand(streams),
		},
	}
}

func versionCommand(streams Streams) *cli.Command {
	var output cli.JSONOutput
	return &cli.Command{
		Name:    "version",
		Summary: "Print the talk version",
		Usage:   "talk version [--json]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			output.AddFlag(flagSet)
			return flagSet
		},
		Run: func(_ context.Context, args []string) error {
			if err := requireArgs(args, 0, "talk version [--json]"); err != nil {
				return err
			}
			build := version.Current()
			if done, err := output.EmitJSON(streams.Out, build); done {
				return err
			}
			fmt.Fprintf(streams.Out, "talk %s\n  Go: %s\n  Platform: %s\n", build, build.Go, build.Platform)
			return nil
		},
	}
}
