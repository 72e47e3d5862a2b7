// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/talkchat/talkchat/cmd/talk/cli"
	"github.com/talkchat/talkchat/messaging"
)

func profileCommand(streams Streams, globals *globalFlags) *cli.Command {
	var displayName, avatarURL string
	var flagSet *pflag.FlagSet
	return &cli.Command{
		Name:    "profile",
		Summary: "Change your display name or avatar URL",
		Description: `Change your display name and avatar URL. A flag left unset keeps the
current value; pass --avatar-url "" to remove the avatar.`,
		Usage: "talk profile [--display-name <name>] [--avatar-url <url>] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet = newFlagSet("profile", globals)
			flagSet.StringVar(&displayName, "display-name", "", "new display name")
			flagSet.StringVar(&avatarURL, "avatar-url", "", "new avatar URL")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "talk profile [flags]"); err != nil {
				return err
			}
			if !flagSet.Changed("display-name") && !flagSet.Changed("avatar-url") {
				return cli.Validation("nothing to change: pass --display-name or --avatar-url")
			}
			return withSession(ctx, streams, globals, func(env *environment) error {
				identity := env.core.Identity()
				name, url := identity.DisplayName, identity.AvatarURL
				if flagSet.Changed("display-name") {
					name = displayName
				}
				if flagSet.Changed("avatar-url") {
					url = avatarURL
				}
				if err := env.core.UpdateProfile(ctx, name, url); err != nil {
					return cli.Reported(err)
				}
				printIdentity(streams.Out, env.core.Identity())
				return nil
			})
		},
	}
}

func avatarCommand(streams Streams, globals *globalFlags) *cli.Command {
	return &cli.Command{
		Name:    "avatar",
		Summary: "Upload an image and make it your avatar",
		Description: `Upload an image file (at most 5 MB) and set it as your avatar. The
display name is kept.`,
		Usage: "talk avatar <image-file> [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("avatar", globals)
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "talk avatar <image-file> [flags]"); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return cli.Validation("reading image: %w", err)
			}
			image := messaging.EncodeImage(http.DetectContentType(data), data)

			return withSession(ctx, streams, globals, func(env *environment) error {
				url, err := env.core.UploadAvatar(ctx, image)
				if err != nil {
					return cli.Reported(err)
				}
				printf(streams, "%s\n", url)
				return nil
			})
		},
	}
}
