// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Command talk is the terminal client for Talk Chat.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/talkchat/talkchat/cmd/talk/cli"
	"github.com/talkchat/talkchat/cmd/talk/commands"
)

func main() {
	if err := run(); err != nil {
		// Failures the chat core already showed as notices come back
		// as an *cli.ExitError; only the exit code is left to report.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root(commands.StandardStreams()).Execute(ctx, os.Args[1:])
}
