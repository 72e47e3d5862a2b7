// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the talk CLI.
//
// The central type is [Command], a named subcommand with optional nested
// [Command.Subcommands], a [pflag.FlagSet] factory and a Run function.
// The tree is assembled in cmd/talk/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing and
// help output with examples. Unknown subcommands and flags get a
// Levenshtein-distance suggestion (see suggest.go).
//
// Errors returned by commands are classified with [ToolError] and
// mapped to process exit codes by [ExitCode]. [Notifier] renders the
// chat core's user-facing notices on a terminal with lipgloss.
package cli
