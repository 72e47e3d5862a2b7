// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/talkchat/talkchat/cmd/talk/cli"
	"github.com/talkchat/talkchat/lib/codec"
	"github.com/talkchat/talkchat/lib/secret"
	"github.com/talkchat/talkchat/lib/tokenstore"
)

type statusOutput struct {
	Environment      string     `json:"environment"`
	AuthEndpoint     string     `json:"auth_endpoint"`
	CredentialStore  string     `json:"credential_store"`
	CredentialPath   string     `json:"credential_path,omitempty"`
	SignedIn         bool       `json:"signed_in"`
	TokenFingerprint string     `json:"token_fingerprint,omitempty"`
	SavedAt          *time.Time `json:"saved_at,omitempty"`
}

func statusCommand(streams Streams, globals *globalFlags) *cli.Command {
	var output cli.JSONOutput
	var dumpRecord bool
	return &cli.Command{
		Name:    "status",
		Summary: "Show local configuration and stored session",
		Description: `Show which configuration and credential store are in use and whether
a session token is stored. No request is sent to the backend; use
"talk whoami" to check that the token is still accepted.

The token itself is never printed, only a short fingerprint.`,
		Usage: "talk status [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := newFlagSet("status", globals)
			output.AddFlag(flagSet)
			flagSet.BoolVar(&dumpRecord, "cbor", false, "print the stored record in CBOR diagnostic notation (sqlite store only)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "talk status [flags]"); err != nil {
				return err
			}
			return withEnvironment(streams, globals, func(env *environment) error {
				if dumpRecord {
					return printRawRecord(ctx, env)
				}

				status := statusOutput{
					Environment:     string(env.config.Environment),
					AuthEndpoint:    env.config.Endpoints.Auth,
					CredentialStore: env.config.Credentials.Backend,
					CredentialPath:  env.config.Credentials.Path,
				}
				token, err := env.tokens.Token(ctx)
				if err != nil {
					return cli.Internal("reading stored token: %w", err)
				}
				status.SignedIn = token != ""
				if status.SignedIn {
					status.TokenFingerprint = secret.Fingerprint(token)
				}
				if recorder, ok := env.tokens.(tokenstore.Recorder); ok && status.SignedIn {
					record, err := recorder.Record(ctx)
					if err != nil {
						return cli.Internal("reading stored record: %w", err)
					}
					if record != nil && !record.SavedAt.IsZero() {
						savedAt := record.SavedAt.Local()
						status.SavedAt = &savedAt
					}
				}

				if done, err := output.EmitJSON(streams.Out, status); done {
					return err
				}
				table := newTable(streams.Out)
				fmt.Fprintf(table, "Environment:\t%s\n", status.Environment)
				fmt.Fprintf(table, "Auth endpoint:\t%s\n", status.AuthEndpoint)
				fmt.Fprintf(table, "Credential store:\t%s\n", status.CredentialStore)
				if status.CredentialPath != "" {
					fmt.Fprintf(table, "Credential path:\t%s\n", status.CredentialPath)
				}
				if status.SignedIn {
					fmt.Fprintf(table, "Token:\t%s\n", status.TokenFingerprint)
				} else {
					fmt.Fprintf(table, "Token:\tnone (run 'talk login <username>')\n")
				}
				if status.SavedAt != nil {
					fmt.Fprintf(table, "Saved:\t%s\n", status.SavedAt.Format(timeLayout))
				}
				return table.Flush()
			})
		},
	}
}

// printRawRecord prints the stored CBOR record in diagnostic notation
// with the token replaced by its fingerprint.
func printRawRecord(ctx context.Context, env *environment) error {
	store, ok := env.tokens.(*tokenstore.SQLite)
	if !ok {
		return cli.Validation("--cbor needs the sqlite credential store (configured: %s)", env.config.Credentials.Backend)
	}
	raw, err := store.RawRecord(ctx)
	if err != nil {
		return cli.Internal("reading stored record: %w", err)
	}
	if raw == nil {
		return cli.NotFound("no stored record")
	}

	var fields map[string]any
	if err := codec.Unmarshal(raw, &fields); err != nil {
		return cli.Internal("decoding stored record: %w", err)
	}
	if token, ok := fields[tokenstore.Key].(string); ok {
		fields[tokenstore.Key] = "blake3:" + secret.Fingerprint(token)
	}
	redacted, err := codec.Marshal(fields)
	if err != nil {
		return cli.Internal("encoding stored record: %w", err)
	}
	diagnostic, err := codec.Diagnose(redacted)
	if err != nil {
		return cli.Internal("decoding stored record: %w", err)
	}
	printf(env.streams, "%s\n", diagnostic)
	return nil
}
