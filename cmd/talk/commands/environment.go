// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/talkchat/talkchat/chatsync"
	"github.com/talkchat/talkchat/cmd/talk/cli"
	"github.com/talkchat/talkchat/lib/clock"
	"github.com/talkchat/talkchat/lib/config"
	"github.com/talkchat/talkchat/lib/tokenstore"
	"github.com/talkchat/talkchat/lib/version"
	"github.com/talkchat/talkchat/messaging"
)

// globalFlags are accepted by every leaf command.
type globalFlags struct {
	ConfigPath string
	Quiet      bool
}

func (g *globalFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&g.ConfigPath, "config", "", "path to talk.yaml (default: $"+config.EnvVar+")")
	flagSet.BoolVarP(&g.Quiet, "quiet", "q", false, "suppress info and success notices")
}

// newFlagSet returns a flag set with the global flags registered.
func newFlagSet(name string, globals *globalFlags) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	globals.register(flagSet)
	return flagSet
}

// environment is everything a command needs to talk to the backend.
type environment struct {
	config  *config.Config
	logger  *slog.Logger
	tokens  tokenstore.Store
	client  *messaging.Client
	core    *chatsync.Core
	streams Streams
	closers []func() error
}

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("loading configuration: %w", err).
			WithHint("Pass --config <path> or set $" + config.EnvVar + ".")
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openTokenStore builds the credential store the configuration names.
// The returned close function releases it.
func openTokenStore(cfg *config.Config, logger *slog.Logger) (tokenstore.Store, func() error, error) {
	switch cfg.Credentials.Backend {
	case config.BackendMemory:
		store := tokenstore.NewMemory()
		return store, store.Close, nil
	case config.BackendFile:
		return tokenstore.NewFile(cfg.Credentials.Path, clock.Real()), func() error { return nil }, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Credentials.Path), 0o700); err != nil {
			return nil, nil, cli.Internal("creating credentials directory: %w", err)
		}
		store, err := tokenstore.OpenSQLite(tokenstore.SQLiteConfig{
			Path:   cfg.Credentials.Path,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, cli.Internal("opening credentials database: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, cli.Validation("unknown credentials backend %q", cfg.Credentials.Backend)
	}
}

func openEnvironment(streams Streams, globals *globalFlags) (*environment, error) {
	cfg, err := loadConfig(globals.ConfigPath)
	if err != nil {
		return nil, err
	}

	logger := cli.NewCommandLogger(streams.Err, cfg.LogLevel()).With(
		"environment", string(cfg.Environment),
	)

	tokens, closeTokens, err := openTokenStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	env := &environment{
		config:  cfg,
		logger:  logger,
		tokens:  tokens,
		streams: streams,
		closers: []func() error{closeTokens},
	}

	env.client, err = messaging.NewClient(messaging.ClientConfig{
		Endpoints: messaging.Endpoints{
			Auth:   cfg.Endpoints.Auth,
			Users:  cfg.Endpoints.Users,
			Chats:  cfg.Endpoints.Chats,
			Upload: cfg.Endpoints.Upload,
		},
		Logger:         logger,
		Tokens:         tokens,
		AuthHeader:     cfg.Client.AuthHeader,
		RequestTimeout: cfg.Timeout(),
		UserAgent:      version.UserAgent(),
	})
	if err != nil {
		env.Close()
		return nil, cli.Validation("creating backend client: %w", err)
	}

	env.core, err = chatsync.New(chatsync.Config{
		Gateway:  env.client,
		Tokens:   tokens,
		Notifier: cli.NewNotifier(streams.Err, globals.Quiet),
		Logger:   logger,
	})
	if err != nil {
		env.Close()
		return nil, cli.Internal("creating chat core: %w", err)
	}
	return env, nil
}

// Close releases the core, idle connections and the token store.
func (e *environment) Close() {
	if e.core != nil {
		e.core.Close()
	}
	if e.client != nil {
		e.client.CloseIdleConnections()
	}
	for _, closeFunc := range e.closers {
		if err := closeFunc(); err != nil {
			e.logger.Warn("closing environment", "error", err)
		}
	}
}

// signIn resolves the stored session and loads the directory. Failures
// have already been shown to the user by the core's notifier.
func (e *environment) signIn(ctx context.Context) error {
	if err := e.core.Start(ctx); err != nil {
		if errors.Is(err, chatsync.ErrSessionRejected) || messaging.IsNetworkError(err) || errors.Is(err, chatsync.ErrNotAuthenticated) {
			return cli.Reported(err)
		}
		return cli.Internal("resolving session: %w", err)
	}
	if e.core.NeedsAuthentication() {
		return cli.Reported(chatsync.ErrNotAuthenticated)
	}
	return nil
}

// withSession opens the environment, signs in and runs fn.
func withSession(ctx context.Context, streams Streams, globals *globalFlags, fn func(*environment) error) error {
	env, err := openEnvironment(streams, globals)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.signIn(ctx); err != nil {
		return err
	}
	return fn(env)
}

// withEnvironment opens the environment without signing in.
func withEnvironment(streams Streams, globals *globalFlags, fn func(*environment) error) error {
	env, err := openEnvironment(streams, globals)
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(env)
}

func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Validation("invalid %s id %q: must be a positive integer", kind, arg)
	}
	return id, nil
}

func requireArgs(args []string, want int, usage string) error {
	if len(args) < want {
		return cli.Validation("missing argument\n\nUsage: %s", usage)
	}
	if len(args) > want {
		return cli.Validation("unexpected argument: %s\n\nUsage: %s", args[want], usage)
	}
	return nil
}

func printf(streams Streams, format string, args ...any) {
	fmt.Fprintf(streams.Out, format, args...)
}
