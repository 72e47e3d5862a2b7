// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package tokenstore

import (
	"context"
	"time"
)

// Key is the name the token is persisted under.
const Key = "auth_token"

// Store is the credential store adapter: get, set and clear one token.
// Implementations are safe for concurrent use.
type Store interface {
	// Token returns the stored token, or "" when none is stored.
	Token(ctx context.Context) (string, error)

	// SetToken replaces the stored token. An empty token is rejected;
	// use ClearToken.
	SetToken(ctx context.Context, token string) error

	// ClearToken removes the stored token. Clearing an empty store
	// succeeds.
	ClearToken(ctx context.Context) error
}

// Record is the persisted form of a token in the file and sqlite
// backends.
type Record struct {
	Token   string    `json:"auth_token" cbor:"auth_token"`
	SavedAt time.Time `json:"saved_at" cbor:"saved_at"`
}

// Recorder is implemented by stores that persist a [Record].
type Recorder interface {
	Record(ctx context.Context) (*Record, error)
}

var (
	_ Recorder = (*File)(nil)
	_ Recorder = (*SQLite)(nil)
)
