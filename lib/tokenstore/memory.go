// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package tokenstore

import (
	"context"
	"errors"
	"sync"

	"github.com/talkchat/talkchat/lib/secret"
)

// Memory is a process-local Store. The token lives in a [secret.Buffer]
// and is zeroed when replaced, cleared or closed.
type Memory struct {
	mu     sync.Mutex
	buffer *secret.Buffer
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Token implements Store.
func (m *Memory) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buffer == nil {
		return "", nil
	}
	return m.buffer.String(), nil
}

// SetToken implements Store.
func (m *Memory) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("tokenstore: empty token")
	}
	buffer, err := secret.NewFromString(token)
	if err != nil {
		return err
	}

	m.mu.Lock()
	previous := m.buffer
	m.buffer = buffer
	m.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	return nil
}

// ClearToken implements Store.
func (m *Memory) ClearToken(ctx context.Context) error {
	m.mu.Lock()
	previous := m.buffer
	m.buffer = nil
	m.mu.Unlock()

	if previous != nil {
		return previous.Close()
	}
	return nil
}

// Close releases the protected buffer.
func (m *Memory) Close() error {
	return m.ClearToken(context.Background())
}
