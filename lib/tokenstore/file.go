// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/talkchat/talkchat/lib/clock"
)

// File stores the token as a JSON [Record] at a fixed path. The parent
// directory is created with mode 0700 and the file is written with mode
// 0600 since it contains a bearer token.
type File struct {
	path  string
	clock clock.Clock

	mu sync.Mutex
}

// NewFile returns a file-backed store at path. A nil clock uses the
// real clock.
func NewFile(path string, c clock.Clock) *File {
	if c == nil {
		c = clock.Real()
	}
	return &File{path: path, clock: c}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Token implements Store.
func (f *File) Token(ctx context.Context) (string, error) {
	record, err := f.Record(ctx)
	if err != nil || record == nil {
		return "", err
	}
	return record.Token, nil
}

// Record returns the full stored record, or nil when none is stored.
func (f *File) Record(ctx context.Context) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("tokenstore: reading %s: %w", f.path, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("tokenstore: parsing %s: %w", f.path, err)
	}
	return &record, nil
}

// SetToken implements Store. The file is replaced atomically via a
// temporary file in the same directory.
func (f *File) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("tokenstore: empty token")
	}

	data, err := json.MarshalIndent(Record{Token: token, SavedAt: f.clock.Now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("tokenstore: marshaling record: %w", err)
	}
	data = append(data, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	directory := filepath.Dir(f.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("tokenstore: creating directory %s: %w", directory, err)
	}

	temporary, err := os.CreateTemp(directory, ".session-*.json")
	if err != nil {
		return fmt.Errorf("tokenstore: creating temporary file: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if err := temporary.Chmod(0600); err != nil {
		temporary.Close()
		return fmt.Errorf("tokenstore: chmod %s: %w", temporaryPath, err)
	}
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("tokenstore: writing %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("tokenstore: closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, f.path); err != nil {
		return fmt.Errorf("tokenstore: replacing %s: %w", f.path, err)
	}
	return nil
}

// ClearToken implements Store.
func (f *File) ClearToken(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("tokenstore: removing %s: %w", f.path, err)
	}
	return nil
}
