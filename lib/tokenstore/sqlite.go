// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/talkchat/talkchat/lib/clock"
	"github.com/talkchat/talkchat/lib/codec"
	"github.com/talkchat/talkchat/lib/sqlitepool"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);`

// SQLite stores the token as a CBOR [Record] in the kv table of a local
// database.
type SQLite struct {
	pool  *sqlitepool.Pool
	clock clock.Clock
}

// SQLiteConfig configures OpenSQLite.
type SQLiteConfig struct {
	// Path is the database file.
	Path string

	// Clock stamps saved records. Nil uses the real clock.
	Clock clock.Clock

	// Logger is passed to the pool.
	Logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the database at cfg.Path.
func OpenSQLite(cfg SQLiteConfig) (*SQLite, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: 1,
		Logger:   cfg.Logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("tokenstore: %w", err)
	}

	c := cfg.Clock
	if c == nil {
		c = clock.Real()
	}
	return &SQLite{pool: pool, clock: c}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.pool.Close()
}

// Token implements Store.
func (s *SQLite) Token(ctx context.Context) (string, error) {
	record, err := s.Record(ctx)
	if err != nil || record == nil {
		return "", err
	}
	return record.Token, nil
}

// Record returns the full stored record, or nil when none is stored.
func (s *SQLite) Record(ctx context.Context) (*Record, error) {
	value, err := s.RawRecord(ctx)
	if err != nil || value == nil {
		return nil, err
	}

	var record Record
	if err := codec.Unmarshal(value, &record); err != nil {
		return nil, fmt.Errorf("tokenstore: decoding %s: %w", Key, err)
	}
	return &record, nil
}

// RawRecord returns the stored CBOR record bytes, or nil when none is
// stored.
func (s *SQLite) RawRecord(ctx context.Context) ([]byte, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("tokenstore: %w", err)
	}
	defer s.pool.Put(conn)

	var value []byte
	err = sqlitex.Execute(conn, "SELECT value FROM kv WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{Key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, value)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("tokenstore: reading %s: %w", Key, err)
	}
	return value, nil
}

// SetToken implements Store.
func (s *SQLite) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("tokenstore: empty token")
	}
	value, err := codec.Marshal(Record{Token: token, SavedAt: s.clock.Now().UTC()})
	if err != nil {
		return fmt.Errorf("tokenstore: encoding record: %w", err)
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("tokenstore: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		&sqlitex.ExecOptions{Args: []any{Key, value}})
	if err != nil {
		return fmt.Errorf("tokenstore: writing %s: %w", Key, err)
	}
	return nil
}

// ClearToken implements Store.
func (s *SQLite) ClearToken(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("tokenstore: %w", err)
	}
	defer s.pool.Put(conn)

	if err := sqlitex.Execute(conn, "DELETE FROM kv WHERE key = ?", &sqlitex.ExecOptions{Args: []any{Key}}); err != nil {
		return fmt.Errorf("tokenstore: clearing %s: %w", Key, err)
	}
	return nil
}
