// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitepool_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/talkchat/talkchat/lib/sqlitepool"
)

func openTestPool(t *testing.T, onConnect func(*sqlite.Conn) error) *sqlitepool.Pool {
	t.Helper()
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:      filepath.Join(t.TempDir(), "client.db"),
		OnConnect: onConnect,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := sqlitepool.Open(sqlitepool.Config{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestPragmas(t *testing.T) {
	pool := openTestPool(t, nil)
	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	defer pool.Put(conn)

	var journalMode string
	err = sqlitex.Execute(conn, "PRAGMA journal_mode", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			journalMode = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q, want wal", journalMode)
	}

	var synchronous int
	err = sqlitex.Execute(conn, "PRAGMA synchronous", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			synchronous = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("PRAGMA synchronous: %v", err)
	}
	if synchronous != 2 {
		t.Errorf("synchronous = %d, want 2 (FULL)", synchronous)
	}
}

func TestOnConnect(t *testing.T) {
	t.Run("schema is created", func(t *testing.T) {
		pool := openTestPool(t, func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value BLOB);`, nil)
		})
		conn, err := pool.Take(context.Background())
		if err != nil {
			t.Fatalf("Take: %v", err)
		}
		defer pool.Put(conn)

		err = sqlitex.Execute(conn, "INSERT INTO kv (key, value) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []any{"auth_token", []byte("x")},
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	})

	t.Run("error is returned from Take", func(t *testing.T) {
		pool := openTestPool(t, func(*sqlite.Conn) error { return errors.New("schema broken") })
		conn, err := pool.Take(context.Background())
		if err == nil {
			pool.Put(conn)
			t.Fatal("expected OnConnect error from Take")
		}
	})
}
