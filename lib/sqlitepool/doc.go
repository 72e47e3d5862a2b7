// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool opens the client's local SQLite database.
//
// The client keeps very little on disk (the credential record), so the
// pool is small and tuned for durability over throughput: WAL journal,
// synchronous=FULL so a saved token survives power loss, and a busy
// timeout so two CLI processes started together do not fail with
// SQLITE_BUSY.
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:   path,
//	    Logger: logger,
//	    OnConnect: func(conn *sqlite.Conn) error {
//	        return sqlitex.ExecuteScript(conn, schema, nil)
//	    },
//	})
//	defer pool.Close()
//
//	conn, err := pool.Take(ctx)
//	defer pool.Put(conn)
//
// Callers write SQL directly against zombiezen's API; this package only
// standardizes opening and pragmas.
package sqlitepool
