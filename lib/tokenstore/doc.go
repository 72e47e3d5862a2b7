// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Package tokenstore persists the client's single bearer token under the
// key "auth_token".
//
// Three backends implement [Store]:
//
//   - [Memory] keeps the token in a locked [secret.Buffer] for the
//     lifetime of the process. Used by tests and by one-shot scripts.
//   - [File] writes a 0600 JSON file under a 0700 directory, the same
//     shape operators already keep for other CLI sessions.
//   - [SQLite] stores a CBOR-encoded [Record] in a key-value table,
//     for installations that already keep client state in SQLite.
//
// All backends return ("", nil) from Token when nothing is stored.
// Absence is not an error: the session starts unauthenticated.
package tokenstore
