// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging is the HTTP gateway to the Talk Chat backend.
//
// The backend exposes four resources (auth, users, chats, upload), each
// at its own URL, and selects the operation with an ?action= query
// parameter. [Client] holds the four URLs, the HTTP transport and a
// [TokenSource]; every call reads the current bearer token at call time
// so a token change takes effect on the next request without rebuilding
// the client.
//
// Errors are classified for the caller:
//
//   - [*RemoteError] for any non-2xx response. The message comes from
//     the body's "error" field, or a generic per-action fallback.
//     [IsUnauthorized] reports a 401, meaning the token was rejected and
//     the session is over.
//   - [*NetworkError] when the request never produced a response
//     (dial failure, timeout, cancellation).
//
// Timestamps are decoded with [Timestamp], which accepts both RFC 3339
// and the zone-less ISO-8601 form the backend emits.
package messaging
