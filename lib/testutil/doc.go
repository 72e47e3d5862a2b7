// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive], [RequireSend], and [RequireClosed] wrap the
// select-with-timeout pattern used when a test gates a fake backend on
// channels to force a particular interleaving of in-flight requests.
// All helpers call t.Fatalf on failure.
package testutil
