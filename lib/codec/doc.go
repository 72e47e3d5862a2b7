// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the single CBOR configuration for local persisted
// records (the stored credential record is the main consumer).
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same record always produces the same bytes. Decoding ignores unknown
// fields, so older binaries can read records written by newer ones.
//
// Types that are only ever stored as CBOR use `cbor` struct tags; types
// that also travel as JSON keep their `json` tags, which fxamacker/cbor
// reads as a fallback.
package codec
