// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the build version of the talk binary.
//
// Release builds inject the version through -ldflags:
//
//	go build -ldflags "-X github.com/talkchat/talkchat/lib/version.Version=1.0.0" ./cmd/talk
//
// Other builds fall back to the VCS data the Go toolchain embeds.
package version
