// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the Talk Chat
// client.
//
// Configuration is loaded from a single file specified by either the
// TALK_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search.
//
// The file may contain environment-specific sections (development,
// staging, production) that override the base endpoints and client
// settings when [Config].Environment matches, so one file can point the
// same binary at a local backend or the hosted one.
//
// Variable expansion is performed on path and URL fields after loading:
// ${HOME}, ${TALK_STATE} and ${VAR:-default} patterns are expanded.
//
// Key exports:
//
//   - [Config] -- master struct with Endpoints, Client, Credentials, Log
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other Talk Chat packages.
package config
