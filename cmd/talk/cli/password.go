// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/talkchat/talkchat/lib/secret"
)

// ReadPassword reads a password into a secret.Buffer. With passwordFile
// empty or "-" it prompts on the terminal with echo disabled, writing
// the prompt to prompt; otherwise it reads the file.
func ReadPassword(passwordFile string, prompt io.Writer) (*secret.Buffer, error) {
	if passwordFile != "" && passwordFile != "-" {
		return ReadSecretFile(passwordFile)
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return nil, Validation("no terminal available for interactive password prompt (use --password-file)")
	}

	fmt.Fprint(prompt, "Password: ")
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(prompt)
	if err != nil {
		return nil, Internal("reading password: %w", err)
	}
	if len(passwordBytes) == 0 {
		return nil, Validation("password is required")
	}

	buffer, err := secret.NewFromBytes(passwordBytes)
	if err != nil {
		secret.Zero(passwordBytes)
		return nil, err
	}
	return buffer, nil
}

// ReadSecretFile reads a secret from path into a secret.Buffer,
// stripping trailing newlines.
func ReadSecretFile(path string) (*secret.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Internal("reading %s: %w", path, err)
	}

	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return nil, Validation("file %s is empty (after stripping trailing newlines)", path)
	}

	buffer, err := secret.NewFromBytes(data)
	if err != nil {
		secret.Zero(data)
		return nil, err
	}
	return buffer, nil
}
