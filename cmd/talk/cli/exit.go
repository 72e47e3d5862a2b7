// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// Exit codes by error category.
const (
	ExitFailure    = 1
	ExitValidation = 2
	ExitForbidden  = 3
	ExitNotFound   = 4
	ExitTransient  = 5
)

// ExitError signals a non-zero exit code without printing an extra
// error message. Commands return it when the failure has already been
// shown to the user, typically as a notice from the chat core.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the exit code. main checks for this method to
// distinguish a reported failure from an error still to be printed.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Reported wraps an error the user has already seen. Nil stays nil.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitCode(err), Err: err}
}

// ExitCode maps err to a process exit code by category.
func ExitCode(err error) int {
	switch Categorize(err) {
	case CategoryValidation:
		return ExitValidation
	case CategoryForbidden:
		return ExitForbidden
	case CategoryNotFound:
		return ExitNotFound
	case CategoryTransient:
		return ExitTransient
	default:
		return ExitFailure
	}
}
