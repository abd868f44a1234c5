// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates the input does not match the expected form.
	ErrSyntax = errors.New("invalid syntax")

	// ErrOutOfRange indicates a syntactically valid number outside the
	// accepted interval.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnknownUnit indicates an unrecognized unit suffix.
	ErrUnknownUnit = errors.New("unknown unit")
)

// ParseError reports a raw string that could not be converted to a
// typed value.
type ParseError struct {
	// Kind names the expected value ("integer", "frequency", ...).
	Kind string

	// Input is the raw string as given on the command line.
	Input string

	// Err is one of ErrSyntax, ErrOutOfRange or ErrUnknownUnit,
	// possibly wrapped with more detail.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %q as %s: %v", e.Input, e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseError(kind, input string, err error) *ParseError {
	return &ParseError{Kind: kind, Input: input, Err: err}
}
