// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package group

import (
	"errors"
	"fmt"
)

// ErrHelp is returned by Parse when a segment asks for help.
var ErrHelp = errors.New("help requested")

// FlagError is a flag value that failed to parse or resolve.
type FlagError struct {
	// Flag is the long flag name without dashes.
	Flag string

	// Err is a *value.ParseError or *resolve.Error.
	Err error
}

func (e *FlagError) Error() string {
	return fmt.Sprintf("invalid value for --%s: %v", e.Flag, e.Err)
}

func (e *FlagError) Unwrap() error { return e.Err }

// UsageError is a malformed command line: unknown flags, positional
// arguments, or flags used without the flags they depend on.
type UsageError struct {
	Message string

	// Suggestion is a close flag name for an unknown flag, or "".
	Suggestion string
}

func (e *UsageError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (did you mean %s?)", e.Message, e.Suggestion)
	}
	return e.Message
}

// ApplyError is a hardware write the system rejected.
type ApplyError struct {
	// Op describes the write ("set scaling governor").
	Op string

	// Target names the device written ("cpu 3", "drm card 0").
	Target string

	Err error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Op, e.Target, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// GroupError attaches the 1-based index of the argument group that
// failed.
type GroupError struct {
	Index int
	Err   error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("argument group %d: %v", e.Index, e.Err)
}

func (e *GroupError) Unwrap() error { return e.Err }

func applyError(op, target string, err error) *ApplyError {
	return &ApplyError{Op: op, Target: target, Err: err}
}

func cpuTarget(id uint64) string { return fmt.Sprintf("cpu %d", id) }

func cardTarget(card uint64) string { return fmt.Sprintf("drm card %d", card) }
