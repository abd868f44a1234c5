// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"

	"github.com/bureau-foundation/knobs/lib/group"
	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/value"
)

// Exit statuses.
const (
	ExitSuccess = 0
	ExitUsage   = 1
	ExitSystem  = 2
)

// ExitCode maps err to a process exit status. Failing to read the
// inventory is a system error even though it surfaces while resolving
// arguments.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, resolve.ErrSystemQuery) {
		return ExitSystem
	}

	var (
		applyError   *group.ApplyError
		usageError   *group.UsageError
		flagError    *group.FlagError
		parseError   *value.ParseError
		resolveError *resolve.Error
	)
	switch {
	case errors.As(err, &applyError):
		return ExitSystem
	case errors.As(err, &usageError), errors.As(err, &flagError),
		errors.As(err, &parseError), errors.As(err, &resolveError):
		return ExitUsage
	}
	return ExitSystem
}
