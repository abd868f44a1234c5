// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the process-level pieces of the knobs command that
// sit around group parsing and the apply engine.
//
// [ExtractGlobals] strips the global flags (--config, --dry-run,
// --version, -h/--help) from anywhere on the command line, leaving the
// group segments and their separators intact for group.ParseList.
//
// [PrintHelp] renders the group flag schema as a table with the value
// syntax notes. [NewLogger] builds the process logger the same way for
// every entry point: text on a terminal, JSON otherwise, level from the
// config file or KNOBS_LOG. [PrintError] writes the final "error:" line,
// styled when stderr is a color terminal.
//
// [ExitCode] maps the error returned by parsing or applying to the
// process exit status: 0 success, 1 usage or resolution error, 2
// apply or system error.
package cli
