// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for knobs packages.
//
// The sysfs helpers ([WriteFile], [Symlink], [ReadFile]) build and
// inspect synthetic sysfs trees under t.TempDir(). Packages that touch
// the kernel take a sysRoot argument so tests can point them at one of
// these trees instead of /sys.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no knobs-internal dependencies.
package testutil
