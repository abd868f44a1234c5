// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package resolve turns parsed hardware identifiers into identifiers
// confirmed against the live system.
//
// All lookups go through an [Inventory], a snapshot of CPU ids and DRM
// cards taken at most once per invocation from a [Source]. The snapshot
// is never refreshed: ids resolved from it are trusted for the rest of
// the run and are not re-checked when hardware is written.
//
// Three resolvers share the inventory:
//
//   - [ResolveCPUs] expands comma-separated [value.Range] lists into an
//     [IDSet]. Open range ends are anchored to the lowest and highest
//     live CPU id, and every id in the result must be a live CPU, so a
//     range that spans a hole in a sparse id space fails.
//   - [ResolveCards] looks DRM cards up by bus id or index and checks
//     that the driver bound to each card matches a [DeviceClass].
//   - [ResolveConstraints] confirms a RAPL package, optional subzone,
//     and constraint list exist.
//
// When a flag holds several comma-separated elements they are resolved
// concurrently and merged by set union, so the final set does not
// depend on completion order. When more than one element is invalid,
// the error reported is whichever failure is observed first.
//
// Every failure is a [*Error] wrapping one of the sentinel errors
// ([ErrRangeOutOfBounds], [ErrSystemQuery], [ErrCardNotFound],
// [ErrZoneNotFound], [ErrConstraintNotFound]) or a
// [*DriverMismatchError].
package resolve
