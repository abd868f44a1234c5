// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package group models one knobs invocation as an ordered list of
// configuration groups and applies them to hardware.
//
// # Groups
//
// The command line is split on each literal "--" token. Every segment
// is parsed with the same flag schema ([Parse]) into a [Group]: a CPU
// bundle, an i915 bundle, an NVML bundle and a RAPL bundle, each with
// its identifiers already resolved against the live [resolve.Inventory].
// [ParseList] builds the [List] for a whole argv; the first segment that
// fails aborts the invocation with a [*GroupError] carrying the 1-based
// index of that segment. Nothing is written before every group has
// parsed and resolved.
//
// # Apply ordering
//
// [Engine.Apply] mutates hardware in four sequential phases:
//
//  1. Every CPU named by a group with policy values (governor, scaling
//     limits, energy/performance hints) that is currently offline is
//     brought online, because policy attributes are only writable on
//     online CPUs.
//  2. Each group's policy values are written, followed by a settle
//     delay.
//  3. The CPUs onlined in phase 1 are taken offline again.
//  4. Each group, in order, applies its explicit online/offline
//     request, then RAPL limits, then i915 frequencies, then NVML
//     clocks and power limits.
//
// The CPUs onlined in phase 1 are restored whether or not phase 2
// succeeds. When phase 2 fails the restoration is best effort: its own
// failures are logged and dropped, and the policy error is returned.
// Failures in phase 4 stop the remaining groups without undoing groups
// already applied.
package group
