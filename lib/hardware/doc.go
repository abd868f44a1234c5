// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hardware composes the hwinfo controllers into the two
// interfaces the rest of knobs consumes: [resolve.Source] for the live
// inventory and [group.Hardware] for the apply engine.
//
// [System] performs real reads and writes, converting the internal
// Hz/µW/time.Duration quantities into each interface's native unit
// (kHz for cpufreq, MHz for i915 and NVML clocks, µW and µs for RAPL,
// mW for NVML power).
//
// [DryRun] wraps a System: reads go to the live system, writes are
// logged and not performed. It tracks CPU online transitions so the
// engine's phase logic sees the state a real run would produce.
package hardware
