// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hwinfo reads and writes the Linux sysfs attributes knobs
// tunes.
//
// # Sysfs helpers
//
// [ReadString], [ReadUint], [WriteString] and [WriteUint] operate on
// single-value sysfs files. Write failures are [*WriteError] values
// whose chain carries both the raw errno and a classified sentinel
// ([ErrNotSupported], [ErrInvalidValue], [ErrBusy], [ErrPermission]),
// so callers can test for either.
//
// # CPUs
//
// [CPU] enumerates CPUs under devices/system/cpu, reads the kernel's
// online and offline cpulists, and writes the online state, cpufreq
// policy (scaling governor and limits in kHz) and intel_pstate hints
// (energy_perf_bias, energy_performance_preference).
//
// # DRM helpers
//
// Shared DRM helpers (drm.go) used by the GPU vendor subpackages:
// card device filtering, PCI uevent parsing, driver and bus
// identification, and [Cards] enumeration.
//
// # Subpackages
//
//   - hwinfo/i915: Intel graphics frequency limits via the gt_*_freq_mhz
//     attributes of DRM cards bound to i915.
//
//   - hwinfo/rapl: package power limits via the intel-rapl powercap
//     zones under class/powercap.
//
//   - hwinfo/nvidia: locked clocks and power management limits through
//     NVML (github.com/NVIDIA/go-nvml).
//
// Every type takes the sysfs root as a parameter ("/sys" in
// production) so tests run against synthetic trees.
package hwinfo
