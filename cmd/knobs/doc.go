// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Knobs sets Linux hardware tunables from the command line: CPU online
// state and cpufreq/intel_pstate policy, Intel i915 and NVIDIA GPU
// frequency and power limits, and RAPL package power limits.
//
// Usage:
//
//	knobs [--config PATH] [--dry-run] GROUP [-- GROUP]...
//
// Each GROUP is a set of flags that selects hardware and sets values on
// it; "--" separates groups. Every group is parsed and resolved against
// the live system before anything is written, so a typo in the last
// group leaves the machine untouched. Writes then run in phases: CPUs
// that need policy but are offline are brought up temporarily, every
// group's CPU policy is written, the temporary CPUs go back down, and
// finally each group's explicit online state, RAPL, i915 and NVML
// settings are written in group order.
//
// Examples:
//
//	knobs --cpu .. --cpu-gov performance
//	knobs --cpu 0..3 --cpu-max 2.4ghz -- --cpu 4.. --cpu-on 0
//	knobs --rapl-package 0 --rapl-constraint 0,1 --rapl-limit 35
//	knobs --nvml 1 --nvml-gpu-min 300 --nvml-gpu-max 1500
//
// Exit status is 0 on success, 1 for usage, parse and resolution
// errors, and 2 when the system rejects a write or cannot be read.
//
// Configuration comes from --config or KNOBS_CONFIG (YAML, or JSONC
// for .json/.jsonc files); see lib/config. KNOBS_LOG sets the log level
// (trace, debug, info, warn, error; default warn).
package main
