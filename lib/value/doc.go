// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package value parses the scalar argument syntaxes accepted by knobs:
// booleans, unsigned integers, frequencies, power values, durations,
// and integer ranges.
//
// Every parser is pure. Failures are reported as [*ParseError], which
// carries the kind of value that was expected and the raw input.
//
// Unit handling:
//
//   - [ParseFrequency]: a bare integer is megahertz; suffixes h/hz,
//     k/khz, m/mhz, g/ghz and t/thz select other units and accept a
//     fractional mantissa ("1.2ghz").
//   - [ParsePower]: a bare number is watts; suffixes u/uw, m/mw, w and
//     k/kw select other units.
//   - [ParseDuration]: a bare integer is microseconds; suffixes ns, us,
//     ms and s select other units.
//
// [Frequency] and [Power] are integer quantities in their smallest
// supported unit (hertz and microwatts) so conversions to the units
// sysfs and NVML expect never accumulate floating point error.
package value
