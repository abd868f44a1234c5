// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package group

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// FlagSpec describes one flag of the group schema.
type FlagSpec struct {
	Name      string
	Shorthand string

	// Value is the placeholder shown in help ("IDS", "HERTZ"). Empty
	// for switches that take no value.
	Value string
	Usage string

	// Requires lists flags that must also be present in the segment.
	Requires []string

	// Conflicts lists flags that must not be present with this one.
	Conflicts []string
}

// IsSwitch reports whether the flag takes no value.
func (f FlagSpec) IsSwitch() bool { return f.Value == "" }

const (
	flagCPU            = "cpu"
	flagCPUOn          = "cpu-on"
	flagCPUGov         = "cpu-gov"
	flagCPUMin         = "cpu-min"
	flagCPUMax         = "cpu-max"
	flagCPUEPB         = "cpu-epb"
	flagCPUEPP         = "cpu-epp"
	flagI915           = "i915"
	flagI915Min        = "i915-min"
	flagI915Max        = "i915-max"
	flagI915Boost      = "i915-boost"
	flagNvml           = "nvml"
	flagNvmlGPUMin     = "nvml-gpu-min"
	flagNvmlGPUMax     = "nvml-gpu-max"
	flagNvmlGPUReset   = "nvml-gpu-reset"
	flagNvmlPower      = "nvml-power"
	flagNvmlPowerReset = "nvml-power-reset"
	flagRaplPackage    = "rapl-package"
	flagRaplSubzone    = "rapl-subzone"
	flagRaplConstraint = "rapl-constraint"
	flagRaplLimit      = "rapl-limit"
	flagRaplWindow     = "rapl-window"
)

var schema = []FlagSpec{
	{Name: flagCPU, Shorthand: "c", Value: "IDS", Usage: "Target cpu ids, e.g. 0,2..4,6.."},
	{Name: flagCPUOn, Shorthand: "o", Value: "BOOL", Usage: "Set cpu online or offline", Requires: []string{flagCPU}},
	{Name: flagCPUGov, Shorthand: "g", Value: "STR", Usage: "Set cpufreq scaling governor", Requires: []string{flagCPU}},
	{Name: flagCPUMin, Shorthand: "n", Value: "HERTZ", Usage: "Set cpufreq scaling min frequency", Requires: []string{flagCPU}},
	{Name: flagCPUMax, Shorthand: "x", Value: "HERTZ", Usage: "Set cpufreq scaling max frequency", Requires: []string{flagCPU}},
	{Name: flagCPUEPB, Value: "0..=15", Usage: "Set intel_pstate energy/performance bias", Requires: []string{flagCPU}},
	{Name: flagCPUEPP, Value: "STR", Usage: "Set intel_pstate energy/performance preference", Requires: []string{flagCPU}},

	{Name: flagI915, Value: "CARDS", Usage: "Target i915 drm cards by index or BUS:ID"},
	{Name: flagI915Min, Value: "HERTZ", Usage: "Set i915 min frequency", Requires: []string{flagI915}},
	{Name: flagI915Max, Value: "HERTZ", Usage: "Set i915 max frequency", Requires: []string{flagI915}},
	{Name: flagI915Boost, Value: "HERTZ", Usage: "Set i915 boost frequency", Requires: []string{flagI915}},

	{Name: flagNvml, Value: "CARDS", Usage: "Target nvidia drm cards by index or BUS:ID"},
	{Name: flagNvmlGPUMin, Value: "HERTZ", Usage: "Set nvidia gpu min locked clock",
		Requires: []string{flagNvml, flagNvmlGPUMax}, Conflicts: []string{flagNvmlGPUReset}},
	{Name: flagNvmlGPUMax, Value: "HERTZ", Usage: "Set nvidia gpu max locked clock",
		Requires: []string{flagNvml, flagNvmlGPUMin}, Conflicts: []string{flagNvmlGPUReset}},
	{Name: flagNvmlGPUReset, Usage: "Reset nvidia gpu locked clocks", Requires: []string{flagNvml}},
	{Name: flagNvmlPower, Value: "WATTS", Usage: "Set nvidia power management limit",
		Requires: []string{flagNvml}, Conflicts: []string{flagNvmlPowerReset}},
	{Name: flagNvmlPowerReset, Usage: "Reset nvidia power management limit to default", Requires: []string{flagNvml}},

	{Name: flagRaplPackage, Shorthand: "P", Value: "INT", Usage: "Target rapl package"},
	{Name: flagRaplSubzone, Shorthand: "S", Value: "INT", Usage: "Target rapl subzone", Requires: []string{flagRaplPackage}},
	{Name: flagRaplConstraint, Shorthand: "C", Value: "INTS", Usage: "Target rapl constraints", Requires: []string{flagRaplPackage}},
	{Name: flagRaplLimit, Shorthand: "L", Value: "WATTS", Usage: "Set rapl power limit",
		Requires: []string{flagRaplPackage, flagRaplConstraint}},
	{Name: flagRaplWindow, Shorthand: "W", Value: "SECS", Usage: "Set rapl time window (bare number is microseconds)",
		Requires: []string{flagRaplPackage, flagRaplConstraint}},
}

// Schema returns the flags every group segment accepts, in help order.
func Schema() []FlagSpec {
	return schema
}

// newFlagSet builds a FlagSet for one segment. Value flags are
// registered as strings and parsed afterwards so errors carry the
// package's own taxonomy.
func newFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.SortFlags = false
	for _, entry := range schema {
		if entry.IsSwitch() {
			flags.BoolP(entry.Name, entry.Shorthand, false, entry.Usage)
			continue
		}
		flags.StringP(entry.Name, entry.Shorthand, "", entry.Usage)
	}
	return flags
}

// checkRelations enforces Requires and Conflicts for every flag present.
func checkRelations(flags *pflag.FlagSet) error {
	for _, entry := range schema {
		if !flags.Changed(entry.Name) {
			continue
		}
		var missing []string
		for _, required := range entry.Requires {
			if !flags.Changed(required) {
				missing = append(missing, "--"+required)
			}
		}
		if len(missing) > 0 {
			return &UsageError{Message: fmt.Sprintf("--%s requires %s", entry.Name, strings.Join(missing, " and "))}
		}
		for _, conflict := range entry.Conflicts {
			if flags.Changed(conflict) {
				return &UsageError{Message: fmt.Sprintf("--%s cannot be used with --%s", entry.Name, conflict)}
			}
		}
	}
	return nil
}
