// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package group

import (
	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/value"
)

// CPU holds the CPU settings of one group. Nil fields are left
// untouched.
type CPU struct {
	IDs resolve.IDSet

	Online   *bool
	Governor *string
	Min      *value.Frequency
	Max      *value.Frequency
	EPB      *uint64
	EPP      *string
}

// HasPolicyValues reports whether the group selects CPUs and sets any
// attribute that requires the CPU to be online to write.
func (c CPU) HasPolicyValues() bool {
	return len(c.IDs) > 0 &&
		(c.Governor != nil || c.Min != nil || c.Max != nil || c.EPB != nil || c.EPP != nil)
}

// HasOnlineValues reports whether the group requests an explicit
// online state for its CPUs.
func (c CPU) HasOnlineValues() bool {
	return len(c.IDs) > 0 && c.Online != nil
}

// IsEmpty reports whether the group changes nothing about CPUs.
func (c CPU) IsEmpty() bool {
	return !c.HasPolicyValues() && !c.HasOnlineValues()
}

func (c CPU) applyPolicy(hw Hardware) error {
	for _, id := range c.IDs {
		if c.Governor != nil {
			if err := hw.SetGovernor(id, *c.Governor); err != nil {
				return applyError("set scaling governor", cpuTarget(id), err)
			}
		}
		if c.Min != nil {
			if err := hw.SetScalingMin(id, *c.Min); err != nil {
				return applyError("set scaling min frequency", cpuTarget(id), err)
			}
		}
		if c.Max != nil {
			if err := hw.SetScalingMax(id, *c.Max); err != nil {
				return applyError("set scaling max frequency", cpuTarget(id), err)
			}
		}
		if c.EPB != nil {
			if err := hw.SetEPB(id, *c.EPB); err != nil {
				return applyError("set energy/performance bias", cpuTarget(id), err)
			}
		}
		if c.EPP != nil {
			if err := hw.SetEPP(id, *c.EPP); err != nil {
				return applyError("set energy/performance preference", cpuTarget(id), err)
			}
		}
	}
	return nil
}
