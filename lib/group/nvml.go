// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package group

import (
	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/value"
)

// Nvml holds the NVIDIA settings of one group. GPUMin and GPUMax are
// either both set or both nil; the flag schema enforces the pairing.
type Nvml struct {
	IDs resolve.IDSet

	GPUMin     *value.Frequency
	GPUMax     *value.Frequency
	GPUReset   bool
	Power      *value.Power
	PowerReset bool
}

// IsEmpty reports whether the group changes nothing about NVIDIA cards.
func (g Nvml) IsEmpty() bool {
	return len(g.IDs) == 0 ||
		(g.GPUMin == nil && g.GPUMax == nil && !g.GPUReset && g.Power == nil && !g.PowerReset)
}

func (g Nvml) apply(hw Hardware) error {
	for _, card := range g.IDs {
		if g.GPUMin != nil && g.GPUMax != nil {
			if err := hw.SetNvmlGPUClocks(card, *g.GPUMin, *g.GPUMax); err != nil {
				return applyError("set nvml gpu clocks", cardTarget(card), err)
			}
		}
		if g.GPUReset {
			if err := hw.ResetNvmlGPUClocks(card); err != nil {
				return applyError("reset nvml gpu clocks", cardTarget(card), err)
			}
		}
		if g.Power != nil {
			if err := hw.SetNvmlPowerLimit(card, *g.Power); err != nil {
				return applyError("set nvml power limit", cardTarget(card), err)
			}
		}
		if g.PowerReset {
			if err := hw.ResetNvmlPowerLimit(card); err != nil {
				return applyError("reset nvml power limit", cardTarget(card), err)
			}
		}
	}
	return nil
}
