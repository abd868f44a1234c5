// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package group

import (
	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/value"
)

// I915 holds the Intel graphics settings of one group.
type I915 struct {
	IDs resolve.IDSet

	Min   *value.Frequency
	Max   *value.Frequency
	Boost *value.Frequency
}

// IsEmpty reports whether the group changes nothing about i915 cards.
func (g I915) IsEmpty() bool {
	return len(g.IDs) == 0 || (g.Min == nil && g.Max == nil && g.Boost == nil)
}

func (g I915) apply(hw Hardware) error {
	for _, card := range g.IDs {
		if g.Min != nil {
			if err := hw.SetI915Min(card, *g.Min); err != nil {
				return applyError("set i915 min frequency", cardTarget(card), err)
			}
		}
		if g.Max != nil {
			if err := hw.SetI915Max(card, *g.Max); err != nil {
				return applyError("set i915 max frequency", cardTarget(card), err)
			}
		}
		if g.Boost != nil {
			if err := hw.SetI915Boost(card, *g.Boost); err != nil {
				return applyError("set i915 boost frequency", cardTarget(card), err)
			}
		}
	}
	return nil
}
