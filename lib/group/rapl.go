// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package group

import (
	"fmt"
	"time"

	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/value"
)

// Rapl holds the package power limit settings of one group.
type Rapl struct {
	// Constraints is nil when the group names no RAPL constraint.
	Constraints *resolve.ConstraintIDs

	Limit  *value.Power
	Window *time.Duration
}

// IsEmpty reports whether the group changes nothing about RAPL.
func (g Rapl) IsEmpty() bool {
	return g.Constraints == nil || len(g.Constraints.Constraints) == 0 ||
		(g.Limit == nil && g.Window == nil)
}

func (g Rapl) apply(hw Hardware) error {
	if g.IsEmpty() {
		return nil
	}
	zone := g.Constraints.Zone
	for _, constraint := range g.Constraints.Constraints {
		target := fmt.Sprintf("rapl %s constraint %d", zone, constraint)
		if g.Limit != nil {
			if err := hw.SetRaplLimit(zone, constraint, *g.Limit); err != nil {
				return applyError("set power limit", target, err)
			}
		}
		if g.Window != nil {
			if err := hw.SetRaplWindow(zone, constraint, *g.Window); err != nil {
				return applyError("set time window", target, err)
			}
		}
	}
	return nil
}
