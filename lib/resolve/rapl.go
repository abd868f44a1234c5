// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ConstraintIDs is a RAPL zone and the constraints of it a group
// configures.
type ConstraintIDs struct {
	Zone        ZoneID
	Constraints IDSet
}

// ResolveConstraints confirms the package zone, the subzone (when
// given), and every constraint exist. Constraints are checked
// concurrently.
func ResolveConstraints(ctx context.Context, inv *Inventory, zone ZoneID, constraints []uint64) (ConstraintIDs, error) {
	zones := []ZoneID{PackageZone(zone.Package)}
	if zone.HasSubzone {
		zones = append(zones, zone)
	}
	for _, z := range zones {
		exists, err := inv.ZoneExists(z)
		if err != nil {
			return ConstraintIDs{}, systemQueryError("rapl zone", z.String(), err)
		}
		if !exists {
			return ConstraintIDs{}, &Error{Kind: "rapl zone", Value: z.String(), Err: ErrZoneNotFound}
		}
	}

	set := NewIDSet(constraints...)
	group, ctx := errgroup.WithContext(ctx)
	for _, constraint := range set {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			value := fmt.Sprintf("%d in %s", constraint, zone)
			exists, err := inv.ConstraintExists(zone, constraint)
			if err != nil {
				return systemQueryError("rapl constraint", value, err)
			}
			if !exists {
				return &Error{Kind: "rapl constraint", Value: value, Err: ErrConstraintNotFound}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return ConstraintIDs{}, err
	}
	return ConstraintIDs{Zone: zone, Constraints: set}, nil
}
