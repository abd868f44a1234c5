// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"fmt"
	"slices"
	"sync"
)

// Card is one DRM card as enumerated by the system.
type Card struct {
	// Index is the N of /sys/class/drm/cardN.
	Index uint64

	// Driver is the name of the kernel driver bound to the card.
	Driver string

	// BusID is "<bus>:<device>", for example "pci:0000:00:02.0".
	BusID string
}

// ZoneID names a RAPL powercap zone: a package, optionally narrowed to
// one of its subzones.
type ZoneID struct {
	Package    uint64
	Subzone    uint64
	HasSubzone bool
}

// PackageZone returns the zone of a whole package.
func PackageZone(pkg uint64) ZoneID { return ZoneID{Package: pkg} }

// SubzoneOf returns the zone of one subzone of a package.
func SubzoneOf(pkg, subzone uint64) ZoneID {
	return ZoneID{Package: pkg, Subzone: subzone, HasSubzone: true}
}

func (z ZoneID) String() string {
	if z.HasSubzone {
		return fmt.Sprintf("package %d subzone %d", z.Package, z.Subzone)
	}
	return fmt.Sprintf("package %d", z.Package)
}

// Source is the live system an Inventory is built from.
type Source interface {
	// CPUIDs returns the ids of all present CPUs, online or not.
	CPUIDs() ([]uint64, error)

	// Cards returns all DRM cards.
	Cards() ([]Card, error)

	// ZoneExists reports whether a RAPL zone exists.
	ZoneExists(zone ZoneID) (bool, error)

	// ConstraintExists reports whether a constraint exists in a zone.
	ConstraintExists(zone ZoneID, constraint uint64) (bool, error)
}

// Inventory is a snapshot of the system taken once per invocation. CPU
// ids and the DRM card list are read on first use and then reused; RAPL
// existence checks are forwarded to the source. Safe for concurrent use.
type Inventory struct {
	source Source

	cpuOnce sync.Once
	cpuIDs  IDSet
	cpuErr  error

	cardOnce sync.Once
	cards    []Card
	cardErr  error
}

// NewInventory returns an Inventory that reads from source lazily.
func NewInventory(source Source) *Inventory {
	return &Inventory{source: source}
}

// CPUIDs returns the live CPU ids, sorted. An empty id list is an
// error: no range can be anchored against it.
func (inv *Inventory) CPUIDs() (IDSet, error) {
	inv.cpuOnce.Do(func() {
		ids, err := inv.source.CPUIDs()
		if err != nil {
			inv.cpuErr = err
			return
		}
		if len(ids) == 0 {
			inv.cpuErr = errNoCPUs
			return
		}
		inv.cpuIDs = NewIDSet(ids...)
	})
	return inv.cpuIDs, inv.cpuErr
}

// Cards returns the live DRM cards ordered by index.
func (inv *Inventory) Cards() ([]Card, error) {
	inv.cardOnce.Do(func() {
		cards, err := inv.source.Cards()
		if err != nil {
			inv.cardErr = err
			return
		}
		cards = slices.Clone(cards)
		slices.SortFunc(cards, func(a, b Card) int {
			switch {
			case a.Index < b.Index:
				return -1
			case a.Index > b.Index:
				return 1
			}
			return 0
		})
		inv.cards = cards
	})
	return inv.cards, inv.cardErr
}

// ZoneExists forwards to the source.
func (inv *Inventory) ZoneExists(zone ZoneID) (bool, error) {
	return inv.source.ZoneExists(zone)
}

// ConstraintExists forwards to the source.
func (inv *Inventory) ConstraintExists(zone ZoneID, constraint uint64) (bool, error) {
	return inv.source.ConstraintExists(zone, constraint)
}
