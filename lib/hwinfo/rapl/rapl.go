// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rapl writes Intel RAPL power limits through the powercap
// framework. Each package is a zone at
// /sys/class/powercap/intel-rapl:P, with subzones (core, uncore, dram)
// at intel-rapl:P:S. A zone carries one or more numbered constraints
// (long_term, short_term, peak_power), each with a power limit in
// microwatts and a time window in microseconds.
package rapl

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bureau-foundation/knobs/lib/hwinfo"
)

// Zone names a powercap zone by package and optional subzone.
type Zone struct {
	Package    uint64
	Subzone    uint64
	HasSubzone bool
}

// Name returns the zone's directory name ("intel-rapl:0" or
// "intel-rapl:0:1").
func (z Zone) Name() string {
	name := "intel-rapl:" + strconv.FormatUint(z.Package, 10)
	if z.HasSubzone {
		name += ":" + strconv.FormatUint(z.Subzone, 10)
	}
	return name
}

// Controller reads and writes powercap zones.
type Controller struct {
	// base is <sysRoot>/class/powercap.
	base string
}

// NewController returns a Controller rooted at sysRoot.
func NewController(sysRoot string) *Controller {
	return &Controller{base: filepath.Join(sysRoot, "class/powercap")}
}

// ZoneExists reports whether the zone is present. Errors other than
// absence are returned.
func (c *Controller) ZoneExists(zone Zone) (bool, error) {
	return exists(filepath.Join(c.base, zone.Name()))
}

// ConstraintExists reports whether the zone has the numbered
// constraint.
func (c *Controller) ConstraintExists(zone Zone, constraint uint64) (bool, error) {
	return exists(c.constraintPath(zone, constraint, "power_limit_uw"))
}

// ConstraintName reads the constraint's name ("long_term").
func (c *Controller) ConstraintName(zone Zone, constraint uint64) (string, error) {
	return hwinfo.ReadString(c.constraintPath(zone, constraint, "name"))
}

// PowerLimitUW reads the constraint's power limit.
func (c *Controller) PowerLimitUW(zone Zone, constraint uint64) (uint64, error) {
	return hwinfo.ReadUint(c.constraintPath(zone, constraint, "power_limit_uw"))
}

// SetPowerLimitUW writes the constraint's power limit.
func (c *Controller) SetPowerLimitUW(zone Zone, constraint uint64, microwatts uint64) error {
	return hwinfo.WriteUint(c.constraintPath(zone, constraint, "power_limit_uw"), microwatts)
}

// TimeWindowUS reads the constraint's time window.
func (c *Controller) TimeWindowUS(zone Zone, constraint uint64) (uint64, error) {
	return hwinfo.ReadUint(c.constraintPath(zone, constraint, "time_window_us"))
}

// SetTimeWindowUS writes the constraint's time window.
func (c *Controller) SetTimeWindowUS(zone Zone, constraint uint64, microseconds uint64) error {
	return hwinfo.WriteUint(c.constraintPath(zone, constraint, "time_window_us"), microseconds)
}

func (c *Controller) constraintPath(zone Zone, constraint uint64, attribute string) string {
	return filepath.Join(c.base, zone.Name(), fmt.Sprintf("constraint_%d_%s", constraint, attribute))
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	}
	return false, err
}
